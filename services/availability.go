package services

import (
	"time"

	"github.com/Shash-135/Synca/models"

	"gorm.io/gorm"
)

// DateOnly normalizes a timestamp to midnight UTC. Bookings operate on
// whole days; all range math in the engine goes through this first.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// AddMonths shifts a date forward by whole calendar months, clamping the
// day to the last valid day of the target month: Jan 31 + 1 month is
// Feb 28 (or 29 in a leap year), never Mar 3.
func AddMonths(start time.Time, months int) time.Time {
	if months <= 0 {
		return start
	}
	year, month, day := start.Date()
	monthIndex := int(month) - 1 + months
	year += monthIndex / 12
	month = time.Month(monthIndex%12 + 1)
	if last := daysInMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, start.Location())
}

func daysInMonth(year int, month time.Month) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// EnforceLockIn rejects stays shorter than the property's lock-in period.
// The minimum checkout is start + lockInMonths in calendar months. The
// server is authoritative here even when a client pre-fills the form.
func EnforceLockIn(lockInMonths int, start, end time.Time) error {
	if lockInMonths <= 0 {
		return nil
	}
	minCheckOut := AddMonths(DateOnly(start), lockInMonths)
	if DateOnly(end).Before(minCheckOut) {
		return ErrLockInViolation
	}
	return nil
}

// IsRangeFree reports whether [start, end) is free on the bed, checking the
// half-open overlap predicate (A.start < B.end && B.start < A.end) against
// every non-cancelled booking. excludeBookingID carves the booking being
// amended out of its own conflict set; pass 0 when creating.
//
// A tenant checking out on day D and another checking in on day D do not
// conflict: check-out is exclusive.
func IsRangeFree(db *gorm.DB, bedID uint, start, end time.Time, excludeBookingID uint) (bool, error) {
	query := db.Model(&models.Booking{}).
		Where("bed_id = ? AND cancelled = ?", bedID, false).
		Where("check_in < ? AND check_out > ?", DateOnly(end), DateOnly(start))
	if excludeBookingID != 0 {
		query = query.Where("id <> ?", excludeBookingID)
	}

	var conflicts int64
	if err := query.Count(&conflicts).Error; err != nil {
		return false, err
	}
	return conflicts == 0, nil
}
