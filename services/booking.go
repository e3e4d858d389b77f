package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/Shash-135/Synca/models"
	"github.com/Shash-135/Synca/storage"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GuestContact carries the inline contact record for offline bookings made
// by an owner on behalf of a walk-in tenant.
type GuestContact struct {
	Name  string
	Email string
	Phone string
}

var bookingSources = []string{models.BookingSourceOnline, models.BookingSourceOffline}

// lockBed takes a row-level lock on the bed so concurrent create/update
// requests for the same bed serialize around the overlap check. Two racing
// requests for an overlapping range resolve with exactly one winner; the
// loser sees the committed booking and gets ErrOverlap. SQLite has no row
// locks, but its write transactions are already serialized.
func lockBed(tx *gorm.DB, bedID uint) (*models.Bed, error) {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var bed models.Bed
	if err := q.First(&bed, bedID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &bed, nil
}

// dailyRentFor resolves the bed's rent, preferring the per-bed override.
func dailyRentFor(bed *models.Bed, room *models.Room) float64 {
	if bed.DailyRentOverride != nil {
		return *bed.DailyRentOverride
	}
	return room.DailyRent
}

// BookingQuote breaks down the price of a stay: nightly rent times nights,
// plus the property deposit when one is set.
type BookingQuote struct {
	Nights    int     `json:"nights"`
	DailyRent float64 `json:"dailyRent"`
	Deposit   float64 `json:"deposit"`
	Total     float64 `json:"total"`
}

func quoteFor(bed *models.Bed, room *models.Room, property *models.Property, start, end time.Time) BookingQuote {
	quote := BookingQuote{
		Nights:    int(end.Sub(start) / (24 * time.Hour)),
		DailyRent: dailyRentFor(bed, room),
	}
	if property.Deposit != nil {
		quote.Deposit = *property.Deposit
	}
	quote.Total = quote.DailyRent*float64(quote.Nights) + quote.Deposit
	return quote
}

// QuoteStay prices a prospective stay without writing anything.
func QuoteStay(bedID uint, start, end time.Time) (*BookingQuote, error) {
	start, end = DateOnly(start), DateOnly(end)
	if !start.Before(end) {
		return nil, ErrInvalidRange
	}

	var bed models.Bed
	if err := storage.DB.First(&bed, bedID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var room models.Room
	if err := storage.DB.First(&room, bed.RoomID).Error; err != nil {
		return nil, err
	}
	var property models.Property
	if err := storage.DB.First(&property, room.PropertyID).Error; err != nil {
		return nil, err
	}

	quote := quoteFor(&bed, &room, &property, start, end)
	return &quote, nil
}

// CreateBooking validates and persists a booking for [start, end) on the
// bed, returning it together with the price breakdown it was charged at.
// Online and offline bookings share this single path, so the two entry
// points cannot double-book the same bed. The overlap check, the write and
// the occupancy reconciliation are one atomic unit; a validation failure
// never leaves a row behind.
func CreateBooking(bedID uint, start, end time.Time, source string, tenantID *uint, contact *GuestContact) (*models.Booking, *BookingQuote, error) {
	if !slices.Contains(bookingSources, source) {
		return nil, nil, fmt.Errorf("unknown booking source %q", source)
	}
	start, end = DateOnly(start), DateOnly(end)
	if !start.Before(end) {
		return nil, nil, ErrInvalidRange
	}

	var booking models.Booking
	var quote BookingQuote
	var ownerID uint
	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		bed, err := lockBed(tx, bedID)
		if err != nil {
			return err
		}
		var room models.Room
		if err := tx.First(&room, bed.RoomID).Error; err != nil {
			return err
		}
		var property models.Property
		if err := tx.First(&property, room.PropertyID).Error; err != nil {
			return err
		}
		ownerID = property.OwnerID

		free, err := IsRangeFree(tx, bedID, start, end, 0)
		if err != nil {
			return err
		}
		if !free {
			return ErrOverlap
		}
		if err := EnforceLockIn(property.LockInMonths, start, end); err != nil {
			return err
		}

		quote = quoteFor(bed, &room, &property, start, end)

		booking = models.Booking{
			Reference:   uuid.NewString(),
			BedID:       bedID,
			TenantID:    tenantID,
			Source:      source,
			CheckIn:     start,
			CheckOut:    end,
			TotalAmount: quote.Total,
		}
		if contact != nil {
			booking.GuestName = contact.Name
			booking.GuestEmail = contact.Email
			booking.GuestPhone = contact.Phone
		}
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}

		if err := reconcileBed(tx, bed, time.Now()); err != nil {
			return err
		}

		notification := models.Notification{
			UserID:  property.OwnerID,
			Type:    "booking_created",
			Title:   "New Booking",
			Message: fmt.Sprintf("Bed %s in %s booked from %s to %s", bed.Label, property.Name, start.Format("2006-01-02"), end.Format("2006-01-02")),
			RefType: "booking",
			RefID:   booking.ID,
		}
		return tx.Create(&notification).Error
	})
	if err != nil {
		return nil, nil, err
	}

	invalidateOwnerStats(ownerID)
	return &booking, &quote, nil
}

// UpdateDates amends a booking's date range. The booking's own record is
// excluded from the overlap check so a no-op amendment to the current dates
// succeeds. On any validation failure the transaction rolls back and the
// booking is left exactly as it was.
func UpdateDates(bookingID uint, newStart, newEnd time.Time) (*models.Booking, error) {
	newStart, newEnd = DateOnly(newStart), DateOnly(newEnd)
	if !newStart.Before(newEnd) {
		return nil, ErrInvalidRange
	}

	var booking models.Booking
	var ownerID uint
	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if booking.Cancelled {
			return ErrBookingCancelled
		}

		bed, err := lockBed(tx, booking.BedID)
		if err != nil {
			return err
		}
		var room models.Room
		if err := tx.First(&room, bed.RoomID).Error; err != nil {
			return err
		}
		var property models.Property
		if err := tx.First(&property, room.PropertyID).Error; err != nil {
			return err
		}
		ownerID = property.OwnerID

		free, err := IsRangeFree(tx, booking.BedID, newStart, newEnd, booking.ID)
		if err != nil {
			return err
		}
		if !free {
			return ErrOverlap
		}
		if err := EnforceLockIn(property.LockInMonths, newStart, newEnd); err != nil {
			return err
		}

		total := quoteFor(bed, &room, &property, newStart, newEnd).Total

		updates := map[string]interface{}{
			"check_in":     newStart,
			"check_out":    newEnd,
			"total_amount": total,
		}
		if err := tx.Model(&models.Booking{}).Where("id = ?", booking.ID).
			Updates(updates).Error; err != nil {
			return err
		}
		booking.CheckIn = newStart
		booking.CheckOut = newEnd
		booking.TotalAmount = total

		return reconcileBed(tx, bed, time.Now())
	})
	if err != nil {
		return nil, err
	}

	invalidateOwnerStats(ownerID)
	return &booking, nil
}

// Cancel flips the booking's cancellation flag and frees its range for
// re-booking. Cancelling an already-cancelled booking is a no-op success.
// Cancellation is one-way; the row is kept for history.
func Cancel(bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	var ownerID uint
	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if booking.Cancelled {
			return nil
		}

		bed, err := lockBed(tx, booking.BedID)
		if err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(&models.Booking{}).Where("id = ?", booking.ID).
			Updates(map[string]interface{}{
				"cancelled":    true,
				"cancelled_at": now,
			}).Error; err != nil {
			return err
		}
		booking.Cancelled = true
		booking.CancelledAt = &now

		if err := reconcileBed(tx, bed, now); err != nil {
			return err
		}

		var room models.Room
		if err := tx.First(&room, bed.RoomID).Error; err != nil {
			return err
		}
		var property models.Property
		if err := tx.First(&property, room.PropertyID).Error; err != nil {
			return err
		}
		ownerID = property.OwnerID

		notification := models.Notification{
			UserID:  property.OwnerID,
			Type:    "booking_cancelled",
			Title:   "Booking Cancelled",
			Message: fmt.Sprintf("Booking %s for bed %s was cancelled", booking.Reference, bed.Label),
			RefType: "booking",
			RefID:   booking.ID,
		}
		return tx.Create(&notification).Error
	})
	if err != nil {
		return nil, err
	}

	invalidateOwnerStats(ownerID)
	return &booking, nil
}
