package services

import (
	"time"

	"github.com/Shash-135/Synca/models"
)

type BookingStatus string

const (
	StatusCancelled BookingStatus = "cancelled"
	StatusUpcoming  BookingStatus = "upcoming"
	StatusActive    BookingStatus = "active"
	StatusCompleted BookingStatus = "completed"
)

// Classify derives a booking's display status from its dates and
// cancellation flag as of now. The cancellation flag wins regardless of
// dates. Nothing is persisted: callers recompute on every read, so the
// status can never drift from the wall clock.
func Classify(b *models.Booking, now time.Time) BookingStatus {
	if b.Cancelled {
		return StatusCancelled
	}
	today := DateOnly(now)
	if today.Before(DateOnly(b.CheckIn)) {
		return StatusUpcoming
	}
	if today.Before(DateOnly(b.CheckOut)) {
		return StatusActive
	}
	return StatusCompleted
}
