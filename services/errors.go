package services

import "errors"

// Engine error taxonomy. Every error here is user-facing and recoverable;
// route handlers map them to HTTP statuses.
var (
	// ErrInvalidRange is returned when check-out is not after check-in.
	ErrInvalidRange = errors.New("check-out must be after check-in")

	// ErrOverlap is returned when a requested range conflicts with an
	// existing non-cancelled booking on the same bed.
	ErrOverlap = errors.New("dates conflict with an existing booking")

	// ErrLockInViolation is returned when a stay is shorter than the
	// property's lock-in period.
	ErrLockInViolation = errors.New("stay is shorter than the property's lock-in period")

	// ErrResourceInUse is returned when inventory with live bookings would
	// be removed.
	ErrResourceInUse = errors.New("resource has live bookings")

	// ErrNotFound is returned for unknown bed or booking IDs.
	ErrNotFound = errors.New("record not found")

	// ErrBookingCancelled is returned when a date amendment targets a
	// cancelled booking. Cancellation is terminal.
	ErrBookingCancelled = errors.New("booking is cancelled")
)
