package domain

import (
	"github.com/giangnd99/hotel-management-sub003/internal/errors"
)

// Booking errors.
var (
	// ErrBookingNotFound indicates the booking does not exist.
	ErrBookingNotFound = errors.Wrap(errors.ErrNotFound, "booking not found")

	// ErrBookingAlreadyExists indicates a booking with the same id was already created.
	ErrBookingAlreadyExists = errors.Wrap(errors.ErrConflict, "booking already exists")

	// ErrBookingNotCancellable indicates the booking is cancelled, checked out, or
	// paid with its check-in date reached.
	ErrBookingNotCancellable = errors.Wrap(errors.ErrBusinessRule, "booking cannot be cancelled")

	// ErrInvalidBookingStatus indicates the operation is not allowed in the current status.
	ErrInvalidBookingStatus = errors.Wrap(errors.ErrBusinessRule, "invalid booking status for operation")

	// ErrBookingStepInFlight indicates another saga step opened on the booking has
	// not concluded yet.
	ErrBookingStepInFlight = errors.Wrap(ErrInvalidBookingStatus, "saga step in flight")

	// ErrInvalidStay indicates the check-in and check-out dates do not form a stay.
	ErrInvalidStay = errors.Wrap(errors.ErrInvalidInput, "check-out must be after check-in")
)
