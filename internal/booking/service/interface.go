// Package service provides the booking domain services used by the booking saga steps.
package service

import (
	"time"

	bookingDomain "github.com/giangnd99/hotel-management-sub003/internal/booking/domain"
)

// CancellationService decides whether a booking may be cancelled and applies the
// cancellation. Dates are compared as calendar days in UTC.
type CancellationService interface {
	// CheckCancellable returns ErrBookingNotCancellable when the booking is
	// CANCELLED, CHECKED_OUT, or PAID with its check-in date reached.
	CheckCancellable(booking *bookingDomain.Booking, now time.Time) error

	// IsRefundable reports whether more than one calendar day remains until check-in.
	IsRefundable(booking *bookingDomain.Booking, now time.Time) bool

	// Cancel marks the booking CANCELLED and returns the resulting event.
	Cancel(booking *bookingDomain.Booking, reason string, now time.Time) (*bookingDomain.BookingCancelledEvent, error)
}
