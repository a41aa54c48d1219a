// Package usecase implements the booking service side of the hotel sagas: the
// initiators that open a saga with an outbox record, and the steps that apply
// room and payment responses to the booking.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	bookingDomain "github.com/giangnd99/hotel-management-sub003/internal/booking/domain"
)

// BookingRepository defines the interface for Booking persistence operations.
type BookingRepository interface {
	Create(ctx context.Context, booking *bookingDomain.Booking) error
	Get(ctx context.Context, bookingID uuid.UUID) (*bookingDomain.Booking, error)
	// GetForUpdate reads the booking and locks it for the current transaction.
	GetForUpdate(ctx context.Context, bookingID uuid.UUID) (*bookingDomain.Booking, error)
	Update(ctx context.Context, booking *bookingDomain.Booking) error
}

// CreateBookingInput contains the data needed to create a booking.
type CreateBookingInput struct {
	CustomerID   uuid.UUID
	RoomIDs      []uuid.UUID
	CheckInDate  time.Time
	CheckOutDate time.Time
}

// BookingUseCase defines the booking operations. The saga initiators return the
// id of the saga they opened.
type BookingUseCase interface {
	Create(ctx context.Context, input CreateBookingInput) (*bookingDomain.Booking, error)
	Get(ctx context.Context, bookingID uuid.UUID) (*bookingDomain.Booking, error)
	// ConfirmDeposit records the deposit paid with paymentID and asks the room
	// service to reserve the booking's rooms.
	ConfirmDeposit(ctx context.Context, bookingID, paymentID uuid.UUID, amount int64) (uuid.UUID, error)
	// CheckIn marks the booking checked in and asks the room service to occupy its rooms.
	CheckIn(ctx context.Context, bookingID uuid.UUID) (uuid.UUID, error)
	// RequestCancellation asks the room service to release the booking's rooms.
	// The booking is cancelled when the release succeeds.
	RequestCancellation(ctx context.Context, bookingID uuid.UUID, reason string) (uuid.UUID, error)
}
