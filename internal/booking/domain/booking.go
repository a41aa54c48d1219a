// Package domain defines the booking aggregate and the events its saga steps produce.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "PENDING"
	BookingStatusDeposited  BookingStatus = "DEPOSITED"
	BookingStatusConfirmed  BookingStatus = "CONFIRMED"
	BookingStatusPaid       BookingStatus = "PAID"
	BookingStatusCheckedIn  BookingStatus = "CHECKED_IN"
	BookingStatusCheckedOut BookingStatus = "CHECKED_OUT"
	BookingStatusCancelled  BookingStatus = "CANCELLED"
)

// RefundStatus tracks the refund hop of a cancellation saga.
type RefundStatus string

const (
	RefundStatusNone      RefundStatus = ""
	RefundStatusRequested RefundStatus = "REQUESTED"
	RefundStatusRefunded  RefundStatus = "REFUNDED"
	RefundStatusFailed    RefundStatus = "FAILED"
)

// Booking is a reservation of one or more rooms for a stay. Amounts are in minor
// currency units. PreviousStatus holds the status a pending saga step restores
// when its downstream request fails.
type Booking struct {
	ID             uuid.UUID
	CustomerID     uuid.UUID
	RoomIDs        []uuid.UUID
	CheckInDate    time.Time
	CheckOutDate   time.Time
	Status         BookingStatus
	PreviousStatus *BookingStatus
	DepositAmount  *int64
	PaymentID      *uuid.UUID
	RefundStatus   RefundStatus
	RefundAmount   *int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TransitionTo moves the booking to status and remembers the status it left.
func (b *Booking) TransitionTo(status BookingStatus, now time.Time) {
	previous := b.Status
	b.PreviousStatus = &previous
	b.Status = status
	b.UpdatedAt = now
}

// Revert restores the status saved by the last TransitionTo. It reports false
// when there is nothing to restore.
func (b *Booking) Revert(now time.Time) bool {
	if b.PreviousStatus == nil {
		return false
	}
	b.Status = *b.PreviousStatus
	b.PreviousStatus = nil
	b.UpdatedAt = now
	return true
}

// Hold marks a step in flight without changing the status. Revert releases it.
func (b *Booking) Hold(now time.Time) {
	current := b.Status
	b.PreviousStatus = &current
	b.UpdatedAt = now
}

// InFlight reports whether a saga step opened on the booking is still waiting
// for its response.
func (b *Booking) InFlight() bool {
	return b.PreviousStatus != nil
}

// Settle clears the saved status once the pending step concluded.
func (b *Booking) Settle(now time.Time) {
	b.PreviousStatus = nil
	b.UpdatedAt = now
}

// BookingCancelledEvent is produced when a cancellation is applied.
type BookingCancelledEvent struct {
	Booking    *Booking
	Reason     string
	Refundable bool
	OccurredAt time.Time
}
