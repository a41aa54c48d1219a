// Package domain defines the payment aggregate settled against a booking.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus is the settlement state of a payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

// Payment is money received for a booking. Amounts are in minor currency units.
// A booking has at most one payment.
type Payment struct {
	ID           uuid.UUID
	BookingID    uuid.UUID
	Amount       int64
	Status       PaymentStatus
	RefundAmount *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
