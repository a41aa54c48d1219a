// Package usecase implements the payment service: deposits recorded against
// bookings and the request handler that refunds cancelled bookings.
package usecase

import (
	"context"

	"github.com/google/uuid"

	paymentDomain "github.com/giangnd99/hotel-management-sub003/internal/payment/domain"
)

// PaymentRepository defines the interface for Payment persistence operations.
type PaymentRepository interface {
	Create(ctx context.Context, payment *paymentDomain.Payment) error
	Get(ctx context.Context, paymentID uuid.UUID) (*paymentDomain.Payment, error)
	// GetByBookingIDForUpdate reads the booking's payment and locks it for the
	// current transaction.
	GetByBookingIDForUpdate(ctx context.Context, bookingID uuid.UUID) (*paymentDomain.Payment, error)
	Update(ctx context.Context, payment *paymentDomain.Payment) error
}

// PaymentUseCase defines payment operations outside the saga.
type PaymentUseCase interface {
	// RecordDeposit stores a COMPLETED payment of amount for the booking.
	RecordDeposit(ctx context.Context, bookingID uuid.UUID, amount int64) (*paymentDomain.Payment, error)
	Get(ctx context.Context, paymentID uuid.UUID) (*paymentDomain.Payment, error)
}
