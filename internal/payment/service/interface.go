// Package service provides the payment refund rules.
package service

import (
	"time"

	"github.com/google/uuid"

	paymentDomain "github.com/giangnd99/hotel-management-sub003/internal/payment/domain"
	sagaDomain "github.com/giangnd99/hotel-management-sub003/internal/saga/domain"
)

// RefundService decides and applies refunds for cancelled bookings.
type RefundService interface {
	// RefundAmount returns the amount to refund for a request. The second result is
	// false when the request carried no deposit amount and zero was assumed.
	RefundAmount(request sagaDomain.RefundRequest) (int64, bool)

	// Refund checks the payment belongs to bookingID, is COMPLETED and covers
	// amount, then marks it REFUNDED.
	Refund(payment *paymentDomain.Payment, bookingID uuid.UUID, amount int64, now time.Time) error
}
