package service

import (
	"time"

	"github.com/google/uuid"

	paymentDomain "github.com/giangnd99/hotel-management-sub003/internal/payment/domain"
	sagaDomain "github.com/giangnd99/hotel-management-sub003/internal/saga/domain"
)

type refundService struct{}

// NewRefundService creates a new RefundService.
func NewRefundService() RefundService {
	return &refundService{}
}

func (s *refundService) RefundAmount(request sagaDomain.RefundRequest) (int64, bool) {
	if request.DepositAmount == nil {
		return 0, false
	}
	return *request.DepositAmount, true
}

func (s *refundService) Refund(
	payment *paymentDomain.Payment,
	bookingID uuid.UUID,
	amount int64,
	now time.Time,
) error {
	if payment.BookingID != bookingID {
		return paymentDomain.ErrPaymentMismatch
	}
	if payment.Status != paymentDomain.PaymentStatusCompleted {
		return paymentDomain.ErrPaymentNotRefundable
	}
	if amount > payment.Amount {
		return paymentDomain.ErrRefundExceedsPayment
	}

	payment.Status = paymentDomain.PaymentStatusRefunded
	payment.RefundAmount = &amount
	payment.UpdatedAt = now
	return nil
}
