package domain

import (
	"github.com/giangnd99/hotel-management-sub003/internal/errors"
)

// Payment errors.
var (
	// ErrPaymentNotFound indicates the payment does not exist.
	ErrPaymentNotFound = errors.Wrap(errors.ErrNotFound, "payment not found")

	// ErrPaymentAlreadyExists indicates the booking already has a payment.
	ErrPaymentAlreadyExists = errors.Wrap(errors.ErrConflict, "payment already exists for booking")

	// ErrPaymentNotRefundable indicates the payment is not in COMPLETED status.
	ErrPaymentNotRefundable = errors.Wrap(errors.ErrBusinessRule, "payment cannot be refunded")

	// ErrPaymentMismatch indicates the refund request names another booking's payment.
	ErrPaymentMismatch = errors.Wrap(errors.ErrBusinessRule, "payment does not belong to booking")

	// ErrRefundExceedsPayment indicates the refund is larger than the amount paid.
	ErrRefundExceedsPayment = errors.Wrap(errors.ErrBusinessRule, "refund amount exceeds payment amount")
)
