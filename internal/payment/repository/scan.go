package repository

import (
	"database/sql"
	"errors"

	paymentDomain "github.com/giangnd99/hotel-management-sub003/internal/payment/domain"
)

const paymentSelectColumns = `id, booking_id, amount, status, refund_amount, created_at, updated_at`

func scanPayment(scan func(dest ...any) error) (*paymentDomain.Payment, error) {
	var payment paymentDomain.Payment

	err := scan(
		&payment.ID,
		&payment.BookingID,
		&payment.Amount,
		&payment.Status,
		&payment.RefundAmount,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, paymentDomain.ErrPaymentNotFound
		}
		return nil, err
	}

	return &payment, nil
}
