package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giangnd99/hotel-management-sub003/internal/database"
	paymentDomain "github.com/giangnd99/hotel-management-sub003/internal/payment/domain"
)

func TestMemoryPaymentRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Error_SecondPaymentForBooking", func(t *testing.T) {
		repo := NewMemoryPaymentRepository()
		payment := newTestPayment()
		require.NoError(t, repo.Create(ctx, payment))

		other := newTestPayment()
		other.BookingID = payment.BookingID
		assert.ErrorIs(t, repo.Create(ctx, other), paymentDomain.ErrPaymentAlreadyExists)
	})

	t.Run("Success_ReadsAreCopies", func(t *testing.T) {
		repo := NewMemoryPaymentRepository()
		payment := newTestPayment()
		require.NoError(t, repo.Create(ctx, payment))

		got, err := repo.GetByBookingIDForUpdate(ctx, payment.BookingID)
		require.NoError(t, err)
		got.Status = paymentDomain.PaymentStatusFailed

		stored, err := repo.Get(ctx, payment.ID)
		require.NoError(t, err)
		assert.Equal(t, paymentDomain.PaymentStatusCompleted, stored.Status)
	})

	t.Run("Success_RollbackRevertsUpdate", func(t *testing.T) {
		repo := NewMemoryPaymentRepository()
		txManager := database.NewMemoryTxManager()
		payment := newTestPayment()
		require.NoError(t, repo.Create(ctx, payment))
		failure := errors.New("boom")

		err := txManager.WithTx(ctx, func(txCtx context.Context) error {
			amount := payment.Amount
			payment.Status = paymentDomain.PaymentStatusRefunded
			payment.RefundAmount = &amount
			if err := repo.Update(txCtx, payment); err != nil {
				return err
			}
			return failure
		})
		require.ErrorIs(t, err, failure)

		stored, err := repo.Get(ctx, payment.ID)
		require.NoError(t, err)
		assert.Equal(t, paymentDomain.PaymentStatusCompleted, stored.Status)
		assert.Nil(t, stored.RefundAmount)
	})

	t.Run("Error_UpdateUnknown", func(t *testing.T) {
		repo := NewMemoryPaymentRepository()

		assert.ErrorIs(t, repo.Update(ctx, newTestPayment()), paymentDomain.ErrPaymentNotFound)
	})
}
