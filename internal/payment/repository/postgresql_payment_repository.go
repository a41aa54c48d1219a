// Package repository provides persistence implementations for payments.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/giangnd99/hotel-management-sub003/internal/database"
	paymentDomain "github.com/giangnd99/hotel-management-sub003/internal/payment/domain"
)

// PostgreSQLPaymentRepository handles payment persistence for PostgreSQL
type PostgreSQLPaymentRepository struct {
	db *sql.DB
}

// NewPostgreSQLPaymentRepository creates a new PostgreSQLPaymentRepository
func NewPostgreSQLPaymentRepository(db *sql.DB) *PostgreSQLPaymentRepository {
	return &PostgreSQLPaymentRepository{
		db: db,
	}
}

// Create inserts a new payment
func (r *PostgreSQLPaymentRepository) Create(ctx context.Context, payment *paymentDomain.Payment) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO payments (id, booking_id, amount, status, refund_amount, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(ctx, query, payment.ID, payment.BookingID, payment.Amount, payment.Status,
		payment.RefundAmount, payment.CreatedAt, payment.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return paymentDomain.ErrPaymentAlreadyExists
		}
		return err
	}
	return nil
}

// Get retrieves a payment by ID
func (r *PostgreSQLPaymentRepository) Get(ctx context.Context, paymentID uuid.UUID) (*paymentDomain.Payment, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + paymentSelectColumns + ` FROM payments WHERE id = $1`
	return scanPayment(querier.QueryRowContext(ctx, query, paymentID).Scan)
}

// GetByBookingIDForUpdate retrieves the booking's payment and locks it for the current transaction
func (r *PostgreSQLPaymentRepository) GetByBookingIDForUpdate(
	ctx context.Context,
	bookingID uuid.UUID,
) (*paymentDomain.Payment, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + paymentSelectColumns + ` FROM payments WHERE booking_id = $1 FOR UPDATE`
	return scanPayment(querier.QueryRowContext(ctx, query, bookingID).Scan)
}

// Update persists the payment status and refund amount
func (r *PostgreSQLPaymentRepository) Update(ctx context.Context, payment *paymentDomain.Payment) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE payments SET status = $1, refund_amount = $2, updated_at = $3 WHERE id = $4`

	result, err := querier.ExecContext(ctx, query, payment.Status, payment.RefundAmount, payment.UpdatedAt,
		payment.ID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return paymentDomain.ErrPaymentNotFound
	}
	return nil
}
