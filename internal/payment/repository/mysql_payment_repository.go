package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/giangnd99/hotel-management-sub003/internal/database"
	paymentDomain "github.com/giangnd99/hotel-management-sub003/internal/payment/domain"
)

// MySQLPaymentRepository handles payment persistence for MySQL. UUIDs are stored as BINARY(16).
type MySQLPaymentRepository struct {
	db *sql.DB
}

// NewMySQLPaymentRepository creates a new MySQLPaymentRepository
func NewMySQLPaymentRepository(db *sql.DB) *MySQLPaymentRepository {
	return &MySQLPaymentRepository{
		db: db,
	}
}

// Create inserts a new payment
func (r *MySQLPaymentRepository) Create(ctx context.Context, payment *paymentDomain.Payment) error {
	querier := database.GetTx(ctx, r.db)

	ids, err := database.BinaryUUIDs(payment.ID, payment.BookingID)
	if err != nil {
		return err
	}

	query := `INSERT INTO payments (id, booking_id, amount, status, refund_amount, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query, ids[0], ids[1], payment.Amount, payment.Status,
		payment.RefundAmount, payment.CreatedAt, payment.UpdatedAt)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return paymentDomain.ErrPaymentAlreadyExists
		}
		return err
	}
	return nil
}

// Get retrieves a payment by ID
func (r *MySQLPaymentRepository) Get(ctx context.Context, paymentID uuid.UUID) (*paymentDomain.Payment, error) {
	return r.get(ctx, `SELECT `+paymentSelectColumns+` FROM payments WHERE id = ?`, paymentID)
}

// GetByBookingIDForUpdate retrieves the booking's payment and locks it for the current transaction
func (r *MySQLPaymentRepository) GetByBookingIDForUpdate(
	ctx context.Context,
	bookingID uuid.UUID,
) (*paymentDomain.Payment, error) {
	return r.get(ctx, `SELECT `+paymentSelectColumns+` FROM payments WHERE booking_id = ? FOR UPDATE`, bookingID)
}

func (r *MySQLPaymentRepository) get(ctx context.Context, query string, id uuid.UUID) (*paymentDomain.Payment, error) {
	querier := database.GetTx(ctx, r.db)

	key, err := id.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return scanPayment(querier.QueryRowContext(ctx, query, key).Scan)
}

// Update persists the payment status and refund amount
func (r *MySQLPaymentRepository) Update(ctx context.Context, payment *paymentDomain.Payment) error {
	querier := database.GetTx(ctx, r.db)

	id, err := payment.ID.MarshalBinary()
	if err != nil {
		return err
	}

	query := `UPDATE payments SET status = ?, refund_amount = ?, updated_at = ? WHERE id = ?`

	_, err = querier.ExecContext(ctx, query, payment.Status, payment.RefundAmount, payment.UpdatedAt, id)
	return err
}
