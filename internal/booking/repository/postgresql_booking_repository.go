// Package repository provides persistence implementations for bookings.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	bookingDomain "github.com/giangnd99/hotel-management-sub003/internal/booking/domain"
	"github.com/giangnd99/hotel-management-sub003/internal/database"
)

const bookingSelectColumns = `id, customer_id, check_in_date, check_out_date, status, previous_status,
			  deposit_amount, payment_id, refund_status, refund_amount, created_at, updated_at`

// PostgreSQLBookingRepository handles booking persistence for PostgreSQL
type PostgreSQLBookingRepository struct {
	db *sql.DB
}

// NewPostgreSQLBookingRepository creates a new PostgreSQLBookingRepository
func NewPostgreSQLBookingRepository(db *sql.DB) *PostgreSQLBookingRepository {
	return &PostgreSQLBookingRepository{
		db: db,
	}
}

// Create inserts a booking and its rooms
func (r *PostgreSQLBookingRepository) Create(ctx context.Context, booking *bookingDomain.Booking) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO bookings (id, customer_id, check_in_date, check_out_date, status, previous_status,
			  deposit_amount, payment_id, refund_status, refund_amount, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := querier.ExecContext(ctx, query, booking.ID, booking.CustomerID, booking.CheckInDate,
		booking.CheckOutDate, booking.Status, booking.PreviousStatus, booking.DepositAmount,
		booking.PaymentID, booking.RefundStatus, booking.RefundAmount, booking.CreatedAt, booking.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return bookingDomain.ErrBookingAlreadyExists
		}
		return err
	}

	roomQuery := `INSERT INTO booking_rooms (booking_id, room_id, position) VALUES ($1, $2, $3)`
	for i, roomID := range booking.RoomIDs {
		if _, err := querier.ExecContext(ctx, roomQuery, booking.ID, roomID, i); err != nil {
			return err
		}
	}

	return nil
}

// Get retrieves a booking by ID
func (r *PostgreSQLBookingRepository) Get(ctx context.Context, bookingID uuid.UUID) (*bookingDomain.Booking, error) {
	query := `SELECT ` + bookingSelectColumns + ` FROM bookings WHERE id = $1`
	return r.get(ctx, query, bookingID)
}

// GetForUpdate retrieves a booking by ID and locks it for the current transaction
func (r *PostgreSQLBookingRepository) GetForUpdate(
	ctx context.Context,
	bookingID uuid.UUID,
) (*bookingDomain.Booking, error) {
	query := `SELECT ` + bookingSelectColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`
	return r.get(ctx, query, bookingID)
}

func (r *PostgreSQLBookingRepository) get(
	ctx context.Context,
	query string,
	bookingID uuid.UUID,
) (*bookingDomain.Booking, error) {
	querier := database.GetTx(ctx, r.db)

	booking, err := scanBooking(querier.QueryRowContext(ctx, query, bookingID).Scan)
	if err != nil {
		return nil, err
	}

	rows, err := querier.QueryContext(ctx,
		`SELECT room_id FROM booking_rooms WHERE booking_id = $1 ORDER BY position ASC`, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.RoomIDs, err = scanRoomIDs(rows); err != nil {
		return nil, err
	}

	return booking, nil
}

// Update persists the mutable booking fields
func (r *PostgreSQLBookingRepository) Update(ctx context.Context, booking *bookingDomain.Booking) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE bookings
			  SET status = $1, previous_status = $2, deposit_amount = $3, payment_id = $4,
			  refund_status = $5, refund_amount = $6, updated_at = $7
			  WHERE id = $8`

	result, err := querier.ExecContext(ctx, query, booking.Status, booking.PreviousStatus,
		booking.DepositAmount, booking.PaymentID, booking.RefundStatus, booking.RefundAmount,
		booking.UpdatedAt, booking.ID)
	if err != nil {
		return err
	}

	return requireAffected(result)
}
