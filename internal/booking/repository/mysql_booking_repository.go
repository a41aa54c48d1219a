package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	bookingDomain "github.com/giangnd99/hotel-management-sub003/internal/booking/domain"
	"github.com/giangnd99/hotel-management-sub003/internal/database"
)

// MySQLBookingRepository handles booking persistence for MySQL. UUIDs are stored
// as BINARY(16).
type MySQLBookingRepository struct {
	db *sql.DB
}

// NewMySQLBookingRepository creates a new MySQLBookingRepository
func NewMySQLBookingRepository(db *sql.DB) *MySQLBookingRepository {
	return &MySQLBookingRepository{
		db: db,
	}
}

// Create inserts a booking and its rooms
func (r *MySQLBookingRepository) Create(ctx context.Context, booking *bookingDomain.Booking) error {
	querier := database.GetTx(ctx, r.db)

	ids, err := database.BinaryUUIDs(booking.ID, booking.CustomerID)
	if err != nil {
		return err
	}
	paymentID, err := database.NullableBinaryUUID(booking.PaymentID)
	if err != nil {
		return err
	}

	query := `INSERT INTO bookings (id, customer_id, check_in_date, check_out_date, status, previous_status,
			  deposit_amount, payment_id, refund_status, refund_amount, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query, ids[0], ids[1], booking.CheckInDate, booking.CheckOutDate,
		booking.Status, booking.PreviousStatus, booking.DepositAmount, paymentID, booking.RefundStatus,
		booking.RefundAmount, booking.CreatedAt, booking.UpdatedAt)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return bookingDomain.ErrBookingAlreadyExists
		}
		return err
	}

	roomIDs, err := database.BinaryUUIDs(booking.RoomIDs...)
	if err != nil {
		return err
	}

	roomQuery := `INSERT INTO booking_rooms (booking_id, room_id, position) VALUES (?, ?, ?)`
	for i, roomID := range roomIDs {
		if _, err := querier.ExecContext(ctx, roomQuery, ids[0], roomID, i); err != nil {
			return err
		}
	}

	return nil
}

// Get retrieves a booking by ID
func (r *MySQLBookingRepository) Get(ctx context.Context, bookingID uuid.UUID) (*bookingDomain.Booking, error) {
	query := `SELECT ` + bookingSelectColumns + ` FROM bookings WHERE id = ?`
	return r.get(ctx, query, bookingID)
}

// GetForUpdate retrieves a booking by ID and locks it for the current transaction
func (r *MySQLBookingRepository) GetForUpdate(
	ctx context.Context,
	bookingID uuid.UUID,
) (*bookingDomain.Booking, error) {
	query := `SELECT ` + bookingSelectColumns + ` FROM bookings WHERE id = ? FOR UPDATE`
	return r.get(ctx, query, bookingID)
}

func (r *MySQLBookingRepository) get(
	ctx context.Context,
	query string,
	bookingID uuid.UUID,
) (*bookingDomain.Booking, error) {
	querier := database.GetTx(ctx, r.db)

	id, err := bookingID.MarshalBinary()
	if err != nil {
		return nil, err
	}

	booking, err := scanBooking(querier.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		return nil, err
	}

	rows, err := querier.QueryContext(ctx,
		`SELECT room_id FROM booking_rooms WHERE booking_id = ? ORDER BY position ASC`, id)
	if err != nil {
		return nil, err
	}
	if booking.RoomIDs, err = scanRoomIDs(rows); err != nil {
		return nil, err
	}

	return booking, nil
}

// Update persists the mutable booking fields. MySQL reports changed rows only, so
// a missing booking is detected by the caller's prior read.
func (r *MySQLBookingRepository) Update(ctx context.Context, booking *bookingDomain.Booking) error {
	querier := database.GetTx(ctx, r.db)

	id, err := booking.ID.MarshalBinary()
	if err != nil {
		return err
	}
	paymentID, err := database.NullableBinaryUUID(booking.PaymentID)
	if err != nil {
		return err
	}

	query := `UPDATE bookings
			  SET status = ?, previous_status = ?, deposit_amount = ?, payment_id = ?,
			  refund_status = ?, refund_amount = ?, updated_at = ?
			  WHERE id = ?`

	_, err = querier.ExecContext(ctx, query, booking.Status, booking.PreviousStatus, booking.DepositAmount,
		paymentID, booking.RefundStatus, booking.RefundAmount, booking.UpdatedAt, id)
	return err
}
