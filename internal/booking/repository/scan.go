package repository

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"

	bookingDomain "github.com/giangnd99/hotel-management-sub003/internal/booking/domain"
)

func scanBooking(scan func(dest ...any) error) (*bookingDomain.Booking, error) {
	var booking bookingDomain.Booking

	err := scan(&booking.ID, &booking.CustomerID, &booking.CheckInDate, &booking.CheckOutDate,
		&booking.Status, &booking.PreviousStatus, &booking.DepositAmount, &booking.PaymentID,
		&booking.RefundStatus, &booking.RefundAmount, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, bookingDomain.ErrBookingNotFound
		}
		return nil, err
	}

	return &booking, nil
}

func scanRoomIDs(rows *sql.Rows) ([]uuid.UUID, error) {
	defer rows.Close() //nolint:errcheck

	var roomIDs []uuid.UUID
	for rows.Next() {
		var roomID uuid.UUID
		if err := rows.Scan(&roomID); err != nil {
			return nil, err
		}
		roomIDs = append(roomIDs, roomID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return roomIDs, nil
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return bookingDomain.ErrBookingNotFound
	}
	return nil
}
