package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingDomain "github.com/giangnd99/hotel-management-sub003/internal/booking/domain"
	apperrors "github.com/giangnd99/hotel-management-sub003/internal/errors"
)

var bookingColumns = []string{
	"id", "customer_id", "check_in_date", "check_out_date", "status", "previous_status",
	"deposit_amount", "payment_id", "refund_status", "refund_amount", "created_at", "updated_at",
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func newTestBooking() *bookingDomain.Booking {
	now := time.Now().UTC()
	return &bookingDomain.Booking{
		ID:           uuid.Must(uuid.NewV7()),
		CustomerID:   uuid.Must(uuid.NewV7()),
		RoomIDs:      []uuid.UUID{uuid.Must(uuid.NewV7()), uuid.Must(uuid.NewV7())},
		CheckInDate:  now.AddDate(0, 0, 3).Truncate(24 * time.Hour),
		CheckOutDate: now.AddDate(0, 0, 5).Truncate(24 * time.Hour),
		Status:       bookingDomain.BookingStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestPostgreSQLBookingRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_InsertsBookingAndRooms", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLBookingRepository(db)
		booking := newTestBooking()

		mock.ExpectExec(`INSERT INTO bookings`).
			WithArgs(booking.ID, booking.CustomerID, booking.CheckInDate, booking.CheckOutDate,
				booking.Status, nil, nil, nil, booking.RefundStatus, nil, booking.CreatedAt, booking.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))
		for i, roomID := range booking.RoomIDs {
			mock.ExpectExec(`INSERT INTO booking_rooms`).
				WithArgs(booking.ID, roomID, i).
				WillReturnResult(sqlmock.NewResult(0, 1))
		}

		require.NoError(t, repo.Create(ctx, booking))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_DuplicateBooking", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLBookingRepository(db)

		mock.ExpectExec(`INSERT INTO bookings`).WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Create(ctx, newTestBooking())
		assert.ErrorIs(t, err, bookingDomain.ErrBookingAlreadyExists)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})
}

func TestPostgreSQLBookingRepository_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_WithRoomsInOrder", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLBookingRepository(db)
		booking := newTestBooking()
		paymentID := uuid.Must(uuid.NewV7())

		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id = \$1`).
			WithArgs(booking.ID).
			WillReturnRows(sqlmock.NewRows(bookingColumns).AddRow(
				booking.ID.String(), booking.CustomerID.String(), booking.CheckInDate, booking.CheckOutDate,
				"DEPOSITED", "PENDING", int64(12000), paymentID.String(), "", nil,
				booking.CreatedAt, booking.UpdatedAt,
			))
		mock.ExpectQuery(`SELECT room_id FROM booking_rooms`).
			WithArgs(booking.ID).
			WillReturnRows(sqlmock.NewRows([]string{"room_id"}).
				AddRow(booking.RoomIDs[0].String()).
				AddRow(booking.RoomIDs[1].String()))

		got, err := repo.Get(ctx, booking.ID)

		require.NoError(t, err)
		assert.Equal(t, booking.ID, got.ID)
		assert.Equal(t, bookingDomain.BookingStatusDeposited, got.Status)
		require.NotNil(t, got.PreviousStatus)
		assert.Equal(t, bookingDomain.BookingStatusPending, *got.PreviousStatus)
		require.NotNil(t, got.DepositAmount)
		assert.Equal(t, int64(12000), *got.DepositAmount)
		require.NotNil(t, got.PaymentID)
		assert.Equal(t, paymentID, *got.PaymentID)
		assert.Nil(t, got.RefundAmount)
		assert.Equal(t, booking.RoomIDs, got.RoomIDs)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLBookingRepository(db)

		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id = \$1 FOR UPDATE`).
			WillReturnError(sql.ErrNoRows)

		got, err := repo.GetForUpdate(ctx, uuid.Must(uuid.NewV7()))
		assert.Nil(t, got)
		assert.ErrorIs(t, err, bookingDomain.ErrBookingNotFound)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestPostgreSQLBookingRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLBookingRepository(db)
		booking := newTestBooking()
		booking.TransitionTo(bookingDomain.BookingStatusDeposited, time.Now().UTC())

		mock.ExpectExec(`UPDATE bookings`).
			WithArgs(booking.Status, booking.PreviousStatus, nil, nil, booking.RefundStatus, nil,
				booking.UpdatedAt, booking.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Update(ctx, booking))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLBookingRepository(db)

		mock.ExpectExec(`UPDATE bookings`).WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(ctx, newTestBooking())
		assert.ErrorIs(t, err, bookingDomain.ErrBookingNotFound)
	})

	t.Run("Error_DatabaseError", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLBookingRepository(db)
		dbErr := errors.New("connection reset")

		mock.ExpectExec(`UPDATE bookings`).WillReturnError(dbErr)

		assert.ErrorIs(t, repo.Update(ctx, newTestBooking()), dbErr)
	})
}
