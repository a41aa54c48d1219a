package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestBooking(status BookingStatus) *Booking {
	now := time.Now().UTC()
	return &Booking{
		ID:           uuid.Must(uuid.NewV7()),
		CustomerID:   uuid.Must(uuid.NewV7()),
		RoomIDs:      []uuid.UUID{uuid.Must(uuid.NewV7())},
		CheckInDate:  now.AddDate(0, 0, 5),
		CheckOutDate: now.AddDate(0, 0, 7),
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestBooking_TransitionTo(t *testing.T) {
	booking := createTestBooking(BookingStatusPending)
	now := time.Now().UTC()

	booking.TransitionTo(BookingStatusDeposited, now)

	assert.Equal(t, BookingStatusDeposited, booking.Status)
	require.NotNil(t, booking.PreviousStatus)
	assert.Equal(t, BookingStatusPending, *booking.PreviousStatus)
	assert.Equal(t, now, booking.UpdatedAt)
}

func TestBooking_Revert(t *testing.T) {
	t.Run("Success_RestoresPreviousStatus", func(t *testing.T) {
		booking := createTestBooking(BookingStatusConfirmed)
		booking.TransitionTo(BookingStatusCheckedIn, time.Now().UTC())

		assert.True(t, booking.Revert(time.Now().UTC()))
		assert.Equal(t, BookingStatusConfirmed, booking.Status)
		assert.Nil(t, booking.PreviousStatus)
	})

	t.Run("Failure_NothingToRestore", func(t *testing.T) {
		booking := createTestBooking(BookingStatusConfirmed)

		assert.False(t, booking.Revert(time.Now().UTC()))
		assert.Equal(t, BookingStatusConfirmed, booking.Status)
	})
}

func TestBooking_Settle(t *testing.T) {
	booking := createTestBooking(BookingStatusDeposited)
	booking.TransitionTo(BookingStatusConfirmed, time.Now().UTC())

	booking.Settle(time.Now().UTC())

	assert.Equal(t, BookingStatusConfirmed, booking.Status)
	assert.Nil(t, booking.PreviousStatus)
}

func TestBooking_Hold(t *testing.T) {
	booking := createTestBooking(BookingStatusConfirmed)
	assert.False(t, booking.InFlight())

	now := time.Now().UTC()
	booking.Hold(now)

	assert.True(t, booking.InFlight())
	assert.Equal(t, BookingStatusConfirmed, booking.Status)
	require.NotNil(t, booking.PreviousStatus)
	assert.Equal(t, BookingStatusConfirmed, *booking.PreviousStatus)
	assert.Equal(t, now, booking.UpdatedAt)

	assert.True(t, booking.Revert(now))
	assert.False(t, booking.InFlight())
	assert.Equal(t, BookingStatusConfirmed, booking.Status)
}
