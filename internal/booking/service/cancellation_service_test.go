package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingDomain "github.com/giangnd99/hotel-management-sub003/internal/booking/domain"
	apperrors "github.com/giangnd99/hotel-management-sub003/internal/errors"
)

var today = time.Date(2026, time.March, 10, 15, 30, 0, 0, time.UTC)

func bookingCheckingInOn(status bookingDomain.BookingStatus, checkIn time.Time) *bookingDomain.Booking {
	return &bookingDomain.Booking{
		ID:           uuid.Must(uuid.NewV7()),
		CustomerID:   uuid.Must(uuid.NewV7()),
		RoomIDs:      []uuid.UUID{uuid.Must(uuid.NewV7())},
		CheckInDate:  checkIn,
		CheckOutDate: checkIn.AddDate(0, 0, 2),
		Status:       status,
	}
}

func TestDaysUntil(t *testing.T) {
	tests := []struct {
		name     string
		date     time.Time
		expected int
	}{
		{name: "SameDay", date: today.Add(-10 * time.Hour), expected: 0},
		{name: "TomorrowJustAfterMidnight", date: time.Date(2026, time.March, 11, 0, 5, 0, 0, time.UTC), expected: 1},
		{name: "TwoDaysAhead", date: today.AddDate(0, 0, 2), expected: 2},
		{name: "Past", date: today.AddDate(0, 0, -3), expected: -3},
		{
			name:     "OtherTimezoneNormalizedToUTC",
			date:     time.Date(2026, time.March, 12, 23, 0, 0, 0, time.FixedZone("UTC-5", -5*3600)),
			expected: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DaysUntil(tt.date, today))
		})
	}
}

func TestCancellationService_IsRefundable(t *testing.T) {
	svc := NewCancellationService()

	tests := []struct {
		name     string
		checkIn  time.Time
		expected bool
	}{
		{name: "Success_TwoDaysBefore", checkIn: today.AddDate(0, 0, 2), expected: true},
		{name: "Success_TenDaysBefore", checkIn: today.AddDate(0, 0, 10), expected: true},
		{name: "Failure_OneDayBefore", checkIn: today.AddDate(0, 0, 1), expected: false},
		{name: "Failure_SameDay", checkIn: today, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := bookingCheckingInOn(bookingDomain.BookingStatusConfirmed, tt.checkIn)
			assert.Equal(t, tt.expected, svc.IsRefundable(booking, today))
		})
	}
}

func TestCancellationService_CheckCancellable(t *testing.T) {
	svc := NewCancellationService()

	tests := []struct {
		name        string
		status      bookingDomain.BookingStatus
		checkIn     time.Time
		expectedErr bool
	}{
		{name: "Success_Pending", status: bookingDomain.BookingStatusPending, checkIn: today},
		{name: "Success_Confirmed", status: bookingDomain.BookingStatusConfirmed, checkIn: today},
		{name: "Success_PaidBeforeCheckIn", status: bookingDomain.BookingStatusPaid, checkIn: today.AddDate(0, 0, 1)},
		{name: "Error_PaidOnCheckInDate", status: bookingDomain.BookingStatusPaid, checkIn: today, expectedErr: true},
		{
			name:        "Error_PaidAfterCheckInDate",
			status:      bookingDomain.BookingStatusPaid,
			checkIn:     today.AddDate(0, 0, -1),
			expectedErr: true,
		},
		{name: "Error_Cancelled", status: bookingDomain.BookingStatusCancelled, checkIn: today.AddDate(0, 0, 5), expectedErr: true},
		{name: "Error_CheckedOut", status: bookingDomain.BookingStatusCheckedOut, checkIn: today.AddDate(0, 0, -5), expectedErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.CheckCancellable(bookingCheckingInOn(tt.status, tt.checkIn), today)
			if tt.expectedErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, bookingDomain.ErrBookingNotCancellable)
				assert.ErrorIs(t, err, apperrors.ErrBusinessRule)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCancellationService_Cancel(t *testing.T) {
	svc := NewCancellationService()

	t.Run("Success_RefundableCancellation", func(t *testing.T) {
		booking := bookingCheckingInOn(bookingDomain.BookingStatusConfirmed, today.AddDate(0, 0, 2))

		event, err := svc.Cancel(booking, "change of plans", today)

		require.NoError(t, err)
		assert.Equal(t, bookingDomain.BookingStatusCancelled, booking.Status)
		assert.Same(t, booking, event.Booking)
		assert.Equal(t, "change of plans", event.Reason)
		assert.True(t, event.Refundable)
		assert.Equal(t, today, event.OccurredAt)
	})

	t.Run("Success_LateCancellationNotRefundable", func(t *testing.T) {
		booking := bookingCheckingInOn(bookingDomain.BookingStatusConfirmed, today.AddDate(0, 0, 1))

		event, err := svc.Cancel(booking, "late", today)

		require.NoError(t, err)
		assert.False(t, event.Refundable)
	})

	t.Run("Error_AlreadyCancelled", func(t *testing.T) {
		booking := bookingCheckingInOn(bookingDomain.BookingStatusCancelled, today.AddDate(0, 0, 3))

		event, err := svc.Cancel(booking, "again", today)

		assert.Nil(t, event)
		assert.ErrorIs(t, err, bookingDomain.ErrBookingNotCancellable)
	})
}
