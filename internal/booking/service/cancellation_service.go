package service

import (
	"fmt"
	"time"

	bookingDomain "github.com/giangnd99/hotel-management-sub003/internal/booking/domain"
)

const refundableDaysThreshold = 1

type cancellationService struct{}

// NewCancellationService creates a new CancellationService.
func NewCancellationService() CancellationService {
	return &cancellationService{}
}

func (s *cancellationService) CheckCancellable(booking *bookingDomain.Booking, now time.Time) error {
	switch booking.Status {
	case bookingDomain.BookingStatusCancelled, bookingDomain.BookingStatusCheckedOut:
		return fmt.Errorf("%w: booking %s is %s", bookingDomain.ErrBookingNotCancellable, booking.ID, booking.Status)
	case bookingDomain.BookingStatusPaid:
		if DaysUntil(booking.CheckInDate, now) <= 0 {
			return fmt.Errorf("%w: booking %s is paid and check-in date %s has been reached",
				bookingDomain.ErrBookingNotCancellable, booking.ID, booking.CheckInDate.UTC().Format(time.DateOnly))
		}
	}
	return nil
}

func (s *cancellationService) IsRefundable(booking *bookingDomain.Booking, now time.Time) bool {
	return DaysUntil(booking.CheckInDate, now) > refundableDaysThreshold
}

func (s *cancellationService) Cancel(
	booking *bookingDomain.Booking,
	reason string,
	now time.Time,
) (*bookingDomain.BookingCancelledEvent, error) {
	if err := s.CheckCancellable(booking, now); err != nil {
		return nil, err
	}

	refundable := s.IsRefundable(booking, now)
	booking.Status = bookingDomain.BookingStatusCancelled
	booking.PreviousStatus = nil
	booking.UpdatedAt = now

	return &bookingDomain.BookingCancelledEvent{
		Booking:    booking,
		Reason:     reason,
		Refundable: refundable,
		OccurredAt: now,
	}, nil
}

// DaysUntil returns the number of calendar days in UTC from now to date.
func DaysUntil(date, now time.Time) int {
	d := truncateToDay(date)
	n := truncateToDay(now)
	return int(d.Sub(n).Hours() / 24)
}

func truncateToDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
