package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	bookingDomain "github.com/giangnd99/hotel-management-sub003/internal/booking/domain"
	"github.com/giangnd99/hotel-management-sub003/internal/metrics"
)

const metricsDomain = "booking"

// bookingUseCaseWithMetrics decorates BookingUseCase with metrics instrumentation.
type bookingUseCaseWithMetrics struct {
	next    BookingUseCase
	metrics metrics.BusinessMetrics
}

// NewBookingUseCaseWithMetrics wraps a BookingUseCase with metrics recording.
func NewBookingUseCaseWithMetrics(useCase BookingUseCase, m metrics.BusinessMetrics) BookingUseCase {
	return &bookingUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (b *bookingUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	b.metrics.RecordOperation(ctx, metricsDomain, operation, status)
	b.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

// Create records metrics for booking creation.
func (b *bookingUseCaseWithMetrics) Create(
	ctx context.Context,
	input CreateBookingInput,
) (*bookingDomain.Booking, error) {
	start := time.Now()
	booking, err := b.next.Create(ctx, input)
	b.record(ctx, "booking_create", start, err)
	return booking, err
}

// Get records metrics for booking retrieval.
func (b *bookingUseCaseWithMetrics) Get(ctx context.Context, bookingID uuid.UUID) (*bookingDomain.Booking, error) {
	start := time.Now()
	booking, err := b.next.Get(ctx, bookingID)
	b.record(ctx, "booking_get", start, err)
	return booking, err
}

// ConfirmDeposit records metrics for opening a room reservation saga.
func (b *bookingUseCaseWithMetrics) ConfirmDeposit(
	ctx context.Context,
	bookingID, paymentID uuid.UUID,
	amount int64,
) (uuid.UUID, error) {
	start := time.Now()
	sagaID, err := b.next.ConfirmDeposit(ctx, bookingID, paymentID, amount)
	b.record(ctx, "booking_deposit", start, err)
	return sagaID, err
}

// CheckIn records metrics for opening a room check-in saga.
func (b *bookingUseCaseWithMetrics) CheckIn(ctx context.Context, bookingID uuid.UUID) (uuid.UUID, error) {
	start := time.Now()
	sagaID, err := b.next.CheckIn(ctx, bookingID)
	b.record(ctx, "booking_check_in", start, err)
	return sagaID, err
}

// RequestCancellation records metrics for opening a cancellation saga.
func (b *bookingUseCaseWithMetrics) RequestCancellation(
	ctx context.Context,
	bookingID uuid.UUID,
	reason string,
) (uuid.UUID, error) {
	start := time.Now()
	sagaID, err := b.next.RequestCancellation(ctx, bookingID, reason)
	b.record(ctx, "booking_cancel", start, err)
	return sagaID, err
}
