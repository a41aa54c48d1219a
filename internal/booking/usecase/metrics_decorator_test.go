package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	bookingUsecase "github.com/giangnd99/hotel-management-sub003/internal/booking/usecase"
	"github.com/giangnd99/hotel-management-sub003/internal/booking/usecase/mocks"
	"github.com/giangnd99/hotel-management-sub003/internal/metrics"
)

// mockBusinessMetrics is a mock implementation of metrics.BusinessMetrics for testing.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

func (m *mockBusinessMetrics) RecordBatch(ctx context.Context, domain, operation string, size int) {
	m.Called(ctx, domain, operation, size)
}

var _ metrics.BusinessMetrics = (*mockBusinessMetrics)(nil)

func TestNewBookingUseCaseWithMetrics(t *testing.T) {
	decorator := bookingUsecase.NewBookingUseCaseWithMetrics(&mocks.MockBookingUseCase{}, &mockBusinessMetrics{})

	assert.NotNil(t, decorator)
	assert.Implements(t, (*bookingUsecase.BookingUseCase)(nil), decorator)
}

func TestMetricsDecorator_ConfirmDeposit(t *testing.T) {
	ctx := context.Background()
	bookingID := uuid.Must(uuid.NewV7())
	paymentID := uuid.Must(uuid.NewV7())

	t.Run("Success_RecordsSuccessMetrics", func(t *testing.T) {
		mockUseCase := &mocks.MockBookingUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		sagaID := uuid.Must(uuid.NewV7())

		mockUseCase.On("ConfirmDeposit", ctx, bookingID, paymentID, int64(500)).Return(sagaID, nil)
		mockMetrics.On("RecordOperation", ctx, "booking", "booking_deposit", "success").Return()
		mockMetrics.On("RecordDuration", ctx, "booking", "booking_deposit", mock.AnythingOfType("time.Duration"), "success").
			Return()

		decorator := bookingUsecase.NewBookingUseCaseWithMetrics(mockUseCase, mockMetrics)
		got, err := decorator.ConfirmDeposit(ctx, bookingID, paymentID, 500)

		assert.NoError(t, err)
		assert.Equal(t, sagaID, got)
		mockUseCase.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Error_RecordsErrorMetrics", func(t *testing.T) {
		mockUseCase := &mocks.MockBookingUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		useCaseErr := errors.New("booking locked")

		mockUseCase.On("ConfirmDeposit", ctx, bookingID, paymentID, int64(500)).Return(uuid.Nil, useCaseErr)
		mockMetrics.On("RecordOperation", ctx, "booking", "booking_deposit", "error").Return()
		mockMetrics.On("RecordDuration", ctx, "booking", "booking_deposit", mock.AnythingOfType("time.Duration"), "error").
			Return()

		decorator := bookingUsecase.NewBookingUseCaseWithMetrics(mockUseCase, mockMetrics)
		_, err := decorator.ConfirmDeposit(ctx, bookingID, paymentID, 500)

		assert.ErrorIs(t, err, useCaseErr)
		mockMetrics.AssertExpectations(t)
	})
}

func TestMetricsDecorator_RequestCancellation(t *testing.T) {
	ctx := context.Background()
	bookingID := uuid.Must(uuid.NewV7())
	mockUseCase := &mocks.MockBookingUseCase{}
	mockMetrics := &mockBusinessMetrics{}

	mockUseCase.On("RequestCancellation", ctx, bookingID, "sick").Return(uuid.Must(uuid.NewV7()), nil)
	mockMetrics.On("RecordOperation", ctx, "booking", "booking_cancel", "success").Return()
	mockMetrics.On("RecordDuration", ctx, "booking", "booking_cancel", mock.AnythingOfType("time.Duration"), "success").
		Return()

	decorator := bookingUsecase.NewBookingUseCaseWithMetrics(mockUseCase, mockMetrics)
	_, err := decorator.RequestCancellation(ctx, bookingID, "sick")

	assert.NoError(t, err)
	mockMetrics.AssertExpectations(t)
}
