// Package mocks provides mock implementations of the booking use cases for testing.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	bookingDomain "github.com/giangnd99/hotel-management-sub003/internal/booking/domain"
	bookingUsecase "github.com/giangnd99/hotel-management-sub003/internal/booking/usecase"
)

// MockBookingUseCase is a mock implementation of BookingUseCase for testing.
type MockBookingUseCase struct {
	mock.Mock
}

// Create mocks the Create method of BookingUseCase.
func (m *MockBookingUseCase) Create(
	ctx context.Context,
	input bookingUsecase.CreateBookingInput,
) (*bookingDomain.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookingDomain.Booking), args.Error(1)
}

// Get mocks the Get method of BookingUseCase.
func (m *MockBookingUseCase) Get(ctx context.Context, bookingID uuid.UUID) (*bookingDomain.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookingDomain.Booking), args.Error(1)
}

// ConfirmDeposit mocks the ConfirmDeposit method of BookingUseCase.
func (m *MockBookingUseCase) ConfirmDeposit(
	ctx context.Context,
	bookingID, paymentID uuid.UUID,
	amount int64,
) (uuid.UUID, error) {
	args := m.Called(ctx, bookingID, paymentID, amount)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// CheckIn mocks the CheckIn method of BookingUseCase.
func (m *MockBookingUseCase) CheckIn(ctx context.Context, bookingID uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// RequestCancellation mocks the RequestCancellation method of BookingUseCase.
func (m *MockBookingUseCase) RequestCancellation(
	ctx context.Context,
	bookingID uuid.UUID,
	reason string,
) (uuid.UUID, error) {
	args := m.Called(ctx, bookingID, reason)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

var _ bookingUsecase.BookingUseCase = (*MockBookingUseCase)(nil)
