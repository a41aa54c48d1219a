// Package mocks provides mock implementations of the payment use cases for testing.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	paymentDomain "github.com/giangnd99/hotel-management-sub003/internal/payment/domain"
	paymentUsecase "github.com/giangnd99/hotel-management-sub003/internal/payment/usecase"
)

// MockPaymentUseCase is a mock implementation of PaymentUseCase for testing.
type MockPaymentUseCase struct {
	mock.Mock
}

// RecordDeposit mocks the RecordDeposit method of PaymentUseCase.
func (m *MockPaymentUseCase) RecordDeposit(
	ctx context.Context,
	bookingID uuid.UUID,
	amount int64,
) (*paymentDomain.Payment, error) {
	args := m.Called(ctx, bookingID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentDomain.Payment), args.Error(1)
}

// Get mocks the Get method of PaymentUseCase.
func (m *MockPaymentUseCase) Get(ctx context.Context, paymentID uuid.UUID) (*paymentDomain.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentDomain.Payment), args.Error(1)
}

var _ paymentUsecase.PaymentUseCase = (*MockPaymentUseCase)(nil)
