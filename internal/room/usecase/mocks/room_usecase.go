// Package mocks provides mock implementations of the room use cases for testing.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	roomDomain "github.com/giangnd99/hotel-management-sub003/internal/room/domain"
	roomUsecase "github.com/giangnd99/hotel-management-sub003/internal/room/usecase"
)

// MockRoomUseCase is a mock implementation of RoomUseCase for testing.
type MockRoomUseCase struct {
	mock.Mock
}

// Create mocks the Create method of RoomUseCase.
func (m *MockRoomUseCase) Create(ctx context.Context, number string) (*roomDomain.Room, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*roomDomain.Room), args.Error(1)
}

// Get mocks the Get method of RoomUseCase.
func (m *MockRoomUseCase) Get(ctx context.Context, roomID uuid.UUID) (*roomDomain.Room, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*roomDomain.Room), args.Error(1)
}

// ListCostItems mocks the ListCostItems method of RoomUseCase.
func (m *MockRoomUseCase) ListCostItems(ctx context.Context, roomID uuid.UUID) ([]*roomDomain.CostItem, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*roomDomain.CostItem), args.Error(1)
}

var _ roomUsecase.RoomUseCase = (*MockRoomUseCase)(nil)
