// Package usecase implements the room service: room management and the request
// handler that reserves, occupies and releases rooms for booking sagas.
package usecase

import (
	"context"

	"github.com/google/uuid"

	roomDomain "github.com/giangnd99/hotel-management-sub003/internal/room/domain"
)

// RoomRepository defines the interface for Room persistence operations.
type RoomRepository interface {
	Create(ctx context.Context, room *roomDomain.Room) error
	Get(ctx context.Context, roomID uuid.UUID) (*roomDomain.Room, error)
	// GetForUpdate reads the room and locks it for the current transaction.
	GetForUpdate(ctx context.Context, roomID uuid.UUID) (*roomDomain.Room, error)
	Update(ctx context.Context, room *roomDomain.Room) error
	AddCostItem(ctx context.Context, item *roomDomain.CostItem) error
	RemoveCostItems(ctx context.Context, roomID, bookingID uuid.UUID, kind roomDomain.CostItemKind) (int64, error)
	ListCostItems(ctx context.Context, roomID uuid.UUID) ([]*roomDomain.CostItem, error)
}

// RoomUseCase defines room management operations.
type RoomUseCase interface {
	Create(ctx context.Context, number string) (*roomDomain.Room, error)
	Get(ctx context.Context, roomID uuid.UUID) (*roomDomain.Room, error)
	ListCostItems(ctx context.Context, roomID uuid.UUID) ([]*roomDomain.CostItem, error)
}
