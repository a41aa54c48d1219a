package repository

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/giangnd99/hotel-management-sub003/internal/database"
	roomDomain "github.com/giangnd99/hotel-management-sub003/internal/room/domain"
)

// MemoryRoomRepository keeps rooms and cost line items in process memory. Writes
// made inside a database.MemoryTxManager unit of work are reverted when it fails.
type MemoryRoomRepository struct {
	mu        sync.RWMutex
	rooms     map[uuid.UUID]*roomDomain.Room
	costItems map[uuid.UUID][]*roomDomain.CostItem
}

// NewMemoryRoomRepository creates an empty MemoryRoomRepository.
func NewMemoryRoomRepository() *MemoryRoomRepository {
	return &MemoryRoomRepository{
		rooms:     make(map[uuid.UUID]*roomDomain.Room),
		costItems: make(map[uuid.UUID][]*roomDomain.CostItem),
	}
}

func (r *MemoryRoomRepository) Create(ctx context.Context, room *roomDomain.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, stored := range r.rooms {
		if stored.ID == room.ID || stored.Number == room.Number {
			return roomDomain.ErrRoomAlreadyExists
		}
	}
	r.rooms[room.ID] = cloneRoom(room)
	database.OnRollback(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.rooms, room.ID)
	})
	return nil
}

func (r *MemoryRoomRepository) Get(ctx context.Context, roomID uuid.UUID) (*roomDomain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, exists := r.rooms[roomID]
	if !exists {
		return nil, roomDomain.ErrRoomNotFound
	}
	return cloneRoom(stored), nil
}

// GetForUpdate is Get; the memory unit of work already serializes writers.
func (r *MemoryRoomRepository) GetForUpdate(ctx context.Context, roomID uuid.UUID) (*roomDomain.Room, error) {
	return r.Get(ctx, roomID)
}

func (r *MemoryRoomRepository) Update(ctx context.Context, room *roomDomain.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous, exists := r.rooms[room.ID]
	if !exists {
		return roomDomain.ErrRoomNotFound
	}
	r.rooms[room.ID] = cloneRoom(room)
	database.OnRollback(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.rooms[room.ID] = previous
	})
	return nil
}

func (r *MemoryRoomRepository) AddCostItem(ctx context.Context, item *roomDomain.CostItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous := r.costItems[item.RoomID]
	c := *item
	r.costItems[item.RoomID] = append(slices.Clone(previous), &c)
	database.OnRollback(ctx, func() { r.restoreItems(item.RoomID, previous) })
	return nil
}

func (r *MemoryRoomRepository) RemoveCostItems(
	ctx context.Context,
	roomID, bookingID uuid.UUID,
	kind roomDomain.CostItemKind,
) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous := r.costItems[roomID]
	kept := slices.DeleteFunc(slices.Clone(previous), func(item *roomDomain.CostItem) bool {
		return item.BookingID == bookingID && item.Kind == kind
	})
	removed := int64(len(previous) - len(kept))
	if removed == 0 {
		return 0, nil
	}
	r.costItems[roomID] = kept
	database.OnRollback(ctx, func() { r.restoreItems(roomID, previous) })
	return removed, nil
}

func (r *MemoryRoomRepository) ListCostItems(ctx context.Context, roomID uuid.UUID) ([]*roomDomain.CostItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]*roomDomain.CostItem, 0, len(r.costItems[roomID]))
	for _, item := range r.costItems[roomID] {
		c := *item
		items = append(items, &c)
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}

func (r *MemoryRoomRepository) restoreItems(roomID uuid.UUID, items []*roomDomain.CostItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.costItems[roomID] = items
}

func cloneRoom(room *roomDomain.Room) *roomDomain.Room {
	c := *room
	if room.BookingID != nil {
		id := *room.BookingID
		c.BookingID = &id
	}
	return &c
}
