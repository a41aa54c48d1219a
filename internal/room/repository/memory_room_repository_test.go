package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giangnd99/hotel-management-sub003/internal/database"
	roomDomain "github.com/giangnd99/hotel-management-sub003/internal/room/domain"
)

func depositItem(roomID, bookingID uuid.UUID, amount int64) *roomDomain.CostItem {
	return &roomDomain.CostItem{
		ID:        uuid.Must(uuid.NewV7()),
		RoomID:    roomID,
		BookingID: bookingID,
		Kind:      roomDomain.CostItemKindDeposit,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
}

func TestMemoryRoomRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Error_DuplicateNumber", func(t *testing.T) {
		repo := NewMemoryRoomRepository()
		require.NoError(t, repo.Create(ctx, newTestRoom("101")))

		assert.ErrorIs(t, repo.Create(ctx, newTestRoom("101")), roomDomain.ErrRoomAlreadyExists)
	})

	t.Run("Success_RemoveOnlyBookingItems", func(t *testing.T) {
		repo := NewMemoryRoomRepository()
		room := newTestRoom("102")
		require.NoError(t, repo.Create(ctx, room))
		bookingID := uuid.Must(uuid.NewV7())
		other := uuid.Must(uuid.NewV7())
		require.NoError(t, repo.AddCostItem(ctx, depositItem(room.ID, bookingID, 100)))
		require.NoError(t, repo.AddCostItem(ctx, depositItem(room.ID, other, 200)))

		removed, err := repo.RemoveCostItems(ctx, room.ID, bookingID, roomDomain.CostItemKindDeposit)
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)

		items, err := repo.ListCostItems(ctx, room.ID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, other, items[0].BookingID)
	})

	t.Run("Success_RollbackRevertsRoomAndItems", func(t *testing.T) {
		repo := NewMemoryRoomRepository()
		txManager := database.NewMemoryTxManager()
		room := newTestRoom("103")
		require.NoError(t, repo.Create(ctx, room))
		bookingID := uuid.Must(uuid.NewV7())

		err := txManager.WithTx(ctx, func(txCtx context.Context) error {
			booked := *room
			booked.Status = roomDomain.RoomStatusBooked
			booked.BookingID = &bookingID
			require.NoError(t, repo.Update(txCtx, &booked))
			require.NoError(t, repo.AddCostItem(txCtx, depositItem(room.ID, bookingID, 100)))
			return errors.New("second room failed")
		})
		require.Error(t, err)

		got, err := repo.Get(ctx, room.ID)
		require.NoError(t, err)
		assert.Equal(t, roomDomain.RoomStatusVacant, got.Status)
		assert.Nil(t, got.BookingID)

		items, err := repo.ListCostItems(ctx, room.ID)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}
