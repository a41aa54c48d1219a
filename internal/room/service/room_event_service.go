package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	roomDomain "github.com/giangnd99/hotel-management-sub003/internal/room/domain"
)

type roomEventService struct{}

// NewRoomEventService creates a new RoomEventService.
func NewRoomEventService() RoomEventService {
	return &roomEventService{}
}

func (s *roomEventService) Reserve(
	room *roomDomain.Room,
	bookingID uuid.UUID,
	deposit int64,
	now time.Time,
) (*roomDomain.CostItem, error) {
	if room.Status != roomDomain.RoomStatusVacant {
		return nil, fmt.Errorf("%w: room %s is %s", roomDomain.ErrRoomNotAvailable, room.Number, room.Status)
	}

	room.Status = roomDomain.RoomStatusBooked
	room.BookingID = &bookingID
	room.UpdatedAt = now

	return &roomDomain.CostItem{
		ID:        uuid.Must(uuid.NewV7()),
		RoomID:    room.ID,
		BookingID: bookingID,
		Kind:      roomDomain.CostItemKindDeposit,
		Amount:    deposit,
		CreatedAt: now,
	}, nil
}

func (s *roomEventService) CheckIn(room *roomDomain.Room, bookingID uuid.UUID, now time.Time) error {
	if room.Status != roomDomain.RoomStatusBooked || !room.HeldBy(bookingID) {
		return fmt.Errorf("%w: room %s is %s", roomDomain.ErrRoomNotReserved, room.Number, room.Status)
	}

	room.Status = roomDomain.RoomStatusOccupied
	room.UpdatedAt = now
	return nil
}

func (s *roomEventService) Release(room *roomDomain.Room, bookingID uuid.UUID, now time.Time) bool {
	if !room.HeldBy(bookingID) {
		return false
	}

	room.Status = roomDomain.RoomStatusVacant
	room.BookingID = nil
	room.UpdatedAt = now
	return true
}

func (s *roomEventService) SplitDeposit(amount int64, n int) []int64 {
	if n <= 0 {
		return nil
	}

	shares := make([]int64, n)
	base := amount / int64(n)
	remainder := amount % int64(n)
	for i := range shares {
		shares[i] = base
		if int64(i) < remainder {
			shares[i]++
		}
	}
	return shares
}
