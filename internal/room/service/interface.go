// Package service provides the room domain service applied by the room request handler.
package service

import (
	"time"

	"github.com/google/uuid"

	roomDomain "github.com/giangnd99/hotel-management-sub003/internal/room/domain"
)

// RoomEventService applies booking events to a single room.
type RoomEventService interface {
	// Reserve books a VACANT room for bookingID and returns the deposit line item
	// to record against it.
	Reserve(room *roomDomain.Room, bookingID uuid.UUID, deposit int64, now time.Time) (*roomDomain.CostItem, error)

	// CheckIn occupies a room booked by bookingID.
	CheckIn(room *roomDomain.Room, bookingID uuid.UUID, now time.Time) error

	// Release frees a room held by bookingID. It reports false when the room is
	// not held by bookingID and was left unchanged.
	Release(room *roomDomain.Room, bookingID uuid.UUID, now time.Time) bool

	// SplitDeposit divides amount across n rooms. The remainder goes to the first rooms.
	SplitDeposit(amount int64, n int) []int64
}
