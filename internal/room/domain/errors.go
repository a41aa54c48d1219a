package domain

import (
	"github.com/giangnd99/hotel-management-sub003/internal/errors"
)

// Room errors.
var (
	// ErrRoomNotFound indicates the room does not exist.
	ErrRoomNotFound = errors.Wrap(errors.ErrNotFound, "room not found")

	// ErrRoomAlreadyExists indicates a room with the same number already exists.
	ErrRoomAlreadyExists = errors.Wrap(errors.ErrConflict, "room already exists")

	// ErrRoomNotAvailable indicates the room cannot be reserved.
	ErrRoomNotAvailable = errors.Wrap(errors.ErrBusinessRule, "room is not available")

	// ErrRoomNotReserved indicates the room is not booked by the booking checking in.
	ErrRoomNotReserved = errors.Wrap(errors.ErrBusinessRule, "room is not reserved for booking")

	// ErrNoRooms indicates a request named no rooms.
	ErrNoRooms = errors.Wrap(errors.ErrBusinessRule, "request names no rooms")
)
