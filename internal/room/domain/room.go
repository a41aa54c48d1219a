// Package domain defines the room aggregate and its cost line items.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// RoomStatus is the occupancy state of a room.
type RoomStatus string

const (
	RoomStatusVacant      RoomStatus = "VACANT"
	RoomStatusBooked      RoomStatus = "BOOKED"
	RoomStatusOccupied    RoomStatus = "OCCUPIED"
	RoomStatusMaintenance RoomStatus = "MAINTENANCE"
)

// CostItemKind classifies a cost line item.
type CostItemKind string

const (
	CostItemKindDeposit CostItemKind = "DEPOSIT"
)

// Room is a bookable hotel room. BookingID is the booking currently holding it.
type Room struct {
	ID        uuid.UUID
	Number    string
	Status    RoomStatus
	BookingID *uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HeldBy reports whether bookingID holds the room.
func (r *Room) HeldBy(bookingID uuid.UUID) bool {
	return r.BookingID != nil && *r.BookingID == bookingID
}

// CostItem is a charge recorded against a room for a booking. Amount is in minor
// currency units.
type CostItem struct {
	ID        uuid.UUID
	RoomID    uuid.UUID
	BookingID uuid.UUID
	Kind      CostItemKind
	Amount    int64
	CreatedAt time.Time
}
