package domain

import (
	"time"

	"github.com/google/uuid"
)

// RoomRequest asks the room service to reserve, check in or release the rooms of
// a booking. DepositAmount is in minor currency units and is split evenly across
// the rooms as a cost line item on reservation. Reason is set on cancellations.
type RoomRequest struct {
	BookingID     uuid.UUID   `json:"booking_id"`
	RoomIDs       []uuid.UUID `json:"room_ids"`
	CheckInDate   time.Time   `json:"check_in_date"`
	DepositAmount int64       `json:"deposit_amount"`
	Reason        string      `json:"reason,omitempty"`
}

// RoomResponse is the single aggregated outcome for the whole room set.
type RoomResponse struct {
	BookingID       uuid.UUID   `json:"booking_id"`
	RoomIDs         []uuid.UUID `json:"room_ids"`
	FailureMessages []string    `json:"failure_messages,omitempty"`
}

// RefundRequest asks the payment service to refund a cancelled booking.
// DepositAmount is nil when the booking never recorded one.
type RefundRequest struct {
	BookingID     uuid.UUID `json:"booking_id"`
	PaymentID     uuid.UUID `json:"payment_id"`
	DepositAmount *int64    `json:"deposit_amount,omitempty"`
	Reason        string    `json:"reason"`
}

// RefundResponse reports the refund outcome back to the booking service.
type RefundResponse struct {
	BookingID       uuid.UUID `json:"booking_id"`
	PaymentID       uuid.UUID `json:"payment_id"`
	RefundAmount    int64     `json:"refund_amount"`
	FailureMessages []string  `json:"failure_messages,omitempty"`
}

// CompensationPayload is carried by the synthetic failure responses the stale
// saga reaper dispatches.
type CompensationPayload struct {
	FailureMessages []string `json:"failure_messages"`
}
