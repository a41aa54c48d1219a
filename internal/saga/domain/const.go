// Package domain defines the saga correlation model shared by the booking, room
// and payment services: outbox records, saga and outbox statuses, the message
// envelope and the request/response payloads exchanged between services.
package domain

// SagaStatus is the lifecycle state of one saga step's outbox record.
type SagaStatus string

const (
	SagaStatusStarted      SagaStatus = "STARTED"
	SagaStatusProcessing   SagaStatus = "PROCESSING"
	SagaStatusFinished     SagaStatus = "FINISHED"
	SagaStatusFailed       SagaStatus = "FAILED"
	SagaStatusCompensating SagaStatus = "COMPENSATING"
	SagaStatusCompensated  SagaStatus = "COMPENSATED"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s SagaStatus) IsTerminal() bool {
	return s == SagaStatusFinished || s == SagaStatusCompensated
}

// OutboxStatus tracks whether the record's outbound message was handed to the gateway.
type OutboxStatus string

const (
	OutboxStatusStarted   OutboxStatus = "STARTED"
	OutboxStatusCompleted OutboxStatus = "COMPLETED"
	OutboxStatusFailed    OutboxStatus = "FAILED"
)

// RequestType discriminates the business operation a message belongs to.
type RequestType string

const (
	RequestTypeRoomReservation  RequestType = "ROOM_RESERVATION"
	RequestTypeRoomCheckIn      RequestType = "ROOM_CHECK_IN"
	RequestTypeRoomCancellation RequestType = "ROOM_CANCELLATION"
	RequestTypePaymentRefund    RequestType = "PAYMENT_REFUND"
)

// MessageStatus tells the coordinator whether an envelope is a request for a
// downstream service or a success/failure response for the originating step.
type MessageStatus string

const (
	MessageStatusRequested MessageStatus = "REQUESTED"
	MessageStatusSucceeded MessageStatus = "SUCCEEDED"
	MessageStatusFailed    MessageStatus = "FAILED"
)

// StepType names the owner of an outbox record. At most one non-terminal record
// exists per (saga id, step type).
type StepType string

const (
	// Booking service steps, driven by responses.
	StepBookingRoomReservation StepType = "booking.room_reservation"
	StepBookingRoomCheckIn     StepType = "booking.room_check_in"
	StepBookingCancellation    StepType = "booking.cancellation"
	StepBookingPaymentRefund   StepType = "booking.payment_refund"

	// Downstream request handlers; their records carry the reply.
	StepRoomReservation  StepType = "room.reservation"
	StepRoomCheckIn      StepType = "room.check_in"
	StepRoomCancellation StepType = "room.cancellation"
	StepPaymentRefund    StepType = "payment.refund"
)

// Topics used between the services. Messages are keyed by saga id.
const (
	TopicRoomRequest     = "hotel.room.request"
	TopicRoomResponse    = "hotel.room.response"
	TopicPaymentRequest  = "hotel.payment.request"
	TopicPaymentResponse = "hotel.payment.response"
)
