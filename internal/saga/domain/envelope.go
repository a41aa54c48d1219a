package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	appValidation "github.com/giangnd99/hotel-management-sub003/internal/validation"
)

// Envelope is the logical message shape exchanged between services. Every hop of
// a saga carries the same SagaID.
type Envelope struct {
	ID          uuid.UUID       `json:"id"`
	SagaID      uuid.UUID       `json:"saga_id"`
	ReferenceID uuid.UUID       `json:"reference_id"`
	RequestType RequestType     `json:"request_type"`
	Status      MessageStatus   `json:"status"`
	Payload     json.RawMessage `json:"payload"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewEnvelope marshals payload into a new envelope.
func NewEnvelope(
	sagaID uuid.UUID,
	referenceID uuid.UUID,
	requestType RequestType,
	status MessageStatus,
	payload any,
) (*Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", requestType, err)
	}

	return &Envelope{
		ID:          uuid.Must(uuid.NewV7()),
		SagaID:      sagaID,
		ReferenceID: referenceID,
		RequestType: requestType,
		Status:      status,
		Payload:     data,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// DecodeEnvelope unmarshals and validates a raw message.
func DecodeEnvelope(data []byte) (*Envelope, error) {
	var envelope Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	if err := envelope.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	return &envelope, nil
}

// Validate checks the correlation fields and discriminators.
func (e *Envelope) Validate() error {
	return validation.ValidateStruct(e,
		validation.Field(&e.SagaID, appValidation.NotNilUUID),
		validation.Field(&e.ReferenceID, appValidation.NotNilUUID),
		validation.Field(&e.RequestType,
			validation.Required,
			validation.In(
				RequestTypeRoomReservation,
				RequestTypeRoomCheckIn,
				RequestTypeRoomCancellation,
				RequestTypePaymentRefund,
			),
		),
		validation.Field(&e.Status,
			validation.Required,
			validation.In(MessageStatusRequested, MessageStatusSucceeded, MessageStatusFailed),
		),
	)
}

// DecodePayload unmarshals the envelope payload into v.
func (e *Envelope) DecodePayload(v any) error {
	if len(e.Payload) == 0 || string(e.Payload) == "null" {
		return nil
	}
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("%w: %s payload: %v", ErrInvalidEnvelope, e.RequestType, err)
	}
	return nil
}

// Marshal encodes the envelope for the gateway.
func (e *Envelope) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
