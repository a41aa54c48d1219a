package domain

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// OutboxMessage is the persisted record of one saga step. It is the idempotency
// gate for the step and, while OutboxStatus is STARTED, the outbound message the
// relay still has to publish to Topic.
type OutboxMessage struct {
	ID           uuid.UUID
	SagaID       uuid.UUID
	ReferenceID  uuid.UUID
	StepType     StepType
	RequestType  RequestType
	Topic        string
	SagaStatus   SagaStatus
	OutboxStatus OutboxStatus
	Payload      []byte
	Retries      int
	LastError    *string
	Version      int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

var sagaTransitions = map[SagaStatus][]SagaStatus{
	SagaStatusStarted:      {SagaStatusProcessing},
	SagaStatusProcessing:   {SagaStatusFinished, SagaStatusFailed},
	SagaStatusFailed:       {SagaStatusCompensating},
	SagaStatusCompensating: {SagaStatusCompensated},
}

// CanTransition reports whether the state machine allows from -> to.
func CanTransition(from, to SagaStatus) bool {
	return slices.Contains(sagaTransitions[from], to)
}

// NewOutboxMessage creates a STARTED record whose payload is published to topic
// as an envelope with the given status.
func NewOutboxMessage(
	sagaID uuid.UUID,
	referenceID uuid.UUID,
	stepType StepType,
	requestType RequestType,
	topic string,
	status MessageStatus,
	payload any,
) (*OutboxMessage, error) {
	envelope, err := NewEnvelope(sagaID, referenceID, requestType, status, payload)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope: %w", err)
	}

	now := time.Now().UTC()
	return &OutboxMessage{
		ID:           uuid.Must(uuid.NewV7()),
		SagaID:       sagaID,
		ReferenceID:  referenceID,
		StepType:     stepType,
		RequestType:  requestType,
		Topic:        topic,
		SagaStatus:   SagaStatusStarted,
		OutboxStatus: OutboxStatusStarted,
		Payload:      data,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Advance walks the record through the given statuses in order. Nothing is
// changed when any hop is not allowed.
func (m *OutboxMessage) Advance(path ...SagaStatus) error {
	current := m.SagaStatus
	for _, next := range path {
		if !CanTransition(current, next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, next)
		}
		current = next
	}
	m.SagaStatus = current
	m.UpdatedAt = time.Now().UTC()
	return nil
}

// Envelope decodes the stored payload.
func (m *OutboxMessage) Envelope() (*Envelope, error) {
	return DecodeEnvelope(m.Payload)
}
