// Package usecase implements the saga coordination engine: the outbox gate every
// step starts with, the coordinator that routes inbound messages to steps, the
// relay that publishes pending outbox records and the stale saga reaper.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	sagaDomain "github.com/giangnd99/hotel-management-sub003/internal/saga/domain"
)

// OutboxRepository defines persistence operations for saga outbox records.
// Implementations must support transaction-aware operations via context propagation.
type OutboxRepository interface {
	// Save inserts a record with Version 0 and otherwise updates its saga columns
	// when the stored version still matches. Returns ErrOutboxVersionConflict when
	// another unit of work advanced the record first. Save increments Version.
	Save(ctx context.Context, msg *sagaDomain.OutboxMessage) error

	// UpdatePublication persists OutboxStatus, Retries and LastError only.
	UpdatePublication(ctx context.Context, msg *sagaDomain.OutboxMessage) error

	// FindBySagaIDAndStatus returns the step's record when its saga status is one
	// of statuses. Returns ErrOutboxMessageNotFound otherwise.
	FindBySagaIDAndStatus(
		ctx context.Context,
		stepType sagaDomain.StepType,
		sagaID uuid.UUID,
		statuses ...sagaDomain.SagaStatus,
	) (*sagaDomain.OutboxMessage, error)

	// FindBySagaID returns the step's record in any status.
	FindBySagaID(ctx context.Context, stepType sagaDomain.StepType, sagaID uuid.UUID) (*sagaDomain.OutboxMessage, error)

	// ListBySagaID returns every record of a saga ordered by creation time.
	ListBySagaID(ctx context.Context, sagaID uuid.UUID) ([]*sagaDomain.OutboxMessage, error)

	// GetPendingPublication returns records whose outbound message is not yet
	// published, locking them for the current transaction where supported.
	GetPendingPublication(ctx context.Context, limit int) ([]*sagaDomain.OutboxMessage, error)

	// GetStale returns STARTED or PROCESSING records whose request was published
	// and that were not updated since olderThan.
	GetStale(ctx context.Context, olderThan time.Time, limit int) ([]*sagaDomain.OutboxMessage, error)
}

// Message is an inbound saga message with its payload decoded.
type Message[P any] struct {
	SagaID      uuid.UUID
	ReferenceID uuid.UUID
	RequestType sagaDomain.RequestType
	Status      sagaDomain.MessageStatus
	Payload     P
}

// Step handles the responses for one request type in the originating service.
// Process runs on success responses and Rollback on failure responses. Both must
// return ErrStepAlreadyHandled without side effects when the outbox gate does not
// find the record in the expected status.
type Step[P any] interface {
	Process(ctx context.Context, msg Message[P]) error
	Rollback(ctx context.Context, msg Message[P]) error
}

// RequestHandler performs a downstream service's local work for a request and
// records the reply in its own outbox.
type RequestHandler[P any] interface {
	Handle(ctx context.Context, msg Message[P]) error
}

// Dispatcher routes a decoded envelope.
type Dispatcher interface {
	Dispatch(ctx context.Context, envelope *sagaDomain.Envelope) error
}

// Publisher hands a message to the gateway.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload []byte) error
}
