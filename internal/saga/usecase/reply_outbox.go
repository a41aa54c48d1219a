package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/giangnd99/hotel-management-sub003/internal/errors"
	sagaDomain "github.com/giangnd99/hotel-management-sub003/internal/saga/domain"
)

// Reply is the response a downstream request handler records for the relay to
// publish back to the originating service.
type Reply struct {
	SagaID          uuid.UUID
	ReferenceID     uuid.UUID
	StepType        sagaDomain.StepType
	RequestType     sagaDomain.RequestType
	Topic           string
	Status          sagaDomain.MessageStatus
	Payload         any
	FailureMessages []string
}

// ReplyOutbox lets downstream request handlers use their own reply records as
// an inbox: a request whose reply already exists is a duplicate.
type ReplyOutbox struct {
	outboxRepo OutboxRepository
}

// NewReplyOutbox creates a new ReplyOutbox.
func NewReplyOutbox(outboxRepo OutboxRepository) *ReplyOutbox {
	return &ReplyOutbox{outboxRepo: outboxRepo}
}

// EnsureUnhandled returns ErrStepAlreadyHandled when a reply was already
// recorded for the saga.
func (r *ReplyOutbox) EnsureUnhandled(ctx context.Context, stepType sagaDomain.StepType, sagaID uuid.UUID) error {
	_, err := r.outboxRepo.FindBySagaID(ctx, stepType, sagaID)
	switch {
	case err == nil:
		return sagaDomain.ErrStepAlreadyHandled
	case apperrors.Is(err, sagaDomain.ErrOutboxMessageNotFound):
		return nil
	default:
		return err
	}
}

// Record stores the reply concluded as FINISHED, or FAILED for failure replies.
// Losing the insert race to a concurrent delivery yields ErrStepAlreadyHandled.
func (r *ReplyOutbox) Record(ctx context.Context, reply Reply) error {
	record, err := sagaDomain.NewOutboxMessage(reply.SagaID, reply.ReferenceID, reply.StepType,
		reply.RequestType, reply.Topic, reply.Status, reply.Payload)
	if err != nil {
		return err
	}

	outcome := sagaDomain.SagaStatusFinished
	if reply.Status == sagaDomain.MessageStatusFailed {
		outcome = sagaDomain.SagaStatusFailed
		if len(reply.FailureMessages) > 0 {
			text := strings.Join(reply.FailureMessages, "; ")
			record.LastError = &text
		}
	}
	if err := record.Advance(sagaDomain.SagaStatusProcessing, outcome); err != nil {
		return err
	}

	if err := r.outboxRepo.Save(ctx, record); err != nil {
		if apperrors.Is(err, sagaDomain.ErrOutboxVersionConflict) {
			return sagaDomain.ErrStepAlreadyHandled
		}
		return err
	}
	return nil
}
