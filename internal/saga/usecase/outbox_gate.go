package usecase

import (
	"context"

	"github.com/google/uuid"

	apperrors "github.com/giangnd99/hotel-management-sub003/internal/errors"
	sagaDomain "github.com/giangnd99/hotel-management-sub003/internal/saga/domain"
)

// OutboxGate implements the status-gated lookup that makes steps idempotent and
// mutually exclusive. Only one of two concurrent claims on a record succeeds; the
// other gets ErrStepAlreadyHandled.
type OutboxGate struct {
	outboxRepo OutboxRepository
}

// NewOutboxGate creates a new OutboxGate.
func NewOutboxGate(outboxRepo OutboxRepository) *OutboxGate {
	return &OutboxGate{outboxRepo: outboxRepo}
}

// BeginProcess claims a STARTED record by moving it to PROCESSING.
func (g *OutboxGate) BeginProcess(
	ctx context.Context,
	stepType sagaDomain.StepType,
	sagaID uuid.UUID,
) (*sagaDomain.OutboxMessage, error) {
	msg, err := g.find(ctx, stepType, sagaID, sagaDomain.SagaStatusStarted)
	if err != nil {
		return nil, err
	}
	if err := msg.Advance(sagaDomain.SagaStatusProcessing); err != nil {
		return nil, err
	}
	if err := g.claim(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// BeginRollback claims a STARTED, PROCESSING or FAILED record by moving it to
// COMPENSATING through FAILED.
func (g *OutboxGate) BeginRollback(
	ctx context.Context,
	stepType sagaDomain.StepType,
	sagaID uuid.UUID,
) (*sagaDomain.OutboxMessage, error) {
	msg, err := g.find(ctx, stepType, sagaID,
		sagaDomain.SagaStatusStarted,
		sagaDomain.SagaStatusProcessing,
		sagaDomain.SagaStatusFailed,
	)
	if err != nil {
		return nil, err
	}

	var path []sagaDomain.SagaStatus
	switch msg.SagaStatus {
	case sagaDomain.SagaStatusStarted:
		path = append(path, sagaDomain.SagaStatusProcessing, sagaDomain.SagaStatusFailed)
	case sagaDomain.SagaStatusProcessing:
		path = append(path, sagaDomain.SagaStatusFailed)
	}
	path = append(path, sagaDomain.SagaStatusCompensating)

	if err := msg.Advance(path...); err != nil {
		return nil, err
	}
	if err := g.claim(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Finish moves a claimed record to status and saves it.
func (g *OutboxGate) Finish(ctx context.Context, msg *sagaDomain.OutboxMessage, status sagaDomain.SagaStatus) error {
	if err := msg.Advance(status); err != nil {
		return err
	}
	return g.outboxRepo.Save(ctx, msg)
}

// Fail marks a PROCESSING record FAILED with the reason as its last error.
func (g *OutboxGate) Fail(ctx context.Context, msg *sagaDomain.OutboxMessage, reason error) error {
	text := reason.Error()
	msg.LastError = &text
	return g.Finish(ctx, msg, sagaDomain.SagaStatusFailed)
}

func (g *OutboxGate) find(
	ctx context.Context,
	stepType sagaDomain.StepType,
	sagaID uuid.UUID,
	statuses ...sagaDomain.SagaStatus,
) (*sagaDomain.OutboxMessage, error) {
	msg, err := g.outboxRepo.FindBySagaIDAndStatus(ctx, stepType, sagaID, statuses...)
	if err != nil {
		if apperrors.Is(err, sagaDomain.ErrOutboxMessageNotFound) {
			return nil, sagaDomain.ErrStepAlreadyHandled
		}
		return nil, err
	}
	return msg, nil
}

func (g *OutboxGate) claim(ctx context.Context, msg *sagaDomain.OutboxMessage) error {
	if err := g.outboxRepo.Save(ctx, msg); err != nil {
		if apperrors.Is(err, sagaDomain.ErrOutboxVersionConflict) {
			return sagaDomain.ErrStepAlreadyHandled
		}
		return err
	}
	return nil
}
