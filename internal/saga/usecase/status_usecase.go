package usecase

import (
	"context"

	"github.com/google/uuid"

	sagaDomain "github.com/giangnd99/hotel-management-sub003/internal/saga/domain"
)

// StatusUseCase reports the outbox records of a saga for operators.
type StatusUseCase struct {
	outboxRepo OutboxRepository
}

// NewStatusUseCase creates a new StatusUseCase.
func NewStatusUseCase(outboxRepo OutboxRepository) *StatusUseCase {
	return &StatusUseCase{outboxRepo: outboxRepo}
}

// List returns every record of the saga ordered by creation time. A saga with no
// records in this service's store yields ErrOutboxMessageNotFound.
func (uc *StatusUseCase) List(ctx context.Context, sagaID uuid.UUID) ([]*sagaDomain.OutboxMessage, error) {
	records, err := uc.outboxRepo.ListBySagaID(ctx, sagaID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, sagaDomain.ErrOutboxMessageNotFound
	}
	return records, nil
}
