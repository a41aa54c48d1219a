package repository

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/giangnd99/hotel-management-sub003/internal/database"
	sagaDomain "github.com/giangnd99/hotel-management-sub003/internal/saga/domain"
)

type outboxKey struct {
	sagaID   uuid.UUID
	stepType sagaDomain.StepType
}

// MemoryOutboxRepository keeps saga outbox records in process memory. Writes made
// inside a database.MemoryTxManager unit of work are reverted when it fails.
type MemoryOutboxRepository struct {
	mu      sync.RWMutex
	records map[outboxKey]*sagaDomain.OutboxMessage
}

// NewMemoryOutboxRepository creates an empty MemoryOutboxRepository.
func NewMemoryOutboxRepository() *MemoryOutboxRepository {
	return &MemoryOutboxRepository{
		records: make(map[outboxKey]*sagaDomain.OutboxMessage),
	}
}

func (r *MemoryOutboxRepository) Save(ctx context.Context, msg *sagaDomain.OutboxMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := outboxKey{sagaID: msg.SagaID, stepType: msg.StepType}
	stored, exists := r.records[key]

	if msg.Version == 0 {
		if exists {
			return sagaDomain.ErrOutboxVersionConflict
		}
		msg.Version = 1
		r.records[key] = clone(msg)
		database.OnRollback(ctx, func() { r.remove(key) })
		return nil
	}

	if !exists || stored.ID != msg.ID || stored.Version != msg.Version {
		return sagaDomain.ErrOutboxVersionConflict
	}

	previous := clone(stored)
	stored.SagaStatus = msg.SagaStatus
	stored.LastError = cloneString(msg.LastError)
	stored.UpdatedAt = msg.UpdatedAt
	stored.Version++
	msg.Version = stored.Version
	database.OnRollback(ctx, func() { r.restore(key, previous) })
	return nil
}

func (r *MemoryOutboxRepository) UpdatePublication(ctx context.Context, msg *sagaDomain.OutboxMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := outboxKey{sagaID: msg.SagaID, stepType: msg.StepType}
	stored, exists := r.records[key]
	if !exists || stored.ID != msg.ID {
		return sagaDomain.ErrOutboxMessageNotFound
	}

	previous := clone(stored)
	stored.OutboxStatus = msg.OutboxStatus
	stored.Retries = msg.Retries
	stored.LastError = cloneString(msg.LastError)
	stored.UpdatedAt = time.Now().UTC()
	database.OnRollback(ctx, func() { r.restore(key, previous) })
	return nil
}

func (r *MemoryOutboxRepository) FindBySagaIDAndStatus(
	ctx context.Context,
	stepType sagaDomain.StepType,
	sagaID uuid.UUID,
	statuses ...sagaDomain.SagaStatus,
) (*sagaDomain.OutboxMessage, error) {
	if err := requireStatuses(statuses); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, exists := r.records[outboxKey{sagaID: sagaID, stepType: stepType}]
	if !exists || !slices.Contains(statuses, stored.SagaStatus) {
		return nil, sagaDomain.ErrOutboxMessageNotFound
	}
	return clone(stored), nil
}

func (r *MemoryOutboxRepository) FindBySagaID(
	ctx context.Context,
	stepType sagaDomain.StepType,
	sagaID uuid.UUID,
) (*sagaDomain.OutboxMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, exists := r.records[outboxKey{sagaID: sagaID, stepType: stepType}]
	if !exists {
		return nil, sagaDomain.ErrOutboxMessageNotFound
	}
	return clone(stored), nil
}

func (r *MemoryOutboxRepository) ListBySagaID(ctx context.Context, sagaID uuid.UUID) ([]*sagaDomain.OutboxMessage, error) {
	return r.filter(func(m *sagaDomain.OutboxMessage) bool { return m.SagaID == sagaID }, byCreatedAt, 0), nil
}

func (r *MemoryOutboxRepository) GetPendingPublication(ctx context.Context, limit int) ([]*sagaDomain.OutboxMessage, error) {
	return r.filter(func(m *sagaDomain.OutboxMessage) bool {
		return m.OutboxStatus == sagaDomain.OutboxStatusStarted
	}, byCreatedAt, limit), nil
}

func (r *MemoryOutboxRepository) GetStale(
	ctx context.Context,
	olderThan time.Time,
	limit int,
) ([]*sagaDomain.OutboxMessage, error) {
	return r.filter(func(m *sagaDomain.OutboxMessage) bool {
		waiting := m.SagaStatus == sagaDomain.SagaStatusStarted || m.SagaStatus == sagaDomain.SagaStatusProcessing
		settled := m.OutboxStatus == sagaDomain.OutboxStatusCompleted || m.OutboxStatus == sagaDomain.OutboxStatusFailed
		return waiting && settled && m.UpdatedAt.Before(olderThan)
	}, byUpdatedAt, limit), nil
}

func (r *MemoryOutboxRepository) filter(
	match func(*sagaDomain.OutboxMessage) bool,
	less func(a, b *sagaDomain.OutboxMessage) bool,
	limit int,
) []*sagaDomain.OutboxMessage {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*sagaDomain.OutboxMessage
	for _, stored := range r.records {
		if match(stored) {
			out = append(out, clone(stored))
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r *MemoryOutboxRepository) remove(key outboxKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, key)
}

func (r *MemoryOutboxRepository) restore(key outboxKey, previous *sagaDomain.OutboxMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[key] = previous
}

func byCreatedAt(a, b *sagaDomain.OutboxMessage) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.ID.String() < b.ID.String()
	}
	return a.CreatedAt.Before(b.CreatedAt)
}

func byUpdatedAt(a, b *sagaDomain.OutboxMessage) bool {
	return a.UpdatedAt.Before(b.UpdatedAt)
}

func clone(msg *sagaDomain.OutboxMessage) *sagaDomain.OutboxMessage {
	c := *msg
	c.Payload = append([]byte(nil), msg.Payload...)
	c.LastError = cloneString(msg.LastError)
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
