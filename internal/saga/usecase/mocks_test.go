package usecase

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	sagaDomain "github.com/giangnd99/hotel-management-sub003/internal/saga/domain"
)

// MockTxManager is a mock implementation of database.TxManager
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Get(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

// MockOutboxRepository is a mock implementation of OutboxRepository
type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) Save(ctx context.Context, msg *sagaDomain.OutboxMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockOutboxRepository) UpdatePublication(ctx context.Context, msg *sagaDomain.OutboxMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockOutboxRepository) FindBySagaIDAndStatus(
	ctx context.Context,
	stepType sagaDomain.StepType,
	sagaID uuid.UUID,
	statuses ...sagaDomain.SagaStatus,
) (*sagaDomain.OutboxMessage, error) {
	args := m.Called(ctx, stepType, sagaID, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sagaDomain.OutboxMessage), args.Error(1)
}

func (m *MockOutboxRepository) FindBySagaID(
	ctx context.Context,
	stepType sagaDomain.StepType,
	sagaID uuid.UUID,
) (*sagaDomain.OutboxMessage, error) {
	args := m.Called(ctx, stepType, sagaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sagaDomain.OutboxMessage), args.Error(1)
}

func (m *MockOutboxRepository) ListBySagaID(ctx context.Context, sagaID uuid.UUID) ([]*sagaDomain.OutboxMessage, error) {
	args := m.Called(ctx, sagaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*sagaDomain.OutboxMessage), args.Error(1)
}

func (m *MockOutboxRepository) GetPendingPublication(ctx context.Context, limit int) ([]*sagaDomain.OutboxMessage, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*sagaDomain.OutboxMessage), args.Error(1)
}

func (m *MockOutboxRepository) GetStale(
	ctx context.Context,
	olderThan time.Time,
	limit int,
) ([]*sagaDomain.OutboxMessage, error) {
	args := m.Called(ctx, olderThan, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*sagaDomain.OutboxMessage), args.Error(1)
}

// MockPublisher is a mock implementation of Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, topic, key string, payload []byte) error {
	args := m.Called(ctx, topic, key, payload)
	return args.Error(0)
}

// MockStep is a mock implementation of Step
type MockStep[P any] struct {
	mock.Mock
}

func (m *MockStep[P]) Process(ctx context.Context, msg Message[P]) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockStep[P]) Rollback(ctx context.Context, msg Message[P]) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockRequestHandler is a mock implementation of RequestHandler
type MockRequestHandler[P any] struct {
	mock.Mock
}

func (m *MockRequestHandler[P]) Handle(ctx context.Context, msg Message[P]) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newRoomReservationRecord(t *testing.T) *sagaDomain.OutboxMessage {
	t.Helper()
	msg, err := sagaDomain.NewOutboxMessage(
		uuid.Must(uuid.NewV7()),
		uuid.Must(uuid.NewV7()),
		sagaDomain.StepBookingRoomReservation,
		sagaDomain.RequestTypeRoomReservation,
		sagaDomain.TopicRoomRequest,
		sagaDomain.MessageStatusRequested,
		sagaDomain.RoomRequest{DepositAmount: 12000},
	)
	require.NoError(t, err)
	return msg
}
