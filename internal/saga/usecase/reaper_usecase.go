package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/giangnd99/hotel-management-sub003/internal/database"
	apperrors "github.com/giangnd99/hotel-management-sub003/internal/errors"
	"github.com/giangnd99/hotel-management-sub003/internal/metrics"
	sagaDomain "github.com/giangnd99/hotel-management-sub003/internal/saga/domain"
)

// ReaperConfig holds stale saga reaper configuration.
type ReaperConfig struct {
	Interval   time.Duration
	StaleAfter time.Duration
	BatchSize  int
}

// ReaperUseCase fails saga steps that never received their response and runs
// their compensation. Each stale record is forced to FAILED and a synthetic
// failure response is dispatched through the coordinator in the same unit of
// work, so the owning step's Rollback performs the compensation.
type ReaperUseCase struct {
	config     ReaperConfig
	txManager  database.TxManager
	outboxRepo OutboxRepository
	dispatcher Dispatcher
	metrics    metrics.BusinessMetrics
	logger     *slog.Logger
	clock      func() time.Time
}

// NewReaperUseCase creates a new ReaperUseCase.
func NewReaperUseCase(
	config ReaperConfig,
	txManager database.TxManager,
	outboxRepo OutboxRepository,
	dispatcher Dispatcher,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
) *ReaperUseCase {
	if businessMetrics == nil {
		businessMetrics = metrics.NewNoOpBusinessMetrics()
	}
	return &ReaperUseCase{
		config:     config,
		txManager:  txManager,
		outboxRepo: outboxRepo,
		dispatcher: dispatcher,
		metrics:    businessMetrics,
		logger:     logger,
		clock:      time.Now,
	}
}

// Start runs the reaper loop until ctx is cancelled.
func (uc *ReaperUseCase) Start(ctx context.Context) error {
	uc.logger.Info("starting stale saga reaper",
		slog.Duration("interval", uc.config.Interval),
		slog.Duration("stale_after", uc.config.StaleAfter),
	)

	ticker := time.NewTicker(uc.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			uc.logger.Info("stopping stale saga reaper")
			return ctx.Err()
		case <-ticker.C:
			if _, err := uc.ReapStale(ctx); err != nil {
				uc.logger.Error("failed to reap stale sagas", slog.Any("error", err))
			}
		}
	}
}

// ReapStale compensates one batch of stale records and returns how many were reaped.
func (uc *ReaperUseCase) ReapStale(ctx context.Context) (int, error) {
	olderThan := uc.clock().Add(-uc.config.StaleAfter)

	stale, err := uc.outboxRepo.GetStale(ctx, olderThan, uc.config.BatchSize)
	if err != nil {
		return 0, err
	}
	uc.metrics.RecordBatch(ctx, metricsDomain, "reap", len(stale))

	reaped := 0
	for _, record := range stale {
		err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
			return uc.reap(ctx, record)
		})
		switch {
		case err == nil:
			reaped++
			uc.metrics.RecordOperation(ctx, metricsDomain, "reap", outcomeSuccess)
		case apperrors.Is(err, sagaDomain.ErrOutboxVersionConflict):
			// The response arrived while the batch was being reaped.
			uc.metrics.RecordOperation(ctx, metricsDomain, "reap", outcomeDuplicate)
		default:
			uc.metrics.RecordOperation(ctx, metricsDomain, "reap", outcomeError)
			return reaped, fmt.Errorf("failed to reap outbox record %s: %w", record.ID, err)
		}
	}

	return reaped, nil
}

func (uc *ReaperUseCase) reap(ctx context.Context, record *sagaDomain.OutboxMessage) error {
	path := []sagaDomain.SagaStatus{sagaDomain.SagaStatusFailed}
	if record.SagaStatus == sagaDomain.SagaStatusStarted {
		path = append([]sagaDomain.SagaStatus{sagaDomain.SagaStatusProcessing}, path...)
	}
	if err := record.Advance(path...); err != nil {
		return err
	}

	reason := fmt.Sprintf("no response received within %s", uc.config.StaleAfter)
	record.LastError = &reason
	if err := uc.outboxRepo.Save(ctx, record); err != nil {
		return err
	}

	uc.logger.Warn("reaping stale saga step",
		slog.String("saga_id", record.SagaID.String()),
		slog.String("step_type", string(record.StepType)),
		slog.String("reference_id", record.ReferenceID.String()),
	)

	envelope, err := sagaDomain.NewEnvelope(
		record.SagaID,
		record.ReferenceID,
		record.RequestType,
		sagaDomain.MessageStatusFailed,
		sagaDomain.CompensationPayload{FailureMessages: []string{reason}},
	)
	if err != nil {
		return err
	}
	return uc.dispatcher.Dispatch(ctx, envelope)
}
