package usecase

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/giangnd99/hotel-management-sub003/internal/database"
	"github.com/giangnd99/hotel-management-sub003/internal/metrics"
	sagaDomain "github.com/giangnd99/hotel-management-sub003/internal/saga/domain"
)

// RelayConfig holds outbox relay configuration
type RelayConfig struct {
	Interval     time.Duration
	BatchSize    int
	MaxRetries   int
	PublishRate  float64
	PublishBurst int
}

// RelayUseCase publishes outbox records whose outbound message has not been
// handed to the gateway yet. A record is marked COMPLETED only after the gateway
// accepted it, so a crash in between republishes and consumers deduplicate.
type RelayUseCase struct {
	config     RelayConfig
	txManager  database.TxManager
	outboxRepo OutboxRepository
	publisher  Publisher
	limiter    *rate.Limiter
	metrics    metrics.BusinessMetrics
	logger     *slog.Logger
}

// NewRelayUseCase creates a new RelayUseCase
func NewRelayUseCase(
	config RelayConfig,
	txManager database.TxManager,
	outboxRepo OutboxRepository,
	publisher Publisher,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
) *RelayUseCase {
	limit := rate.Inf
	if config.PublishRate > 0 {
		limit = rate.Limit(config.PublishRate)
	}
	burst := config.PublishBurst
	if burst <= 0 {
		burst = 1
	}
	if businessMetrics == nil {
		businessMetrics = metrics.NewNoOpBusinessMetrics()
	}

	return &RelayUseCase{
		config:     config,
		txManager:  txManager,
		outboxRepo: outboxRepo,
		publisher:  publisher,
		limiter:    rate.NewLimiter(limit, burst),
		metrics:    businessMetrics,
		logger:     logger,
	}
}

// Start runs the relay loop until ctx is cancelled
func (uc *RelayUseCase) Start(ctx context.Context) error {
	uc.logger.Info("starting outbox relay",
		slog.Duration("interval", uc.config.Interval),
		slog.Int("batch_size", uc.config.BatchSize),
	)

	ticker := time.NewTicker(uc.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			uc.logger.Info("stopping outbox relay")
			return ctx.Err()
		case <-ticker.C:
			if _, err := uc.PublishPending(ctx); err != nil {
				uc.logger.Error("failed to publish outbox records", slog.Any("error", err))
			}
		}
	}
}

// PublishPending publishes one batch of pending records in a transaction and
// returns how many were handed to the gateway.
func (uc *RelayUseCase) PublishPending(ctx context.Context) (int, error) {
	published := 0

	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		records, err := uc.outboxRepo.GetPendingPublication(ctx, uc.config.BatchSize)
		if err != nil {
			return err
		}
		uc.metrics.RecordBatch(ctx, metricsDomain, "relay", len(records))

		for _, record := range records {
			if err := uc.limiter.Wait(ctx); err != nil {
				return err
			}

			if err := uc.publish(ctx, record); err != nil {
				uc.logger.Error("failed to publish outbox record",
					slog.String("outbox_id", record.ID.String()),
					slog.String("saga_id", record.SagaID.String()),
					slog.String("topic", record.Topic),
					slog.Any("error", err),
				)

				record.Retries++
				errorMsg := err.Error()
				record.LastError = &errorMsg
				if record.Retries >= uc.config.MaxRetries {
					record.OutboxStatus = sagaDomain.OutboxStatusFailed
				}

				uc.metrics.RecordOperation(ctx, metricsDomain, "relay_publish", outcomeError)
				if err := uc.outboxRepo.UpdatePublication(ctx, record); err != nil {
					return err
				}
				continue
			}

			record.OutboxStatus = sagaDomain.OutboxStatusCompleted
			record.LastError = nil
			if err := uc.outboxRepo.UpdatePublication(ctx, record); err != nil {
				return err
			}
			uc.metrics.RecordOperation(ctx, metricsDomain, "relay_publish", outcomeSuccess)
			published++
		}

		return nil
	})

	return published, err
}

func (uc *RelayUseCase) publish(ctx context.Context, record *sagaDomain.OutboxMessage) error {
	uc.logger.Debug("publishing outbox record",
		slog.String("outbox_id", record.ID.String()),
		slog.String("step_type", string(record.StepType)),
		slog.String("topic", record.Topic),
	)
	return uc.publisher.Publish(ctx, record.Topic, record.SagaID.String(), record.Payload)
}
