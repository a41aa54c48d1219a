package messaging

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Handler processes one message payload. A nil error commits the delivery.
type Handler func(ctx context.Context, payload []byte) error

// WorkerConfig holds consumer worker configuration.
type WorkerConfig struct {
	Topics       []string
	BatchSize    int
	Concurrency  int
	RetryBackoff time.Duration
}

// Worker pulls batches from a Consumer and feeds them to a Handler. Deliveries
// with different keys are handled concurrently; deliveries sharing a key are
// handled one after the other in arrival order. When one fails, it and every
// later delivery of the same key in the batch are handed back uncommitted.
type Worker struct {
	config   WorkerConfig
	consumer Consumer
	handler  Handler
	logger   *slog.Logger
}

// NewWorker creates a new Worker.
func NewWorker(config WorkerConfig, consumer Consumer, handler Handler, logger *slog.Logger) *Worker {
	if config.BatchSize <= 0 {
		config.BatchSize = 10
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}
	if config.RetryBackoff <= 0 {
		config.RetryBackoff = time.Second
	}
	return &Worker{
		config:   config,
		consumer: consumer,
		handler:  handler,
		logger:   logger,
	}
}

// Start consumes every configured topic until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("starting consumer worker",
		slog.Any("topics", w.config.Topics),
		slog.Int("batch_size", w.config.BatchSize),
		slog.Int("concurrency", w.config.Concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, topic := range w.config.Topics {
		g.Go(func() error {
			return w.consume(gctx, topic)
		})
	}

	err := g.Wait()
	w.logger.Info("stopping consumer worker")
	return err
}

func (w *Worker) consume(ctx context.Context, topic string) error {
	for {
		deliveries, err := w.consumer.Receive(ctx, topic, w.config.BatchSize)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, ErrGatewayClosed) {
				return err
			}
			w.logger.Error("failed to receive messages", slog.String("topic", topic), slog.Any("error", err))
			if !sleep(ctx, w.config.RetryBackoff) {
				return ctx.Err()
			}
			continue
		}

		if failed := w.ProcessBatch(ctx, deliveries); failed > 0 {
			if !sleep(ctx, w.config.RetryBackoff) {
				return ctx.Err()
			}
		}
	}
}

// ProcessBatch handles one batch and returns how many deliveries were handed back.
func (w *Worker) ProcessBatch(ctx context.Context, deliveries []Delivery) int {
	if len(deliveries) == 0 {
		return 0
	}

	groups := groupByKey(deliveries)
	failed := make([]int, len(groups))

	var g errgroup.Group
	g.SetLimit(w.config.Concurrency)
	for i, group := range groups {
		g.Go(func() error {
			failed[i] = w.processSequence(ctx, group)
			return nil
		})
	}
	_ = g.Wait()

	total := 0
	for _, n := range failed {
		total += n
	}
	return total
}

func (w *Worker) processSequence(ctx context.Context, deliveries []Delivery) int {
	for i, delivery := range deliveries {
		if err := w.handler(ctx, delivery.Payload); err != nil {
			w.logger.Warn("message handling failed, handing back for redelivery",
				slog.String("topic", delivery.Topic),
				slog.String("key", delivery.Key),
				slog.String("offset", delivery.Offset),
				slog.Any("error", err),
			)
			rest := deliveries[i:]
			// Reverse order keeps the original order when the broker requeues at the head.
			for j := len(rest) - 1; j >= 0; j-- {
				if err := rest[j].Nack(ctx); err != nil {
					w.logger.Error("failed to nack delivery",
						slog.String("offset", rest[j].Offset),
						slog.Any("error", err),
					)
				}
			}
			return len(rest)
		}

		if err := delivery.Commit(ctx); err != nil {
			w.logger.Error("failed to commit delivery",
				slog.String("topic", delivery.Topic),
				slog.String("offset", delivery.Offset),
				slog.Any("error", err),
			)
		}
	}
	return 0
}

// groupByKey splits deliveries into per-key sequences, keeping arrival order
// inside each sequence and ordering sequences by their first delivery.
func groupByKey(deliveries []Delivery) [][]Delivery {
	index := make(map[string]int)
	var groups [][]Delivery
	for _, d := range deliveries {
		i, ok := index[d.Key]
		if !ok {
			i = len(groups)
			index[d.Key] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], d)
	}
	return groups
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
