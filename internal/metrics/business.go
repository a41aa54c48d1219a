package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// BusinessMetrics records saga engine activity. Every instrument carries the
// service label of the running process so the booking, room and payment
// services can share one Prometheus job.
type BusinessMetrics interface {
	// RecordOperation counts one handled operation.
	// Domain examples: "saga", "booking", "room", "payment"
	// Operation examples: "room_reservation_succeeded", "relay_publish", "reap"
	// Status examples: "success", "duplicate", "rejected", "error"
	RecordOperation(ctx context.Context, domain, operation, status string)

	// RecordDuration records how long an operation took, in seconds.
	RecordDuration(ctx context.Context, domain, operation string, duration time.Duration, status string)

	// RecordBatch records the size of one relay or reaper batch.
	RecordBatch(ctx context.Context, domain, operation string, size int)
}

type businessMetrics struct {
	service          string
	operationCounter metric.Int64Counter
	durationHisto    metric.Float64Histogram
	batchHisto       metric.Int64Histogram
}

// NewBusinessMetrics creates the OpenTelemetry backed BusinessMetrics.
// Metric names are prefixed with namespace, e.g. "hotel_saga_operations_total".
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace, service string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)

	operationCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_operations_total", namespace),
		metric.WithDescription("Total number of saga operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_operation_duration_seconds", namespace),
		metric.WithDescription("Duration of saga operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	batchHisto, err := meter.Int64Histogram(
		fmt.Sprintf("%s_batch_size", namespace),
		metric.WithDescription("Number of outbox records handled per relay or reaper batch"),
		metric.WithUnit("{record}"),
		metric.WithExplicitBucketBoundaries(0, 1, 5, 10, 25, 50, 100, 250),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create batch histogram: %w", err)
	}

	return &businessMetrics{
		service:          service,
		operationCounter: operationCounter,
		durationHisto:    durationHisto,
		batchHisto:       batchHisto,
	}, nil
}

func (b *businessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	b.operationCounter.Add(ctx, 1, b.attributes(domain, operation, attribute.String("status", status)))
}

func (b *businessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	b.durationHisto.Record(ctx, duration.Seconds(),
		b.attributes(domain, operation, attribute.String("status", status)),
	)
}

func (b *businessMetrics) RecordBatch(ctx context.Context, domain, operation string, size int) {
	b.batchHisto.Record(ctx, int64(size), b.attributes(domain, operation))
}

func (b *businessMetrics) attributes(domain, operation string, extra ...attribute.KeyValue) metric.MeasurementOption {
	attrs := append([]attribute.KeyValue{
		attribute.String("service", b.service),
		attribute.String("domain", domain),
		attribute.String("operation", operation),
	}, extra...)
	return metric.WithAttributes(attrs...)
}

// NoOpBusinessMetrics discards everything. Used when metrics are disabled.
type NoOpBusinessMetrics struct{}

// NewNoOpBusinessMetrics creates a no-op BusinessMetrics implementation.
func NewNoOpBusinessMetrics() BusinessMetrics {
	return &NoOpBusinessMetrics{}
}

func (n *NoOpBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
}

func (n *NoOpBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
}

func (n *NoOpBusinessMetrics) RecordBatch(ctx context.Context, domain, operation string, size int) {}
