package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	apperrors "github.com/giangnd99/hotel-management-sub003/internal/errors"
	"github.com/giangnd99/hotel-management-sub003/internal/metrics"
	sagaDomain "github.com/giangnd99/hotel-management-sub003/internal/saga/domain"
)

const metricsDomain = "saga"

// Dispatch outcomes recorded as the metrics status label.
const (
	outcomeSuccess   = "success"
	outcomeDuplicate = "duplicate"
	outcomeRejected  = "rejected"
	outcomeError     = "error"
)

type routeKind int

const (
	requestRoute routeKind = iota
	responseRoute
)

type routeKey struct {
	requestType sagaDomain.RequestType
	kind        routeKind
}

type route func(ctx context.Context, envelope *sagaDomain.Envelope) error

// Coordinator receives inbound messages and routes them: requests go to the
// registered RequestHandler, success responses to Step.Process and failure
// responses to Step.Rollback. It is the only place that knows the flow graph.
type Coordinator struct {
	mu      sync.RWMutex
	routes  map[routeKey]route
	metrics metrics.BusinessMetrics
	logger  *slog.Logger
}

// NewCoordinator creates a new Coordinator with no routes.
func NewCoordinator(businessMetrics metrics.BusinessMetrics, logger *slog.Logger) *Coordinator {
	if businessMetrics == nil {
		businessMetrics = metrics.NewNoOpBusinessMetrics()
	}
	return &Coordinator{
		routes:  make(map[routeKey]route),
		metrics: businessMetrics,
		logger:  logger,
	}
}

// RegisterStep routes responses of requestType to step.
func RegisterStep[P any](c *Coordinator, requestType sagaDomain.RequestType, step Step[P]) {
	c.register(routeKey{requestType: requestType, kind: responseRoute}, func(ctx context.Context, envelope *sagaDomain.Envelope) error {
		msg, err := decodeMessage[P](envelope)
		if err != nil {
			return err
		}
		if envelope.Status == sagaDomain.MessageStatusFailed {
			return step.Rollback(ctx, msg)
		}
		return step.Process(ctx, msg)
	})
}

// RegisterHandler routes requests of requestType to handler.
func RegisterHandler[P any](c *Coordinator, requestType sagaDomain.RequestType, handler RequestHandler[P]) {
	c.register(routeKey{requestType: requestType, kind: requestRoute}, func(ctx context.Context, envelope *sagaDomain.Envelope) error {
		msg, err := decodeMessage[P](envelope)
		if err != nil {
			return err
		}
		return handler.Handle(ctx, msg)
	})
}

func (c *Coordinator) register(key routeKey, r route) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.routes[key] = r
}

// Handle decodes a raw gateway payload and dispatches it.
func (c *Coordinator) Handle(ctx context.Context, payload []byte) error {
	envelope, err := sagaDomain.DecodeEnvelope(payload)
	if err != nil {
		c.logger.Error("dropping undecodable saga message", slog.Any("error", err))
		c.metrics.RecordOperation(ctx, metricsDomain, "decode", outcomeRejected)
		return nil
	}
	return c.Dispatch(ctx, envelope)
}

// Dispatch routes one envelope. Duplicates, business rule violations and
// messages without a route are logged and dropped; any other error is returned
// so the gateway redelivers the message.
func (c *Coordinator) Dispatch(ctx context.Context, envelope *sagaDomain.Envelope) error {
	start := time.Now()
	operation := operationName(envelope)
	attrs := []any{
		slog.String("saga_id", envelope.SagaID.String()),
		slog.String("reference_id", envelope.ReferenceID.String()),
		slog.String("request_type", string(envelope.RequestType)),
		slog.String("status", string(envelope.Status)),
	}

	kind := responseRoute
	if envelope.Status == sagaDomain.MessageStatusRequested {
		kind = requestRoute
	}

	c.mu.RLock()
	r, ok := c.routes[routeKey{requestType: envelope.RequestType, kind: kind}]
	c.mu.RUnlock()

	var err error
	if ok {
		err = r(ctx, envelope)
	} else {
		err = fmt.Errorf("%w for %s/%s", sagaDomain.ErrNoRoute, envelope.RequestType, envelope.Status)
	}

	outcome := outcomeSuccess
	switch {
	case err == nil:
		c.logger.Debug("saga message handled", attrs...)
	case apperrors.Is(err, sagaDomain.ErrStepAlreadyHandled):
		outcome = outcomeDuplicate
		c.logger.Info("duplicate saga message dropped", attrs...)
		err = nil
	case apperrors.Is(err, apperrors.ErrBusinessRule),
		apperrors.Is(err, apperrors.ErrInvalidInput),
		apperrors.Is(err, sagaDomain.ErrNoRoute):
		outcome = outcomeRejected
		c.logger.Warn("saga message rejected", append(attrs, slog.Any("error", err))...)
		err = nil
	default:
		outcome = outcomeError
		c.logger.Error("saga message failed, awaiting redelivery", append(attrs, slog.Any("error", err))...)
	}

	c.metrics.RecordOperation(ctx, metricsDomain, operation, outcome)
	c.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), outcome)

	return err
}

func decodeMessage[P any](envelope *sagaDomain.Envelope) (Message[P], error) {
	msg := Message[P]{
		SagaID:      envelope.SagaID,
		ReferenceID: envelope.ReferenceID,
		RequestType: envelope.RequestType,
		Status:      envelope.Status,
	}
	if err := envelope.DecodePayload(&msg.Payload); err != nil {
		return msg, err
	}
	return msg, nil
}

// operationName yields labels such as "room_reservation_succeeded".
func operationName(envelope *sagaDomain.Envelope) string {
	return strings.ToLower(string(envelope.RequestType) + "_" + string(envelope.Status))
}
