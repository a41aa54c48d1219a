package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

const natsKeyHeader = "Saga-Key"

// NATSConfig configures the NATS JetStream gateway.
type NATSConfig struct {
	URL           string
	Stream        string
	SubjectPrefix string
	Durable       string
	AckWait       time.Duration
	FetchWait     time.Duration
	MaxAckPending int
}

// NATSGateway publishes to JetStream subjects and consumes through one durable
// pull consumer per topic. Nacked messages are redelivered by the server.
type NATSGateway struct {
	cfg    NATSConfig
	conn   *nats.Conn
	js     nats.JetStreamContext
	logger *slog.Logger

	mu   sync.Mutex
	subs map[string]*nats.Subscription
}

// NewNATSGateway connects to NATS and makes sure the stream exists.
func NewNATSGateway(cfg NATSConfig, logger *slog.Logger) (*NATSGateway, error) {
	cfg = cfg.withDefaults()

	conn, err := nats.Connect(cfg.URL, nats.Name(cfg.Durable))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open jetstream context: %w", err)
	}

	g := &NATSGateway{
		cfg:    cfg,
		conn:   conn,
		js:     js,
		logger: logger,
		subs:   make(map[string]*nats.Subscription),
	}
	if err := g.ensureStream(); err != nil {
		conn.Close()
		return nil, err
	}
	return g, nil
}

func (c NATSConfig) withDefaults() NATSConfig {
	if c.URL == "" {
		c.URL = nats.DefaultURL
	}
	if c.Stream == "" {
		c.Stream = "HOTEL"
	}
	if c.SubjectPrefix == "" {
		c.SubjectPrefix = "saga."
	}
	if c.Durable == "" {
		c.Durable = "hotel"
	}
	if c.AckWait <= 0 {
		c.AckWait = 30 * time.Second
	}
	if c.FetchWait <= 0 {
		c.FetchWait = time.Second
	}
	if c.MaxAckPending <= 0 {
		c.MaxAckPending = 1024
	}
	return c
}

func (g *NATSGateway) Publish(ctx context.Context, topic, key string, payload []byte) error {
	msg := nats.NewMsg(subjectName(g.cfg.SubjectPrefix, topic))
	msg.Header.Set(natsKeyHeader, key)
	msg.Data = payload

	_, err := g.js.PublishMsg(msg, nats.Context(ctx))
	return err
}

func (g *NATSGateway) Receive(ctx context.Context, topic string, max int) ([]Delivery, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sub, err := g.subscription(topic)
	if err != nil {
		return nil, err
	}

	msgs, err := sub.Fetch(max, nats.MaxWait(g.cfg.FetchWait))
	if err != nil {
		if errors.Is(err, nats.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch %s: %w", topic, err)
	}

	deliveries := make([]Delivery, 0, len(msgs))
	for _, msg := range msgs {
		m := msg
		offset := ""
		if meta, err := m.Metadata(); err == nil {
			offset = strconv.FormatUint(meta.Sequence.Stream, 10)
		}
		deliveries = append(deliveries, Delivery{
			Topic:     topic,
			Partition: g.cfg.Stream,
			Offset:    offset,
			Key:       m.Header.Get(natsKeyHeader),
			Payload:   m.Data,
			commit: func(ctx context.Context) error {
				return m.AckSync(nats.Context(ctx))
			},
			nack: func(context.Context) error {
				return m.Nak()
			},
		})
	}
	return deliveries, nil
}

func (g *NATSGateway) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for topic, sub := range g.subs {
		if err := sub.Unsubscribe(); err != nil {
			g.logger.Warn("failed to unsubscribe", slog.String("topic", topic), slog.Any("error", err))
		}
		delete(g.subs, topic)
	}
	return g.conn.Drain()
}

func (g *NATSGateway) subscription(topic string) (*nats.Subscription, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if sub, ok := g.subs[topic]; ok {
		return sub, nil
	}

	sub, err := g.js.PullSubscribe(
		subjectName(g.cfg.SubjectPrefix, topic),
		durableName(g.cfg.Durable, topic),
		nats.BindStream(g.cfg.Stream),
		nats.AckExplicit(),
		nats.AckWait(g.cfg.AckWait),
		nats.MaxAckPending(g.cfg.MaxAckPending),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}
	g.subs[topic] = sub
	return sub, nil
}

func (g *NATSGateway) ensureStream() error {
	_, err := g.js.StreamInfo(g.cfg.Stream)
	if err == nil {
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) {
		return fmt.Errorf("failed to look up stream %s: %w", g.cfg.Stream, err)
	}

	_, err = g.js.AddStream(&nats.StreamConfig{
		Name:      g.cfg.Stream,
		Subjects:  []string{g.cfg.SubjectPrefix + ">"},
		Retention: nats.LimitsPolicy,
		Storage:   nats.FileStorage,
	})
	if err != nil {
		return fmt.Errorf("failed to create stream %s: %w", g.cfg.Stream, err)
	}
	return nil
}

func subjectName(prefix, topic string) string {
	return prefix + topic
}

// durableName derives a consumer name; JetStream forbids dots in durable names.
func durableName(durable, topic string) string {
	return durable + "-" + strings.ReplaceAll(topic, ".", "_")
}
