package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// redisClient captures the subset of go-redis commands the gateway relies on.
type redisClient interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
	XReadGroup(ctx context.Context, a *redis.XReadGroupArgs) *redis.XStreamSliceCmd
	XAck(ctx context.Context, stream, group string, ids ...string) *redis.IntCmd
	XGroupCreateMkStream(ctx context.Context, stream, group, start string) *redis.StatusCmd
	XAutoClaim(ctx context.Context, a *redis.XAutoClaimArgs) *redis.XAutoClaimCmd
	Close() error
}

// RedisConfig configures the Redis Streams gateway.
type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	StreamPrefix string
	Group        string
	Consumer     string
	ClaimIdle    time.Duration
	BlockTimeout time.Duration
	MaxLen       int64
}

// RedisGateway maps each topic to a stream and each service to a consumer group.
// Unacknowledged entries stay in the consumer's pending list and are read again,
// oldest first, before new entries. Entries left pending by another consumer of
// the group for longer than ClaimIdle are claimed before new entries too.
type RedisGateway struct {
	cfg    RedisConfig
	client redisClient
	logger *slog.Logger

	mu     sync.Mutex
	groups map[string]bool
}

// NewRedisGateway connects to Redis.
func NewRedisGateway(ctx context.Context, cfg RedisConfig, logger *slog.Logger) (*RedisGateway, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return newRedisGateway(cfg, client, logger), nil
}

func newRedisGateway(cfg RedisConfig, client redisClient, logger *slog.Logger) *RedisGateway {
	if cfg.StreamPrefix == "" {
		cfg.StreamPrefix = "hotel:"
	}
	if cfg.Group == "" {
		cfg.Group = "hotel"
	}
	if cfg.Consumer == "" {
		hostname, err := os.Hostname()
		if err != nil || hostname == "" {
			hostname = "consumer-" + uuid.NewString()
		}
		cfg.Consumer = hostname
	}
	if cfg.BlockTimeout <= 0 {
		cfg.BlockTimeout = time.Second
	}
	return &RedisGateway{
		cfg:    cfg,
		client: client,
		logger: logger,
		groups: make(map[string]bool),
	}
}

func (g *RedisGateway) Publish(ctx context.Context, topic, key string, payload []byte) error {
	args := &redis.XAddArgs{
		Stream: g.streamName(topic),
		Values: map[string]any{
			"key":     key,
			"payload": string(payload),
		},
	}
	if g.cfg.MaxLen > 0 {
		args.MaxLen = g.cfg.MaxLen
		args.Approx = true
	}
	return g.client.XAdd(ctx, args).Err()
}

func (g *RedisGateway) Receive(ctx context.Context, topic string, max int) ([]Delivery, error) {
	stream := g.streamName(topic)
	if err := g.ensureGroup(ctx, stream); err != nil {
		return nil, err
	}

	// Pending entries of this consumer first, so a failed message is retried
	// before anything published after it.
	deliveries, err := g.read(ctx, topic, stream, "0", max, -1)
	if err != nil || len(deliveries) > 0 {
		return deliveries, err
	}
	if g.cfg.ClaimIdle > 0 {
		deliveries, err = g.claim(ctx, topic, stream, max)
		if err != nil || len(deliveries) > 0 {
			return deliveries, err
		}
	}
	return g.read(ctx, topic, stream, ">", max, g.cfg.BlockTimeout)
}

// claim takes over entries another consumer read but never acknowledged.
func (g *RedisGateway) claim(ctx context.Context, topic, stream string, max int) ([]Delivery, error) {
	messages, _, err := g.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   stream,
		Group:    g.cfg.Group,
		Consumer: g.cfg.Consumer,
		MinIdle:  g.cfg.ClaimIdle,
		Start:    "0-0",
		Count:    int64(max),
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to claim idle entries of %s: %w", stream, err)
	}
	if len(messages) > 0 {
		g.logger.Info("claimed idle stream entries",
			slog.String("stream", stream),
			slog.String("consumer", g.cfg.Consumer),
			slog.Int("count", len(messages)),
		)
	}
	return g.deliveries(ctx, topic, stream, messages)
}

func (g *RedisGateway) Close() error {
	return g.client.Close()
}

func (g *RedisGateway) read(
	ctx context.Context,
	topic, stream, start string,
	max int,
	block time.Duration,
) ([]Delivery, error) {
	res, err := g.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    g.cfg.Group,
		Consumer: g.cfg.Consumer,
		Streams:  []string{stream, start},
		Count:    int64(max),
		Block:    block,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read stream %s: %w", stream, err)
	}

	var deliveries []Delivery
	for _, streamRes := range res {
		batch, err := g.deliveries(ctx, topic, stream, streamRes.Messages)
		if err != nil {
			return nil, err
		}
		deliveries = append(deliveries, batch...)
	}
	return deliveries, nil
}

// deliveries decodes stream entries. Malformed entries are acknowledged and dropped.
func (g *RedisGateway) deliveries(
	ctx context.Context,
	topic, stream string,
	messages []redis.XMessage,
) ([]Delivery, error) {
	var deliveries []Delivery
	for _, entry := range messages {
		entryID := entry.ID
		commit := func(ctx context.Context) error {
			return g.client.XAck(ctx, stream, g.cfg.Group, entryID).Err()
		}

		delivery, ok := decodeRedisEntry(entry)
		if !ok {
			g.logger.Warn("dropping malformed stream entry",
				slog.String("stream", stream),
				slog.String("entry_id", entry.ID),
			)
			if err := commit(ctx); err != nil {
				return nil, err
			}
			continue
		}

		delivery.Topic = topic
		delivery.Partition = stream
		delivery.commit = commit
		deliveries = append(deliveries, delivery)
	}
	return deliveries, nil
}

func (g *RedisGateway) ensureGroup(ctx context.Context, stream string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.groups[stream] {
		return nil
	}
	err := g.client.XGroupCreateMkStream(ctx, stream, g.cfg.Group, "0").Err()
	if err != nil && !strings.Contains(strings.ToUpper(err.Error()), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group for %s: %w", stream, err)
	}
	g.groups[stream] = true
	return nil
}

func (g *RedisGateway) streamName(topic string) string {
	return g.cfg.StreamPrefix + topic
}

func decodeRedisEntry(entry redis.XMessage) (Delivery, bool) {
	payload, ok := entry.Values["payload"].(string)
	if !ok {
		return Delivery{}, false
	}
	key, _ := entry.Values["key"].(string)
	return Delivery{
		Offset:  entry.ID,
		Key:     key,
		Payload: []byte(payload),
	}, true
}
