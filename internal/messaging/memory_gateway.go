package messaging

import (
	"context"
	"strconv"
	"sync"
	"time"
)

type memoryEntry struct {
	id      string
	key     string
	payload []byte
}

type memoryTopic struct {
	queue    []memoryEntry
	inFlight map[string]memoryEntry
}

// MemoryGateway is an in-process broker used when every service runs in one
// process. Nacked deliveries go back to the head of their topic.
type MemoryGateway struct {
	mu          sync.Mutex
	topics      map[string]*memoryTopic
	notify      chan struct{}
	seq         uint64
	pollTimeout time.Duration
	closed      bool
}

// NewMemoryGateway creates a MemoryGateway. Receive waits at most pollTimeout
// for new messages.
func NewMemoryGateway(pollTimeout time.Duration) *MemoryGateway {
	if pollTimeout <= 0 {
		pollTimeout = time.Second
	}
	return &MemoryGateway{
		topics:      make(map[string]*memoryTopic),
		notify:      make(chan struct{}),
		pollTimeout: pollTimeout,
	}
}

func (g *MemoryGateway) Publish(ctx context.Context, topic, key string, payload []byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return ErrGatewayClosed
	}

	g.seq++
	t := g.topicLocked(topic)
	t.queue = append(t.queue, memoryEntry{
		id:      strconv.FormatUint(g.seq, 10),
		key:     key,
		payload: append([]byte(nil), payload...),
	})
	g.broadcastLocked()
	return nil
}

func (g *MemoryGateway) Receive(ctx context.Context, topic string, max int) ([]Delivery, error) {
	timer := time.NewTimer(g.pollTimeout)
	defer timer.Stop()

	for {
		g.mu.Lock()
		if g.closed {
			g.mu.Unlock()
			return nil, ErrGatewayClosed
		}
		if deliveries := g.takeLocked(topic, max); len(deliveries) > 0 {
			g.mu.Unlock()
			return deliveries, nil
		}
		notify := g.notify
		g.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
			return nil, nil
		case <-notify:
		}
	}
}

// Pending returns how many messages of topic are queued or in flight.
func (g *MemoryGateway) Pending(topic string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	t, ok := g.topics[topic]
	if !ok {
		return 0
	}
	return len(t.queue) + len(t.inFlight)
}

func (g *MemoryGateway) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.closed {
		g.closed = true
		g.broadcastLocked()
	}
	return nil
}

func (g *MemoryGateway) takeLocked(topic string, max int) []Delivery {
	t, ok := g.topics[topic]
	if !ok || len(t.queue) == 0 {
		return nil
	}
	if max <= 0 || max > len(t.queue) {
		max = len(t.queue)
	}

	deliveries := make([]Delivery, 0, max)
	for _, entry := range t.queue[:max] {
		t.inFlight[entry.id] = entry
		id := entry.id
		deliveries = append(deliveries, Delivery{
			Topic:     topic,
			Partition: topic,
			Offset:    id,
			Key:       entry.key,
			Payload:   entry.payload,
			commit: func(context.Context) error {
				g.settle(topic, id, false)
				return nil
			},
			nack: func(context.Context) error {
				g.settle(topic, id, true)
				return nil
			},
		})
	}
	t.queue = t.queue[max:]
	return deliveries
}

func (g *MemoryGateway) settle(topic, id string, requeue bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	t := g.topicLocked(topic)
	entry, ok := t.inFlight[id]
	if !ok {
		return
	}
	delete(t.inFlight, id)
	if requeue {
		t.queue = append([]memoryEntry{entry}, t.queue...)
		g.broadcastLocked()
	}
}

func (g *MemoryGateway) topicLocked(topic string) *memoryTopic {
	t, ok := g.topics[topic]
	if !ok {
		t = &memoryTopic{inFlight: make(map[string]memoryEntry)}
		g.topics[topic] = t
	}
	return t
}

func (g *MemoryGateway) broadcastLocked() {
	close(g.notify)
	g.notify = make(chan struct{})
}
