// Package messaging moves saga envelopes between services. A gateway publishes
// messages keyed by saga id and hands them back to consumers in batches; a
// delivery is committed only after its handler succeeded, so a failed or
// interrupted handler sees the message again.
package messaging

import (
	"context"
	"errors"
)

// Supported values for the BROKER_DRIVER setting.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverNATS   = "nats"
)

// ErrGatewayClosed is returned by operations on a closed gateway.
var ErrGatewayClosed = errors.New("messaging gateway closed")

// Delivery is one received message. Partition and Offset locate it in the
// broker: the stream and entry id for Redis, the stream and sequence for NATS.
type Delivery struct {
	Topic     string
	Partition string
	Offset    string
	Key       string
	Payload   []byte

	commit func(ctx context.Context) error
	nack   func(ctx context.Context) error
}

// Commit marks the delivery as processed.
func (d Delivery) Commit(ctx context.Context) error {
	if d.commit == nil {
		return nil
	}
	return d.commit(ctx)
}

// Nack hands the delivery back for redelivery.
func (d Delivery) Nack(ctx context.Context) error {
	if d.nack == nil {
		return nil
	}
	return d.nack(ctx)
}

// Publisher writes a message to topic. Messages sharing a key are delivered in
// publication order.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload []byte) error
}

// Consumer reads batches from a topic. Receive blocks until at least one message
// is available, the gateway's poll timeout elapses or ctx is done.
type Consumer interface {
	Receive(ctx context.Context, topic string, max int) ([]Delivery, error)
}

// Gateway is a Publisher and Consumer backed by one broker connection.
type Gateway interface {
	Publisher
	Consumer
	Close() error
}
