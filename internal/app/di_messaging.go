package app

import (
	"context"
	"fmt"

	"github.com/giangnd99/hotel-management-sub003/internal/config"
	"github.com/giangnd99/hotel-management-sub003/internal/messaging"
	sagaDomain "github.com/giangnd99/hotel-management-sub003/internal/saga/domain"
)

// Gateway returns the message gateway for the configured broker driver.
func (c *Container) Gateway() (messaging.Gateway, error) {
	var err error
	c.gatewayInit.Do(func() {
		c.gateway, err = c.initGateway()
		if err != nil {
			c.initErrors["gateway"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["gateway"]; exists {
		return nil, storedErr
	}
	return c.gateway, nil
}

// ConsumerWorker returns the worker consuming the topics of the configured services.
func (c *Container) ConsumerWorker() (*messaging.Worker, error) {
	var err error
	c.consumerWorkerInit.Do(func() {
		c.consumerWorker, err = c.initConsumerWorker()
		if err != nil {
			c.initErrors["consumerWorker"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["consumerWorker"]; exists {
		return nil, storedErr
	}
	return c.consumerWorker, nil
}

// ConsumedTopics returns the topics the configured services consume.
func (c *Container) ConsumedTopics() []string {
	var topics []string
	if c.config.Runs(config.ServiceBooking) {
		topics = append(topics, sagaDomain.TopicRoomResponse, sagaDomain.TopicPaymentResponse)
	}
	if c.config.Runs(config.ServiceRoom) {
		topics = append(topics, sagaDomain.TopicRoomRequest)
	}
	if c.config.Runs(config.ServicePayment) {
		topics = append(topics, sagaDomain.TopicPaymentRequest)
	}
	return topics
}

// consumerGroup names this service's consumer group or durable.
func (c *Container) consumerGroup() string {
	if c.config.RedisConsumerGroup != "" {
		return c.config.RedisConsumerGroup
	}
	return "hotel-" + c.config.ServiceName
}

// initGateway connects to the configured broker.
func (c *Container) initGateway() (messaging.Gateway, error) {
	logger := c.Logger()

	switch c.config.BrokerDriver {
	case messaging.DriverMemory:
		return messaging.NewMemoryGateway(c.config.ConsumerPollInterval), nil
	case messaging.DriverRedis:
		gateway, err := messaging.NewRedisGateway(context.Background(), messaging.RedisConfig{
			Addr:         c.config.RedisAddr,
			Password:     c.config.RedisPassword,
			DB:           c.config.RedisDB,
			StreamPrefix: c.config.RedisStreamPrefix,
			Group:        c.consumerGroup(),
			Consumer:     c.config.RedisConsumerName,
			ClaimIdle:    c.config.RedisClaimIdle,
			BlockTimeout: c.config.ConsumerPollInterval,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis gateway: %w", err)
		}
		return gateway, nil
	case messaging.DriverNATS:
		gateway, err := messaging.NewNATSGateway(messaging.NATSConfig{
			URL:       c.config.NATSURL,
			Stream:    c.config.NATSStream,
			Durable:   c.consumerGroup(),
			FetchWait: c.config.ConsumerPollInterval,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create nats gateway: %w", err)
		}
		return gateway, nil
	default:
		return nil, fmt.Errorf("unsupported broker driver: %s", c.config.BrokerDriver)
	}
}

// initConsumerWorker creates the worker feeding consumed messages to the coordinator.
func (c *Container) initConsumerWorker() (*messaging.Worker, error) {
	gateway, err := c.Gateway()
	if err != nil {
		return nil, fmt.Errorf("failed to get gateway for consumer worker: %w", err)
	}

	coordinator, err := c.Coordinator()
	if err != nil {
		return nil, fmt.Errorf("failed to get coordinator for consumer worker: %w", err)
	}

	workerConfig := messaging.WorkerConfig{
		Topics:       c.ConsumedTopics(),
		BatchSize:    c.config.ConsumerBatchSize,
		Concurrency:  c.config.ConsumerConcurrency,
		RetryBackoff: c.config.ConsumerPollInterval,
	}

	return messaging.NewWorker(workerConfig, gateway, coordinator.Handle, c.Logger()), nil
}
