package app

import (
	"fmt"

	"github.com/giangnd99/hotel-management-sub003/internal/config"
	"github.com/giangnd99/hotel-management-sub003/internal/database"
	sagaDomain "github.com/giangnd99/hotel-management-sub003/internal/saga/domain"
	sagaHTTP "github.com/giangnd99/hotel-management-sub003/internal/saga/http"
	sagaRepository "github.com/giangnd99/hotel-management-sub003/internal/saga/repository"
	sagaUseCase "github.com/giangnd99/hotel-management-sub003/internal/saga/usecase"
)

// OutboxRepository returns the saga outbox repository based on database driver.
func (c *Container) OutboxRepository() (sagaUseCase.OutboxRepository, error) {
	var err error
	c.outboxRepositoryInit.Do(func() {
		c.outboxRepository, err = c.initOutboxRepository()
		if err != nil {
			c.initErrors["outboxRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["outboxRepository"]; exists {
		return nil, storedErr
	}
	return c.outboxRepository, nil
}

// Coordinator returns the saga coordinator with the routes of every service this
// process runs.
func (c *Container) Coordinator() (*sagaUseCase.Coordinator, error) {
	var err error
	c.coordinatorInit.Do(func() {
		c.coordinator, err = c.initCoordinator()
		if err != nil {
			c.initErrors["coordinator"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["coordinator"]; exists {
		return nil, storedErr
	}
	return c.coordinator, nil
}

// RelayUseCase returns the outbox relay.
func (c *Container) RelayUseCase() (*sagaUseCase.RelayUseCase, error) {
	var err error
	c.relayUseCaseInit.Do(func() {
		c.relayUseCase, err = c.initRelayUseCase()
		if err != nil {
			c.initErrors["relayUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["relayUseCase"]; exists {
		return nil, storedErr
	}
	return c.relayUseCase, nil
}

// ReaperUseCase returns the stale saga reaper.
func (c *Container) ReaperUseCase() (*sagaUseCase.ReaperUseCase, error) {
	var err error
	c.reaperUseCaseInit.Do(func() {
		c.reaperUseCase, err = c.initReaperUseCase()
		if err != nil {
			c.initErrors["reaperUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["reaperUseCase"]; exists {
		return nil, storedErr
	}
	return c.reaperUseCase, nil
}

// StatusUseCase returns the saga status use case.
func (c *Container) StatusUseCase() (*sagaUseCase.StatusUseCase, error) {
	var err error
	c.statusUseCaseInit.Do(func() {
		var outboxRepo sagaUseCase.OutboxRepository
		outboxRepo, err = c.OutboxRepository()
		if err != nil {
			err = fmt.Errorf("failed to get outbox repository for status use case: %w", err)
			c.initErrors["statusUseCase"] = err
			return
		}
		c.statusUseCase = sagaUseCase.NewStatusUseCase(outboxRepo)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["statusUseCase"]; exists {
		return nil, storedErr
	}
	return c.statusUseCase, nil
}

// SagaHandler returns the HTTP handler for saga status.
func (c *Container) SagaHandler() (*sagaHTTP.SagaHandler, error) {
	statusUseCase, err := c.StatusUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get status use case for saga handler: %w", err)
	}
	return sagaHTTP.NewSagaHandler(statusUseCase, c.Logger()), nil
}

// initOutboxRepository creates the outbox repository based on the database driver.
func (c *Container) initOutboxRepository() (sagaUseCase.OutboxRepository, error) {
	if c.config.DBDriver == database.DriverMemory {
		return sagaRepository.NewMemoryOutboxRepository(), nil
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for outbox repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return sagaRepository.NewPostgreSQLOutboxRepository(db), nil
	case database.DriverMySQL:
		return sagaRepository.NewMySQLOutboxRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initCoordinator creates the coordinator and registers the steps and request
// handlers of the configured services.
func (c *Container) initCoordinator() (*sagaUseCase.Coordinator, error) {
	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for coordinator: %w", err)
	}

	coordinator := sagaUseCase.NewCoordinator(businessMetrics, c.Logger())

	if c.config.Runs(config.ServiceBooking) {
		if err := c.registerBookingSteps(coordinator); err != nil {
			return nil, err
		}
	}
	if c.config.Runs(config.ServiceRoom) {
		handler, err := c.RoomRequestHandler()
		if err != nil {
			return nil, fmt.Errorf("failed to get room request handler for coordinator: %w", err)
		}
		sagaUseCase.RegisterHandler[sagaDomain.RoomRequest](coordinator, sagaDomain.RequestTypeRoomReservation, handler)
		sagaUseCase.RegisterHandler[sagaDomain.RoomRequest](coordinator, sagaDomain.RequestTypeRoomCheckIn, handler)
		sagaUseCase.RegisterHandler[sagaDomain.RoomRequest](coordinator, sagaDomain.RequestTypeRoomCancellation, handler)
	}
	if c.config.Runs(config.ServicePayment) {
		handler, err := c.PaymentRequestHandler()
		if err != nil {
			return nil, fmt.Errorf("failed to get payment request handler for coordinator: %w", err)
		}
		sagaUseCase.RegisterHandler[sagaDomain.RefundRequest](coordinator, sagaDomain.RequestTypePaymentRefund, handler)
	}

	return coordinator, nil
}

// initRelayUseCase creates the outbox relay publishing through the gateway.
func (c *Container) initRelayUseCase() (*sagaUseCase.RelayUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for relay use case: %w", err)
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for relay use case: %w", err)
	}

	gateway, err := c.Gateway()
	if err != nil {
		return nil, fmt.Errorf("failed to get gateway for relay use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for relay use case: %w", err)
	}

	relayConfig := sagaUseCase.RelayConfig{
		Interval:     c.config.RelayInterval,
		BatchSize:    c.config.RelayBatchSize,
		MaxRetries:   c.config.RelayMaxRetries,
		PublishRate:  c.config.RelayPublishRate,
		PublishBurst: c.config.RelayPublishBurst,
	}

	return sagaUseCase.NewRelayUseCase(relayConfig, txManager, outboxRepo, gateway, businessMetrics, c.Logger()), nil
}

// initReaperUseCase creates the stale saga reaper dispatching through the coordinator.
func (c *Container) initReaperUseCase() (*sagaUseCase.ReaperUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for reaper use case: %w", err)
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for reaper use case: %w", err)
	}

	coordinator, err := c.Coordinator()
	if err != nil {
		return nil, fmt.Errorf("failed to get coordinator for reaper use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for reaper use case: %w", err)
	}

	reaperConfig := sagaUseCase.ReaperConfig{
		Interval:   c.config.ReaperInterval,
		StaleAfter: c.config.ReaperStaleAfter,
		BatchSize:  c.config.ReaperBatchSize,
	}

	return sagaUseCase.NewReaperUseCase(reaperConfig, txManager, outboxRepo, coordinator, businessMetrics, c.Logger()), nil
}
