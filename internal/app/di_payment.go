package app

import (
	"fmt"

	"github.com/giangnd99/hotel-management-sub003/internal/database"
	paymentRepository "github.com/giangnd99/hotel-management-sub003/internal/payment/repository"
	paymentService "github.com/giangnd99/hotel-management-sub003/internal/payment/service"
	paymentUseCase "github.com/giangnd99/hotel-management-sub003/internal/payment/usecase"
)

// PaymentRepository returns the payment repository based on database driver.
func (c *Container) PaymentRepository() (paymentUseCase.PaymentRepository, error) {
	var err error
	c.paymentRepositoryInit.Do(func() {
		c.paymentRepository, err = c.initPaymentRepository()
		if err != nil {
			c.initErrors["paymentRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["paymentRepository"]; exists {
		return nil, storedErr
	}
	return c.paymentRepository, nil
}

// PaymentUseCase returns the payment use case.
func (c *Container) PaymentUseCase() (paymentUseCase.PaymentUseCase, error) {
	var err error
	c.paymentUseCaseInit.Do(func() {
		var paymentRepo paymentUseCase.PaymentRepository
		paymentRepo, err = c.PaymentRepository()
		if err != nil {
			err = fmt.Errorf("failed to get payment repository for payment use case: %w", err)
			c.initErrors["paymentUseCase"] = err
			return
		}
		c.paymentUseCase = paymentUseCase.NewPaymentUseCase(paymentRepo, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["paymentUseCase"]; exists {
		return nil, storedErr
	}
	return c.paymentUseCase, nil
}

// PaymentRequestHandler returns the handler refunding cancelled bookings.
func (c *Container) PaymentRequestHandler() (*paymentUseCase.PaymentRequestHandler, error) {
	var err error
	c.paymentRequestHandlerInit.Do(func() {
		c.paymentRequestHandler, err = c.initPaymentRequestHandler()
		if err != nil {
			c.initErrors["paymentRequestHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["paymentRequestHandler"]; exists {
		return nil, storedErr
	}
	return c.paymentRequestHandler, nil
}

// initPaymentRepository creates the payment repository based on the database driver.
func (c *Container) initPaymentRepository() (paymentUseCase.PaymentRepository, error) {
	if c.config.DBDriver == database.DriverMemory {
		return paymentRepository.NewMemoryPaymentRepository(), nil
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for payment repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return paymentRepository.NewPostgreSQLPaymentRepository(db), nil
	case database.DriverMySQL:
		return paymentRepository.NewMySQLPaymentRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initPaymentRequestHandler creates the payment request handler.
func (c *Container) initPaymentRequestHandler() (*paymentUseCase.PaymentRequestHandler, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for payment request handler: %w", err)
	}

	paymentRepo, err := c.PaymentRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get payment repository for payment request handler: %w", err)
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for payment request handler: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for payment request handler: %w", err)
	}

	return paymentUseCase.NewPaymentRequestHandler(
		txManager,
		paymentRepo,
		outboxRepo,
		paymentService.NewRefundService(),
		businessMetrics,
		c.Logger(),
	), nil
}
