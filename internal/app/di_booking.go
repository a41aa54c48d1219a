package app

import (
	"fmt"

	bookingRepository "github.com/giangnd99/hotel-management-sub003/internal/booking/repository"
	bookingService "github.com/giangnd99/hotel-management-sub003/internal/booking/service"
	bookingUseCase "github.com/giangnd99/hotel-management-sub003/internal/booking/usecase"
	"github.com/giangnd99/hotel-management-sub003/internal/database"
	sagaDomain "github.com/giangnd99/hotel-management-sub003/internal/saga/domain"
	sagaUseCase "github.com/giangnd99/hotel-management-sub003/internal/saga/usecase"
)

// BookingRepository returns the booking repository based on database driver.
func (c *Container) BookingRepository() (bookingUseCase.BookingRepository, error) {
	var err error
	c.bookingRepositoryInit.Do(func() {
		c.bookingRepository, err = c.initBookingRepository()
		if err != nil {
			c.initErrors["bookingRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["bookingRepository"]; exists {
		return nil, storedErr
	}
	return c.bookingRepository, nil
}

// BookingUseCase returns the booking use case.
func (c *Container) BookingUseCase() (bookingUseCase.BookingUseCase, error) {
	var err error
	c.bookingUseCaseInit.Do(func() {
		c.bookingUseCase, err = c.initBookingUseCase()
		if err != nil {
			c.initErrors["bookingUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["bookingUseCase"]; exists {
		return nil, storedErr
	}
	return c.bookingUseCase, nil
}

// initBookingRepository creates the booking repository based on the database driver.
func (c *Container) initBookingRepository() (bookingUseCase.BookingRepository, error) {
	if c.config.DBDriver == database.DriverMemory {
		return bookingRepository.NewMemoryBookingRepository(), nil
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for booking repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return bookingRepository.NewPostgreSQLBookingRepository(db), nil
	case database.DriverMySQL:
		return bookingRepository.NewMySQLBookingRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initBookingUseCase creates the booking use case, decorated with metrics.
func (c *Container) initBookingUseCase() (bookingUseCase.BookingUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for booking use case: %w", err)
	}

	bookingRepo, err := c.BookingRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get booking repository for booking use case: %w", err)
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for booking use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for booking use case: %w", err)
	}

	useCase := bookingUseCase.NewBookingUseCase(
		txManager,
		bookingRepo,
		outboxRepo,
		bookingService.NewCancellationService(),
		c.Logger(),
	)
	return bookingUseCase.NewBookingUseCaseWithMetrics(useCase, businessMetrics), nil
}

// registerBookingSteps routes room and payment responses to the booking steps.
func (c *Container) registerBookingSteps(coordinator *sagaUseCase.Coordinator) error {
	logger := c.Logger()

	txManager, err := c.TxManager()
	if err != nil {
		return fmt.Errorf("failed to get tx manager for booking steps: %w", err)
	}

	bookingRepo, err := c.BookingRepository()
	if err != nil {
		return fmt.Errorf("failed to get booking repository for booking steps: %w", err)
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return fmt.Errorf("failed to get outbox repository for booking steps: %w", err)
	}

	sagaUseCase.RegisterStep[sagaDomain.RoomResponse](
		coordinator,
		sagaDomain.RequestTypeRoomReservation,
		bookingUseCase.NewRoomReservationStep(txManager, bookingRepo, outboxRepo, logger),
	)
	sagaUseCase.RegisterStep[sagaDomain.RoomResponse](
		coordinator,
		sagaDomain.RequestTypeRoomCheckIn,
		bookingUseCase.NewRoomCheckInStep(txManager, bookingRepo, outboxRepo, logger),
	)
	sagaUseCase.RegisterStep[sagaDomain.RoomResponse](
		coordinator,
		sagaDomain.RequestTypeRoomCancellation,
		bookingUseCase.NewCancellationStep(
			txManager, bookingRepo, outboxRepo, bookingService.NewCancellationService(), logger,
		),
	)
	sagaUseCase.RegisterStep[sagaDomain.RefundResponse](
		coordinator,
		sagaDomain.RequestTypePaymentRefund,
		bookingUseCase.NewPaymentRefundStep(txManager, bookingRepo, outboxRepo, logger),
	)
	return nil
}
