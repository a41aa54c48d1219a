package app

import (
	"fmt"

	"github.com/giangnd99/hotel-management-sub003/internal/database"
	roomRepository "github.com/giangnd99/hotel-management-sub003/internal/room/repository"
	roomService "github.com/giangnd99/hotel-management-sub003/internal/room/service"
	roomUseCase "github.com/giangnd99/hotel-management-sub003/internal/room/usecase"
)

// RoomRepository returns the room repository based on database driver.
func (c *Container) RoomRepository() (roomUseCase.RoomRepository, error) {
	var err error
	c.roomRepositoryInit.Do(func() {
		c.roomRepository, err = c.initRoomRepository()
		if err != nil {
			c.initErrors["roomRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["roomRepository"]; exists {
		return nil, storedErr
	}
	return c.roomRepository, nil
}

// RoomUseCase returns the room management use case.
func (c *Container) RoomUseCase() (roomUseCase.RoomUseCase, error) {
	var err error
	c.roomUseCaseInit.Do(func() {
		var roomRepo roomUseCase.RoomRepository
		roomRepo, err = c.RoomRepository()
		if err != nil {
			err = fmt.Errorf("failed to get room repository for room use case: %w", err)
			c.initErrors["roomUseCase"] = err
			return
		}
		c.roomUseCase = roomUseCase.NewRoomUseCase(roomRepo, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["roomUseCase"]; exists {
		return nil, storedErr
	}
	return c.roomUseCase, nil
}

// RoomRequestHandler returns the handler applying room requests from booking sagas.
func (c *Container) RoomRequestHandler() (*roomUseCase.RoomRequestHandler, error) {
	var err error
	c.roomRequestHandlerInit.Do(func() {
		c.roomRequestHandler, err = c.initRoomRequestHandler()
		if err != nil {
			c.initErrors["roomRequestHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["roomRequestHandler"]; exists {
		return nil, storedErr
	}
	return c.roomRequestHandler, nil
}

// initRoomRepository creates the room repository based on the database driver.
func (c *Container) initRoomRepository() (roomUseCase.RoomRepository, error) {
	if c.config.DBDriver == database.DriverMemory {
		return roomRepository.NewMemoryRoomRepository(), nil
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for room repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return roomRepository.NewPostgreSQLRoomRepository(db), nil
	case database.DriverMySQL:
		return roomRepository.NewMySQLRoomRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initRoomRequestHandler creates the room request handler.
func (c *Container) initRoomRequestHandler() (*roomUseCase.RoomRequestHandler, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for room request handler: %w", err)
	}

	roomRepo, err := c.RoomRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get room repository for room request handler: %w", err)
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for room request handler: %w", err)
	}

	return roomUseCase.NewRoomRequestHandler(
		txManager,
		roomRepo,
		outboxRepo,
		roomService.NewRoomEventService(),
		c.Logger(),
	), nil
}
