package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	roomDomain "github.com/giangnd99/hotel-management-sub003/internal/room/domain"
	appValidation "github.com/giangnd99/hotel-management-sub003/internal/validation"
)

// roomUseCase implements the RoomUseCase interface.
type roomUseCase struct {
	roomRepo RoomRepository
	logger   *slog.Logger
}

// NewRoomUseCase creates a new RoomUseCase.
func NewRoomUseCase(roomRepo RoomRepository, logger *slog.Logger) RoomUseCase {
	return &roomUseCase{
		roomRepo: roomRepo,
		logger:   logger,
	}
}

// Create stores a new VACANT room.
func (r *roomUseCase) Create(ctx context.Context, number string) (*roomDomain.Room, error) {
	err := validation.Validate(number,
		validation.Required.Error("room number is required"),
		appValidation.NotBlank,
		validation.Length(1, 32),
	)
	if err != nil {
		return nil, appValidation.WrapValidationError(err)
	}

	now := time.Now().UTC()
	room := &roomDomain.Room{
		ID:        uuid.Must(uuid.NewV7()),
		Number:    strings.TrimSpace(number),
		Status:    roomDomain.RoomStatusVacant,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := r.roomRepo.Create(ctx, room); err != nil {
		return nil, err
	}

	r.logger.Info("room created", slog.String("room_id", room.ID.String()), slog.String("number", room.Number))
	return room, nil
}

// Get retrieves a room by ID.
func (r *roomUseCase) Get(ctx context.Context, roomID uuid.UUID) (*roomDomain.Room, error) {
	return r.roomRepo.Get(ctx, roomID)
}

// ListCostItems retrieves the cost line items recorded against a room.
func (r *roomUseCase) ListCostItems(ctx context.Context, roomID uuid.UUID) ([]*roomDomain.CostItem, error) {
	if _, err := r.roomRepo.Get(ctx, roomID); err != nil {
		return nil, err
	}
	return r.roomRepo.ListCostItems(ctx, roomID)
}
