package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/giangnd99/hotel-management-sub003/internal/database"
	apperrors "github.com/giangnd99/hotel-management-sub003/internal/errors"
	roomDomain "github.com/giangnd99/hotel-management-sub003/internal/room/domain"
	roomService "github.com/giangnd99/hotel-management-sub003/internal/room/service"
	sagaDomain "github.com/giangnd99/hotel-management-sub003/internal/saga/domain"
	sagaUsecase "github.com/giangnd99/hotel-management-sub003/internal/saga/usecase"
)

var roomStepTypes = map[sagaDomain.RequestType]sagaDomain.StepType{
	sagaDomain.RequestTypeRoomReservation:  sagaDomain.StepRoomReservation,
	sagaDomain.RequestTypeRoomCheckIn:      sagaDomain.StepRoomCheckIn,
	sagaDomain.RequestTypeRoomCancellation: sagaDomain.StepRoomCancellation,
}

// RoomRequestHandler applies room requests from booking sagas. All rooms of a
// request change in one transaction; when any room fails nothing is changed and
// a single FAILED reply is recorded for the whole set.
type RoomRequestHandler struct {
	txManager database.TxManager
	roomRepo  RoomRepository
	replies   *sagaUsecase.ReplyOutbox
	events    roomService.RoomEventService
	logger    *slog.Logger
	clock     func() time.Time
}

// NewRoomRequestHandler creates a new RoomRequestHandler.
func NewRoomRequestHandler(
	txManager database.TxManager,
	roomRepo RoomRepository,
	outboxRepo sagaUsecase.OutboxRepository,
	events roomService.RoomEventService,
	logger *slog.Logger,
) *RoomRequestHandler {
	return &RoomRequestHandler{
		txManager: txManager,
		roomRepo:  roomRepo,
		replies:   sagaUsecase.NewReplyOutbox(outboxRepo),
		events:    events,
		logger:    logger,
		clock:     time.Now,
	}
}

// Handle applies the request and records the reply. Requests already answered
// return ErrStepAlreadyHandled.
func (h *RoomRequestHandler) Handle(ctx context.Context, msg sagaUsecase.Message[sagaDomain.RoomRequest]) error {
	stepType, ok := roomStepTypes[msg.RequestType]
	if !ok {
		return fmt.Errorf("%w: room service does not handle %s", sagaDomain.ErrNoRoute, msg.RequestType)
	}

	attrs := []any{
		slog.String("saga_id", msg.SagaID.String()),
		slog.String("booking_id", msg.Payload.BookingID.String()),
		slog.String("request_type", string(msg.RequestType)),
		slog.Int("rooms", len(msg.Payload.RoomIDs)),
	}

	var failure error
	err := h.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := h.replies.EnsureUnhandled(txCtx, stepType, msg.SagaID); err != nil {
			return err
		}
		if err := h.apply(txCtx, msg); err != nil {
			if isRoomFailure(err) {
				failure = err
			}
			return err
		}
		return h.replies.Record(txCtx, h.reply(stepType, msg, sagaDomain.MessageStatusSucceeded, nil))
	})
	if failure == nil {
		if err == nil {
			h.logger.Info("room request applied", attrs...)
		}
		return err
	}

	h.logger.Warn("room request failed", append(attrs, slog.Any("error", failure))...)
	return h.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := h.replies.EnsureUnhandled(txCtx, stepType, msg.SagaID); err != nil {
			return err
		}
		return h.replies.Record(txCtx, h.reply(stepType, msg, sagaDomain.MessageStatusFailed, []string{failure.Error()}))
	})
}

func (h *RoomRequestHandler) apply(ctx context.Context, msg sagaUsecase.Message[sagaDomain.RoomRequest]) error {
	request := msg.Payload
	if len(request.RoomIDs) == 0 {
		return roomDomain.ErrNoRooms
	}

	now := h.clock().UTC()
	var deposits []int64
	if msg.RequestType == sagaDomain.RequestTypeRoomReservation {
		deposits = h.events.SplitDeposit(request.DepositAmount, len(request.RoomIDs))
	}

	for i, roomID := range request.RoomIDs {
		room, err := h.roomRepo.GetForUpdate(ctx, roomID)
		if err != nil {
			return fmt.Errorf("room %s: %w", roomID, err)
		}

		switch msg.RequestType {
		case sagaDomain.RequestTypeRoomReservation:
			err = h.reserve(ctx, room, request.BookingID, deposits[i], now)
		case sagaDomain.RequestTypeRoomCheckIn:
			err = h.checkIn(ctx, room, request.BookingID, now)
		case sagaDomain.RequestTypeRoomCancellation:
			err = h.release(ctx, room, request.BookingID, now)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (h *RoomRequestHandler) reserve(
	ctx context.Context,
	room *roomDomain.Room,
	bookingID uuid.UUID,
	deposit int64,
	now time.Time,
) error {
	item, err := h.events.Reserve(room, bookingID, deposit, now)
	if err != nil {
		return err
	}
	if err := h.roomRepo.Update(ctx, room); err != nil {
		return err
	}
	return h.roomRepo.AddCostItem(ctx, item)
}

func (h *RoomRequestHandler) checkIn(ctx context.Context, room *roomDomain.Room, bookingID uuid.UUID, now time.Time) error {
	if err := h.events.CheckIn(room, bookingID, now); err != nil {
		return err
	}
	return h.roomRepo.Update(ctx, room)
}

func (h *RoomRequestHandler) release(ctx context.Context, room *roomDomain.Room, bookingID uuid.UUID, now time.Time) error {
	if h.events.Release(room, bookingID, now) {
		if err := h.roomRepo.Update(ctx, room); err != nil {
			return err
		}
	}
	_, err := h.roomRepo.RemoveCostItems(ctx, room.ID, bookingID, roomDomain.CostItemKindDeposit)
	return err
}

func (h *RoomRequestHandler) reply(
	stepType sagaDomain.StepType,
	msg sagaUsecase.Message[sagaDomain.RoomRequest],
	status sagaDomain.MessageStatus,
	failures []string,
) sagaUsecase.Reply {
	return sagaUsecase.Reply{
		SagaID:      msg.SagaID,
		ReferenceID: msg.ReferenceID,
		StepType:    stepType,
		RequestType: msg.RequestType,
		Topic:       sagaDomain.TopicRoomResponse,
		Status:      status,
		Payload: sagaDomain.RoomResponse{
			BookingID:       msg.Payload.BookingID,
			RoomIDs:         msg.Payload.RoomIDs,
			FailureMessages: failures,
		},
		FailureMessages: failures,
	}
}

func isRoomFailure(err error) bool {
	return apperrors.Is(err, apperrors.ErrBusinessRule) || apperrors.Is(err, roomDomain.ErrRoomNotFound)
}
