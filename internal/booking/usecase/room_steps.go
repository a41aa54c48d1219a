package usecase

import (
	"context"
	"log/slog"

	bookingDomain "github.com/giangnd99/hotel-management-sub003/internal/booking/domain"
	"github.com/giangnd99/hotel-management-sub003/internal/database"
	sagaDomain "github.com/giangnd99/hotel-management-sub003/internal/saga/domain"
	sagaUsecase "github.com/giangnd99/hotel-management-sub003/internal/saga/usecase"
)

// RoomReservationStep applies the room service's answer to a deposit: the
// booking is CONFIRMED when the rooms were reserved and back to its previous
// status when they were not.
type RoomReservationStep struct {
	bookingStep
}

// NewRoomReservationStep creates a new RoomReservationStep.
func NewRoomReservationStep(
	txManager database.TxManager,
	bookingRepo BookingRepository,
	outboxRepo sagaUsecase.OutboxRepository,
	logger *slog.Logger,
) *RoomReservationStep {
	return &RoomReservationStep{
		bookingStep: newBookingStep(sagaDomain.StepBookingRoomReservation, txManager, bookingRepo, outboxRepo, logger),
	}
}

func (s *RoomReservationStep) Process(ctx context.Context, msg sagaUsecase.Message[sagaDomain.RoomResponse]) error {
	return s.process(ctx, msg.SagaID,
		func(ctx context.Context, _ *sagaDomain.OutboxMessage, booking *bookingDomain.Booking) error {
			if err := requireStatus(booking, bookingDomain.BookingStatusDeposited); err != nil {
				return err
			}
			booking.Status = bookingDomain.BookingStatusConfirmed
			booking.Settle(s.now())
			return s.bookingRepo.Update(ctx, booking)
		})
}

func (s *RoomReservationStep) Rollback(ctx context.Context, msg sagaUsecase.Message[sagaDomain.RoomResponse]) error {
	return s.rollback(ctx, msg.SagaID, msg.Payload.FailureMessages,
		func(ctx context.Context, _ *sagaDomain.OutboxMessage, booking *bookingDomain.Booking) error {
			if booking.Status != bookingDomain.BookingStatusDeposited || !booking.Revert(s.now()) {
				return nil
			}
			return s.bookingRepo.Update(ctx, booking)
		})
}

// RoomCheckInStep applies the room service's answer to a check-in: the booking
// stays CHECKED_IN when the rooms became occupied and is reverted otherwise.
type RoomCheckInStep struct {
	bookingStep
}

// NewRoomCheckInStep creates a new RoomCheckInStep.
func NewRoomCheckInStep(
	txManager database.TxManager,
	bookingRepo BookingRepository,
	outboxRepo sagaUsecase.OutboxRepository,
	logger *slog.Logger,
) *RoomCheckInStep {
	return &RoomCheckInStep{
		bookingStep: newBookingStep(sagaDomain.StepBookingRoomCheckIn, txManager, bookingRepo, outboxRepo, logger),
	}
}

func (s *RoomCheckInStep) Process(ctx context.Context, msg sagaUsecase.Message[sagaDomain.RoomResponse]) error {
	return s.process(ctx, msg.SagaID,
		func(ctx context.Context, _ *sagaDomain.OutboxMessage, booking *bookingDomain.Booking) error {
			if err := requireStatus(booking, bookingDomain.BookingStatusCheckedIn); err != nil {
				return err
			}
			booking.Settle(s.now())
			return s.bookingRepo.Update(ctx, booking)
		})
}

func (s *RoomCheckInStep) Rollback(ctx context.Context, msg sagaUsecase.Message[sagaDomain.RoomResponse]) error {
	return s.rollback(ctx, msg.SagaID, msg.Payload.FailureMessages,
		func(ctx context.Context, _ *sagaDomain.OutboxMessage, booking *bookingDomain.Booking) error {
			if booking.Status != bookingDomain.BookingStatusCheckedIn || !booking.Revert(s.now()) {
				return nil
			}
			return s.bookingRepo.Update(ctx, booking)
		})
}
