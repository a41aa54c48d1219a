package usecase

import (
	"context"
	"log/slog"

	bookingDomain "github.com/giangnd99/hotel-management-sub003/internal/booking/domain"
	bookingService "github.com/giangnd99/hotel-management-sub003/internal/booking/service"
	"github.com/giangnd99/hotel-management-sub003/internal/database"
	sagaDomain "github.com/giangnd99/hotel-management-sub003/internal/saga/domain"
	sagaUsecase "github.com/giangnd99/hotel-management-sub003/internal/saga/usecase"
)

// CancellationStep cancels the booking once the room service released its
// rooms. Eligibility is checked again because the booking may have changed
// since the cancellation was requested. A refundable cancellation of a booking
// with a recorded payment opens the payment refund hop of the same saga.
type CancellationStep struct {
	bookingStep
	cancellation bookingService.CancellationService
}

// NewCancellationStep creates a new CancellationStep.
func NewCancellationStep(
	txManager database.TxManager,
	bookingRepo BookingRepository,
	outboxRepo sagaUsecase.OutboxRepository,
	cancellation bookingService.CancellationService,
	logger *slog.Logger,
) *CancellationStep {
	return &CancellationStep{
		bookingStep:  newBookingStep(sagaDomain.StepBookingCancellation, txManager, bookingRepo, outboxRepo, logger),
		cancellation: cancellation,
	}
}

func (s *CancellationStep) Process(ctx context.Context, msg sagaUsecase.Message[sagaDomain.RoomResponse]) error {
	return s.process(ctx, msg.SagaID,
		func(ctx context.Context, record *sagaDomain.OutboxMessage, booking *bookingDomain.Booking) error {
			var request sagaDomain.RoomRequest
			envelope, err := record.Envelope()
			if err != nil {
				return err
			}
			if err := envelope.DecodePayload(&request); err != nil {
				return err
			}

			event, err := s.cancellation.Cancel(booking, request.Reason, s.now())
			if err != nil {
				if releaseErr := s.release(ctx, booking); releaseErr != nil {
					return releaseErr
				}
				return err
			}

			refund := event.Refundable && booking.PaymentID != nil
			if refund {
				booking.RefundStatus = bookingDomain.RefundStatusRequested
				if err := s.requestRefund(ctx, record, booking, request.Reason); err != nil {
					return err
				}
			}

			if err := s.bookingRepo.Update(ctx, booking); err != nil {
				return err
			}

			s.logger.Info("booking cancelled",
				slog.String("saga_id", record.SagaID.String()),
				slog.String("booking_id", booking.ID.String()),
				slog.String("reason", event.Reason),
				slog.Bool("refundable", event.Refundable),
				slog.Bool("refund_requested", refund),
			)
			return nil
		})
}

func (s *CancellationStep) requestRefund(
	ctx context.Context,
	record *sagaDomain.OutboxMessage,
	booking *bookingDomain.Booking,
	reason string,
) error {
	next, err := sagaDomain.NewOutboxMessage(record.SagaID, booking.ID, sagaDomain.StepBookingPaymentRefund,
		sagaDomain.RequestTypePaymentRefund, sagaDomain.TopicPaymentRequest, sagaDomain.MessageStatusRequested,
		sagaDomain.RefundRequest{
			BookingID:     booking.ID,
			PaymentID:     *booking.PaymentID,
			DepositAmount: booking.DepositAmount,
			Reason:        reason,
		})
	if err != nil {
		return err
	}
	return s.outboxRepo.Save(ctx, next)
}

// Rollback records that the rooms could not be released and releases the
// hold placed when the cancellation was requested.
func (s *CancellationStep) Rollback(ctx context.Context, msg sagaUsecase.Message[sagaDomain.RoomResponse]) error {
	return s.rollback(ctx, msg.SagaID, msg.Payload.FailureMessages,
		func(ctx context.Context, _ *sagaDomain.OutboxMessage, booking *bookingDomain.Booking) error {
			return s.release(ctx, booking)
		})
}

// release drops the cancellation hold. A booking whose saved status differs
// from its current one belongs to another step and is left alone.
func (s *CancellationStep) release(ctx context.Context, booking *bookingDomain.Booking) error {
	if !booking.InFlight() || *booking.PreviousStatus != booking.Status {
		return nil
	}
	booking.Revert(s.now())
	return s.bookingRepo.Update(ctx, booking)
}
