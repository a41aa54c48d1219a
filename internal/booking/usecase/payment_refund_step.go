package usecase

import (
	"context"
	"log/slog"

	bookingDomain "github.com/giangnd99/hotel-management-sub003/internal/booking/domain"
	"github.com/giangnd99/hotel-management-sub003/internal/database"
	sagaDomain "github.com/giangnd99/hotel-management-sub003/internal/saga/domain"
	sagaUsecase "github.com/giangnd99/hotel-management-sub003/internal/saga/usecase"
)

// PaymentRefundStep records the outcome of the refund requested by a cancellation.
type PaymentRefundStep struct {
	bookingStep
}

// NewPaymentRefundStep creates a new PaymentRefundStep.
func NewPaymentRefundStep(
	txManager database.TxManager,
	bookingRepo BookingRepository,
	outboxRepo sagaUsecase.OutboxRepository,
	logger *slog.Logger,
) *PaymentRefundStep {
	return &PaymentRefundStep{
		bookingStep: newBookingStep(sagaDomain.StepBookingPaymentRefund, txManager, bookingRepo, outboxRepo, logger),
	}
}

func (s *PaymentRefundStep) Process(ctx context.Context, msg sagaUsecase.Message[sagaDomain.RefundResponse]) error {
	return s.process(ctx, msg.SagaID,
		func(ctx context.Context, _ *sagaDomain.OutboxMessage, booking *bookingDomain.Booking) error {
			amount := msg.Payload.RefundAmount
			booking.RefundStatus = bookingDomain.RefundStatusRefunded
			booking.RefundAmount = &amount
			booking.UpdatedAt = s.now()
			if err := s.bookingRepo.Update(ctx, booking); err != nil {
				return err
			}

			s.logger.Info("booking refunded",
				slog.String("booking_id", booking.ID.String()),
				slog.Int64("refund_amount", amount),
			)
			return nil
		})
}

func (s *PaymentRefundStep) Rollback(ctx context.Context, msg sagaUsecase.Message[sagaDomain.RefundResponse]) error {
	return s.rollback(ctx, msg.SagaID, msg.Payload.FailureMessages,
		func(ctx context.Context, _ *sagaDomain.OutboxMessage, booking *bookingDomain.Booking) error {
			booking.RefundStatus = bookingDomain.RefundStatusFailed
			booking.UpdatedAt = s.now()
			return s.bookingRepo.Update(ctx, booking)
		})
}
