package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/giangnd99/hotel-management-sub003/internal/database"
	apperrors "github.com/giangnd99/hotel-management-sub003/internal/errors"
	"github.com/giangnd99/hotel-management-sub003/internal/metrics"
	paymentDomain "github.com/giangnd99/hotel-management-sub003/internal/payment/domain"
	paymentService "github.com/giangnd99/hotel-management-sub003/internal/payment/service"
	sagaDomain "github.com/giangnd99/hotel-management-sub003/internal/saga/domain"
	sagaUsecase "github.com/giangnd99/hotel-management-sub003/internal/saga/usecase"
)

const metricsDomain = "payment"

// PaymentRequestHandler refunds the payment of a cancelled booking and replies to
// the booking service through the outbox.
type PaymentRequestHandler struct {
	txManager   database.TxManager
	paymentRepo PaymentRepository
	replies     *sagaUsecase.ReplyOutbox
	refunds     paymentService.RefundService
	metrics     metrics.BusinessMetrics
	logger      *slog.Logger
	clock       func() time.Time
}

// NewPaymentRequestHandler creates a new PaymentRequestHandler.
func NewPaymentRequestHandler(
	txManager database.TxManager,
	paymentRepo PaymentRepository,
	outboxRepo sagaUsecase.OutboxRepository,
	refunds paymentService.RefundService,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
) *PaymentRequestHandler {
	return &PaymentRequestHandler{
		txManager:   txManager,
		paymentRepo: paymentRepo,
		replies:     sagaUsecase.NewReplyOutbox(outboxRepo),
		refunds:     refunds,
		metrics:     businessMetrics,
		logger:      logger,
		clock:       time.Now,
	}
}

// Handle refunds the booking's payment. A refund the payment cannot honour is
// answered with a FAILED reply. Requests already answered return
// ErrStepAlreadyHandled.
func (h *PaymentRequestHandler) Handle(ctx context.Context, msg sagaUsecase.Message[sagaDomain.RefundRequest]) error {
	if msg.RequestType != sagaDomain.RequestTypePaymentRefund {
		return fmt.Errorf("%w: payment service does not handle %s", sagaDomain.ErrNoRoute, msg.RequestType)
	}

	attrs := []any{
		slog.String("saga_id", msg.SagaID.String()),
		slog.String("booking_id", msg.Payload.BookingID.String()),
		slog.String("payment_id", msg.Payload.PaymentID.String()),
	}

	amount, ok := h.refunds.RefundAmount(msg.Payload)
	if !ok {
		h.logger.Warn("refund request carries no deposit amount, refunding zero", attrs...)
	}

	var failure error
	err := h.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := h.replies.EnsureUnhandled(txCtx, sagaDomain.StepPaymentRefund, msg.SagaID); err != nil {
			return err
		}
		if err := h.refund(txCtx, msg.Payload, amount); err != nil {
			if isPaymentFailure(err) {
				failure = err
			}
			return err
		}
		return h.replies.Record(txCtx, h.reply(msg, sagaDomain.MessageStatusSucceeded, amount, nil))
	})
	if failure == nil {
		if err == nil {
			if !ok {
				h.metrics.RecordOperation(ctx, metricsDomain, "refund_amount_missing", "success")
			}
			h.logger.Info("payment refunded", append(attrs, slog.Int64("refund_amount", amount))...)
		}
		return err
	}

	h.logger.Warn("payment refund failed", append(attrs, slog.Any("error", failure))...)
	return h.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := h.replies.EnsureUnhandled(txCtx, sagaDomain.StepPaymentRefund, msg.SagaID); err != nil {
			return err
		}
		return h.replies.Record(txCtx, h.reply(msg, sagaDomain.MessageStatusFailed, 0, []string{failure.Error()}))
	})
}

func (h *PaymentRequestHandler) refund(ctx context.Context, request sagaDomain.RefundRequest, amount int64) error {
	payment, err := h.paymentRepo.GetByBookingIDForUpdate(ctx, request.BookingID)
	if err != nil {
		return err
	}
	if payment.ID != request.PaymentID {
		return paymentDomain.ErrPaymentMismatch
	}
	if err := h.refunds.Refund(payment, request.BookingID, amount, h.clock().UTC()); err != nil {
		return err
	}
	return h.paymentRepo.Update(ctx, payment)
}

func (h *PaymentRequestHandler) reply(
	msg sagaUsecase.Message[sagaDomain.RefundRequest],
	status sagaDomain.MessageStatus,
	amount int64,
	failures []string,
) sagaUsecase.Reply {
	return sagaUsecase.Reply{
		SagaID:      msg.SagaID,
		ReferenceID: msg.ReferenceID,
		StepType:    sagaDomain.StepPaymentRefund,
		RequestType: msg.RequestType,
		Topic:       sagaDomain.TopicPaymentResponse,
		Status:      status,
		Payload: sagaDomain.RefundResponse{
			BookingID:       msg.Payload.BookingID,
			PaymentID:       msg.Payload.PaymentID,
			RefundAmount:    amount,
			FailureMessages: failures,
		},
		FailureMessages: failures,
	}
}

func isPaymentFailure(err error) bool {
	return apperrors.Is(err, apperrors.ErrBusinessRule) || apperrors.Is(err, paymentDomain.ErrPaymentNotFound)
}
