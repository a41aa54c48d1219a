package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	bookingUsecase "github.com/giangnd99/hotel-management-sub003/internal/booking/usecase"
	paymentUsecase "github.com/giangnd99/hotel-management-sub003/internal/payment/usecase"
)

// RunDepositBooking records the customer's deposit with the payment service and
// starts the room reservation saga for the booking.
//
// Requirements: Database must be migrated and accessible. A running server relays
// the saga request.
func RunDepositBooking(
	ctx context.Context,
	paymentUseCase paymentUsecase.PaymentUseCase,
	bookingUseCase bookingUsecase.BookingUseCase,
	logger *slog.Logger,
	writer io.Writer,
	bookingID string,
	amount int64,
	format string,
) error {
	id, err := parseID("booking id", bookingID)
	if err != nil {
		return err
	}

	payment, err := paymentUseCase.RecordDeposit(ctx, id, amount)
	if err != nil {
		return fmt.Errorf("failed to record deposit: %w", err)
	}

	sagaID, err := bookingUseCase.ConfirmDeposit(ctx, id, payment.ID, amount)
	if err != nil {
		return fmt.Errorf("failed to confirm deposit: %w", err)
	}

	logger.Info("room reservation saga started",
		slog.String("booking_id", id.String()),
		slog.String("payment_id", payment.ID.String()),
		slog.String("saga_id", sagaID.String()),
	)

	if format == "json" {
		return outputJSON(writer, map[string]any{
			"booking_id": id.String(),
			"payment_id": payment.ID.String(),
			"amount":     amount,
			"saga_id":    sagaID.String(),
		})
	}

	_, _ = fmt.Fprintf(writer, "Deposit recorded\n")
	_, _ = fmt.Fprintf(writer, "Payment ID: %s\n", payment.ID)
	_, _ = fmt.Fprintf(writer, "Saga ID:    %s\n", sagaID)
	return nil
}

// RunCheckInBooking starts the room check-in saga for a confirmed booking.
func RunCheckInBooking(
	ctx context.Context,
	bookingUseCase bookingUsecase.BookingUseCase,
	logger *slog.Logger,
	writer io.Writer,
	bookingID string,
	format string,
) error {
	id, err := parseID("booking id", bookingID)
	if err != nil {
		return err
	}

	sagaID, err := bookingUseCase.CheckIn(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check in booking: %w", err)
	}

	logger.Info("room check-in saga started",
		slog.String("booking_id", id.String()),
		slog.String("saga_id", sagaID.String()),
	)
	return outputSagaStarted(writer, "check-in", id, sagaID, format)
}

// RunCancelBooking starts the cancellation saga for a booking.
func RunCancelBooking(
	ctx context.Context,
	bookingUseCase bookingUsecase.BookingUseCase,
	logger *slog.Logger,
	writer io.Writer,
	bookingID string,
	reason string,
	format string,
) error {
	id, err := parseID("booking id", bookingID)
	if err != nil {
		return err
	}

	sagaID, err := bookingUseCase.RequestCancellation(ctx, id, reason)
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	logger.Info("cancellation saga started",
		slog.String("booking_id", id.String()),
		slog.String("saga_id", sagaID.String()),
	)
	return outputSagaStarted(writer, "cancellation", id, sagaID, format)
}

func outputSagaStarted(writer io.Writer, saga string, bookingID, sagaID uuid.UUID, format string) error {
	if format == "json" {
		return outputJSON(writer, map[string]any{
			"saga":       saga,
			"booking_id": bookingID.String(),
			"saga_id":    sagaID.String(),
		})
	}

	_, _ = fmt.Fprintf(writer, "Booking %s %s requested\n", bookingID, saga)
	_, _ = fmt.Fprintf(writer, "Saga ID: %s\n", sagaID)
	return nil
}
