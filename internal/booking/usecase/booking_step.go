package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	bookingDomain "github.com/giangnd99/hotel-management-sub003/internal/booking/domain"
	"github.com/giangnd99/hotel-management-sub003/internal/database"
	apperrors "github.com/giangnd99/hotel-management-sub003/internal/errors"
	sagaDomain "github.com/giangnd99/hotel-management-sub003/internal/saga/domain"
	sagaUsecase "github.com/giangnd99/hotel-management-sub003/internal/saga/usecase"
)

// applyFunc mutates the locked booking for a claimed outbox record. It must
// report rule violations before writing anything.
type applyFunc func(ctx context.Context, record *sagaDomain.OutboxMessage, booking *bookingDomain.Booking) error

// bookingStep runs the phases every booking saga step shares: claim the outbox
// record through the gate, lock the booking it references, apply the mutation
// and conclude the record, all in one unit of work.
type bookingStep struct {
	stepType    sagaDomain.StepType
	txManager   database.TxManager
	bookingRepo BookingRepository
	outboxRepo  sagaUsecase.OutboxRepository
	gate        *sagaUsecase.OutboxGate
	logger      *slog.Logger
	clock       func() time.Time
}

func newBookingStep(
	stepType sagaDomain.StepType,
	txManager database.TxManager,
	bookingRepo BookingRepository,
	outboxRepo sagaUsecase.OutboxRepository,
	logger *slog.Logger,
) bookingStep {
	return bookingStep{
		stepType:    stepType,
		txManager:   txManager,
		bookingRepo: bookingRepo,
		outboxRepo:  outboxRepo,
		gate:        sagaUsecase.NewOutboxGate(outboxRepo),
		logger:      logger.With(slog.String("step", string(stepType))),
		clock:       time.Now,
	}
}

// process claims the STARTED record and finishes it after apply. A rule
// violation or a missing booking is committed with the record FAILED and
// returned as ErrBusinessRule so the message is not redelivered.
func (s *bookingStep) process(ctx context.Context, sagaID uuid.UUID, apply applyFunc) error {
	var violation error

	err := s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		record, err := s.gate.BeginProcess(txCtx, s.stepType, sagaID)
		if err != nil {
			return err
		}

		booking, err := s.bookingRepo.GetForUpdate(txCtx, record.ReferenceID)
		if err == nil {
			err = apply(txCtx, record, booking)
		}
		if isViolation(err) {
			violation = err
			return s.gate.Fail(txCtx, record, err)
		}
		if err != nil {
			return err
		}

		return s.gate.Finish(txCtx, record, sagaDomain.SagaStatusFinished)
	})
	if err != nil {
		return err
	}

	if violation != nil {
		s.logger.Warn("saga step failed",
			slog.String("saga_id", sagaID.String()),
			slog.Any("error", violation),
		)
		if !apperrors.Is(violation, apperrors.ErrBusinessRule) {
			return fmt.Errorf("%w: %w", apperrors.ErrBusinessRule, violation)
		}
		return violation
	}
	return nil
}

// rollback claims the record for compensation and marks it COMPENSATED after
// apply. A booking that no longer exists has nothing to compensate.
func (s *bookingStep) rollback(
	ctx context.Context,
	sagaID uuid.UUID,
	failureMessages []string,
	apply applyFunc,
) error {
	return s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		record, err := s.gate.BeginRollback(txCtx, s.stepType, sagaID)
		if err != nil {
			return err
		}

		attrs := []any{
			slog.String("saga_id", sagaID.String()),
			slog.String("booking_id", record.ReferenceID.String()),
			slog.Any("failure_messages", failureMessages),
		}

		booking, err := s.bookingRepo.GetForUpdate(txCtx, record.ReferenceID)
		switch {
		case errors.Is(err, bookingDomain.ErrBookingNotFound):
			s.logger.Warn("compensating saga step without booking", attrs...)
		case err != nil:
			return err
		default:
			if err := apply(txCtx, record, booking); err != nil {
				return err
			}
			s.logger.Info("saga step compensated", attrs...)
		}

		return s.gate.Finish(txCtx, record, sagaDomain.SagaStatusCompensated)
	})
}

func (s *bookingStep) now() time.Time {
	return s.clock().UTC()
}

func isViolation(err error) bool {
	return apperrors.Is(err, apperrors.ErrBusinessRule) || apperrors.Is(err, bookingDomain.ErrBookingNotFound)
}

func requireStatus(booking *bookingDomain.Booking, status bookingDomain.BookingStatus) error {
	if booking.Status != status {
		return fmt.Errorf("%w: expected %s, booking %s is %s",
			bookingDomain.ErrInvalidBookingStatus, status, booking.ID, booking.Status)
	}
	return nil
}
