package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	bookingDomain "github.com/giangnd99/hotel-management-sub003/internal/booking/domain"
	bookingService "github.com/giangnd99/hotel-management-sub003/internal/booking/service"
	"github.com/giangnd99/hotel-management-sub003/internal/database"
	sagaDomain "github.com/giangnd99/hotel-management-sub003/internal/saga/domain"
	sagaUsecase "github.com/giangnd99/hotel-management-sub003/internal/saga/usecase"
	appValidation "github.com/giangnd99/hotel-management-sub003/internal/validation"
)

// bookingUseCase implements the BookingUseCase interface.
type bookingUseCase struct {
	txManager    database.TxManager
	bookingRepo  BookingRepository
	outboxRepo   sagaUsecase.OutboxRepository
	cancellation bookingService.CancellationService
	logger       *slog.Logger
	clock        func() time.Time
}

// NewBookingUseCase creates a new BookingUseCase.
func NewBookingUseCase(
	txManager database.TxManager,
	bookingRepo BookingRepository,
	outboxRepo sagaUsecase.OutboxRepository,
	cancellation bookingService.CancellationService,
	logger *slog.Logger,
) BookingUseCase {
	return &bookingUseCase{
		txManager:    txManager,
		bookingRepo:  bookingRepo,
		outboxRepo:   outboxRepo,
		cancellation: cancellation,
		logger:       logger,
		clock:        time.Now,
	}
}

func (b *bookingUseCase) validateCreateInput(input CreateBookingInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.CustomerID, appValidation.NotNilUUID),
		validation.Field(&input.RoomIDs,
			validation.Required.Error("at least one room is required"),
			appValidation.UniqueUUIDs,
		),
		validation.Field(&input.CheckInDate, validation.Required),
		validation.Field(&input.CheckOutDate, validation.Required),
	)
	if err != nil {
		return appValidation.WrapValidationError(err)
	}
	if !input.CheckOutDate.After(input.CheckInDate) {
		return bookingDomain.ErrInvalidStay
	}
	return nil
}

// Create stores a new PENDING booking.
func (b *bookingUseCase) Create(ctx context.Context, input CreateBookingInput) (*bookingDomain.Booking, error) {
	if err := b.validateCreateInput(input); err != nil {
		return nil, err
	}

	now := b.clock().UTC()
	booking := &bookingDomain.Booking{
		ID:           uuid.Must(uuid.NewV7()),
		CustomerID:   input.CustomerID,
		RoomIDs:      input.RoomIDs,
		CheckInDate:  input.CheckInDate.UTC(),
		CheckOutDate: input.CheckOutDate.UTC(),
		Status:       bookingDomain.BookingStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := b.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	b.logger.Info("booking created",
		slog.String("booking_id", booking.ID.String()),
		slog.Int("rooms", len(booking.RoomIDs)),
	)
	return booking, nil
}

// Get retrieves a booking by ID.
func (b *bookingUseCase) Get(ctx context.Context, bookingID uuid.UUID) (*bookingDomain.Booking, error) {
	return b.bookingRepo.Get(ctx, bookingID)
}

// ConfirmDeposit moves a PENDING booking to DEPOSITED and opens the room
// reservation saga in the same transaction.
func (b *bookingUseCase) ConfirmDeposit(
	ctx context.Context,
	bookingID, paymentID uuid.UUID,
	amount int64,
) (uuid.UUID, error) {
	err := validation.Errors{
		"payment_id": appValidation.NotNilUUID.Validate(paymentID),
		"amount":     appValidation.PositiveAmount.Validate(amount),
	}.Filter()
	if err != nil {
		return uuid.Nil, appValidation.WrapValidationError(err)
	}

	sagaID := uuid.Must(uuid.NewV7())
	err = b.txManager.WithTx(ctx, func(txCtx context.Context) error {
		booking, err := b.bookingRepo.GetForUpdate(txCtx, bookingID)
		if err != nil {
			return err
		}
		if err := requireSettled(booking); err != nil {
			return err
		}
		if booking.Status != bookingDomain.BookingStatusPending {
			return fmt.Errorf("%w: deposit requires %s, booking is %s",
				bookingDomain.ErrInvalidBookingStatus, bookingDomain.BookingStatusPending, booking.Status)
		}

		booking.TransitionTo(bookingDomain.BookingStatusDeposited, b.clock().UTC())
		booking.DepositAmount = &amount
		booking.PaymentID = &paymentID
		if err := b.bookingRepo.Update(txCtx, booking); err != nil {
			return err
		}

		return b.openSaga(txCtx, sagaID, booking, sagaDomain.StepBookingRoomReservation,
			sagaDomain.RequestTypeRoomReservation, sagaDomain.RoomRequest{
				BookingID:     booking.ID,
				RoomIDs:       booking.RoomIDs,
				CheckInDate:   booking.CheckInDate,
				DepositAmount: amount,
			})
	})
	if err != nil {
		return uuid.Nil, err
	}

	b.logger.Info("room reservation saga started",
		slog.String("saga_id", sagaID.String()),
		slog.String("booking_id", bookingID.String()),
	)
	return sagaID, nil
}

// CheckIn moves a CONFIRMED or PAID booking to CHECKED_IN and opens the room
// check-in saga in the same transaction.
func (b *bookingUseCase) CheckIn(ctx context.Context, bookingID uuid.UUID) (uuid.UUID, error) {
	sagaID := uuid.Must(uuid.NewV7())
	err := b.txManager.WithTx(ctx, func(txCtx context.Context) error {
		booking, err := b.bookingRepo.GetForUpdate(txCtx, bookingID)
		if err != nil {
			return err
		}
		if err := requireSettled(booking); err != nil {
			return err
		}
		if booking.Status != bookingDomain.BookingStatusConfirmed && booking.Status != bookingDomain.BookingStatusPaid {
			return fmt.Errorf("%w: check-in requires %s or %s, booking is %s",
				bookingDomain.ErrInvalidBookingStatus, bookingDomain.BookingStatusConfirmed,
				bookingDomain.BookingStatusPaid, booking.Status)
		}

		booking.TransitionTo(bookingDomain.BookingStatusCheckedIn, b.clock().UTC())
		if err := b.bookingRepo.Update(txCtx, booking); err != nil {
			return err
		}

		return b.openSaga(txCtx, sagaID, booking, sagaDomain.StepBookingRoomCheckIn,
			sagaDomain.RequestTypeRoomCheckIn, sagaDomain.RoomRequest{
				BookingID:   booking.ID,
				RoomIDs:     booking.RoomIDs,
				CheckInDate: booking.CheckInDate,
			})
	})
	if err != nil {
		return uuid.Nil, err
	}

	b.logger.Info("room check-in saga started",
		slog.String("saga_id", sagaID.String()),
		slog.String("booking_id", bookingID.String()),
	)
	return sagaID, nil
}

// RequestCancellation checks eligibility, holds the booking and opens the
// cancellation saga. The status changes only when the room service confirms
// the release.
func (b *bookingUseCase) RequestCancellation(
	ctx context.Context,
	bookingID uuid.UUID,
	reason string,
) (uuid.UUID, error) {
	if err := validation.Validate(reason, validation.Required, appValidation.NotBlank); err != nil {
		return uuid.Nil, appValidation.WrapValidationError(fmt.Errorf("reason: %w", err))
	}

	sagaID := uuid.Must(uuid.NewV7())
	err := b.txManager.WithTx(ctx, func(txCtx context.Context) error {
		booking, err := b.bookingRepo.GetForUpdate(txCtx, bookingID)
		if err != nil {
			return err
		}
		if err := requireSettled(booking); err != nil {
			return err
		}
		if err := b.cancellation.CheckCancellable(booking, b.clock()); err != nil {
			return err
		}

		booking.Hold(b.clock().UTC())
		if err := b.bookingRepo.Update(txCtx, booking); err != nil {
			return err
		}

		return b.openSaga(txCtx, sagaID, booking, sagaDomain.StepBookingCancellation,
			sagaDomain.RequestTypeRoomCancellation, sagaDomain.RoomRequest{
				BookingID:   booking.ID,
				RoomIDs:     booking.RoomIDs,
				CheckInDate: booking.CheckInDate,
				Reason:      reason,
			})
	})
	if err != nil {
		return uuid.Nil, err
	}

	b.logger.Info("cancellation saga started",
		slog.String("saga_id", sagaID.String()),
		slog.String("booking_id", bookingID.String()),
	)
	return sagaID, nil
}

// requireSettled rejects a booking that still waits for the response of
// another saga step.
func requireSettled(booking *bookingDomain.Booking) error {
	if booking.InFlight() {
		return fmt.Errorf("%w: booking %s is %s from %s",
			bookingDomain.ErrBookingStepInFlight, booking.ID, booking.Status, *booking.PreviousStatus)
	}
	return nil
}

// openSaga stores the STARTED outbox record the relay publishes to the room service.
func (b *bookingUseCase) openSaga(
	ctx context.Context,
	sagaID uuid.UUID,
	booking *bookingDomain.Booking,
	stepType sagaDomain.StepType,
	requestType sagaDomain.RequestType,
	request sagaDomain.RoomRequest,
) error {
	record, err := sagaDomain.NewOutboxMessage(sagaID, booking.ID, stepType, requestType,
		sagaDomain.TopicRoomRequest, sagaDomain.MessageStatusRequested, request)
	if err != nil {
		return err
	}
	return b.outboxRepo.Save(ctx, record)
}
