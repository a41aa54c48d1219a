package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	paymentDomain "github.com/giangnd99/hotel-management-sub003/internal/payment/domain"
	appValidation "github.com/giangnd99/hotel-management-sub003/internal/validation"
)

// paymentUseCase implements the PaymentUseCase interface.
type paymentUseCase struct {
	paymentRepo PaymentRepository
	logger      *slog.Logger
	clock       func() time.Time
}

// NewPaymentUseCase creates a new PaymentUseCase.
func NewPaymentUseCase(paymentRepo PaymentRepository, logger *slog.Logger) PaymentUseCase {
	return &paymentUseCase{
		paymentRepo: paymentRepo,
		logger:      logger,
		clock:       time.Now,
	}
}

func (p *paymentUseCase) RecordDeposit(
	ctx context.Context,
	bookingID uuid.UUID,
	amount int64,
) (*paymentDomain.Payment, error) {
	err := validation.Errors{
		"booking_id": validation.Validate(bookingID, appValidation.NotNilUUID),
		"amount":     validation.Validate(amount, appValidation.PositiveAmount),
	}.Filter()
	if err != nil {
		return nil, appValidation.WrapValidationError(err)
	}

	now := p.clock().UTC()
	payment := &paymentDomain.Payment{
		ID:        uuid.Must(uuid.NewV7()),
		BookingID: bookingID,
		Amount:    amount,
		Status:    paymentDomain.PaymentStatusCompleted,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := p.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	p.logger.Info("deposit recorded",
		slog.String("payment_id", payment.ID.String()),
		slog.String("booking_id", bookingID.String()),
		slog.Int64("amount", amount),
	)
	return payment, nil
}

func (p *paymentUseCase) Get(ctx context.Context, paymentID uuid.UUID) (*paymentDomain.Payment, error) {
	return p.paymentRepo.Get(ctx, paymentID)
}
