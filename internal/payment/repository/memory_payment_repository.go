package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/giangnd99/hotel-management-sub003/internal/database"
	paymentDomain "github.com/giangnd99/hotel-management-sub003/internal/payment/domain"
)

// MemoryPaymentRepository keeps payments in process memory. Writes made inside a
// database.MemoryTxManager unit of work are reverted when it fails.
type MemoryPaymentRepository struct {
	mu       sync.RWMutex
	payments map[uuid.UUID]*paymentDomain.Payment
}

// NewMemoryPaymentRepository creates an empty MemoryPaymentRepository.
func NewMemoryPaymentRepository() *MemoryPaymentRepository {
	return &MemoryPaymentRepository{
		payments: make(map[uuid.UUID]*paymentDomain.Payment),
	}
}

func (r *MemoryPaymentRepository) Create(ctx context.Context, payment *paymentDomain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, stored := range r.payments {
		if stored.ID == payment.ID || stored.BookingID == payment.BookingID {
			return paymentDomain.ErrPaymentAlreadyExists
		}
	}
	r.payments[payment.ID] = clonePayment(payment)
	database.OnRollback(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.payments, payment.ID)
	})
	return nil
}

func (r *MemoryPaymentRepository) Get(ctx context.Context, paymentID uuid.UUID) (*paymentDomain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, exists := r.payments[paymentID]
	if !exists {
		return nil, paymentDomain.ErrPaymentNotFound
	}
	return clonePayment(stored), nil
}

func (r *MemoryPaymentRepository) GetByBookingIDForUpdate(
	ctx context.Context,
	bookingID uuid.UUID,
) (*paymentDomain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, stored := range r.payments {
		if stored.BookingID == bookingID {
			return clonePayment(stored), nil
		}
	}
	return nil, paymentDomain.ErrPaymentNotFound
}

func (r *MemoryPaymentRepository) Update(ctx context.Context, payment *paymentDomain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous, exists := r.payments[payment.ID]
	if !exists {
		return paymentDomain.ErrPaymentNotFound
	}
	r.payments[payment.ID] = clonePayment(payment)
	database.OnRollback(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.payments[payment.ID] = previous
	})
	return nil
}

func clonePayment(payment *paymentDomain.Payment) *paymentDomain.Payment {
	c := *payment
	if payment.RefundAmount != nil {
		amount := *payment.RefundAmount
		c.RefundAmount = &amount
	}
	return &c
}
