package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	bookingDomain "github.com/giangnd99/hotel-management-sub003/internal/booking/domain"
	"github.com/giangnd99/hotel-management-sub003/internal/database"
)

// MemoryBookingRepository keeps bookings in process memory. Writes made inside a
// database.MemoryTxManager unit of work are reverted when it fails.
type MemoryBookingRepository struct {
	mu       sync.RWMutex
	bookings map[uuid.UUID]*bookingDomain.Booking
}

// NewMemoryBookingRepository creates an empty MemoryBookingRepository.
func NewMemoryBookingRepository() *MemoryBookingRepository {
	return &MemoryBookingRepository{
		bookings: make(map[uuid.UUID]*bookingDomain.Booking),
	}
}

func (r *MemoryBookingRepository) Create(ctx context.Context, booking *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bookings[booking.ID]; exists {
		return bookingDomain.ErrBookingAlreadyExists
	}
	r.bookings[booking.ID] = cloneBooking(booking)
	database.OnRollback(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.bookings, booking.ID)
	})
	return nil
}

func (r *MemoryBookingRepository) Get(ctx context.Context, bookingID uuid.UUID) (*bookingDomain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, exists := r.bookings[bookingID]
	if !exists {
		return nil, bookingDomain.ErrBookingNotFound
	}
	return cloneBooking(stored), nil
}

// GetForUpdate is Get; the memory unit of work already serializes writers.
func (r *MemoryBookingRepository) GetForUpdate(
	ctx context.Context,
	bookingID uuid.UUID,
) (*bookingDomain.Booking, error) {
	return r.Get(ctx, bookingID)
}

func (r *MemoryBookingRepository) Update(ctx context.Context, booking *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.bookings[booking.ID]
	if !exists {
		return bookingDomain.ErrBookingNotFound
	}

	previous := stored
	r.bookings[booking.ID] = cloneBooking(booking)
	database.OnRollback(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.bookings[booking.ID] = previous
	})
	return nil
}

func cloneBooking(booking *bookingDomain.Booking) *bookingDomain.Booking {
	c := *booking
	c.RoomIDs = slices.Clone(booking.RoomIDs)
	if booking.PreviousStatus != nil {
		status := *booking.PreviousStatus
		c.PreviousStatus = &status
	}
	if booking.DepositAmount != nil {
		amount := *booking.DepositAmount
		c.DepositAmount = &amount
	}
	if booking.PaymentID != nil {
		id := *booking.PaymentID
		c.PaymentID = &id
	}
	if booking.RefundAmount != nil {
		amount := *booking.RefundAmount
		c.RefundAmount = &amount
	}
	return &c
}
