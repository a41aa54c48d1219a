// Package repository provides persistence implementations for rooms and their cost line items.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/giangnd99/hotel-management-sub003/internal/database"
	roomDomain "github.com/giangnd99/hotel-management-sub003/internal/room/domain"
)

const (
	roomSelectColumns     = `id, number, status, booking_id, created_at, updated_at`
	costItemSelectColumns = `id, room_id, booking_id, kind, amount, created_at`
)

// PostgreSQLRoomRepository handles room persistence for PostgreSQL
type PostgreSQLRoomRepository struct {
	db *sql.DB
}

// NewPostgreSQLRoomRepository creates a new PostgreSQLRoomRepository
func NewPostgreSQLRoomRepository(db *sql.DB) *PostgreSQLRoomRepository {
	return &PostgreSQLRoomRepository{
		db: db,
	}
}

// Create inserts a new room
func (r *PostgreSQLRoomRepository) Create(ctx context.Context, room *roomDomain.Room) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO rooms (id, number, status, booking_id, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(ctx, query, room.ID, room.Number, room.Status, room.BookingID,
		room.CreatedAt, room.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return roomDomain.ErrRoomAlreadyExists
		}
		return err
	}
	return nil
}

// Get retrieves a room by ID
func (r *PostgreSQLRoomRepository) Get(ctx context.Context, roomID uuid.UUID) (*roomDomain.Room, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + roomSelectColumns + ` FROM rooms WHERE id = $1`
	return scanRoom(querier.QueryRowContext(ctx, query, roomID).Scan)
}

// GetForUpdate retrieves a room by ID and locks it for the current transaction
func (r *PostgreSQLRoomRepository) GetForUpdate(ctx context.Context, roomID uuid.UUID) (*roomDomain.Room, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + roomSelectColumns + ` FROM rooms WHERE id = $1 FOR UPDATE`
	return scanRoom(querier.QueryRowContext(ctx, query, roomID).Scan)
}

// Update persists the room status and holder
func (r *PostgreSQLRoomRepository) Update(ctx context.Context, room *roomDomain.Room) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE rooms SET status = $1, booking_id = $2, updated_at = $3 WHERE id = $4`

	result, err := querier.ExecContext(ctx, query, room.Status, room.BookingID, room.UpdatedAt, room.ID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return roomDomain.ErrRoomNotFound
	}
	return nil
}

// AddCostItem inserts a cost line item
func (r *PostgreSQLRoomRepository) AddCostItem(ctx context.Context, item *roomDomain.CostItem) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO room_cost_items (id, room_id, booking_id, kind, amount, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(ctx, query, item.ID, item.RoomID, item.BookingID, item.Kind, item.Amount,
		item.CreatedAt)
	return err
}

// RemoveCostItems deletes the booking's line items of kind from a room
func (r *PostgreSQLRoomRepository) RemoveCostItems(
	ctx context.Context,
	roomID, bookingID uuid.UUID,
	kind roomDomain.CostItemKind,
) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM room_cost_items WHERE room_id = $1 AND booking_id = $2 AND kind = $3`

	result, err := querier.ExecContext(ctx, query, roomID, bookingID, kind)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// ListCostItems retrieves a room's line items ordered by creation time
func (r *PostgreSQLRoomRepository) ListCostItems(ctx context.Context, roomID uuid.UUID) ([]*roomDomain.CostItem, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + costItemSelectColumns + ` FROM room_cost_items WHERE room_id = $1 ORDER BY created_at ASC`

	rows, err := querier.QueryContext(ctx, query, roomID)
	if err != nil {
		return nil, err
	}
	return scanCostItems(rows)
}
