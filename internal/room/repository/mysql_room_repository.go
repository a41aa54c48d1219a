package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/giangnd99/hotel-management-sub003/internal/database"
	roomDomain "github.com/giangnd99/hotel-management-sub003/internal/room/domain"
)

// MySQLRoomRepository handles room persistence for MySQL. UUIDs are stored as BINARY(16).
type MySQLRoomRepository struct {
	db *sql.DB
}

// NewMySQLRoomRepository creates a new MySQLRoomRepository
func NewMySQLRoomRepository(db *sql.DB) *MySQLRoomRepository {
	return &MySQLRoomRepository{
		db: db,
	}
}

// Create inserts a new room
func (r *MySQLRoomRepository) Create(ctx context.Context, room *roomDomain.Room) error {
	querier := database.GetTx(ctx, r.db)

	id, err := room.ID.MarshalBinary()
	if err != nil {
		return err
	}
	holder, err := database.NullableBinaryUUID(room.BookingID)
	if err != nil {
		return err
	}

	query := `INSERT INTO rooms (id, number, status, booking_id, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query, id, room.Number, room.Status, holder, room.CreatedAt, room.UpdatedAt)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return roomDomain.ErrRoomAlreadyExists
		}
		return err
	}
	return nil
}

// Get retrieves a room by ID
func (r *MySQLRoomRepository) Get(ctx context.Context, roomID uuid.UUID) (*roomDomain.Room, error) {
	return r.get(ctx, `SELECT `+roomSelectColumns+` FROM rooms WHERE id = ?`, roomID)
}

// GetForUpdate retrieves a room by ID and locks it for the current transaction
func (r *MySQLRoomRepository) GetForUpdate(ctx context.Context, roomID uuid.UUID) (*roomDomain.Room, error) {
	return r.get(ctx, `SELECT `+roomSelectColumns+` FROM rooms WHERE id = ? FOR UPDATE`, roomID)
}

func (r *MySQLRoomRepository) get(ctx context.Context, query string, roomID uuid.UUID) (*roomDomain.Room, error) {
	querier := database.GetTx(ctx, r.db)

	id, err := roomID.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return scanRoom(querier.QueryRowContext(ctx, query, id).Scan)
}

// Update persists the room status and holder
func (r *MySQLRoomRepository) Update(ctx context.Context, room *roomDomain.Room) error {
	querier := database.GetTx(ctx, r.db)

	id, err := room.ID.MarshalBinary()
	if err != nil {
		return err
	}
	holder, err := database.NullableBinaryUUID(room.BookingID)
	if err != nil {
		return err
	}

	query := `UPDATE rooms SET status = ?, booking_id = ?, updated_at = ? WHERE id = ?`

	_, err = querier.ExecContext(ctx, query, room.Status, holder, room.UpdatedAt, id)
	return err
}

// AddCostItem inserts a cost line item
func (r *MySQLRoomRepository) AddCostItem(ctx context.Context, item *roomDomain.CostItem) error {
	querier := database.GetTx(ctx, r.db)

	ids, err := database.BinaryUUIDs(item.ID, item.RoomID, item.BookingID)
	if err != nil {
		return err
	}

	query := `INSERT INTO room_cost_items (id, room_id, booking_id, kind, amount, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query, ids[0], ids[1], ids[2], item.Kind, item.Amount, item.CreatedAt)
	return err
}

// RemoveCostItems deletes the booking's line items of kind from a room
func (r *MySQLRoomRepository) RemoveCostItems(
	ctx context.Context,
	roomID, bookingID uuid.UUID,
	kind roomDomain.CostItemKind,
) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	ids, err := database.BinaryUUIDs(roomID, bookingID)
	if err != nil {
		return 0, err
	}

	query := `DELETE FROM room_cost_items WHERE room_id = ? AND booking_id = ? AND kind = ?`

	result, err := querier.ExecContext(ctx, query, ids[0], ids[1], kind)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// ListCostItems retrieves a room's line items ordered by creation time
func (r *MySQLRoomRepository) ListCostItems(ctx context.Context, roomID uuid.UUID) ([]*roomDomain.CostItem, error) {
	querier := database.GetTx(ctx, r.db)

	id, err := roomID.MarshalBinary()
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + costItemSelectColumns + ` FROM room_cost_items WHERE room_id = ? ORDER BY created_at ASC`

	rows, err := querier.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	return scanCostItems(rows)
}
