package repository

import (
	"database/sql"
	"errors"

	roomDomain "github.com/giangnd99/hotel-management-sub003/internal/room/domain"
)

func scanRoom(scan func(dest ...any) error) (*roomDomain.Room, error) {
	var room roomDomain.Room

	err := scan(&room.ID, &room.Number, &room.Status, &room.BookingID, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, roomDomain.ErrRoomNotFound
		}
		return nil, err
	}

	return &room, nil
}

func scanCostItems(rows *sql.Rows) ([]*roomDomain.CostItem, error) {
	defer rows.Close() //nolint:errcheck

	var items []*roomDomain.CostItem
	for rows.Next() {
		var item roomDomain.CostItem
		err := rows.Scan(&item.ID, &item.RoomID, &item.BookingID, &item.Kind, &item.Amount, &item.CreatedAt)
		if err != nil {
			return nil, err
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
