package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	roomUsecase "github.com/giangnd99/hotel-management-sub003/internal/room/usecase"
)

// RunCreateRoom registers a new vacant room.
//
// Requirements: Database must be migrated and accessible.
func RunCreateRoom(
	ctx context.Context,
	roomUseCase roomUsecase.RoomUseCase,
	logger *slog.Logger,
	writer io.Writer,
	number string,
	format string,
) error {
	logger.Info("creating room", slog.String("number", number))

	room, err := roomUseCase.Create(ctx, number)
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}

	if format == "json" {
		return outputJSON(writer, map[string]any{
			"id":     room.ID.String(),
			"number": room.Number,
			"status": room.Status,
		})
	}

	_, _ = fmt.Fprintf(writer, "Room created successfully\n")
	_, _ = fmt.Fprintf(writer, "ID:     %s\n", room.ID)
	_, _ = fmt.Fprintf(writer, "Number: %s\n", room.Number)
	_, _ = fmt.Fprintf(writer, "Status: %s\n", room.Status)

	logger.Info("room created", slog.String("room_id", room.ID.String()))
	return nil
}

// RunShowRoom prints a room with the cost items recorded against it.
func RunShowRoom(
	ctx context.Context,
	roomUseCase roomUsecase.RoomUseCase,
	writer io.Writer,
	roomID string,
	format string,
) error {
	id, err := parseID("room id", roomID)
	if err != nil {
		return err
	}

	room, err := roomUseCase.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get room: %w", err)
	}

	items, err := roomUseCase.ListCostItems(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list cost items: %w", err)
	}

	if format == "json" {
		costItems := make([]map[string]any, 0, len(items))
		for _, item := range items {
			costItems = append(costItems, map[string]any{
				"id":         item.ID.String(),
				"booking_id": item.BookingID.String(),
				"kind":       item.Kind,
				"amount":     item.Amount,
			})
		}
		result := map[string]any{
			"id":         room.ID.String(),
			"number":     room.Number,
			"status":     room.Status,
			"cost_items": costItems,
		}
		if room.BookingID != nil {
			result["booking_id"] = room.BookingID.String()
		}
		return outputJSON(writer, result)
	}

	_, _ = fmt.Fprintf(writer, "Room %s (%s)\n", room.Number, room.ID)
	_, _ = fmt.Fprintf(writer, "Status: %s\n", room.Status)
	if room.BookingID != nil {
		_, _ = fmt.Fprintf(writer, "Booking: %s\n", room.BookingID)
	}
	_, _ = fmt.Fprintf(writer, "Cost items: %d\n", len(items))
	for _, item := range items {
		_, _ = fmt.Fprintf(writer, "  - %s %d (booking %s)\n", item.Kind, item.Amount, item.BookingID)
	}
	return nil
}
