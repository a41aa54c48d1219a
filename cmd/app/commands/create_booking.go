package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	bookingDomain "github.com/giangnd99/hotel-management-sub003/internal/booking/domain"
	bookingUsecase "github.com/giangnd99/hotel-management-sub003/internal/booking/usecase"
)

// RunCreateBooking creates a PENDING booking for the given rooms and stay dates.
//
// Requirements: Database must be migrated and accessible.
func RunCreateBooking(
	ctx context.Context,
	bookingUseCase bookingUsecase.BookingUseCase,
	logger *slog.Logger,
	writer io.Writer,
	customerID string,
	roomIDs []string,
	checkInDate, checkOutDate string,
	format string,
) error {
	customer, err := parseID("customer id", customerID)
	if err != nil {
		return err
	}

	rooms := make([]uuid.UUID, 0, len(roomIDs))
	for _, roomID := range roomIDs {
		id, err := parseID("room id", roomID)
		if err != nil {
			return err
		}
		rooms = append(rooms, id)
	}

	checkIn, err := parseDate(checkInDate)
	if err != nil {
		return fmt.Errorf("invalid check-in date: %w", err)
	}
	checkOut, err := parseDate(checkOutDate)
	if err != nil {
		return fmt.Errorf("invalid check-out date: %w", err)
	}

	booking, err := bookingUseCase.Create(ctx, bookingUsecase.CreateBookingInput{
		CustomerID:   customer,
		RoomIDs:      rooms,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
	})
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	logger.Info("booking created", slog.String("booking_id", booking.ID.String()))

	return outputBooking(writer, booking, format)
}

// RunShowBooking prints the current state of a booking.
func RunShowBooking(
	ctx context.Context,
	bookingUseCase bookingUsecase.BookingUseCase,
	writer io.Writer,
	bookingID string,
	format string,
) error {
	id, err := parseID("booking id", bookingID)
	if err != nil {
		return err
	}

	booking, err := bookingUseCase.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get booking: %w", err)
	}
	return outputBooking(writer, booking, format)
}

// parseDate parses a date string in format "YYYY-MM-DD" or "YYYY-MM-DD HH:MM:SS" to time.Time.
func parseDate(dateStr string) (time.Time, error) {
	// Try full datetime format first
	t, err := time.Parse("2006-01-02 15:04:05", dateStr)
	if err == nil {
		return t, nil
	}

	// Try date-only format (defaults to start of day)
	t, err = time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf(
			"invalid date format (expected YYYY-MM-DD or YYYY-MM-DD HH:MM:SS): %s",
			dateStr,
		)
	}

	return t, nil
}

// outputBooking writes a booking in text or JSON format.
func outputBooking(writer io.Writer, booking *bookingDomain.Booking, format string) error {
	roomIDs := make([]string, 0, len(booking.RoomIDs))
	for _, roomID := range booking.RoomIDs {
		roomIDs = append(roomIDs, roomID.String())
	}

	if format == "json" {
		result := map[string]any{
			"id":             booking.ID.String(),
			"customer_id":    booking.CustomerID.String(),
			"room_ids":       roomIDs,
			"check_in_date":  booking.CheckInDate.Format("2006-01-02"),
			"check_out_date": booking.CheckOutDate.Format("2006-01-02"),
			"status":         booking.Status,
			"refund_status":  booking.RefundStatus,
		}
		if booking.DepositAmount != nil {
			result["deposit_amount"] = *booking.DepositAmount
		}
		if booking.PaymentID != nil {
			result["payment_id"] = booking.PaymentID.String()
		}
		if booking.RefundAmount != nil {
			result["refund_amount"] = *booking.RefundAmount
		}
		return outputJSON(writer, result)
	}

	_, _ = fmt.Fprintf(writer, "Booking: %s\n", booking.ID)
	_, _ = fmt.Fprintf(writer, "Customer: %s\n", booking.CustomerID)
	_, _ = fmt.Fprintf(writer, "Rooms: %v\n", roomIDs)
	_, _ = fmt.Fprintf(writer,
		"Stay: %s to %s\n",
		booking.CheckInDate.Format("2006-01-02"),
		booking.CheckOutDate.Format("2006-01-02"),
	)
	_, _ = fmt.Fprintf(writer, "Status: %s\n", booking.Status)
	if booking.DepositAmount != nil {
		_, _ = fmt.Fprintf(writer, "Deposit: %d\n", *booking.DepositAmount)
	}
	_, _ = fmt.Fprintf(writer, "Refund: %s\n", booking.RefundStatus)
	return nil
}
