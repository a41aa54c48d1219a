// Package integration runs the hotel sagas end to end with every service in one
// process, backed by the in-memory database and broker drivers.
package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giangnd99/hotel-management-sub003/internal/app"
	bookingDomain "github.com/giangnd99/hotel-management-sub003/internal/booking/domain"
	bookingUsecase "github.com/giangnd99/hotel-management-sub003/internal/booking/usecase"
	"github.com/giangnd99/hotel-management-sub003/internal/config"
	"github.com/giangnd99/hotel-management-sub003/internal/database"
	"github.com/giangnd99/hotel-management-sub003/internal/messaging"
	paymentDomain "github.com/giangnd99/hotel-management-sub003/internal/payment/domain"
	paymentUsecase "github.com/giangnd99/hotel-management-sub003/internal/payment/usecase"
	roomDomain "github.com/giangnd99/hotel-management-sub003/internal/room/domain"
	roomUsecase "github.com/giangnd99/hotel-management-sub003/internal/room/usecase"
	sagaDomain "github.com/giangnd99/hotel-management-sub003/internal/saga/domain"
	sagaUsecase "github.com/giangnd99/hotel-management-sub003/internal/saga/usecase"
	"github.com/giangnd99/hotel-management-sub003/internal/testutil"
)

const (
	waitFor = 5 * time.Second
	tick    = 10 * time.Millisecond
)

// sagaTestContext holds a running in-process deployment of all three services.
type sagaTestContext struct {
	bookings bookingUsecase.BookingUseCase
	rooms    roomUsecase.RoomUseCase
	payments paymentUsecase.PaymentUseCase
	status   *sagaUsecase.StatusUseCase
}

// sagaDrivers lists the stores each flow runs on. SQL drivers skip when their
// test database is unreachable.
var sagaDrivers = []string{database.DriverMemory, database.DriverPostgres, database.DriverMySQL}

func setupSagaTest(t *testing.T, driver string) *sagaTestContext {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	if driver != database.DriverMemory {
		testutil.SkipIfUnavailable(t, driver)
		db := testutil.SetupDB(t, driver)
		testutil.TeardownDB(t, db)
	}

	cfg := &config.Config{
		LogLevel:             "error",
		DBDriver:             driver,
		DBConnectionString:   testutil.TestDSN(driver),
		DBMaxOpenConnections: 10,
		DBMaxIdleConnections: 5,
		DBConnMaxLifetime:    time.Minute,
		ServiceName:          config.ServiceAll,
		BrokerDriver:         messaging.DriverMemory,
		ConsumerBatchSize:    16,
		ConsumerConcurrency:  4,
		ConsumerPollInterval: 20 * time.Millisecond,
		RelayInterval:        10 * time.Millisecond,
		RelayBatchSize:       50,
		RelayMaxRetries:      5,
		RelayPublishBurst:    50,
		ReaperInterval:       time.Minute,
		ReaperStaleAfter:     time.Minute,
		ReaperBatchSize:      10,
	}
	container := app.NewContainer(cfg)

	tc := &sagaTestContext{}
	var err error
	tc.bookings, err = container.BookingUseCase()
	require.NoError(t, err)
	tc.rooms, err = container.RoomUseCase()
	require.NoError(t, err)
	tc.payments, err = container.PaymentUseCase()
	require.NoError(t, err)
	tc.status, err = container.StatusUseCase()
	require.NoError(t, err)

	relay, err := container.RelayUseCase()
	require.NoError(t, err)
	worker, err := container.ConsumerWorker()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = relay.Start(ctx)
	}()
	go func() {
		defer wg.Done()
		_ = worker.Start(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		wg.Wait()
		assert.NoError(t, container.Shutdown(context.Background()))
	})

	return tc
}

func (tc *sagaTestContext) createRooms(t *testing.T, numbers ...string) []uuid.UUID {
	t.Helper()

	ids := make([]uuid.UUID, 0, len(numbers))
	for _, number := range numbers {
		room, err := tc.rooms.Create(context.Background(), number)
		require.NoError(t, err)
		ids = append(ids, room.ID)
	}
	return ids
}

func (tc *sagaTestContext) createBooking(t *testing.T, roomIDs []uuid.UUID, daysAhead int) *bookingDomain.Booking {
	t.Helper()

	checkIn := time.Now().UTC().AddDate(0, 0, daysAhead).Truncate(24 * time.Hour)
	booking, err := tc.bookings.Create(context.Background(), bookingUsecase.CreateBookingInput{
		CustomerID:   uuid.New(),
		RoomIDs:      roomIDs,
		CheckInDate:  checkIn,
		CheckOutDate: checkIn.AddDate(0, 0, 2),
	})
	require.NoError(t, err)
	return booking
}

// deposit pays the deposit and returns the reservation saga and payment ids.
func (tc *sagaTestContext) deposit(t *testing.T, bookingID uuid.UUID, amount int64) (uuid.UUID, uuid.UUID) {
	t.Helper()

	ctx := context.Background()
	payment, err := tc.payments.RecordDeposit(ctx, bookingID, amount)
	require.NoError(t, err)

	sagaID, err := tc.bookings.ConfirmDeposit(ctx, bookingID, payment.ID, amount)
	require.NoError(t, err)
	return sagaID, payment.ID
}

func (tc *sagaTestContext) waitForStatus(t *testing.T, bookingID uuid.UUID, status bookingDomain.BookingStatus) {
	t.Helper()

	require.Eventually(t, func() bool {
		booking, err := tc.bookings.Get(context.Background(), bookingID)
		return err == nil && booking.Status == status
	}, waitFor, tick, "booking never reached %s", status)
}

func (tc *sagaTestContext) waitForSagaStatus(
	t *testing.T,
	sagaID uuid.UUID,
	stepType sagaDomain.StepType,
	status sagaDomain.SagaStatus,
) {
	t.Helper()

	require.Eventually(t, func() bool {
		records, err := tc.status.List(context.Background(), sagaID)
		if err != nil {
			return false
		}
		for _, record := range records {
			if record.StepType == stepType && record.SagaStatus == status {
				return true
			}
		}
		return false
	}, waitFor, tick, "%s never reached %s", stepType, status)
}

func (tc *sagaTestContext) room(t *testing.T, roomID uuid.UUID) *roomDomain.Room {
	t.Helper()

	room, err := tc.rooms.Get(context.Background(), roomID)
	require.NoError(t, err)
	return room
}

func TestIntegration_RoomReservation_CompleteFlow(t *testing.T) {
	for _, driver := range sagaDrivers {
		t.Run(driver, func(t *testing.T) {
			tc := setupSagaTest(t, driver)
			ctx := context.Background()

			roomIDs := tc.createRooms(t, "101", "102")
			booking := tc.createBooking(t, roomIDs, 10)

			sagaID, _ := tc.deposit(t, booking.ID, 10001)

			tc.waitForStatus(t, booking.ID, bookingDomain.BookingStatusConfirmed)
			tc.waitForSagaStatus(t, sagaID, sagaDomain.StepBookingRoomReservation, sagaDomain.SagaStatusFinished)

			deposits := []int64{5001, 5000}
			for i, roomID := range roomIDs {
				room := tc.room(t, roomID)
				assert.Equal(t, roomDomain.RoomStatusBooked, room.Status)
				require.NotNil(t, room.BookingID)
				assert.Equal(t, booking.ID, *room.BookingID)

				items, err := tc.rooms.ListCostItems(ctx, roomID)
				require.NoError(t, err)
				require.Len(t, items, 1)
				assert.Equal(t, deposits[i], items[0].Amount)
			}

			records, err := tc.status.List(ctx, sagaID)
			require.NoError(t, err)
			var reply *sagaDomain.OutboxMessage
			for _, record := range records {
				if record.StepType == sagaDomain.StepRoomReservation {
					reply = record
				}
			}
			require.NotNil(t, reply, "room service reply should be recorded in the saga")
			assert.Equal(t, sagaDomain.SagaStatusFinished, reply.SagaStatus)
		})
	}
}

func TestIntegration_RoomReservation_Compensation(t *testing.T) {
	for _, driver := range sagaDrivers {
		t.Run(driver, func(t *testing.T) {
			tc := setupSagaTest(t, driver)
			ctx := context.Background()

			roomIDs := tc.createRooms(t, "201")
			first := tc.createBooking(t, roomIDs, 10)
			tc.deposit(t, first.ID, 4000)
			tc.waitForStatus(t, first.ID, bookingDomain.BookingStatusConfirmed)

			second := tc.createBooking(t, roomIDs, 10)
			sagaID, _ := tc.deposit(t, second.ID, 4000)

			tc.waitForSagaStatus(t, sagaID, sagaDomain.StepBookingRoomReservation, sagaDomain.SagaStatusCompensated)
			tc.waitForStatus(t, second.ID, bookingDomain.BookingStatusPending)

			room := tc.room(t, roomIDs[0])
			require.NotNil(t, room.BookingID)
			assert.Equal(t, first.ID, *room.BookingID, "the room stays with the first booking")

			items, err := tc.rooms.ListCostItems(ctx, roomIDs[0])
			require.NoError(t, err)
			assert.Len(t, items, 1)

			records, err := tc.status.List(ctx, sagaID)
			require.NoError(t, err)
			for _, record := range records {
				if record.StepType == sagaDomain.StepRoomReservation {
					assert.Equal(t, sagaDomain.SagaStatusFailed, record.SagaStatus)
					require.NotNil(t, record.LastError)
					assert.Contains(t, *record.LastError, "room is not available")
				}
			}
		})
	}
}

func TestIntegration_CheckIn_CompleteFlow(t *testing.T) {
	for _, driver := range sagaDrivers {
		t.Run(driver, func(t *testing.T) {
			tc := setupSagaTest(t, driver)

			roomIDs := tc.createRooms(t, "301")
			booking := tc.createBooking(t, roomIDs, 3)
			tc.deposit(t, booking.ID, 2000)
			tc.waitForStatus(t, booking.ID, bookingDomain.BookingStatusConfirmed)

			sagaID, err := tc.bookings.CheckIn(context.Background(), booking.ID)
			require.NoError(t, err)

			tc.waitForSagaStatus(t, sagaID, sagaDomain.StepBookingRoomCheckIn, sagaDomain.SagaStatusFinished)

			got, err := tc.bookings.Get(context.Background(), booking.ID)
			require.NoError(t, err)
			assert.Equal(t, bookingDomain.BookingStatusCheckedIn, got.Status)
			assert.Equal(t, roomDomain.RoomStatusOccupied, tc.room(t, roomIDs[0]).Status)
		})
	}
}

func TestIntegration_Cancellation_WithRefund(t *testing.T) {
	for _, driver := range sagaDrivers {
		t.Run(driver, func(t *testing.T) {
			tc := setupSagaTest(t, driver)
			ctx := context.Background()

			roomIDs := tc.createRooms(t, "401", "402")
			booking := tc.createBooking(t, roomIDs, 10)
			_, paymentID := tc.deposit(t, booking.ID, 6000)
			tc.waitForStatus(t, booking.ID, bookingDomain.BookingStatusConfirmed)

			sagaID, err := tc.bookings.RequestCancellation(ctx, booking.ID, "change of plans")
			require.NoError(t, err)

			tc.waitForSagaStatus(t, sagaID, sagaDomain.StepBookingPaymentRefund, sagaDomain.SagaStatusFinished)

			got, err := tc.bookings.Get(ctx, booking.ID)
			require.NoError(t, err)
			assert.Equal(t, bookingDomain.BookingStatusCancelled, got.Status)
			assert.Equal(t, bookingDomain.RefundStatusRefunded, got.RefundStatus)
			require.NotNil(t, got.RefundAmount)
			assert.Equal(t, int64(6000), *got.RefundAmount)

			for _, roomID := range roomIDs {
				room := tc.room(t, roomID)
				assert.Equal(t, roomDomain.RoomStatusVacant, room.Status)
				assert.Nil(t, room.BookingID)

				items, err := tc.rooms.ListCostItems(ctx, roomID)
				require.NoError(t, err)
				assert.Empty(t, items)
			}

			payment, err := tc.payments.Get(ctx, paymentID)
			require.NoError(t, err)
			assert.Equal(t, paymentDomain.PaymentStatusRefunded, payment.Status)
		})
	}
}

func TestIntegration_Cancellation_WithoutRefund(t *testing.T) {
	for _, driver := range sagaDrivers {
		t.Run(driver, func(t *testing.T) {
			tc := setupSagaTest(t, driver)
			ctx := context.Background()

			roomIDs := tc.createRooms(t, "501")
			booking := tc.createBooking(t, roomIDs, 0)
			tc.deposit(t, booking.ID, 1500)
			tc.waitForStatus(t, booking.ID, bookingDomain.BookingStatusConfirmed)

			sagaID, err := tc.bookings.RequestCancellation(ctx, booking.ID, "no show")
			require.NoError(t, err)

			tc.waitForSagaStatus(t, sagaID, sagaDomain.StepBookingCancellation, sagaDomain.SagaStatusFinished)

			got, err := tc.bookings.Get(ctx, booking.ID)
			require.NoError(t, err)
			assert.Equal(t, bookingDomain.BookingStatusCancelled, got.Status)
			assert.Equal(t, bookingDomain.RefundStatusNone, got.RefundStatus)
			assert.Equal(t, roomDomain.RoomStatusVacant, tc.room(t, roomIDs[0]).Status)

			records, err := tc.status.List(ctx, sagaID)
			require.NoError(t, err)
			for _, record := range records {
				assert.NotEqual(t, sagaDomain.StepBookingPaymentRefund, record.StepType)
			}
		})
	}
}

func TestIntegration_Cancellation_WaitsForReservation(t *testing.T) {
	for _, driver := range sagaDrivers {
		t.Run(driver, func(t *testing.T) {
			tc := setupSagaTest(t, driver)
			ctx := context.Background()

			roomIDs := tc.createRooms(t, "601")
			booking := tc.createBooking(t, roomIDs, 10)
			depositSaga, _ := tc.deposit(t, booking.ID, 3000)

			// Requests made while the reservation is still in flight are rejected
			// until its response has been applied.
			var sagaID uuid.UUID
			deadline := time.Now().Add(waitFor)
			for {
				var err error
				sagaID, err = tc.bookings.RequestCancellation(ctx, booking.ID, "changed my mind")
				if err == nil {
					break
				}
				require.ErrorIs(t, err, bookingDomain.ErrBookingStepInFlight)
				require.True(t, time.Now().Before(deadline), "reservation never concluded")
				time.Sleep(tick)
			}

			tc.waitForSagaStatus(t, depositSaga, sagaDomain.StepBookingRoomReservation, sagaDomain.SagaStatusFinished)
			tc.waitForSagaStatus(t, sagaID, sagaDomain.StepBookingPaymentRefund, sagaDomain.SagaStatusFinished)

			got, err := tc.bookings.Get(ctx, booking.ID)
			require.NoError(t, err)
			assert.Equal(t, bookingDomain.BookingStatusCancelled, got.Status)
			assert.Equal(t, bookingDomain.RefundStatusRefunded, got.RefundStatus)

			room := tc.room(t, roomIDs[0])
			assert.Equal(t, roomDomain.RoomStatusVacant, room.Status)
			assert.Nil(t, room.BookingID)
			items, err := tc.rooms.ListCostItems(ctx, roomIDs[0])
			require.NoError(t, err)
			assert.Empty(t, items)
		})
	}
}
