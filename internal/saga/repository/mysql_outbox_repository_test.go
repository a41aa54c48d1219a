package repository

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giangnd99/hotel-management-sub003/internal/database"
	sagaDomain "github.com/giangnd99/hotel-management-sub003/internal/saga/domain"
)

func mysqlRow(t *testing.T, msg *sagaDomain.OutboxMessage) []driver.Value {
	t.Helper()
	ids, err := database.BinaryUUIDs(msg.ID, msg.SagaID, msg.ReferenceID)
	require.NoError(t, err)
	return []driver.Value{
		ids[0], ids[1], ids[2], string(msg.StepType), string(msg.RequestType), msg.Topic,
		string(msg.SagaStatus), string(msg.OutboxStatus), msg.Payload, msg.Retries, "timeout",
		int64(msg.Version), msg.CreatedAt, msg.UpdatedAt,
	}
}

func TestMySQLOutboxRepository_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_InsertWithBinaryIDs", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLOutboxRepository(db)
		msg := newTestOutboxMessage(t)
		ids, err := database.BinaryUUIDs(msg.ID, msg.SagaID, msg.ReferenceID)
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO saga_outbox`).
			WithArgs(ids[0], ids[1], ids[2], msg.StepType, msg.RequestType, msg.Topic, msg.SagaStatus,
				msg.OutboxStatus, string(msg.Payload), 0, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Save(ctx, msg))
		assert.Equal(t, 1, msg.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_DuplicateEntry", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLOutboxRepository(db)

		mock.ExpectExec(`INSERT INTO saga_outbox`).WillReturnError(&mysql.MySQLError{Number: 1062})

		err := repo.Save(ctx, newTestOutboxMessage(t))
		assert.ErrorIs(t, err, sagaDomain.ErrOutboxVersionConflict)
	})

	t.Run("Error_StaleVersion", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLOutboxRepository(db)
		msg := newTestOutboxMessage(t)
		msg.Version = 2
		idBytes, err := msg.ID.MarshalBinary()
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE saga_outbox\s+SET saga_status = \?, last_error = \?, version = version \+ 1`).
			WithArgs(msg.SagaStatus, sqlmock.AnyArg(), sqlmock.AnyArg(), idBytes, 2).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.Save(ctx, msg)
		assert.ErrorIs(t, err, sagaDomain.ErrOutboxVersionConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMySQLOutboxRepository_FindBySagaIDAndStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMySQLOutboxRepository(db)
	msg := newTestOutboxMessage(t)
	msg.Version = 2
	sagaIDBytes, err := msg.SagaID.MarshalBinary()
	require.NoError(t, err)

	mock.ExpectQuery(`WHERE step_type = \? AND saga_id = \? AND saga_status IN \(\?, \?, \?\)\s+FOR UPDATE`).
		WithArgs(msg.StepType, sagaIDBytes, sagaDomain.SagaStatusStarted, sagaDomain.SagaStatusProcessing,
			sagaDomain.SagaStatusFailed).
		WillReturnRows(sqlmock.NewRows(outboxColumns).AddRow(mysqlRow(t, msg)...))

	found, err := repo.FindBySagaIDAndStatus(context.Background(), msg.StepType, msg.SagaID,
		sagaDomain.SagaStatusStarted, sagaDomain.SagaStatusProcessing, sagaDomain.SagaStatusFailed)
	require.NoError(t, err)
	assert.Equal(t, msg.ID, found.ID)
	assert.Equal(t, msg.SagaID, found.SagaID)
	assert.Equal(t, msg.ReferenceID, found.ReferenceID)
	require.NotNil(t, found.LastError)
	assert.Equal(t, "timeout", *found.LastError)
	assert.Equal(t, 2, found.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLOutboxRepository_FindBySagaID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMySQLOutboxRepository(db)

	mock.ExpectQuery(`FROM saga_outbox\s+WHERE step_type = \? AND saga_id = \?`).
		WillReturnRows(sqlmock.NewRows(outboxColumns))

	found, err := repo.FindBySagaID(context.Background(), sagaDomain.StepRoomReservation, uuid.New())
	assert.Nil(t, found)
	assert.ErrorIs(t, err, sagaDomain.ErrOutboxMessageNotFound)
}

func TestMySQLOutboxRepository_GetPendingPublication(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMySQLOutboxRepository(db)
	msg := newTestOutboxMessage(t)

	mock.ExpectQuery(`LIMIT \?\s+FOR UPDATE SKIP LOCKED`).
		WithArgs(sagaDomain.OutboxStatusStarted, 25).
		WillReturnRows(sqlmock.NewRows(outboxColumns).AddRow(mysqlRow(t, msg)...))

	records, err := repo.GetPendingPublication(context.Background(), 25)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, msg.ID, records[0].ID)
}

func TestMySQLOutboxRepository_GetStale(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMySQLOutboxRepository(db)
	msg := newTestOutboxMessage(t)
	msg.OutboxStatus = sagaDomain.OutboxStatusFailed
	olderThan := time.Now().Add(-time.Minute)

	mock.ExpectQuery(`WHERE saga_status IN \(\?, \?\) AND outbox_status IN \(\?, \?\) AND updated_at < \?`).
		WithArgs(sagaDomain.SagaStatusStarted, sagaDomain.SagaStatusProcessing,
			sagaDomain.OutboxStatusCompleted, sagaDomain.OutboxStatusFailed, olderThan, 5).
		WillReturnRows(sqlmock.NewRows(outboxColumns).AddRow(mysqlRow(t, msg)...))

	records, err := repo.GetStale(context.Background(), olderThan, 5)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, sagaDomain.OutboxStatusFailed, records[0].OutboxStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLPlaceholders(t *testing.T) {
	assert.Equal(t, "?", mysqlPlaceholders(1))
	assert.Equal(t, "?, ?, ?", mysqlPlaceholders(3))
}
