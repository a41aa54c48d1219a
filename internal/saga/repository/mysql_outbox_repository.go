package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/giangnd99/hotel-management-sub003/internal/database"
	sagaDomain "github.com/giangnd99/hotel-management-sub003/internal/saga/domain"
)

const mysqlSelectColumns = `id, saga_id, reference_id, step_type, request_type, topic, saga_status,
			  outbox_status, payload, retries, last_error, version, created_at, updated_at`

// MySQLOutboxRepository handles saga outbox persistence for MySQL. UUIDs are
// stored as BINARY(16).
type MySQLOutboxRepository struct {
	db *sql.DB
}

// NewMySQLOutboxRepository creates a new MySQLOutboxRepository
func NewMySQLOutboxRepository(db *sql.DB) *MySQLOutboxRepository {
	return &MySQLOutboxRepository{
		db: db,
	}
}

// Save inserts a new record or advances an existing one using its version
func (r *MySQLOutboxRepository) Save(ctx context.Context, msg *sagaDomain.OutboxMessage) error {
	if msg.Version == 0 {
		return r.insert(ctx, msg)
	}

	querier := database.GetTx(ctx, r.db)

	idBytes, err := msg.ID.MarshalBinary()
	if err != nil {
		return err
	}

	query := `UPDATE saga_outbox
			  SET saga_status = ?, last_error = ?, version = version + 1, updated_at = ?
			  WHERE id = ? AND version = ?`

	result, err := querier.ExecContext(ctx, query, msg.SagaStatus, msg.LastError, msg.UpdatedAt,
		idBytes, msg.Version)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sagaDomain.ErrOutboxVersionConflict
	}

	msg.Version++
	return nil
}

func (r *MySQLOutboxRepository) insert(ctx context.Context, msg *sagaDomain.OutboxMessage) error {
	querier := database.GetTx(ctx, r.db)

	ids, err := database.BinaryUUIDs(msg.ID, msg.SagaID, msg.ReferenceID)
	if err != nil {
		return err
	}

	query := `INSERT INTO saga_outbox (id, saga_id, reference_id, step_type, request_type, topic, saga_status,
			  outbox_status, payload, retries, last_error, version, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`

	_, err = querier.ExecContext(ctx, query, ids[0], ids[1], ids[2], msg.StepType, msg.RequestType,
		msg.Topic, msg.SagaStatus, msg.OutboxStatus, string(msg.Payload), msg.Retries, msg.LastError,
		msg.CreatedAt, msg.UpdatedAt)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return sagaDomain.ErrOutboxVersionConflict
		}
		return err
	}

	msg.Version = 1
	return nil
}

// UpdatePublication persists the relay columns without touching the version
func (r *MySQLOutboxRepository) UpdatePublication(ctx context.Context, msg *sagaDomain.OutboxMessage) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := msg.ID.MarshalBinary()
	if err != nil {
		return err
	}

	query := `UPDATE saga_outbox
			  SET outbox_status = ?, retries = ?, last_error = ?, updated_at = NOW()
			  WHERE id = ?`

	_, err = querier.ExecContext(ctx, query, msg.OutboxStatus, msg.Retries, msg.LastError, idBytes)
	return err
}

// FindBySagaIDAndStatus retrieves the step's record when it is in one of statuses
func (r *MySQLOutboxRepository) FindBySagaIDAndStatus(
	ctx context.Context,
	stepType sagaDomain.StepType,
	sagaID uuid.UUID,
	statuses ...sagaDomain.SagaStatus,
) (*sagaDomain.OutboxMessage, error) {
	if err := requireStatuses(statuses); err != nil {
		return nil, err
	}

	querier := database.GetTx(ctx, r.db)

	sagaIDBytes, err := sagaID.MarshalBinary()
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + mysqlSelectColumns + `
			  FROM saga_outbox
			  WHERE step_type = ? AND saga_id = ? AND saga_status IN (` + mysqlPlaceholders(len(statuses)) + `)
			  FOR UPDATE`

	args := append([]any{stepType, sagaIDBytes}, statusArgs(statuses)...)
	row := querier.QueryRowContext(ctx, query, args...)
	return scanOneOutbox(mysqlScan(row.Scan))
}

// FindBySagaID retrieves the step's record in any status
func (r *MySQLOutboxRepository) FindBySagaID(
	ctx context.Context,
	stepType sagaDomain.StepType,
	sagaID uuid.UUID,
) (*sagaDomain.OutboxMessage, error) {
	querier := database.GetTx(ctx, r.db)

	sagaIDBytes, err := sagaID.MarshalBinary()
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + mysqlSelectColumns + `
			  FROM saga_outbox
			  WHERE step_type = ? AND saga_id = ?`

	row := querier.QueryRowContext(ctx, query, stepType, sagaIDBytes)
	return scanOneOutbox(mysqlScan(row.Scan))
}

// ListBySagaID retrieves every record of a saga
func (r *MySQLOutboxRepository) ListBySagaID(
	ctx context.Context,
	sagaID uuid.UUID,
) ([]*sagaDomain.OutboxMessage, error) {
	querier := database.GetTx(ctx, r.db)

	sagaIDBytes, err := sagaID.MarshalBinary()
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + mysqlSelectColumns + `
			  FROM saga_outbox
			  WHERE saga_id = ?
			  ORDER BY created_at ASC, id ASC`

	rows, err := querier.QueryContext(ctx, query, sagaIDBytes)
	if err != nil {
		return nil, err
	}
	return scanMySQLOutboxRows(rows)
}

// GetPendingPublication retrieves unpublished records with limit
func (r *MySQLOutboxRepository) GetPendingPublication(
	ctx context.Context,
	limit int,
) ([]*sagaDomain.OutboxMessage, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mysqlSelectColumns + `
			  FROM saga_outbox
			  WHERE outbox_status = ?
			  ORDER BY created_at ASC
			  LIMIT ?
			  FOR UPDATE SKIP LOCKED`

	rows, err := querier.QueryContext(ctx, query, sagaDomain.OutboxStatusStarted, limit)
	if err != nil {
		return nil, err
	}
	return scanMySQLOutboxRows(rows)
}

// GetStale retrieves records still waiting for a response whose publication
// either succeeded or was given up
func (r *MySQLOutboxRepository) GetStale(
	ctx context.Context,
	olderThan time.Time,
	limit int,
) ([]*sagaDomain.OutboxMessage, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mysqlSelectColumns + `
			  FROM saga_outbox
			  WHERE saga_status IN (?, ?) AND outbox_status IN (?, ?) AND updated_at < ?
			  ORDER BY updated_at ASC
			  LIMIT ?`

	rows, err := querier.QueryContext(ctx, query, sagaDomain.SagaStatusStarted, sagaDomain.SagaStatusProcessing,
		sagaDomain.OutboxStatusCompleted, sagaDomain.OutboxStatusFailed, olderThan, limit)
	if err != nil {
		return nil, err
	}
	return scanMySQLOutboxRows(rows)
}

// mysqlScan adapts a scan function so the three BINARY(16) columns are read as
// bytes and converted back to UUIDs.
func mysqlScan(scan func(dest ...any) error) func(dest ...any) error {
	return func(dest ...any) error {
		var id, sagaID, referenceID []byte
		raw := append([]any{&id, &sagaID, &referenceID}, dest[3:]...)
		if err := scan(raw...); err != nil {
			return err
		}
		for i, b := range [][]byte{id, sagaID, referenceID} {
			if err := dest[i].(*uuid.UUID).UnmarshalBinary(b); err != nil {
				return err
			}
		}
		return nil
	}
}

func scanMySQLOutboxRows(rows *sql.Rows) ([]*sagaDomain.OutboxMessage, error) {
	defer rows.Close() //nolint:errcheck

	var messages []*sagaDomain.OutboxMessage
	for rows.Next() {
		msg, err := scanOutbox(mysqlScan(rows.Scan))
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}
