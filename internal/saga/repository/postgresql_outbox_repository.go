// Package repository provides persistence implementations for saga outbox records.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/giangnd99/hotel-management-sub003/internal/database"
	sagaDomain "github.com/giangnd99/hotel-management-sub003/internal/saga/domain"
)

const postgresSelectColumns = `id, saga_id, reference_id, step_type, request_type, topic, saga_status,
			  outbox_status, payload, retries, last_error, version, created_at, updated_at`

// PostgreSQLOutboxRepository handles saga outbox persistence for PostgreSQL
type PostgreSQLOutboxRepository struct {
	db *sql.DB
}

// NewPostgreSQLOutboxRepository creates a new PostgreSQLOutboxRepository
func NewPostgreSQLOutboxRepository(db *sql.DB) *PostgreSQLOutboxRepository {
	return &PostgreSQLOutboxRepository{
		db: db,
	}
}

// Save inserts a new record or advances an existing one using its version
func (r *PostgreSQLOutboxRepository) Save(ctx context.Context, msg *sagaDomain.OutboxMessage) error {
	if msg.Version == 0 {
		return r.insert(ctx, msg)
	}

	querier := database.GetTx(ctx, r.db)

	query := `UPDATE saga_outbox
			  SET saga_status = $1, last_error = $2, version = version + 1, updated_at = $3
			  WHERE id = $4 AND version = $5`

	result, err := querier.ExecContext(ctx, query, msg.SagaStatus, msg.LastError, msg.UpdatedAt,
		msg.ID, msg.Version)
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

func (r *PostgreSQLOutboxRepository) insert(ctx context.Context, msg *sagaDomain.OutboxMessage) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO saga_outbox (id, saga_id, reference_id, step_type, request_type, topic, saga_status,
			  outbox_status, payload, retries, last_error, version, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 1, $12, $13)`

	_, err := querier.ExecContext(ctx, query, msg.ID, msg.SagaID, msg.ReferenceID, msg.StepType,
		msg.RequestType, msg.Topic, msg.SagaStatus, msg.OutboxStatus, string(msg.Payload), msg.Retries,
		msg.LastError, msg.CreatedAt, msg.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return sagaDomain.ErrOutboxVersionConflict
		}
		return err
	}

	msg.Version = 1
	return nil
}

// UpdatePublication persists the relay columns without touching the version
func (r *PostgreSQLOutboxRepository) UpdatePublication(ctx context.Context, msg *sagaDomain.OutboxMessage) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE saga_outbox
			  SET outbox_status = $1, retries = $2, last_error = $3, updated_at = NOW()
			  WHERE id = $4`

	_, err := querier.ExecContext(ctx, query, msg.OutboxStatus, msg.Retries, msg.LastError, msg.ID)
	return err
}

// FindBySagaIDAndStatus retrieves the step's record when it is in one of statuses
func (r *PostgreSQLOutboxRepository) FindBySagaIDAndStatus(
	ctx context.Context,
	stepType sagaDomain.StepType,
	sagaID uuid.UUID,
	statuses ...sagaDomain.SagaStatus,
) (*sagaDomain.OutboxMessage, error) {
	if err := requireStatuses(statuses); err != nil {
		return nil, err
	}

	querier := database.GetTx(ctx, r.db)

	values := make([]string, 0, len(statuses))
	for _, status := range statuses {
		values = append(values, string(status))
	}

	query := `SELECT ` + postgresSelectColumns + `
			  FROM saga_outbox
			  WHERE step_type = $1 AND saga_id = $2 AND saga_status = ANY($3)
			  FOR UPDATE`

	row := querier.QueryRowContext(ctx, query, stepType, sagaID, pq.Array(values))
	return scanOneOutbox(row.Scan)
}

// FindBySagaID retrieves the step's record in any status
func (r *PostgreSQLOutboxRepository) FindBySagaID(
	ctx context.Context,
	stepType sagaDomain.StepType,
	sagaID uuid.UUID,
) (*sagaDomain.OutboxMessage, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + postgresSelectColumns + `
			  FROM saga_outbox
			  WHERE step_type = $1 AND saga_id = $2`

	row := querier.QueryRowContext(ctx, query, stepType, sagaID)
	return scanOneOutbox(row.Scan)
}

// ListBySagaID retrieves every record of a saga
func (r *PostgreSQLOutboxRepository) ListBySagaID(
	ctx context.Context,
	sagaID uuid.UUID,
) ([]*sagaDomain.OutboxMessage, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + postgresSelectColumns + `
			  FROM saga_outbox
			  WHERE saga_id = $1
			  ORDER BY created_at ASC, id ASC`

	rows, err := querier.QueryContext(ctx, query, sagaID)
	if err != nil {
		return nil, err
	}
	return scanOutboxRows(rows)
}

// GetPendingPublication retrieves unpublished records with limit
func (r *PostgreSQLOutboxRepository) GetPendingPublication(
	ctx context.Context,
	limit int,
) ([]*sagaDomain.OutboxMessage, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + postgresSelectColumns + `
			  FROM saga_outbox
			  WHERE outbox_status = $1
			  ORDER BY created_at ASC
			  LIMIT $2
			  FOR UPDATE SKIP LOCKED`

	rows, err := querier.QueryContext(ctx, query, sagaDomain.OutboxStatusStarted, limit)
	if err != nil {
		return nil, err
	}
	return scanOutboxRows(rows)
}

// GetStale retrieves records still waiting for a response whose publication
// either succeeded or was given up
func (r *PostgreSQLOutboxRepository) GetStale(
	ctx context.Context,
	olderThan time.Time,
	limit int,
) ([]*sagaDomain.OutboxMessage, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + postgresSelectColumns + `
			  FROM saga_outbox
			  WHERE saga_status IN ($1, $2) AND outbox_status IN ($3, $4) AND updated_at < $5
			  ORDER BY updated_at ASC
			  LIMIT $6`

	rows, err := querier.QueryContext(ctx, query, sagaDomain.SagaStatusStarted, sagaDomain.SagaStatusProcessing,
		sagaDomain.OutboxStatusCompleted, sagaDomain.OutboxStatusFailed, olderThan, limit)
	if err != nil {
		return nil, err
	}
	return scanOutboxRows(rows)
}
