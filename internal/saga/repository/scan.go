package repository

import (
	"database/sql"
	"errors"
	"strings"

	apperrors "github.com/giangnd99/hotel-management-sub003/internal/errors"
	sagaDomain "github.com/giangnd99/hotel-management-sub003/internal/saga/domain"
)

func scanOneOutbox(scan func(dest ...any) error) (*sagaDomain.OutboxMessage, error) {
	msg, err := scanOutbox(scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sagaDomain.ErrOutboxMessageNotFound
		}
		return nil, err
	}
	return msg, nil
}

func scanOutbox(scan func(dest ...any) error) (*sagaDomain.OutboxMessage, error) {
	var msg sagaDomain.OutboxMessage
	var payload []byte

	err := scan(&msg.ID, &msg.SagaID, &msg.ReferenceID, &msg.StepType, &msg.RequestType, &msg.Topic,
		&msg.SagaStatus, &msg.OutboxStatus, &payload, &msg.Retries, &msg.LastError, &msg.Version,
		&msg.CreatedAt, &msg.UpdatedAt)
	if err != nil {
		return nil, err
	}

	msg.Payload = append([]byte(nil), payload...)
	return &msg, nil
}

func scanOutboxRows(rows *sql.Rows) ([]*sagaDomain.OutboxMessage, error) {
	defer rows.Close() //nolint:errcheck

	var messages []*sagaDomain.OutboxMessage
	for rows.Next() {
		msg, err := scanOutbox(rows.Scan)
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

// mysqlPlaceholders returns "?, ?, ?" for n arguments.
func mysqlPlaceholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func statusArgs(statuses []sagaDomain.SagaStatus) []any {
	args := make([]any, 0, len(statuses))
	for _, status := range statuses {
		args = append(args, status)
	}
	return args
}

func requireStatuses(statuses []sagaDomain.SagaStatus) error {
	if len(statuses) == 0 {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "at least one saga status is required")
	}
	return nil
}
