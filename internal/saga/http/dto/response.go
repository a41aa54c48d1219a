// Package dto provides data transfer objects for saga status responses.
package dto

import (
	"time"

	sagaDomain "github.com/giangnd99/hotel-management-sub003/internal/saga/domain"
)

// OutboxRecordResponse represents one saga step's outbox record in API and CLI output.
type OutboxRecordResponse struct {
	ID           string    `json:"id"`
	SagaID       string    `json:"saga_id"`
	ReferenceID  string    `json:"reference_id"`
	StepType     string    `json:"step_type"`
	RequestType  string    `json:"request_type"`
	Topic        string    `json:"topic"`
	SagaStatus   string    `json:"saga_status"`
	OutboxStatus string    `json:"outbox_status"`
	Retries      int       `json:"retries"`
	LastError    string    `json:"last_error,omitempty"`
	Version      int       `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SagaStatusResponse lists the outbox records of one saga.
type SagaStatusResponse struct {
	SagaID  string                 `json:"saga_id"`
	Records []OutboxRecordResponse `json:"records"`
}

// MapOutboxRecordToResponse converts a domain outbox record to its response.
func MapOutboxRecordToResponse(record *sagaDomain.OutboxMessage) OutboxRecordResponse {
	response := OutboxRecordResponse{
		ID:           record.ID.String(),
		SagaID:       record.SagaID.String(),
		ReferenceID:  record.ReferenceID.String(),
		StepType:     string(record.StepType),
		RequestType:  string(record.RequestType),
		Topic:        record.Topic,
		SagaStatus:   string(record.SagaStatus),
		OutboxStatus: string(record.OutboxStatus),
		Retries:      record.Retries,
		Version:      record.Version,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}
	if record.LastError != nil {
		response.LastError = *record.LastError
	}
	return response
}

// MapSagaStatusToResponse converts the records of a saga to a response.
func MapSagaStatusToResponse(sagaID string, records []*sagaDomain.OutboxMessage) SagaStatusResponse {
	items := make([]OutboxRecordResponse, 0, len(records))
	for _, record := range records {
		items = append(items, MapOutboxRecordToResponse(record))
	}
	return SagaStatusResponse{SagaID: sagaID, Records: items}
}
