// Package http provides HTTP handlers that expose saga progress to operators.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/giangnd99/hotel-management-sub003/internal/httputil"
	sagaDomain "github.com/giangnd99/hotel-management-sub003/internal/saga/domain"
	"github.com/giangnd99/hotel-management-sub003/internal/saga/http/dto"
)

// SagaStatusReader lists the outbox records of a saga.
type SagaStatusReader interface {
	List(ctx context.Context, sagaID uuid.UUID) ([]*sagaDomain.OutboxMessage, error)
}

// SagaHandler handles HTTP requests for saga status.
type SagaHandler struct {
	statusReader SagaStatusReader
	logger       *slog.Logger
}

// NewSagaHandler creates a new saga handler.
func NewSagaHandler(statusReader SagaStatusReader, logger *slog.Logger) *SagaHandler {
	return &SagaHandler{
		statusReader: statusReader,
		logger:       logger,
	}
}

// GetHandler returns the outbox records of one saga.
// GET /v1/sagas/:saga_id
func (h *SagaHandler) GetHandler(c *gin.Context) {
	sagaID, err := uuid.Parse(c.Param("saga_id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid saga id: %w", err), h.logger)
		return
	}

	records, err := h.statusReader.List(c.Request.Context(), sagaID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSagaStatusToResponse(sagaID.String(), records))
}
