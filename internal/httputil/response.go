// Package httputil maps domain errors to JSON responses for the ops server.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/giangnd99/hotel-management-sub003/internal/errors"
)

// ErrorResponse represents a structured error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// errorMapping binds a sentinel to a status. An empty message echoes the error text.
type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

var errorMappings = []errorMapping{
	{apperrors.ErrNotFound, http.StatusNotFound, "not_found", "The requested resource was not found"},
	{apperrors.ErrConflict, http.StatusConflict, "conflict", "A conflict occurred with existing data"},
	{apperrors.ErrInvalidInput, http.StatusUnprocessableEntity, "invalid_input", ""},
	{apperrors.ErrBusinessRule, http.StatusConflict, "business_rule_violation", ""},
}

// HandleErrorGin writes the JSON response for err. Unmapped errors become a 500
// whose details are logged but never returned to the client.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	statusCode := http.StatusInternalServerError
	response := ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	}
	for _, m := range errorMappings {
		if !apperrors.Is(err, m.target) {
			continue
		}
		statusCode = m.status
		response = ErrorResponse{Error: m.code, Message: m.message}
		if response.Message == "" {
			response.Message = err.Error()
		}
		break
	}

	if logger != nil {
		level := slog.LevelWarn
		if statusCode >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c, level, "request failed",
			slog.Int("status_code", statusCode),
			slog.String("error_code", response.Error),
			slog.Any("error", err),
		)
	}

	c.JSON(statusCode, response)
}

// HandleBadRequestGin writes a 400 for a malformed path parameter or body.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "bad_request",
		Message: err.Error(),
	})
}
