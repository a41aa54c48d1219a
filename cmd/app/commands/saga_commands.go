package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	sagaDomain "github.com/giangnd99/hotel-management-sub003/internal/saga/domain"
	"github.com/giangnd99/hotel-management-sub003/internal/saga/http/dto"
)

// StaleSagaReaper compensates sagas whose response never arrived.
type StaleSagaReaper interface {
	ReapStale(ctx context.Context) (int, error)
}

// SagaStatusLister lists the outbox records of a saga.
type SagaStatusLister interface {
	List(ctx context.Context, sagaID uuid.UUID) ([]*sagaDomain.OutboxMessage, error)
}

// RunReapStaleSagas runs one reaper pass and reports how many sagas were compensated.
func RunReapStaleSagas(
	ctx context.Context,
	reaper StaleSagaReaper,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	logger.Info("reaping stale sagas")

	count, err := reaper.ReapStale(ctx)
	if err != nil {
		return fmt.Errorf("failed to reap stale sagas: %w", err)
	}

	if format == "json" {
		if err := outputJSON(writer, map[string]any{"count": count}); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintf(writer, "Compensated %d stale saga(s)\n", count)
	}

	logger.Info("reap completed", slog.Int("count", count))
	return nil
}

// RunSagaStatus prints every step record of a saga.
func RunSagaStatus(
	ctx context.Context,
	lister SagaStatusLister,
	writer io.Writer,
	sagaID string,
	format string,
) error {
	id, err := parseID("saga id", sagaID)
	if err != nil {
		return err
	}

	records, err := lister.List(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get saga status: %w", err)
	}

	response := dto.MapSagaStatusToResponse(id.String(), records)
	if format == "json" {
		return outputJSON(writer, response)
	}

	_, _ = fmt.Fprintf(writer, "Saga: %s\n\n", response.SagaID)
	for _, record := range response.Records {
		_, _ = fmt.Fprintf(writer, "%s (%s)\n", record.StepType, record.RequestType)
		_, _ = fmt.Fprintf(writer, "  Saga status:   %s\n", record.SagaStatus)
		_, _ = fmt.Fprintf(writer, "  Outbox status: %s\n", record.OutboxStatus)
		_, _ = fmt.Fprintf(writer, "  Version:       %d\n", record.Version)
		if record.LastError != "" {
			_, _ = fmt.Fprintf(writer, "  Last error:    %s\n", record.LastError)
		}
	}
	return nil
}
