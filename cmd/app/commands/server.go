package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/giangnd99/hotel-management-sub003/internal/app"
	"github.com/giangnd99/hotel-management-sub003/internal/config"
	sagaUseCase "github.com/giangnd99/hotel-management-sub003/internal/saga/usecase"
)

// RunServer starts the configured services with graceful shutdown support.
// Runs the operations HTTP server, the optional metrics server, the outbox relay,
// the consumer worker and, for the booking service, the stale saga reaper.
// Blocks until receiving SIGINT/SIGTERM or until one component fails, then stops
// the rest within DBConnMaxLifetime timeout.
func RunServer(ctx context.Context, version string) error {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on log level
	gin.SetMode(cfg.GetGinMode())

	// Create DI container
	container := app.NewContainer(cfg)

	// Get logger from container
	logger := container.Logger()
	logger.Info("starting server",
		slog.String("version", version),
		slog.String("service", cfg.ServiceName),
		slog.String("db_driver", cfg.DBDriver),
		slog.String("broker_driver", cfg.BrokerDriver),
	)

	// Ensure cleanup on exit
	defer closeContainer(container, logger)

	// Get HTTP server from container (this initializes the saga status dependencies)
	server, err := container.HTTPServer()
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	// Get Metrics server from container
	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	relay, err := container.RelayUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize outbox relay: %w", err)
	}

	worker, err := container.ConsumerWorker()
	if err != nil {
		return fmt.Errorf("failed to initialize consumer worker: %w", err)
	}

	var reaper *sagaUseCase.ReaperUseCase
	if cfg.ReaperEnabled && cfg.Runs(config.ServiceBooking) {
		reaper, err = container.ReaperUseCase()
		if err != nil {
			return fmt.Errorf("failed to initialize stale saga reaper: %w", err)
		}
	}

	// Setup graceful shutdown
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.Start(gctx); err != nil {
			return fmt.Errorf("api server error: %w", err)
		}
		return nil
	})

	if metricsServer != nil {
		g.Go(func() error {
			if err := metricsServer.Start(gctx); err != nil {
				return fmt.Errorf("metrics server error: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		return ignoreCanceled(relay.Start(gctx))
	})

	g.Go(func() error {
		return ignoreCanceled(worker.Start(gctx))
	})

	if reaper != nil {
		g.Go(func() error {
			return ignoreCanceled(reaper.Start(gctx))
		})
	}

	// Stop the HTTP servers once a signal arrives or a component fails
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.DBConnMaxLifetime)
		defer shutdownCancel()

		var shutdownErrors []error
		if err := server.Shutdown(shutdownCtx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("api server shutdown: %w", err))
		}
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
			}
		}
		return errors.Join(shutdownErrors...)
	})

	return g.Wait()
}

// ignoreCanceled treats a loop stopped by cancellation as a clean exit.
func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
