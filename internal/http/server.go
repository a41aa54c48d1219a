// Package http provides the operations HTTP server: health and readiness probes,
// request metrics and the saga status API.
package http

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/giangnd99/hotel-management-sub003/internal/metrics"
	sagaHTTP "github.com/giangnd99/hotel-management-sub003/internal/saga/http"
)

var errNoDatabase = errors.New("database not configured")

// ReadinessCheck reports whether a dependency can serve requests.
type ReadinessCheck func(ctx context.Context) error

// Server represents the HTTP server
type Server struct {
	*listener
	db     *sql.DB
	router *gin.Engine
	checks map[string]ReadinessCheck
}

// NewServer creates a new HTTP server. Readiness pings db; a nil db is reported as
// not ready until another "database" check is registered.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	s := &Server{
		listener: newListener("http", host, port, logger),
		db:       db,
		checks:   make(map[string]ReadinessCheck),
	}
	s.checks["database"] = s.pingDatabase
	return s
}

// AddReadinessCheck registers or replaces a named readiness check.
func (s *Server) AddReadinessCheck(name string, check ReadinessCheck) {
	s.checks[name] = check
}

// SetupRouter configures the Gin router with all routes and middleware.
func (s *Server) SetupRouter(
	sagaHandler *sagaHTTP.SagaHandler,
	metricsProvider *metrics.Provider,
	metricsNamespace string,
) {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), metricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	if sagaHandler != nil {
		v1.GET("/sagas/:saga_id", sagaHandler.GetHandler)
	}

	s.router = router
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		s.SetupRouter(nil, nil, "")
	}
	return s.serve(s.router)
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) readinessHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	ready := true
	components := make(gin.H, len(s.checks))
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			s.logger.Warn("readiness check failed", slog.String("component", name), slog.Any("error", err))
			components[name] = "error"
			ready = false
			continue
		}
		components[name] = "ok"
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "components": components})
}

func (s *Server) pingDatabase(ctx context.Context) error {
	if s.db == nil {
		return errNoDatabase
	}
	return s.db.PingContext(ctx)
}
