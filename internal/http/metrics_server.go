package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/giangnd99/hotel-management-sub003/internal/metrics"
)

// MetricsServer serves the Prometheus registry on METRICS_PORT. Scrapes are not
// request-logged.
type MetricsServer struct {
	*listener
	handler http.Handler
}

// NewMetricsServer creates a new MetricsServer. Without a provider every path
// answers 404.
func NewMetricsServer(
	host string,
	port int,
	logger *slog.Logger,
	metricsProvider *metrics.Provider,
) *MetricsServer {
	router := gin.New()
	router.Use(gin.Recovery())
	if metricsProvider != nil {
		router.GET("/metrics", gin.WrapH(metricsProvider.Handler()))
	}

	return &MetricsServer{
		listener: newListener("metrics", host, port, logger),
		handler:  router,
	}
}

// Handler returns the router served on the metrics port.
func (s *MetricsServer) Handler() http.Handler {
	return s.handler
}

// Start serves until Shutdown is called.
func (s *MetricsServer) Start(ctx context.Context) error {
	return s.serve(s.handler)
}

// Shutdown gracefully stops the metrics server.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	return s.shutdown(ctx)
}
