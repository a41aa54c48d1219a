package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	provider, err := NewProvider("hotel_ops")
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	})

	router := gin.New()
	router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), "hotel_ops"))
	router.GET("/v1/sagas/:saga_id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"saga_id": c.Param("saga_id")})
	})
	router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready"})
	})

	for _, path := range []string{"/v1/sagas/a", "/v1/sagas/b", "/ready", "/missing"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	body := scrape(t, provider)

	t.Run("route pattern instead of raw path", func(t *testing.T) {
		assert.Contains(t, body, `path="/v1/sagas/:saga_id"`)
		assert.NotContains(t, body, `path="/v1/sagas/a"`)
	})

	t.Run("status code label", func(t *testing.T) {
		assert.Contains(t, body, `status_code="503"`)
	})

	t.Run("unmatched routes share one label", func(t *testing.T) {
		assert.Contains(t, body, `path="unknown"`)
		assert.NotContains(t, body, `path="/missing"`)
	})

	t.Run("duration histogram", func(t *testing.T) {
		assert.Contains(t, body, "hotel_ops_http_request_duration_seconds")
	})
}

func TestRoutePattern(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "matched route", input: "/v1/sagas/:saga_id", expected: "/v1/sagas/:saga_id"},
		{name: "unmatched route", input: "", expected: "unknown"},
		{name: "root", input: "/", expected: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, routePattern(tt.input))
		})
	}
}
