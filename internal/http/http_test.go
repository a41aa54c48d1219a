package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giangnd99/hotel-management-sub003/internal/metrics"
	sagaDomain "github.com/giangnd99/hotel-management-sub003/internal/saga/domain"
	sagaHTTP "github.com/giangnd99/hotel-management-sub003/internal/saga/http"
	"github.com/giangnd99/hotel-management-sub003/internal/saga/http/dto"
)

// stubStatusReader serves the records of a single saga.
type stubStatusReader struct {
	sagaID  uuid.UUID
	records []*sagaDomain.OutboxMessage
	err     error
}

func (r *stubStatusReader) List(ctx context.Context, sagaID uuid.UUID) ([]*sagaDomain.OutboxMessage, error) {
	if r.err != nil {
		return nil, r.err
	}
	if sagaID != r.sagaID {
		return nil, sagaDomain.ErrOutboxMessageNotFound
	}
	return r.records, nil
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// newRoutedServer builds a server whose router serves reader on the saga API.
func newRoutedServer(reader sagaHTTP.SagaStatusReader) *Server {
	server := NewServer(nil, "localhost", 0, discardLogger())
	server.SetupRouter(sagaHTTP.NewSagaHandler(reader, server.logger), nil, "")
	return server
}

func serve(server *Server, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestServer_Health(t *testing.T) {
	server := newRoutedServer(&stubStatusReader{})

	w := serve(server, http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestServer_Readiness(t *testing.T) {
	tests := []struct {
		name           string
		checks         map[string]ReadinessCheck
		expectedStatus int
		expectedState  string
		components     map[string]any
	}{
		{
			name:           "no database",
			expectedStatus: http.StatusServiceUnavailable,
			expectedState:  "not_ready",
			components:     map[string]any{"database": "error"},
		},
		{
			name: "all checks pass",
			checks: map[string]ReadinessCheck{
				"database": func(ctx context.Context) error { return nil },
				"broker":   func(ctx context.Context) error { return nil },
			},
			expectedStatus: http.StatusOK,
			expectedState:  "ready",
			components:     map[string]any{"database": "ok", "broker": "ok"},
		},
		{
			name: "broker down",
			checks: map[string]ReadinessCheck{
				"database": func(ctx context.Context) error { return nil },
				"broker":   func(ctx context.Context) error { return errors.New("connection refused") },
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedState:  "not_ready",
			components:     map[string]any{"database": "ok", "broker": "error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newRoutedServer(&stubStatusReader{})
			for name, check := range tt.checks {
				server.AddReadinessCheck(name, check)
			}

			w := serve(server, http.MethodGet, "/ready")

			assert.Equal(t, tt.expectedStatus, w.Code)
			var response map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.expectedState, response["status"])
			assert.Equal(t, tt.components, response["components"])
		})
	}
}

func TestServer_SagaStatus(t *testing.T) {
	sagaID := uuid.Must(uuid.NewV7())
	record, err := sagaDomain.NewOutboxMessage(sagaID, uuid.Must(uuid.NewV7()),
		sagaDomain.StepBookingRoomReservation, sagaDomain.RequestTypeRoomReservation,
		sagaDomain.TopicRoomRequest, sagaDomain.MessageStatusRequested,
		sagaDomain.RoomRequest{BookingID: uuid.Must(uuid.NewV7())})
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		server := newRoutedServer(&stubStatusReader{sagaID: sagaID, records: []*sagaDomain.OutboxMessage{record}})

		w := serve(server, http.MethodGet, "/v1/sagas/"+sagaID.String())

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.SagaStatusResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, sagaID.String(), response.SagaID)
		require.Len(t, response.Records, 1)
		assert.Equal(t, string(sagaDomain.StepBookingRoomReservation), response.Records[0].StepType)
		assert.Equal(t, string(sagaDomain.SagaStatusStarted), response.Records[0].SagaStatus)
	})

	t.Run("Error_UnknownSaga", func(t *testing.T) {
		server := newRoutedServer(&stubStatusReader{sagaID: sagaID})

		w := serve(server, http.MethodGet, "/v1/sagas/"+uuid.Must(uuid.NewV7()).String())

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Error_InvalidSagaID", func(t *testing.T) {
		server := newRoutedServer(&stubStatusReader{sagaID: sagaID})

		w := serve(server, http.MethodGet, "/v1/sagas/not-a-uuid")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_StoreUnavailable", func(t *testing.T) {
		server := newRoutedServer(&stubStatusReader{err: errors.New("connection reset")})

		w := serve(server, http.MethodGet, "/v1/sagas/"+sagaID.String())

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection reset")
	})

	t.Run("NotRouted_WithoutHandler", func(t *testing.T) {
		server := NewServer(nil, "localhost", 0, discardLogger())
		server.SetupRouter(nil, nil, "")

		w := serve(server, http.MethodGet, "/v1/sagas/"+sagaID.String())

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCustomLoggerMiddleware(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		expectedLevel string
	}{
		{name: "success", status: http.StatusOK, expectedLevel: "INFO"},
		{name: "client error", status: http.StatusNotFound, expectedLevel: "WARN"},
		{name: "server error", status: http.StatusBadGateway, expectedLevel: "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			router := gin.New()
			router.Use(CustomLoggerMiddleware(logger))
			router.GET("/probe", func(c *gin.Context) { c.Status(tt.status) })

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))
			require.Equal(t, tt.status, w.Code)

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.expectedLevel, entry["level"])
			assert.Equal(t, "/probe", entry["path"])
			assert.Equal(t, float64(tt.status), entry["status"])
		})
	}
}

func TestServer_RecoversFromPanic(t *testing.T) {
	server := newRoutedServer(&stubStatusReader{})
	server.router.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := serve(server, http.MethodGet, "/panic")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestServer_StartAndShutdown(t *testing.T) {
	server := NewServer(nil, "127.0.0.1", 0, discardLogger())

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start(context.Background()) }()

	// Give ListenAndServe a moment before shutting it down.
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, server.Shutdown(ctx))

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after shutdown")
	}
}

func TestMetricsServer(t *testing.T) {
	provider, err := metrics.NewProvider("hotel_test")
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	})

	t.Run("serves metrics", func(t *testing.T) {
		server := NewMetricsServer("localhost", 0, discardLogger(), provider)

		w := httptest.NewRecorder()
		server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "go_goroutines")
	})

	t.Run("no provider", func(t *testing.T) {
		server := NewMetricsServer("localhost", 0, discardLogger(), nil)

		w := httptest.NewRecorder()
		server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("start and shutdown", func(t *testing.T) {
		server := NewMetricsServer("127.0.0.1", 0, discardLogger(), provider)

		errCh := make(chan error, 1)
		go func() { errCh <- server.Start(context.Background()) }()
		time.Sleep(50 * time.Millisecond)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		require.NoError(t, server.Shutdown(ctx))

		select {
		case err := <-errCh:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("metrics server did not stop after shutdown")
		}
	})

	t.Run("ops server does not expose metrics", func(t *testing.T) {
		server := newRoutedServer(&stubStatusReader{})

		w := serve(server, http.MethodGet, "/metrics")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
