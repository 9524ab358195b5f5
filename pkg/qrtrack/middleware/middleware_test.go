package middleware_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mikepea/qrtrack/pkg/qrtrack/middleware"
	"github.com/mikepea/qrtrack/pkg/qrtrack/scans"
)

func newRouter(logger zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(logger))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

func TestRequestID_generated(t *testing.T) {
	r := newRouter(zerolog.Nop())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	id := rec.Header().Get(middleware.RequestIDHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
}

func TestRequestID_reused(t *testing.T) {
	r := newRouter(zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, "abc-123", rec.Header().Get(middleware.RequestIDHeader))
}

func TestLogger_logsRequestFields(t *testing.T) {
	var buf bytes.Buffer
	r := newRouter(zerolog.New(&buf))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.RequestIDHeader, "test-req-id")
	req.RemoteAddr = "198.51.100.23:40000"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "GET", entry["method"])
	require.Equal(t, "/health", entry["path"])
	require.EqualValues(t, http.StatusOK, entry["status"])
	require.Equal(t, "test-req-id", entry["request_id"])
	require.Equal(t, "http_request", entry["message"])
	require.Equal(t, *scans.Fingerprint("198.51.100.23"), entry["client_hash"])
	require.NotContains(t, buf.String(), "198.51.100.23")
}

func TestLogger_omitsForwardedAddress(t *testing.T) {
	var buf bytes.Buffer
	r := newRouter(zerolog.New(&buf))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.NotContains(t, buf.String(), "203.0.113.9")
	require.Contains(t, buf.String(), *scans.Fingerprint("203.0.113.9"))
}
