package middleware_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard/taskboard-api/internal/api/middleware"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestRateLimiter_AllowsWithinBurst(t *testing.T) {
	t.Parallel()

	rl := middleware.NewRateLimiter(1, 3, discardLogger())
	t.Cleanup(rl.Stop)
	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		req.RemoteAddr = "10.0.0.1:51234"
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, "request %d should be within burst", i+1)
	}
}

func TestRateLimiter_RejectsOverBurst(t *testing.T) {
	t.Parallel()

	rl := middleware.NewRateLimiter(1, 2, discardLogger())
	t.Cleanup(rl.Stop)
	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:51234").Code)
	assert.Equal(t, http.StatusOK, send("10.0.0.1:51235").Code)

	rejected := send("10.0.0.1:51236")
	require.Equal(t, http.StatusTooManyRequests, rejected.Code)

	body := decodeErrorBody(t, rejected)
	assert.Equal(t, http.StatusTooManyRequests, body.Code)
	assert.Equal(t, "Too Many Requests", body.Error)
	assert.Equal(t, "Too many requests", body.Message)

	// Limits are tracked per client IP, so another client is unaffected.
	assert.Equal(t, http.StatusOK, send("10.0.0.2:51234").Code)
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	t.Parallel()

	rl := middleware.NewRateLimiter(1, 1, discardLogger())
	rl.Stop()
	rl.Stop()
}
