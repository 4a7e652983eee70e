package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/redston-maverick/global-price-scraper/middleware"
)

func TestRequestIDMiddlewareGeneratesID(t *testing.T) {
	var seenID string
	handler := middleware.RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = middleware.RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, seenID)
	assert.Equal(t, seenID, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDMiddlewarePreservesIncomingID(t *testing.T) {
	handler := middleware.RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "incoming-id")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "incoming-id", rec.Header().Get("X-Request-ID"))
}

func TestRequestIDFromContextMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	assert.Empty(t, middleware.RequestIDFromContext(req.Context()))
}

func TestLoggingMiddlewarePassesThrough(t *testing.T) {
	handler := middleware.LoggingMiddleware(zap.NewNop().Sugar())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestRateLimitMiddlewareEnforcesLimit(t *testing.T) {
	handler := middleware.RateLimitMiddleware(1)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	var lastStatus int
	var limited bool
	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:12345"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		lastStatus = rec.Code
		if rec.Code == http.StatusTooManyRequests {
			limited = true
		}
	}

	require.True(t, limited)
	assert.Equal(t, http.StatusTooManyRequests, lastStatus)
}
