package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/didip/tollbooth/v7"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const requestIDKey contextKey = "requestID"

// RequestIDFromContext returns the request ID attached by RequestIDMiddleware,
// or an empty string.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// RequestIDMiddleware tags every request with a UUID, exposed via the
// X-Request-ID response header and the request context.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// statusRecorder captures the response status for access logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// LoggingMiddleware emits one structured access log line per request.
func LoggingMiddleware(log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(recorder, r)

			log.Infow("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", recorder.status,
				"elapsedMs", time.Since(start).Milliseconds(),
				"requestID", RequestIDFromContext(r.Context()),
				"remote", r.RemoteAddr,
			)
		})
	}
}

// RateLimitMiddleware limits request rate per client IP.
func RateLimitMiddleware(requestsPerSecond float64) func(http.Handler) http.Handler {
	limiter := tollbooth.NewLimiter(requestsPerSecond, nil)
	limiter.SetIPLookups([]string{"X-Forwarded-For", "RemoteAddr", "X-Real-IP"})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if httpError := tollbooth.LimitByRequest(limiter, w, r); httpError != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(httpError.StatusCode)
				json.NewEncoder(w).Encode(map[string]string{"error": httpError.Message})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
