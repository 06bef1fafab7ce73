package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/hoaxify/hoaxify-api/internal/logger"
)

// RequestLogging tags each request with an id and logs method, path, status
// and duration on completion.
func RequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestId := r.Header.Get("X-Request-Id")
		if requestId == "" {
			requestId = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", requestId)

		start := time.Now()
		wrapped := &statusWriter{w, http.StatusOK}
		next.ServeHTTP(wrapped, r)

		logger.Log.Info("request",
			"id", requestId,
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.statusCode,
			"duration", time.Since(start),
		)
	})
}
