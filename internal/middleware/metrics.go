package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/navlink/navlink/internal/metrics"
)

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Metrics returns a middleware that records Prometheus metrics.
func Metrics() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)

			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			path := normalizePath(r.URL.Path)
			metrics.RecordRequest(r.Method, path, rw.statusCode, duration)
		})
	}
}

// normalizePath collapses dynamic path segments for metrics labels to keep
// label cardinality bounded.
func normalizePath(path string) string {
	switch {
	case path == "/" || path == "/health" || path == "/ready" || path == "/metrics":
		return path
	case strings.HasPrefix(path, "/api/"):
		return path
	case strings.Count(path, "/") == 1:
		// Short link lookups: /{index} or /{index}.{prefix}
		return "/{index}"
	default:
		return "/other"
	}
}
