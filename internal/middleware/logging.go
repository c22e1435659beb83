package middleware

import (
	"net/http"
	"time"

	"github.com/navlink/navlink/pkg/logger"
)

// Logging returns a middleware that logs every request with timing.
// Responses at or above 500 log at error level, 400 at warn.
func Logging(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)

			next.ServeHTTP(rw, r)

			keyvals := []interface{}{
				"method", r.Method,
				"path", r.URL.Path,
				"status", rw.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", GetRequestID(r.Context()),
			}

			switch {
			case rw.statusCode >= http.StatusInternalServerError:
				log.Error("request", keyvals...)
			case rw.statusCode >= http.StatusBadRequest:
				log.Warn("request", keyvals...)
			default:
				log.Info("request", keyvals...)
			}
		})
	}
}
