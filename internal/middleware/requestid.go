package middleware

import (
	"context"
	"net/http"
	"regexp"

	"github.com/google/uuid"
)

// HeaderXRequestID is the header name for request ID.
const HeaderXRequestID = "X-Request-ID"

// requestIDMaxLength is the maximum length for a valid request ID.
const requestIDMaxLength = 128

// validRequestIDRegex matches alphanumeric strings with dashes and underscores.
var validRequestIDRegex = regexp.MustCompile(`^[a-zA-Z0-9\-_]+$`)

// RequestID returns a middleware that adds a unique request ID to each request.
// If the request already has a valid X-Request-ID header, it will be used.
// Otherwise, a new UUID v4 will be generated.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(HeaderXRequestID)

			if !isValidRequestID(requestID) {
				requestID = uuid.New().String()
			}

			w.Header().Set(HeaderXRequestID, requestID)

			ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// isValidRequestID checks if the request ID is valid.
// Valid IDs are non-empty, not too long, and contain only safe characters.
func isValidRequestID(id string) bool {
	if id == "" || len(id) > requestIDMaxLength {
		return false
	}
	return validRequestIDRegex.MatchString(id)
}
