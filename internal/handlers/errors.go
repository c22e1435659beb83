// Package handlers contains the HTTP request handlers.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/navlink/navlink/internal/assets"
	"github.com/navlink/navlink/internal/metrics"
	"github.com/navlink/navlink/internal/models"
	"github.com/navlink/navlink/pkg/logger"
)

// ErrAuthenticationFailed is returned when the supplied PIN does not match.
var ErrAuthenticationFailed = errors.New("pin is not correct")

// notFoundPage is the embedded page served for every not-found outcome.
const notFoundPage = "404.html"

// ErrorMapper is the single place domain failures become HTTP responses.
// Handlers never shape error responses themselves.
type ErrorMapper struct {
	decoyURL string
	debug    bool
	log      *logger.Logger
}

// NewErrorMapper creates an ErrorMapper. In debug mode unexpected errors
// carry their detail in the body; otherwise the body is opaque.
func NewErrorMapper(decoyURL string, debug bool, log *logger.Logger) *ErrorMapper {
	return &ErrorMapper{
		decoyURL: decoyURL,
		debug:    debug,
		log:      log,
	}
}

// Respond maps err onto the wire:
//   - not-found (route, record, expired, prefix mismatch): the 404 page
//   - failed PIN check: a 302 to the decoy URL, no signal about why
//   - everything else: 500, detailed only in debug mode
func (m *ErrorMapper) Respond(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrLinkNotFound):
		m.NotFound(w, r)
	case errors.Is(err, ErrAuthenticationFailed):
		metrics.RecordAuthFailure()
		w.Header().Set("Location", m.decoyURL)
		w.WriteHeader(http.StatusFound)
		_, _ = w.Write([]byte("accept your fate, son."))
	default:
		m.log.Error("unexpected failure", "error", err.Error(), "path", r.URL.Path)
		body := "oops, server failed."
		if m.debug {
			body = err.Error()
		}
		http.Error(w, body, http.StatusInternalServerError)
	}
}

// NotFound serves the 404 page. Unmatched routes use this directly.
func (m *ErrorMapper) NotFound(w http.ResponseWriter, _ *http.Request) {
	assets.WritePage(w, http.StatusNotFound, notFoundPage)
}

// writeJSON writes data as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
