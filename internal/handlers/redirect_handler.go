package handlers

import (
	"fmt"
	"net/http"
	"regexp"

	"github.com/navlink/navlink/internal/metrics"
	"github.com/navlink/navlink/internal/models"
	"github.com/navlink/navlink/internal/services"
)

// RedirectHandler handles short-link lookups.
type RedirectHandler struct {
	service services.LinkService
	mapper  *ErrorMapper
	// shortKey matches one path segment of exactly indexLength word
	// characters, optionally followed by a dot and a word-character
	// suffix: the index and its prefix.
	shortKey *regexp.Regexp
}

// NewRedirectHandler creates a new RedirectHandler. The route shape is
// derived from indexLength so lookups stay in step with the generator;
// lengths below one fall back to models.IndexLength.
func NewRedirectHandler(svc services.LinkService, mapper *ErrorMapper, indexLength int) *RedirectHandler {
	if indexLength < 1 {
		indexLength = models.IndexLength
	}
	return &RedirectHandler{
		service:  svc,
		mapper:   mapper,
		shortKey: regexp.MustCompile(fmt.Sprintf(`^(\w{%d})(?:\.(\w+))?$`, indexLength)),
	}
}

// Redirect handles GET /{key} requests, where key is "index" or
// "index.prefix". Keys that don't fit the shape get the 404 page without
// touching the store.
func (h *RedirectHandler) Redirect(w http.ResponseWriter, r *http.Request, key string) {
	match := h.shortKey.FindStringSubmatch(key)
	if match == nil {
		h.mapper.NotFound(w, r)
		return
	}
	index, prefix := match[1], match[2]

	link, err := h.service.Resolve(r.Context(), index, prefix)
	if err != nil {
		h.mapper.Respond(w, r, err)
		return
	}

	metrics.RecordRedirect()
	http.Redirect(w, r, link.URL, http.StatusFound)
}
