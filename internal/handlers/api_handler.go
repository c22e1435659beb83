package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/navlink/navlink/internal/assets"
	"github.com/navlink/navlink/internal/metrics"
	"github.com/navlink/navlink/internal/services"
)

// SetRequest is the JSON body for POST /api/set.
type SetRequest struct {
	Pincode string `json:"pincode"`
	URL     string `json:"url"`
	Prefix  string `json:"prefix,omitempty"`
}

// APIHandler handles the PIN-gated creation endpoints.
type APIHandler struct {
	service services.LinkService
	pin     string
	mapper  *ErrorMapper
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(svc services.LinkService, pin string, mapper *ErrorMapper) *APIHandler {
	return &APIHandler{service: svc, pin: pin, mapper: mapper}
}

// Form handles POST /api/form: a browser form with pincode and origurl
// fields. On success it renders the okay page with the created record
// embedded, and persists the pincode in a cookie so the form can be
// resubmitted without retyping it.
func (h *APIHandler) Form(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.mapper.Respond(w, r, fmt.Errorf("failed to parse form body: %w", err))
		return
	}

	pincode := r.PostFormValue("pincode")
	if !h.pinMatches(pincode) {
		h.mapper.Respond(w, r, ErrAuthenticationFailed)
		return
	}

	link, err := h.service.Create(r.Context(), r.PostFormValue("origurl"), "")
	if err != nil {
		h.mapper.Respond(w, r, err)
		return
	}
	metrics.RecordLinkCreated()

	data, err := json.Marshal(link)
	if err != nil {
		h.mapper.Respond(w, r, fmt.Errorf("failed to encode link: %w", err))
		return
	}

	page, err := assets.RenderOkay(data)
	if err != nil {
		h.mapper.Respond(w, r, fmt.Errorf("failed to render okay page: %w", err))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:  "pincode",
		Value: pincode,
		Path:  "/",
	})
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}

// Set handles POST /api/set: the JSON API with an optional prefix.
func (h *APIHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req SetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.mapper.Respond(w, r, fmt.Errorf("failed to parse request body: %w", err))
		return
	}

	if !h.pinMatches(req.Pincode) {
		h.mapper.Respond(w, r, ErrAuthenticationFailed)
		return
	}

	link, err := h.service.Create(r.Context(), req.URL, req.Prefix)
	if err != nil {
		h.mapper.Respond(w, r, err)
		return
	}
	metrics.RecordLinkCreated()

	writeJSON(w, http.StatusOK, link)
}

// List handles /api/list. The operation is a stable stub.
func (h *APIHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, err := h.service.List(r.Context()); err != nil {
		h.mapper.Respond(w, r, err)
		return
	}
	h.mapper.NotFound(w, r)
}

// Delete handles /api/delete. The operation is a stable stub.
func (h *APIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), ""); err != nil {
		h.mapper.Respond(w, r, err)
		return
	}
	h.mapper.NotFound(w, r)
}

// pinMatches compares the supplied pincode against the configured PIN in
// constant time.
func (h *APIHandler) pinMatches(pincode string) bool {
	return subtle.ConstantTimeCompare([]byte(pincode), []byte(h.pin)) == 1
}
