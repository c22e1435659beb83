package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/navlink/navlink/internal/models"
)

func TestErrorMapper_Respond(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		debug          bool
		expectedStatus int
		checkResponse  func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:           "not found serves the 404 page",
			err:            models.ErrLinkNotFound,
			expectedStatus: http.StatusNotFound,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
				assert.Contains(t, rec.Body.String(), "404")
			},
		},
		{
			name:           "wrapped not found still maps",
			err:            fmt.Errorf("resolving: %w", models.ErrLinkNotFound),
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "auth failure redirects to the decoy",
			err:            ErrAuthenticationFailed,
			expectedStatus: http.StatusFound,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, testDecoy, rec.Header().Get("Location"))
				assert.Equal(t, "accept your fate, son.", rec.Body.String())
			},
		},
		{
			name:           "unexpected error is opaque in production",
			err:            errors.New("pool exhausted at shard 3"),
			expectedStatus: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Contains(t, rec.Body.String(), "oops, server failed.")
				assert.NotContains(t, rec.Body.String(), "shard")
			},
		},
		{
			name:           "unexpected error is detailed in debug mode",
			err:            errors.New("pool exhausted at shard 3"),
			debug:          true,
			expectedStatus: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Contains(t, rec.Body.String(), "pool exhausted at shard 3")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMapper(tt.debug)
			req := httptest.NewRequest(http.MethodGet, "/whatever", nil)
			rec := httptest.NewRecorder()

			m.Respond(rec, req, tt.err)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.checkResponse != nil {
				tt.checkResponse(t, rec)
			}
		})
	}
}
