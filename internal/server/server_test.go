package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navlink/navlink/internal/config"
	"github.com/navlink/navlink/internal/idgen"
	"github.com/navlink/navlink/internal/models"
	"github.com/navlink/navlink/internal/services"
	"github.com/navlink/navlink/internal/store"
	"github.com/navlink/navlink/pkg/logger"
)

const testPIN = "0042"

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Server.ReadTimeout = 5 * time.Second
	cfg.Server.WriteTimeout = 10 * time.Second
	cfg.Link.PIN = testPIN
	cfg.Link.IndexLength = models.IndexLength
	cfg.Link.TTL = time.Hour
	cfg.Link.DecoyURL = config.DefaultDecoyURL
	return cfg
}

func newTestServer(t *testing.T) (*Server, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	svc := services.NewLinkService(mem, idgen.NewDefaultGenerator(), time.Hour)
	return New(testConfig(), logger.Nop(), svc, mem), mem
}

func do(t *testing.T, s *Server, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body == "" {
		reader = &bytes.Buffer{}
	} else {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServer_RootPage(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "/api/form")
}

func TestServer_SetThenRedirect(t *testing.T) {
	// The full creation-to-redirect flow: create via the JSON API, follow
	// the short link with the right and the wrong prefix.
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/set", "application/json",
		`{"pincode":"0042","url":"https://example.com","prefix":"x"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var link models.Link
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &link))
	assert.Regexp(t, regexp.MustCompile(`^[A-Za-z0-9]{5}$`), link.Index)
	assert.Equal(t, "https://example.com", link.URL)
	assert.Equal(t, "x", link.Prefix)
	assert.NotZero(t, link.Timestamp)

	rec = do(t, s, http.MethodGet, "/"+link.Index+".x", "", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://example.com", rec.Header().Get("Location"))

	rec = do(t, s, http.MethodGet, "/"+link.Index+".y", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	// Bare index with a stored prefix is treated as absent too.
	rec = do(t, s, http.MethodGet, "/"+link.Index, "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_ConfiguredIndexLength(t *testing.T) {
	// A non-default index length must round-trip: the generator mints
	// longer indexes and the redirect route accepts them.
	cfg := testConfig()
	cfg.Link.IndexLength = 6

	mem := store.NewMemoryStore()
	svc := services.NewLinkService(mem, idgen.NewRandomGenerator(cfg.Link.IndexLength), time.Hour)
	s := New(cfg, logger.Nop(), svc, mem)

	rec := do(t, s, http.MethodPost, "/api/set", "application/json",
		`{"pincode":"0042","url":"https://example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var link models.Link
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &link))
	require.Regexp(t, regexp.MustCompile(`^[A-Za-z0-9]{6}$`), link.Index)

	rec = do(t, s, http.MethodGet, "/"+link.Index, "", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://example.com", rec.Header().Get("Location"))
}

func TestServer_FormFlow(t *testing.T) {
	s, _ := newTestServer(t)

	form := url.Values{}
	form.Set("pincode", testPIN)
	form.Set("origurl", "https://example.com/docs")

	rec := do(t, s, http.MethodPost, "/api/form", "application/x-www-form-urlencoded", form.Encode())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), `"url":"https://example.com/docs"`)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "pincode", cookies[0].Name)
	assert.Equal(t, testPIN, cookies[0].Value)

	// The embedded record JSON carries a usable index.
	match := regexp.MustCompile(`"index":"([A-Za-z0-9]{5})"`).FindStringSubmatch(rec.Body.String())
	require.NotNil(t, match)

	rec = do(t, s, http.MethodGet, "/"+match[1], "", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://example.com/docs", rec.Header().Get("Location"))
}

func TestServer_WrongPIN(t *testing.T) {
	s, mem := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/set", "application/json",
		`{"pincode":"9999","url":"https://example.com"}`)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, config.DefaultDecoyURL, rec.Header().Get("Location"))
	assert.Equal(t, "accept your fate, son.", rec.Body.String())
	assert.Zero(t, mem.Len(), "wrong PIN must not create a record")
}

func TestServer_NotFoundRoutes(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name   string
		method string
		target string
	}{
		{name: "never-created index", method: http.MethodGet, target: "/abcde"},
		{name: "key shape mismatch", method: http.MethodGet, target: "/toolongkey"},
		{name: "multi-segment path", method: http.MethodGet, target: "/foo/bar"},
		{name: "api form with wrong method", method: http.MethodGet, target: "/api/form"},
		{name: "api set with wrong method", method: http.MethodGet, target: "/api/set"},
		{name: "api list stub", method: http.MethodGet, target: "/api/list"},
		{name: "api delete stub", method: http.MethodGet, target: "/api/delete"},
		{name: "unknown api operation", method: http.MethodPost, target: "/api/rename"},
		{name: "post to root", method: http.MethodPost, target: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, tt.method, tt.target, "", "")
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
			assert.Contains(t, rec.Body.String(), "404")
		})
	}
}

func TestServer_ExpiredLinkIndistinguishable(t *testing.T) {
	mem := store.NewMemoryStore()
	now := time.Now()
	mem.SetClock(func() time.Time { return now })

	svc := services.NewLinkService(mem, idgen.NewDefaultGenerator(), time.Hour)
	s := New(testConfig(), logger.Nop(), svc, mem)

	rec := do(t, s, http.MethodPost, "/api/set", "application/json",
		`{"pincode":"0042","url":"https://example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var link models.Link
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &link))

	now = now.Add(2 * time.Hour)
	mem.SetClock(func() time.Time { return now })

	expired := do(t, s, http.MethodGet, "/"+link.Index, "", "")
	never := do(t, s, http.MethodGet, "/zzzzz", "", "")

	assert.Equal(t, http.StatusNotFound, expired.Code)
	assert.Equal(t, never.Code, expired.Code)
	assert.Equal(t, never.Body.String(), expired.Body.String())
}

func TestServer_HealthAndMetrics(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")

	rec = do(t, s, http.MethodGet, "/ready", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"store":"ok"`)

	rec = do(t, s, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestServer_RequestIDHeader(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/health", "", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "my-trace-id")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "my-trace-id", rec.Header().Get("X-Request-ID"))
}

func TestServer_DebugErrorDetail(t *testing.T) {
	cfg := testConfig()
	cfg.App.Debug = true

	mem := store.NewMemoryStore()
	svc := services.NewLinkService(mem, idgen.NewDefaultGenerator(), time.Hour)
	s := New(cfg, logger.Nop(), svc, mem)

	rec := do(t, s, http.MethodPost, "/api/set", "application/json",
		`{"pincode":"0042","url":"not a url"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid url format")
	assert.False(t, strings.Contains(rec.Body.String(), "oops"))
}
