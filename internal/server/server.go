// Package server provides the HTTP server implementation.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/navlink/navlink/internal/assets"
	"github.com/navlink/navlink/internal/config"
	"github.com/navlink/navlink/internal/handlers"
	"github.com/navlink/navlink/internal/metrics"
	"github.com/navlink/navlink/internal/middleware"
	"github.com/navlink/navlink/internal/services"
	"github.com/navlink/navlink/internal/store"
	"github.com/navlink/navlink/pkg/logger"
)

// Server represents the HTTP server.
type Server struct {
	cfg             *config.Config
	log             *logger.Logger
	httpServer      *http.Server
	healthHandler   *handlers.HealthHandler
	apiHandler      *handlers.APIHandler
	redirectHandler *handlers.RedirectHandler
	errorMapper     *handlers.ErrorMapper
	listener        net.Listener
	running         bool
	mu              sync.RWMutex
}

// New creates a Server wired to the given link service and store. The
// store is only consulted for the readiness check; all request paths go
// through the service.
func New(cfg *config.Config, log *logger.Logger, svc services.LinkService, st store.Store) *Server {
	mapper := handlers.NewErrorMapper(cfg.Link.DecoyURL, cfg.App.Debug, log)

	s := &Server{
		cfg:             cfg,
		log:             log,
		healthHandler:   handlers.NewHealthHandler(),
		apiHandler:      handlers.NewAPIHandler(svc, cfg.Link.PIN, mapper),
		redirectHandler: handlers.NewRedirectHandler(svc, mapper, cfg.Link.IndexLength),
		errorMapper:     mapper,
	}

	if st != nil {
		s.healthHandler.RegisterCheck("store", func() bool {
			return st.Ping(context.Background()) == nil
		})
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	chain := middleware.New(
		middleware.Metrics(),
		middleware.RequestID(),
		middleware.Logging(log),
	)

	s.httpServer = &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      chain.Then(mux),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return s
}

// registerRoutes sets up the HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// Root page, exact match only
	mux.HandleFunc("GET /{$}", s.handleRoot)

	// Operational endpoints
	mux.HandleFunc("GET /health", s.healthHandler.Health)
	mux.HandleFunc("GET /ready", s.healthHandler.Ready)
	mux.Handle("GET /metrics", metrics.Handler())

	// Creation API. Wrong-method calls fall through to the /api/
	// catch-all below and get the 404 page, never a 405.
	mux.HandleFunc("POST /api/form", s.apiHandler.Form)
	mux.HandleFunc("POST /api/set", s.apiHandler.Set)

	// Stubbed operations keep their routes so the surface stays stable.
	mux.HandleFunc("/api/list", s.apiHandler.List)
	mux.HandleFunc("/api/delete", s.apiHandler.Delete)
	mux.HandleFunc("/api/", s.errorMapper.NotFound)

	// Short link lookup: /{index} or /{index}.{prefix}
	mux.HandleFunc("GET /{key}", s.handleRedirect)

	// Everything else (multi-segment paths, non-GET root) is not found.
	mux.HandleFunc("/", s.errorMapper.NotFound)
}

// handleRoot serves the embedded root page.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	assets.WritePage(w, http.StatusOK, "index.html")
}

// handleRedirect extracts the short key and delegates to the redirect handler.
func (s *Server) handleRedirect(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		s.errorMapper.NotFound(w, r)
		return
	}
	s.redirectHandler.Redirect(w, r, key)
}

// Handler returns the fully wired HTTP handler. Tests drive it directly
// through httptest without opening a socket.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// WrapHandler wraps the server's handler with an outer layer such as CORS.
// Must be called before Start.
func (s *Server) WrapHandler(wrap func(http.Handler) http.Handler) {
	s.httpServer.Handler = wrap(s.httpServer.Handler)
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := s.cfg.Server.Address()

	// Create listener first to get the actual address (important when port is 0)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	s.mu.Lock()
	s.listener = listener
	s.running = true
	s.mu.Unlock()

	s.log.Info("server starting", "address", listener.Addr().String())

	err = s.httpServer.Serve(listener)
	if err != nil && err != http.ErrServerClosed {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("server shutting down")

	// Mark as not ready during shutdown
	s.healthHandler.SetReady(false)

	err := s.httpServer.Shutdown(ctx)

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	if err != nil {
		s.log.Error("shutdown error", "error", err.Error())
		return err
	}

	s.log.Info("server stopped")
	return nil
}

// IsRunning returns whether the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}
