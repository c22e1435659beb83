// Package main is the entry point for the navlink API server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	gorilla "github.com/gorilla/handlers"
	"github.com/joho/godotenv"

	"github.com/navlink/navlink/internal/config"
	"github.com/navlink/navlink/internal/database"
	"github.com/navlink/navlink/internal/idgen"
	"github.com/navlink/navlink/internal/server"
	"github.com/navlink/navlink/internal/services"
	"github.com/navlink/navlink/internal/store"
	"github.com/navlink/navlink/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		// A .env file is optional; plain env vars are fine.
		fmt.Fprintln(os.Stderr, "no .env file loaded")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.New(os.Stdout, cfg.App.LogLevel).With("service", "navlink")
	log.Info("starting", "env", cfg.App.Env, "store", cfg.Link.StoreBackend)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	gen := idgen.NewRandomGenerator(cfg.Link.IndexLength)
	svc := services.NewLinkService(st, gen, cfg.Link.TTL)

	srv := server.New(cfg, log, svc, st)

	// The root page posts to /api/form from the browser, so keep CORS open.
	srv.WrapHandler(gorilla.CORS(
		gorilla.AllowedOrigins([]string{"*"}),
		gorilla.AllowedHeaders([]string{"Content-Type"}),
		gorilla.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
	))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}

// openStore builds the configured store backend. Postgres runs its schema
// migrations before serving.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (store.Store, error) {
	switch cfg.Link.StoreBackend {
	case config.BackendRedis:
		st, err := store.NewRedisStore(ctx, &cfg.Redis)
		if err != nil {
			return nil, err
		}
		log.Info("redis store connected", "addr", cfg.Redis.Addr())
		return st, nil

	case config.BackendPostgres:
		pool, err := database.NewPool(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		applied, err := database.NewMigrator(pool).Up(ctx)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		if applied > 0 {
			log.Info("migrations applied", "count", applied)
		}
		log.Info("postgres store connected", "host", cfg.Database.Host)
		return store.NewPostgresStore(pool), nil

	case config.BackendMemory:
		log.Warn("memory store selected; links will not survive a restart")
		return store.NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("unknown store backend: %q", cfg.Link.StoreBackend)
	}
}
