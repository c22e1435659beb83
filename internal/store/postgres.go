package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/navlink/navlink/internal/database"
	"github.com/navlink/navlink/internal/metrics"
)

// Ensure PostgresStore implements Store
var _ Store = (*PostgresStore)(nil)

// PostgresStore implements Store on PostgreSQL for deployments without
// Redis. Expiration is enforced by predicate on reads; Put opportunistically
// clears rows that are already past their deadline.
type PostgresStore struct {
	pool *database.Pool
}

// NewPostgresStore creates a Postgres-backed store.
func NewPostgresStore(pool *database.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Put stores value under key with the given TTL, overwriting any existing row.
func (s *PostgresStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	defer metrics.RecordStoreOp("put", time.Now())

	query := `
		INSERT INTO links (index, payload, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (index) DO UPDATE
		SET payload = EXCLUDED.payload, expires_at = EXCLUDED.expires_at
	`

	expiresAt := time.Now().Add(ttl)
	if _, err := s.pool.Exec(ctx, query, key, value, expiresAt); err != nil {
		return fmt.Errorf("store put failed: %w", err)
	}

	// Best-effort purge so dead rows don't pile up between reads.
	_, _ = s.pool.Exec(ctx, `DELETE FROM links WHERE expires_at <= NOW()`)

	return nil
}

// Get returns the value for key, or ErrKeyNotFound for absent or expired rows.
func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	defer metrics.RecordStoreOp("get", time.Now())

	query := `
		SELECT payload FROM links
		WHERE index = $1 AND expires_at > NOW()
	`

	var payload []byte
	err := s.pool.QueryRow(ctx, query, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("store get failed: %w", err)
	}
	return payload, nil
}

// Exists reports whether key holds a live value.
func (s *PostgresStore) Exists(ctx context.Context, key string) (bool, error) {
	defer metrics.RecordStoreOp("exists", time.Now())

	query := `
		SELECT EXISTS (
			SELECT 1 FROM links WHERE index = $1 AND expires_at > NOW()
		)
	`

	var exists bool
	if err := s.pool.QueryRow(ctx, query, key).Scan(&exists); err != nil {
		return false, fmt.Errorf("store exists check failed: %w", err)
	}
	return exists, nil
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.HealthCheck(ctx)
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
