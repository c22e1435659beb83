package database

import (
	"context"
	"fmt"
)

// Migration represents a schema migration.
type Migration struct {
	Version int
	Name    string
	UpSQL   string
}

// Migrations returns the schema migrations for the link store, in order.
func Migrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_links",
			UpSQL: `
				CREATE TABLE IF NOT EXISTS links (
					index TEXT PRIMARY KEY,
					payload JSONB NOT NULL,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					expires_at TIMESTAMPTZ NOT NULL
				);
				CREATE INDEX IF NOT EXISTS idx_links_expires_at ON links (expires_at);
			`,
		},
	}
}

// Migrator applies schema migrations.
type Migrator struct {
	pool       *Pool
	migrations []Migration
}

// NewMigrator creates a Migrator over the built-in migrations.
func NewMigrator(pool *Pool) *Migrator {
	return &Migrator{pool: pool, migrations: Migrations()}
}

// Up applies all pending migrations and returns the number applied.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	if err := m.ensureMigrationsTable(ctx); err != nil {
		return 0, fmt.Errorf("failed to ensure migrations table: %w", err)
	}

	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, migration := range m.migrations {
		if applied[migration.Version] {
			continue
		}
		if err := m.apply(ctx, migration); err != nil {
			return count, fmt.Errorf("failed to apply migration %d (%s): %w", migration.Version, migration.Name, err)
		}
		count++
	}

	return count, nil
}

func (m *Migrator) ensureMigrationsTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			applied_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	_, err := m.pool.Exec(ctx, query)
	return err
}

func (m *Migrator) appliedVersions(ctx context.Context) (map[int]bool, error) {
	rows, err := m.pool.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}

	return applied, rows.Err()
}

func (m *Migrator) apply(ctx context.Context, migration Migration) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, migration.UpSQL); err != nil {
		return fmt.Errorf("failed to execute up SQL: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`,
		migration.Version, migration.Name)
	if err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}

	return tx.Commit(ctx)
}
