// Package db provides PostgreSQL database access for agents, registration
// forms, generation reports and raw document bytes.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// migrations are idempotent and run at startup; the schema is small enough
// that a migration tool would be overkill.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS agents (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		profile    JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS agent_addendums (
		agent_id   UUID NOT NULL REFERENCES agents(id) ON DELETE CASCADE,
		kind       TEXT NOT NULL,
		name       TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (agent_id, kind)
	)`,
	`CREATE TABLE IF NOT EXISTS forms (
		id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		state_name      TEXT NOT NULL,
		form_label      TEXT NOT NULL DEFAULT '',
		file_name       TEXT NOT NULL,
		page_count      INT NOT NULL DEFAULT 0,
		fieldable       BOOLEAN NOT NULL DEFAULT FALSE,
		needs_reupload  BOOLEAN NOT NULL DEFAULT FALSE,
		detected_fields JSONB,
		mappings        JSONB,
		addendum_slots  JSONB,
		placements      JSONB,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS generations (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		form_id    UUID NOT NULL REFERENCES forms(id) ON DELETE CASCADE,
		agent_id   UUID NOT NULL REFERENCES agents(id) ON DELETE CASCADE,
		status     TEXT NOT NULL,
		report     JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS blobs (
		key        TEXT PRIMARY KEY,
		data       BYTEA NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate creates the schema if it does not exist yet.
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range migrations {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}
	return nil
}
