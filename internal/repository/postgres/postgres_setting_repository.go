// Package postgres provides a Postgres-backed SettingRepository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/roguepikachu/pasteshare/internal/repository"
	"github.com/roguepikachu/pasteshare/pkg/logger"
)

// SettingRepository implements repository.SettingRepository using Postgres.
type SettingRepository struct {
	pool *pgxpool.Pool
}

// NewSettingRepository creates a new Postgres-backed setting repository.
func NewSettingRepository(pool *pgxpool.Pool) *SettingRepository {
	return &SettingRepository{pool: pool}
}

// EnsureSchema creates the settings table if it does not exist.
func (r *SettingRepository) EnsureSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS ui_settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	logger.Info(ctx, "postgres settings schema ensured")
	return nil
}

// Get returns the stored value or repository.ErrNotFound.
func (r *SettingRepository) Get(ctx context.Context, key string) (string, error) {
	const q = `SELECT value FROM ui_settings WHERE key = $1`
	var v string
	if err := r.pool.QueryRow(ctx, q, key).Scan(&v); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", repository.ErrNotFound
		}
		return "", fmt.Errorf("query setting: %w", err)
	}
	return v, nil
}

// Set upserts value under key.
func (r *SettingRepository) Set(ctx context.Context, key, value string) error {
	const q = `
INSERT INTO ui_settings (key, value, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
`
	if _, err := r.pool.Exec(ctx, q, key, value); err != nil {
		return fmt.Errorf("upsert setting: %w", err)
	}
	return nil
}

// Delete removes key; a missing key is not an error.
func (r *SettingRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM ui_settings WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete setting: %w", err)
	}
	return nil
}

// Ping checks the database connection.
func (r *SettingRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

var _ repository.SettingRepository = (*SettingRepository)(nil)
