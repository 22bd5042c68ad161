// Package data provides low-level data clients and connection factories.
package data

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/roguepikachu/pasteshare/internal/config"
)

// postgresDSN builds a connection string from cfg, preferring PostgresURL.
func postgresDSN(cfg config.Config) string {
	if cfg.PostgresURL != "" {
		return cfg.PostgresURL
	}
	host := orDefault(cfg.PostgresHost, "127.0.0.1")
	port := orDefault(cfg.PostgresPort, "5432")
	user := orDefault(cfg.PostgresUser, "postgres")
	db := orDefault(cfg.PostgresDB, "pasteshare")
	sslmode := orDefault(cfg.PostgresSSLMode, "disable")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, cfg.PostgresPassword, host, port, db, sslmode)
}

// NewPostgresPool creates a pgx connection pool from cfg.
func NewPostgresPool(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(postgresDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	pcfg.MaxConns = 4
	pcfg.MaxConnIdleTime = 30 * time.Second
	pcfg.MaxConnLifetime = 30 * time.Minute
	return pgxpool.NewWithConfig(ctx, pcfg)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
