// Package database opens the Postgres pool used by the service and keeps
// its schema current.
package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/marshallshelly/jokes-api/internal/config"
	"github.com/marshallshelly/jokes-api/internal/models"
	"github.com/marshallshelly/pebble-orm/pkg/runtime"
)

// Connect registers the jokes models and opens a pool sized from cfg.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*runtime.DB, error) {
	if cfg.URL == "" {
		return nil, config.ErrNoDatabaseURL
	}

	// Register all models
	if err := models.RegisterAll(); err != nil {
		return nil, fmt.Errorf("failed to register models: %w", err)
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection URL: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return runtime.NewDB(pool), nil
}
