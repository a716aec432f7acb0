// Package repository is the PostgreSQL persistence layer.
package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool sizing defaults, used when Options leaves a field zero.
const (
	defaultMaxConns = 10
	defaultMinConns = 2
)

// Options tunes the connection pool. Zero fields fall back to defaults.
type Options struct {
	MaxConns int32
	MinConns int32
}

func applyPoolOptions(poolCfg *pgxpool.Config, opts Options) {
	poolCfg.MaxConns = defaultMaxConns
	if opts.MaxConns > 0 {
		poolCfg.MaxConns = opts.MaxConns
	}
	poolCfg.MinConns = defaultMinConns
	if opts.MinConns > 0 {
		poolCfg.MinConns = opts.MinConns
	}
}

// Repository provides database access methods.
type Repository struct {
	pool *pgxpool.Pool
}

// New opens a connection pool for databaseURL and verifies it with a ping.
func New(ctx context.Context, databaseURL string, opts Options) (*Repository, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	applyPoolOptions(poolCfg, opts)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{pool: pool}, nil
}

// Ping checks database connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool.
func (r *Repository) Close() {
	r.pool.Close()
}

// Pool exposes the raw pool for test seeding.
func (r *Repository) Pool() *pgxpool.Pool {
	return r.pool
}
