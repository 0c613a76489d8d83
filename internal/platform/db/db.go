package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"evaltrack/internal/platform/config"
)

// Connect opens the shared pgx pool. Sizing suits a single-process API in
// front of one Postgres; raise MaxConns before raising worker counts.
func Connect(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	poolCfg.MinConns = 2
	poolCfg.MaxConns = 10
	poolCfg.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
