package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewStorePool creates the dashboard database pool. An empty URL means no
// store is configured and yields a nil pool. Connections are opened
// lazily, so an unreachable database still yields a pool; callers report
// the outage per request through Ping.
func NewStorePool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, nil
	}

	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse store db config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create store db pool: %w", err)
	}

	return pool, nil
}
