// Package postgres stores documents as JSONB rows, one table per collection.
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgBouncerPort is the transaction-pooler port used by hosted Postgres
// providers; it does not support prepared statements.
const pgBouncerPort = 6543

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool        *pgxpool.Pool
	TablePrefix string
	Logger      *slog.Logger
}

// TableName returns the sanitized table identifier for a collection
func (c *RepositoryConfig) TableName(collection string) string {
	return pgx.Identifier{c.TablePrefix + collection}.Sanitize()
}

// CreateConnectionPool parses databaseURL, sizes the pool and pings the server.
//
// Behind PgBouncer (port 6543) the default statement cache breaks, so the
// pool switches to QueryExecModeCacheDescribe: extended protocol (needed to
// encode JSONB parameters) without server-side prepared statements. An
// explicit default_query_exec_mode in the URL always wins.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}
	configurePool(config)

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

func configurePool(config *pgxpool.Config) {
	config.MaxConns = 25
	config.MinConns = 5

	if config.ConnConfig.Port == pgBouncerPort && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", pgBouncerPort)
	}
}
