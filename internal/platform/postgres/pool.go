// Copyright (c) 2026 FilmArchive. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package postgres opens the PostgreSQL pool behind the default catalog store.
//
// # Architecture
//
// Infrastructure layer. The pool is created once in main and handed to
// [catalog.NewPostgresStore]; nothing else opens connections.
package postgres

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/filmarchive/internal/platform/constants"
)

// Pool size is left to pgxpool (pool_max_conns in the DSN, else max(4, NumCPU)).
const (
	connectTimeout = 5 * time.Second
	pingTimeout    = 2 * time.Second

	applicationName = "filmarchive"
)

/*
NewPool parses dsn, opens the pool and pings it once.

Every session starts with a statement_timeout equal to the request deadline,
and an application_name unless the DSN names one. Both are startup parameters.

Parameters:
  - context: context.Context (Bounds the first ping)
  - dsn: string (postgres:// URL or keyword/value string)
  - logger: *slog.Logger

Returns:
  - *pgxpool.Pool: Ready pool; the caller closes it
  - error: Bad DSN or unreachable server
*/
func NewPool(context stdctx.Context, dsn string, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid DSN: %w", err)
	}

	poolConfig.ConnConfig.ConnectTimeout = connectTimeout
	if _, set := poolConfig.ConnConfig.RuntimeParams["application_name"]; !set {
		poolConfig.ConnConfig.RuntimeParams["application_name"] = applicationName
	}
	poolConfig.ConnConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(constants.GlobalRequestTimeout.Milliseconds(), 10)

	pool, err := pgxpool.NewWithConfig(context, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}

	if err := Ping(context, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("postgres_pool_connected",
		slog.String("host", poolConfig.ConnConfig.Host),
		slog.String("database", poolConfig.ConnConfig.Database),
		slog.Int("max_conns", int(poolConfig.MaxConns)),
	)

	return pool, nil
}

// Ping reports whether the pool can reach the server.
func Ping(context stdctx.Context, pool *pgxpool.Pool) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres: ping failed: %w", err)
	}
	return nil
}
