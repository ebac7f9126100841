// Copyright (c) 2026 FilmArchive. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis connects the optional Redis server that holds flash banners.

Banners must survive a redirect to whichever instance serves the next
request, so a multi-instance deployment points REDIS_URL here. Every key
carries a TTL; nothing in Redis is authoritative.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// poolSize: one GETDEL per page view and one SET per mutation.
	poolSize = 4

	commandTimeout = 2 * time.Second
)

// NewClient parses a redis:// or rediss:// URL, applies the banner
// workload's pool size and command timeouts, and pings once.
func NewClient(context stdctx.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	options.PoolSize = poolSize
	options.ReadTimeout = commandTimeout
	options.WriteTimeout = commandTimeout

	client := redis.NewClient(options)
	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_client_connected",
		slog.String("addr", options.Addr),
		slog.Int("db", options.DB),
	)
	return client, nil
}

// Ping reports whether the server answers within commandTimeout.
func Ping(context stdctx.Context, client redis.UniversalClient) error {
	pingCtx, cancel := stdctx.WithTimeout(context, commandTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}
	return nil
}
