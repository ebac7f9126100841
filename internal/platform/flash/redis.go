// Copyright (c) 2026 FilmArchive. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package flash

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/filmarchive/internal/platform/constants"
	"github.com/taibuivan/filmarchive/internal/platform/redis"
)

// RedisStore keeps banners under "flash:<session>" with a short TTL.
type RedisStore struct {
	client goredis.UniversalClient
	ttl    time.Duration
}

// NewRedisStore creates a [RedisStore]; ttl <= 0 selects [constants.FlashTTL].
func NewRedisStore(client goredis.UniversalClient, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = constants.FlashTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (store *RedisStore) key(session string) string {
	return constants.RedisPrefixFlash + session
}

// Push implements [Store].
func (store *RedisStore) Push(ctx context.Context, session string, message Message) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("flash: encode: %w", err)
	}

	if err := store.client.Set(ctx, store.key(session), payload, store.ttl).Err(); err != nil {
		return fmt.Errorf("flash: push: %w", err)
	}
	return nil
}

// Pop implements [Store]. GETDEL makes the read-once atomic.
func (store *RedisStore) Pop(ctx context.Context, session string) (*Message, error) {
	payload, err := store.client.GetDel(ctx, store.key(session)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("flash: pop: %w", err)
	}

	var message Message
	if err := json.Unmarshal(payload, &message); err != nil {
		return nil, fmt.Errorf("flash: decode: %w", err)
	}
	return &message, nil
}

// Ping implements [Store].
func (store *RedisStore) Ping(ctx context.Context) error {
	return redis.Ping(ctx, store.client)
}
