// Copyright (c) 2026 FilmArchive. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package flash_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/filmarchive/internal/platform/flash"
	"github.com/taibuivan/filmarchive/internal/platform/redis"
	"github.com/taibuivan/filmarchive/pkg/uuid"
)

// Runs only against a live server: TEST_REDIS_URL=redis://localhost:6379/15
func TestRedisStore(t *testing.T) {
	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	client, err := redis.NewClient(ctx, redisURL, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	store := flash.NewRedisStore(client, time.Minute)
	session := uuid.New()

	require.NoError(t, store.Ping(ctx))
	require.NoError(t, store.Push(ctx, session, flash.Message{Level: flash.LevelSuccess, Text: "Entry deleted."}))

	message, err := store.Pop(ctx, session)
	require.NoError(t, err)
	require.NotNil(t, message)
	assert.Equal(t, "Entry deleted.", message.Text)

	message, err = store.Pop(ctx, session)
	require.NoError(t, err)
	assert.Nil(t, message)
}
