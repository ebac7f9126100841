// Copyright (c) 2026 FilmArchive. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/filmarchive/internal/platform/postgres"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewPool_InvalidDSN(t *testing.T) {
	_, err := postgres.NewPool(context.Background(), "postgres://film@localhost:notaport/db", discardLogger())
	assert.ErrorContains(t, err, "invalid DSN")
}

// Runs only against a live server: TEST_DATABASE_URL=postgres://...
func TestNewPool_SessionParameters(t *testing.T) {
	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	pool, err := postgres.NewPool(context.Background(), databaseURL, discardLogger())
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	var timeout string
	require.NoError(t, pool.QueryRow(context.Background(), "SHOW statement_timeout").Scan(&timeout))
	assert.Equal(t, "30s", timeout)

	assert.NoError(t, postgres.Ping(context.Background(), pool))
}
