// Copyright (c) 2026 FilmArchive. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sqldb_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/filmarchive/internal/platform/sqldb"
)

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "data/film.db?_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL", sqldb.SQLiteDSN("data/film.db"))
	assert.Equal(t, "film.db?cache=shared&_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL", sqldb.SQLiteDSN("film.db?cache=shared"))
}

func TestMySQLDSN(t *testing.T) {
	dsn, err := sqldb.MySQLDSN("film:secret@tcp(127.0.0.1:3306)/filmarchive")
	require.NoError(t, err)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")

	_, err = sqldb.MySQLDSN("not a dsn")
	assert.Error(t, err)
}

func TestOpen_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "film.db")

	database, err := sqldb.Open(context.Background(), sqldb.DriverSQLite, path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	var enabled int
	require.NoError(t, database.QueryRow("PRAGMA foreign_keys").Scan(&enabled))
	assert.Equal(t, 1, enabled)
}

func TestOpen_SQLiteUnicodeLower(t *testing.T) {
	database, err := sqldb.Open(context.Background(), sqldb.DriverSQLite, filepath.Join(t.TempDir(), "film.db"), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	var lowered string
	require.NoError(t, database.QueryRow("SELECT LOWER(?)", "ÉLITE Amélie").Scan(&lowered))
	assert.Equal(t, "élite amélie", lowered)

	var matched int
	require.NoError(t, database.QueryRow("SELECT LOWER(?) LIKE LOWER(?)", "Élite", "%éLIT%").Scan(&matched))
	assert.Equal(t, 1, matched)

	var missing sql.NullString
	require.NoError(t, database.QueryRow("SELECT LOWER(NULL)").Scan(&missing))
	assert.False(t, missing.Valid)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := sqldb.Open(context.Background(), "oracle", "x", slog.Default())
	assert.Error(t, err)
}
