// Copyright (c) 2026 FilmArchive. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taibuivan/filmarchive/internal/platform/migration"
	"github.com/taibuivan/filmarchive/internal/platform/sqldb"
)

// newSQLiteStore returns a store over a freshly migrated temp database.
func newSQLiteStore(t *testing.T) *SQLStore {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	path := filepath.Join(t.TempDir(), "catalog.db")

	migrations, err := filepath.Abs("../../../data/migrations/sqlite3")
	require.NoError(t, err)
	require.NoError(t, migration.RunUp(sqldb.DriverSQLite, path, migrations, logger))

	db, err := sqldb.Open(context.Background(), sqldb.DriverSQLite, path, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewSQLStore(db)
}

func TestSQLStore(t *testing.T) {
	runRepositorySuite(t, func(t *testing.T) EntryRepository { return newSQLiteStore(t) })
}
