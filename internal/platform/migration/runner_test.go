// Copyright (c) 2026 FilmArchive. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseURL(t *testing.T) {
	tests := []struct {
		driver string
		dsn    string
		want   string
	}{
		{"postgres", "postgres://u:p@db:5432/film", "pgx5://u:p@db:5432/film"},
		{"postgres", "postgresql://u:p@db/film", "pgx5://u:p@db/film"},
		{"postgres", "pgx5://u:p@db/film", "pgx5://u:p@db/film"},
		{"sqlite3", "/var/lib/film.db", "sqlite3:///var/lib/film.db"},
		{"mysql", "u:p@tcp(db:3306)/film", "mysql://u:p@tcp(db:3306)/film?multiStatements=true"},
		{"mysql", "u:p@tcp(db:3306)/film?parseTime=true", "mysql://u:p@tcp(db:3306)/film?parseTime=true&multiStatements=true"},
	}

	for _, tt := range tests {
		t.Run(tt.driver+"_"+tt.dsn, func(t *testing.T) {
			got, err := DatabaseURL(tt.driver, tt.dsn)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := DatabaseURL("oracle", "x")
	assert.Error(t, err)
}

func TestRunUp_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "film.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	migrations, err := filepath.Abs("../../../data/migrations/sqlite3")
	require.NoError(t, err)

	require.NoError(t, RunUp("sqlite3", path, migrations, logger))
	// Second run is a no-op.
	require.NoError(t, RunUp("sqlite3", path, migrations, logger))

	database, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer database.Close()

	var count int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM catalog_entry`).Scan(&count))
	assert.Zero(t, count)
}
