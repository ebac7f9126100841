// Copyright (c) 2026 FilmArchive. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sqldb opens the database/sql backends of the catalog store: an
// embedded SQLite file and MySQL.
//
// # Architecture
//
// Infrastructure layer, sibling of [postgres]. The returned *sql.DB is handed
// to [catalog.NewSQLStore].
package sqldb

import (
	stdctx "context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
)

// Driver names understood by [Open].
const (
	DriverSQLite = "sqlite3"
	DriverMySQL  = "mysql"
)

// sqliteDriver is the go-sqlite3 driver with the catalog's connect hook.
const sqliteDriver = "sqlite3_filmarchive"

var registerSQLite sync.Once

// registerSQLiteDriver installs a connect hook that replaces SQLite's
// ASCII-only lower() with Unicode case folding, so LOWER(title) LIKE
// LOWER(?) and ORDER BY LOWER(title) agree with PostgreSQL and MySQL.
func registerSQLiteDriver() {
	registerSQLite.Do(func() {
		sql.Register(sqliteDriver, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				return conn.RegisterFunc("lower", unicodeLower, true)
			},
		})
	})
}

// unicodeLower lower-cases text values and passes anything else through,
// NULL included.
func unicodeLower(value any) any {
	switch text := value.(type) {
	case string:
		return strings.ToLower(text)
	case []byte:
		return strings.ToLower(string(text))
	default:
		return value
	}
}

const (
	pingTimeout     = 2 * time.Second
	maxOpenConns    = 10
	connMaxLifetime = 5 * time.Minute
)

/*
Open connects to SQLite or MySQL and verifies the connection.

Parameters:
  - context: context.Context (Bounds the initial ping)
  - driver: string ([DriverSQLite] or [DriverMySQL])
  - dsn: string (SQLite file path, or a go-sql-driver/mysql DSN)
  - logger: *slog.Logger

Returns:
  - *sql.DB: Ready connection pool
  - error: Unsupported driver, bad DSN, or unreachable database
*/
func Open(context stdctx.Context, driver, dsn string, logger *slog.Logger) (*sql.DB, error) {
	var (
		database *sql.DB
		err      error
	)

	switch driver {
	case DriverSQLite:
		database, err = openSQLite(dsn)
	case DriverMySQL:
		database, err = openMySQL(dsn)
	default:
		return nil, fmt.Errorf("sqldb: unsupported driver %q", driver)
	}
	if err != nil {
		return nil, err
	}

	if err := Ping(context, database); err != nil {
		_ = database.Close()
		return nil, err
	}

	logger.Info("sql_database_connected", slog.String("driver", driver))
	return database, nil
}

// openSQLite creates the parent directory and applies per-connection pragmas
// through the DSN so every pooled connection gets them.
func openSQLite(path string) (*sql.DB, error) {
	filePath, _, _ := strings.Cut(strings.TrimPrefix(path, "file:"), "?")
	if filePath != "" && filePath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
			return nil, fmt.Errorf("sqldb: ensure data dir: %w", err)
		}
	}

	registerSQLiteDriver()
	database, err := sql.Open(sqliteDriver, SQLiteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("sqldb: open sqlite: %w", err)
	}

	// A single writer avoids SQLITE_BUSY under concurrent updates.
	database.SetMaxOpenConns(1)
	return database, nil
}

// SQLiteDSN appends foreign-key, WAL and busy-timeout options to a file path.
func SQLiteDSN(path string) string {
	params := url.Values{}
	params.Set("_foreign_keys", "on")
	params.Set("_journal_mode", "WAL")
	params.Set("_busy_timeout", "5000")

	separator := "?"
	if strings.Contains(path, "?") {
		separator = "&"
	}
	return path + separator + params.Encode()
}

func openMySQL(dsn string) (*sql.DB, error) {
	normalized, err := MySQLDSN(dsn)
	if err != nil {
		return nil, err
	}

	database, err := sql.Open(DriverMySQL, normalized)
	if err != nil {
		return nil, fmt.Errorf("sqldb: open mysql: %w", err)
	}

	database.SetConnMaxLifetime(connMaxLifetime)
	database.SetMaxOpenConns(maxOpenConns)
	database.SetMaxIdleConns(maxOpenConns)
	return database, nil
}

// MySQLDSN validates a go-sql-driver DSN and forces the options the store
// relies on.
func MySQLDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("sqldb: invalid mysql DSN: %w", err)
	}

	cfg.ParseTime = true
	if cfg.Params == nil {
		cfg.Params = map[string]string{}
	}
	if _, ok := cfg.Params["charset"]; !ok {
		cfg.Params["charset"] = "utf8mb4"
	}

	return cfg.FormatDSN(), nil
}

// Ping verifies that the database is reachable.
func Ping(context stdctx.Context, database *sql.DB) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := database.PingContext(pingCtx); err != nil {
		return fmt.Errorf("sqldb: ping failed: %w", err)
	}
	return nil
}
