// Copyright (c) 2026 FilmArchive. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/taibuivan/filmarchive/internal/platform/apperr"
	"github.com/taibuivan/filmarchive/internal/platform/database/schema"
	"github.com/taibuivan/filmarchive/internal/platform/dberr"
	"github.com/taibuivan/filmarchive/internal/platform/sqldb"
)

// SQLStore implements [EntryRepository] on database/sql for the SQLite and
// MySQL drivers. Both use '?' placeholders and LastInsertId.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore constructs a [SQLStore] over a handle from [sqldb.Open].
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func questionPlaceholder(int) string {
	return "?"
}

// List implements [EntryRepository].
func (repository *SQLStore) List(context context.Context, filter Filter) ([]*Entry, error) {
	query, args := listQuery(filter, questionPlaceholder)

	rows, err := repository.db.QueryContext(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, resourceEntry, "list entries")
	}
	defer rows.Close()

	entries := make([]*Entry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, dberr.Wrap(err, resourceEntry, "scan entry")
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, resourceEntry, "iterate entries")
	}

	return entries, nil
}

// FindByID implements [EntryRepository].
func (repository *SQLStore) FindByID(context context.Context, id int64) (*Entry, error) {
	return findByID(context, repository.db, id)
}

// queryRower is satisfied by *sql.DB and *sql.Tx.
type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func findByID(context context.Context, db queryRower, id int64) (*Entry, error) {
	table := schema.CatalogEntry
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ?`, table.SelectList(), table.Table, table.ID)

	entry, err := scanEntry(db.QueryRowContext(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceEntry, "find entry")
	}
	return entry, nil
}

// Create implements [EntryRepository].
func (repository *SQLStore) Create(context context.Context, entry *Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	table := schema.CatalogEntry
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES (?, ?, ?, ?, ?, ?, ?, 1)`,
		table.Table, strings.Join(table.MutableColumns(), ", "), table.Version)

	result, err := repository.db.ExecContext(context, query,
		entry.Title, entry.Director, entry.Genre, string(entry.Category),
		entry.ReleaseYear, entry.Rating, entry.ImagePath,
	)
	if err != nil {
		return dberr.Wrap(err, resourceEntry, "create entry")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return dberr.Wrap(err, resourceEntry, "read insert id")
	}

	entry.ID = id
	entry.Version = 1
	return nil
}

// Update implements [EntryRepository].
func (repository *SQLStore) Update(context context.Context, entry *Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	table := schema.CatalogEntry
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = ?, %s = ?, %s = ?, %s = ?, %s = ?, %s = ?, %s = ?, %s = %s + 1
		WHERE %s = ? AND %s = ?`,
		table.Table,
		table.Title, table.Director, table.Genre, table.Category, table.ReleaseYear, table.Rating, table.ImagePath,
		table.Version, table.Version,
		table.ID, table.Version,
	)

	result, err := repository.db.ExecContext(context, query,
		entry.Title, entry.Director, entry.Genre, string(entry.Category),
		entry.ReleaseYear, entry.Rating, entry.ImagePath,
		entry.ID, entry.Version,
	)
	if err != nil {
		return dberr.Wrap(err, resourceEntry, "update entry")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return dberr.Wrap(err, resourceEntry, "update entry")
	}

	if affected == 0 {
		if _, err := findByID(context, repository.db, entry.ID); err != nil {
			return err
		}
		return errEntryChanged
	}

	entry.Version++
	return nil
}

// Delete implements [EntryRepository]. The read and the delete share one
// transaction so the returned row is exactly what was removed.
func (repository *SQLStore) Delete(context context.Context, id int64) (deleted *Entry, err error) {
	transaction, err := repository.db.BeginTx(context, nil)
	if err != nil {
		return nil, dberr.Wrap(err, resourceEntry, "begin delete")
	}
	defer func() {
		if err != nil {
			_ = transaction.Rollback()
		}
	}()

	deleted, err = findByID(context, transaction, id)
	if err != nil {
		return nil, err
	}

	table := schema.CatalogEntry
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = ?`, table.Table, table.ID)

	result, err := transaction.ExecContext(context, query, id)
	if err != nil {
		return nil, dberr.Wrap(err, resourceEntry, "delete entry")
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, apperr.NotFound(resourceEntry)
	}

	if err = transaction.Commit(); err != nil {
		return nil, dberr.Wrap(err, resourceEntry, "commit delete")
	}

	return deleted, nil
}

// Ping implements [EntryRepository].
func (repository *SQLStore) Ping(context context.Context) error {
	return sqldb.Ping(context, repository.db)
}
