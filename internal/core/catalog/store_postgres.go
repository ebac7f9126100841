// Copyright (c) 2026 FilmArchive. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/filmarchive/internal/platform/apperr"
	"github.com/taibuivan/filmarchive/internal/platform/database/schema"
	"github.com/taibuivan/filmarchive/internal/platform/dberr"
	"github.com/taibuivan/filmarchive/internal/platform/postgres"
)

// resourceEntry names the entity in NOT_FOUND messages.
const resourceEntry = "Entry"

// PostgresStore implements [EntryRepository] on a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs a [PostgresStore].
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func postgresPlaceholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

// List implements [EntryRepository].
func (repository *PostgresStore) List(context context.Context, filter Filter) ([]*Entry, error) {
	query, args := listQuery(filter, postgresPlaceholder)

	rows, err := repository.pool.Query(context, query, args...)
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
func (repository *PostgresStore) FindByID(context context.Context, id int64) (*Entry, error) {
	table := schema.CatalogEntry
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, table.SelectList(), table.Table, table.ID)

	entry, err := scanEntry(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceEntry, "find entry")
	}
	return entry, nil
}

// Create implements [EntryRepository].
func (repository *PostgresStore) Create(context context.Context, entry *Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	table := schema.CatalogEntry
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 1)
		RETURNING %s, %s`,
		table.Table, strings.Join(table.MutableColumns(), ", "), table.Version,
		table.ID, table.Version,
	)

	err := repository.pool.QueryRow(context, query,
		entry.Title, entry.Director, entry.Genre, string(entry.Category),
		entry.ReleaseYear, entry.Rating, entry.ImagePath,
	).Scan(&entry.ID, &entry.Version)
	if err != nil {
		return dberr.Wrap(err, resourceEntry, "create entry")
	}

	return nil
}

// Update implements [EntryRepository].
func (repository *PostgresStore) Update(context context.Context, entry *Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	table := schema.CatalogEntry
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = %s + 1
		WHERE %s = $8 AND %s = $9
		RETURNING %s`,
		table.Table,
		table.Title, table.Director, table.Genre, table.Category, table.ReleaseYear, table.Rating, table.ImagePath,
		table.Version, table.Version,
		table.ID, table.Version,
		table.Version,
	)

	var newVersion int
	err := repository.pool.QueryRow(context, query,
		entry.Title, entry.Director, entry.Genre, string(entry.Category),
		entry.ReleaseYear, entry.Rating, entry.ImagePath,
		entry.ID, entry.Version,
	).Scan(&newVersion)

	if errors.Is(err, pgx.ErrNoRows) {
		return repository.missOrConflict(context, entry.ID)
	}
	if err != nil {
		return dberr.Wrap(err, resourceEntry, "update entry")
	}

	entry.Version = newVersion
	return nil
}

// missOrConflict classifies an UPDATE that matched no row.
func (repository *PostgresStore) missOrConflict(context context.Context, id int64) error {
	table := schema.CatalogEntry
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`, table.Table, table.ID)

	var exists bool
	if err := repository.pool.QueryRow(context, query, id).Scan(&exists); err != nil {
		return dberr.Wrap(err, resourceEntry, "probe entry")
	}
	if !exists {
		return apperr.NotFound(resourceEntry)
	}
	return errEntryChanged
}

// Delete implements [EntryRepository].
func (repository *PostgresStore) Delete(context context.Context, id int64) (*Entry, error) {
	table := schema.CatalogEntry
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 RETURNING %s`, table.Table, table.ID, table.SelectList())

	entry, err := scanEntry(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceEntry, "delete entry")
	}
	return entry, nil
}

// Ping implements [EntryRepository].
func (repository *PostgresStore) Ping(context context.Context) error {
	return postgres.Ping(context, repository.pool)
}
