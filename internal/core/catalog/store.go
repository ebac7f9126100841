// Copyright (c) 2026 FilmArchive. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/taibuivan/filmarchive/internal/platform/apperr"
	"github.com/taibuivan/filmarchive/internal/platform/database/schema"
)

// errEntryChanged is returned when an update lost an optimistic-concurrency race.
var errEntryChanged = apperr.Conflict("The entry was changed by another request. Reload and try again.")

// # Entry Data Access

// EntryRepository defines the data access contract for catalog entries.
//
// Implemented by [PostgresStore] and [SQLStore] (SQLite, MySQL).
type EntryRepository interface {

	/*
		List returns the entries matching filter, ordered by filter.Sort.

		Parameters:
		  - context: context.Context
		  - filter: Filter (Category, free-text search, genre, sort key)

		Returns:
		  - []*Entry: Matching entries; empty, never nil
		  - error: Database retrieval failures
	*/
	List(context context.Context, filter Filter) ([]*Entry, error)

	/*
		FindByID returns the entry with the given ID.

		Returns:
		  - *Entry: The stored entry
		  - error: apperr NOT_FOUND if missing
	*/
	FindByID(context context.Context, id int64) (*Entry, error)

	/*
		Create persists a new entry and assigns its ID and version 1.

		Parameters:
		  - context: context.Context
		  - entry: *Entry (ID and Version are overwritten)

		Returns:
		  - error: Validation (constraint) or storage failures
	*/
	Create(context context.Context, entry *Entry) error

	/*
		Update overwrites every mutable field when entry.Version still matches
		the stored row, then bumps entry.Version.

		Returns:
		  - error: NOT_FOUND if the row is gone, CONFLICT if its version moved
	*/
	Update(context context.Context, entry *Entry) error

	/*
		Delete removes the entry and returns what was removed.

		Returns:
		  - *Entry: The deleted row, so the caller can clean up its image
		  - error: NOT_FOUND if missing
	*/
	Delete(context context.Context, id int64) (*Entry, error)

	// Ping reports whether the store is reachable.
	Ping(context context.Context) error
}

// # Query Building

// likeEscaper escapes LIKE wildcards with '!' as the escape character.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern returns a LIKE pattern matching term anywhere.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

/*
listQuery builds the SELECT for [EntryRepository.List].

Predicates are appended in a fixed order: category, search, genre.

Parameters:
  - filter: Filter
  - placeholder: func(int) string (Dialect bind marker for the n-th argument, 1-based)

Returns:
  - string: SQL text
  - []any: Bind arguments
*/
func listQuery(filter Filter, placeholder func(int) string) (string, []any) {
	table := schema.CatalogEntry

	var (
		conditions []string
		args       []any
	)

	bind := func(value any) string {
		args = append(args, value)
		return placeholder(len(args))
	}

	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("%s = %s", table.Category, bind(string(filter.Category))))
	}

	if filter.Search != "" {
		pattern := containsPattern(filter.Search)
		conditions = append(conditions, fmt.Sprintf(
			"(LOWER(%s) LIKE LOWER(%s) ESCAPE '!' OR LOWER(%s) LIKE LOWER(%s) ESCAPE '!')",
			table.Title, bind(pattern), table.Director, bind(pattern),
		))
	}

	if filter.Genre != "" {
		conditions = append(conditions, fmt.Sprintf("%s = %s", table.Genre, bind(filter.Genre)))
	}

	var query strings.Builder
	fmt.Fprintf(&query, "SELECT %s FROM %s", table.SelectList(), table.Table)
	if len(conditions) > 0 {
		query.WriteString(" WHERE ")
		query.WriteString(strings.Join(conditions, " AND "))
	}
	query.WriteString(" ORDER BY ")
	query.WriteString(orderBy(filter.Sort))

	return query.String(), args
}

// orderBy maps a sort key to an ORDER BY clause. Unknown keys fall back to
// newest first.
func orderBy(sort string) string {
	table := schema.CatalogEntry

	switch sort {
	case SortRating:
		return fmt.Sprintf("%s DESC, %s DESC", table.Rating, table.ID)
	case SortAlphabetical:
		return fmt.Sprintf("LOWER(%s) ASC, %s ASC, %s ASC", table.Title, table.Title, table.ID)
	default:
		return fmt.Sprintf("%s DESC", table.ID)
	}
}

// rowScanner is satisfied by pgx.Row, pgx.Rows, *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanEntry reads one row in [schema.CatalogEntryTable.Columns] order.
func scanEntry(row rowScanner) (*Entry, error) {
	entry := &Entry{}
	var category string

	err := row.Scan(
		&entry.ID, &entry.Title, &entry.Director, &entry.Genre, &category,
		&entry.ReleaseYear, &entry.Rating, &entry.ImagePath, &entry.Version,
	)
	if err != nil {
		return nil, err
	}

	entry.Category = Category(category)
	return entry, nil
}
