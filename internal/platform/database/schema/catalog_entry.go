// Copyright (c) 2026 FilmArchive. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns the stores query, so SQL text
// and migrations stay in sync through one definition.
package schema

import "strings"

// CatalogEntryTable represents the 'catalog_entry' table.
type CatalogEntryTable struct {
	Table       string
	ID          string
	Title       string
	Director    string
	Genre       string
	Category    string
	ReleaseYear string
	Rating      string
	ImagePath   string
	Version     string
}

// CatalogEntry is the schema definition for catalog_entry.
var CatalogEntry = CatalogEntryTable{
	Table:       "catalog_entry",
	ID:          "id",
	Title:       "title",
	Director:    "director",
	Genre:       "genre",
	Category:    "category",
	ReleaseYear: "release_year",
	Rating:      "rating",
	ImagePath:   "image_path",
	Version:     "version",
}

// Columns lists every column in scan order.
func (t CatalogEntryTable) Columns() []string {
	return []string{t.ID, t.Title, t.Director, t.Genre, t.Category, t.ReleaseYear, t.Rating, t.ImagePath, t.Version}
}

// MutableColumns lists the columns an INSERT or UPDATE writes.
func (t CatalogEntryTable) MutableColumns() []string {
	return []string{t.Title, t.Director, t.Genre, t.Category, t.ReleaseYear, t.Rating, t.ImagePath}
}

// SelectList is Columns joined for a SELECT clause.
func (t CatalogEntryTable) SelectList() string {
	return strings.Join(t.Columns(), ", ")
}
