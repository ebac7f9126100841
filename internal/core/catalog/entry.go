// Copyright (c) 2026 FilmArchive. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package catalog defines the movie and series catalog: its entry model, the
store contract, the service that orchestrates mutations, and the HTTP handler.

Core Responsibility:

  - Model: An [Entry] is one tracked work, either a Movie or a Series.
  - Discovery: Filtering by category, genre and free text, with three sort orders.
  - Management: Create, update and delete, each optionally carrying a cover image.

This package is the source of truth for catalog data rules (required fields,
allowed categories, rating bounds).
*/
package catalog

import (
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/taibuivan/filmarchive/internal/platform/validate"
)

// # Domain Enums

// Category separates feature films from episodic works.
type Category string

const (
	CategoryMovie  Category = "Movie"
	CategorySeries Category = "Series"
)

// IsValid reports whether c is a recognised [Category].
func (c Category) IsValid() bool {
	return c == CategoryMovie || c == CategorySeries
}

// DefaultGenre is assigned when a submission leaves genre blank.
const DefaultGenre = "Action"

// KnownGenres is the genre list offered to clients, in display order.
var KnownGenres = []string{"Action", "Sci-Fi", "Crime", "Drama", "Comedy", "Horror", "Thriller", "Adventure"}

// Rating bounds. Ratings outside are clamped, not rejected.
const (
	MinRating     = 1.0
	MaxRating     = 5.0
	DefaultRating = 3.0
)

// Sort keys accepted by [Filter.Sort].
const (
	SortRating       = "rating"
	SortAlphabetical = "alphabetical"
)

// # Entities

// Entry is one catalog record.
type Entry struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Director    string   `json:"director"`
	Genre       string   `json:"genre"`
	Category    Category `json:"category"`
	ReleaseYear int      `json:"releaseYear"`
	Rating      float64  `json:"rating"`
	ImagePath   *string  `json:"imagePath"`
	Version     int      `json:"version"`
}

// Filter narrows a store listing. Empty fields do not filter.
type Filter struct {
	Category Category
	Search   string
	Genre    string
	Sort     string
}

// # Field Identifiers

// Field identifiers used in validation details; they match the form names.
const (
	FieldID          = "id"
	FieldTitle       = "title"
	FieldDirector    = "director"
	FieldGenre       = "genre"
	FieldCategory    = "category"
	FieldReleaseYear = "releaseYear"
	FieldRating      = "rating"
	FieldVersion     = "version"
)

// # Normalization

// NormalizeGenre canonicalizes free-form genre input.
//
// A case-insensitive match on [KnownGenres] takes the known spelling; other
// values are title-cased; blank becomes [DefaultGenre].
func NormalizeGenre(genre string) string {
	genre = strings.Join(strings.Fields(genre), " ")
	if genre == "" {
		return DefaultGenre
	}

	for _, known := range KnownGenres {
		if strings.EqualFold(known, genre) {
			return known
		}
	}

	// Casers are stateful; one per call keeps this safe across goroutines.
	return cases.Title(language.English).String(genre)
}

// ClampRating bounds rating to [MinRating, MaxRating] and rounds it to one
// decimal place. NaN becomes [DefaultRating].
func ClampRating(rating float64) float64 {
	if math.IsNaN(rating) {
		return DefaultRating
	}
	rating = math.Max(MinRating, math.Min(MaxRating, rating))
	return math.Round(rating*10) / 10
}

// Normalize trims text fields, canonicalizes genre and clamps rating.
func (entry *Entry) Normalize() {
	entry.Title = strings.TrimSpace(entry.Title)
	entry.Director = strings.TrimSpace(entry.Director)
	entry.Category = Category(strings.TrimSpace(string(entry.Category)))
	entry.Genre = NormalizeGenre(entry.Genre)
	entry.Rating = ClampRating(entry.Rating)
}

// Validate checks the required fields and the category whitelist.
func (entry *Entry) Validate() error {
	validator := &validate.Validator{}

	validator.
		Required(FieldTitle, entry.Title).MaxLen(FieldTitle, entry.Title, 200).
		Required(FieldDirector, entry.Director).MaxLen(FieldDirector, entry.Director, 200).
		MaxLen(FieldGenre, entry.Genre, 50).
		Required(FieldCategory, string(entry.Category))

	if entry.Category != "" {
		validator.OneOf(FieldCategory, string(entry.Category), string(CategoryMovie), string(CategorySeries))
	}

	return validator.Err()
}
