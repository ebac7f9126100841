// Copyright (c) 2026 FilmArchive. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/filmarchive/internal/platform/apperr"
	"github.com/taibuivan/filmarchive/pkg/pointer"
)

// storeFactory returns an empty, migrated repository.
type storeFactory func(t *testing.T) EntryRepository

// runRepositorySuite checks the [EntryRepository] contract against one backend.
func runRepositorySuite(t *testing.T, newStore storeFactory) {
	t.Run("create_and_find", func(t *testing.T) { testCreateAndFind(t, newStore(t)) })
	t.Run("create_rejects_invalid", func(t *testing.T) { testCreateRejectsInvalid(t, newStore(t)) })
	t.Run("list", func(t *testing.T) { testList(t, newStore(t)) })
	t.Run("list_alphabetical_ignores_case", func(t *testing.T) { testListAlphabeticalIgnoresCase(t, newStore(t)) })
	t.Run("list_escapes_wildcards", func(t *testing.T) { testListEscapesWildcards(t, newStore(t)) })
	t.Run("update", func(t *testing.T) { testUpdate(t, newStore(t)) })
	t.Run("delete", func(t *testing.T) { testDelete(t, newStore(t)) })
	t.Run("ping", func(t *testing.T) { assert.NoError(t, newStore(t).Ping(context.Background())) })
}

func seed(t *testing.T, store EntryRepository, entries ...*Entry) {
	t.Helper()
	for _, entry := range entries {
		require.NoError(t, store.Create(context.Background(), entry))
	}
}

func sampleEntries() []*Entry {
	return []*Entry{
		{Title: "The Matrix", Director: "Wachowski", Genre: "Sci-Fi", Category: CategoryMovie, ReleaseYear: 1999, Rating: 4.8},
		{Title: "Heat", Director: "Michael Mann", Genre: "Crime", Category: CategoryMovie, ReleaseYear: 1995, Rating: 4.5},
		{Title: "Dark", Director: "Baran bo Odar", Genre: "Sci-Fi", Category: CategorySeries, ReleaseYear: 2017, Rating: 4.9},
		{Title: "Animatrix", Director: "Mahiro Maeda", Genre: "Sci-Fi", Category: CategoryMovie, ReleaseYear: 2003, Rating: 3.5},
		{Title: "Fargo", Director: "Noah Hawley", Genre: "Crime", Category: CategorySeries, ReleaseYear: 2014, Rating: 4.5},
		{Title: "Élite", Director: "Carlos Montero", Genre: "Drama", Category: CategorySeries, ReleaseYear: 2018, Rating: 4},
	}
}

func titles(entries []*Entry) []string {
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entry.Title)
	}
	return out
}

func testCreateAndFind(t *testing.T, store EntryRepository) {
	ctx := context.Background()

	entry := &Entry{Title: "Inception", Director: "Nolan", Genre: "Sci-Fi", Category: CategoryMovie, ReleaseYear: 2010, Rating: 5, ImagePath: pointer.To("/uploads/a.png")}
	require.NoError(t, store.Create(ctx, entry))
	assert.Positive(t, entry.ID)
	assert.Equal(t, 1, entry.Version)

	found, err := store.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry, found)

	_, err = store.FindByID(ctx, entry.ID+100)
	assert.True(t, apperr.IsNotFound(err))
}

func testCreateRejectsInvalid(t *testing.T, store EntryRepository) {
	err := store.Create(context.Background(), &Entry{Title: "", Director: "x", Category: CategoryMovie, Rating: 3})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	err = store.Create(context.Background(), &Entry{Title: "x", Director: "x", Category: "Documentary", Rating: 3})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	entries, err := store.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func testList(t *testing.T, store EntryRepository) {
	seed(t, store, sampleEntries()...)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"default_newest_first", Filter{}, []string{"Élite", "Fargo", "Animatrix", "Dark", "Heat", "The Matrix"}},
		{"search_title_case_insensitive", Filter{Search: "matrix"}, []string{"Animatrix", "The Matrix"}},
		{"search_non_ascii_lower", Filter{Search: "élite"}, []string{"Élite"}},
		{"search_non_ascii_upper", Filter{Search: "ÉLITE"}, []string{"Élite"}},
		{"search_director", Filter{Search: "MANN"}, []string{"Heat"}},
		{"category", Filter{Category: CategorySeries}, []string{"Élite", "Fargo", "Dark"}},
		{"genre", Filter{Genre: "Crime"}, []string{"Fargo", "Heat"}},
		{"all_predicates", Filter{Category: CategoryMovie, Search: "a", Genre: "Sci-Fi"}, []string{"Animatrix", "The Matrix"}},
		{"alphabetical", Filter{Category: CategoryMovie, Sort: SortAlphabetical}, []string{"Animatrix", "Heat", "The Matrix"}},
		{"rating_ties_newest_first", Filter{Sort: SortRating}, []string{"Dark", "The Matrix", "Fargo", "Heat", "Élite", "Animatrix"}},
		{"unknown_sort", Filter{Sort: "popular"}, []string{"Élite", "Fargo", "Animatrix", "Dark", "Heat", "The Matrix"}},
		{"no_match", Filter{Search: "zzz"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := store.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(entries))
		})
	}
}

func testListAlphabeticalIgnoresCase(t *testing.T, store EntryRepository) {
	seed(t, store,
		&Entry{Title: "Zodiac", Director: "David Fincher", Genre: "Thriller", Category: CategoryMovie, Rating: 4},
		&Entry{Title: "amelie", Director: "Jean-Pierre Jeunet", Genre: "Comedy", Category: CategoryMovie, Rating: 4},
		&Entry{Title: "Brazil", Director: "Terry Gilliam", Genre: "Sci-Fi", Category: CategoryMovie, Rating: 4},
	)

	entries, err := store.List(context.Background(), Filter{Sort: SortAlphabetical})
	require.NoError(t, err)
	assert.Equal(t, []string{"amelie", "Brazil", "Zodiac"}, titles(entries))
}

func testListEscapesWildcards(t *testing.T, store EntryRepository) {
	seed(t, store,
		&Entry{Title: "100% Wolf", Director: "Alexs Stadermann", Genre: "Comedy", Category: CategoryMovie, Rating: 3},
		&Entry{Title: "1000 Days", Director: "x_y", Genre: "Drama", Category: CategoryMovie, Rating: 3},
	)

	entries, err := store.List(context.Background(), Filter{Search: "100%"})
	require.NoError(t, err)
	assert.Equal(t, []string{"100% Wolf"}, titles(entries))

	entries, err = store.List(context.Background(), Filter{Search: "_"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1000 Days"}, titles(entries))
}

func testUpdate(t *testing.T, store EntryRepository) {
	ctx := context.Background()
	entry := &Entry{Title: "Heat", Director: "Mann", Genre: "Crime", Category: CategoryMovie, ReleaseYear: 1995, Rating: 4}
	seed(t, store, entry)

	entry.Rating = 4.5
	require.NoError(t, store.Update(ctx, entry))
	assert.Equal(t, 2, entry.Version)

	found, err := store.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.5, found.Rating)
	assert.Equal(t, 2, found.Version)

	// Stale version
	stale := *entry
	stale.Version = 1
	err = store.Update(ctx, &stale)
	assert.True(t, apperr.IsConflict(err))

	// Missing row
	missing := *entry
	missing.ID = entry.ID + 100
	err = store.Update(ctx, &missing)
	assert.True(t, apperr.IsNotFound(err))
}

func testDelete(t *testing.T, store EntryRepository) {
	ctx := context.Background()
	entry := &Entry{Title: "Heat", Director: "Mann", Genre: "Crime", Category: CategoryMovie, Rating: 4, ImagePath: pointer.To("/uploads/heat.jpg")}
	seed(t, store, entry)

	deleted, err := store.Delete(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/heat.jpg", pointer.Val(deleted.ImagePath))

	_, err = store.Delete(ctx, entry.ID)
	assert.True(t, apperr.IsNotFound(err))

	_, err = store.FindByID(ctx, entry.ID)
	assert.True(t, apperr.IsNotFound(err))
}
