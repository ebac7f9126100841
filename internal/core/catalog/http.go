// Copyright (c) 2026 FilmArchive. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/filmarchive/internal/platform/apperr"
	"github.com/taibuivan/filmarchive/internal/platform/middleware"
	requestutil "github.com/taibuivan/filmarchive/internal/platform/request"
	"github.com/taibuivan/filmarchive/internal/platform/respond"
	"github.com/taibuivan/filmarchive/internal/platform/sec"
	"github.com/taibuivan/filmarchive/internal/platform/upload"
)

// # Handler Implementation

// Handler implements the HTTP layer for the catalog.
// Mutations accept multipart or urlencoded forms, mirroring an HTML form post.
type Handler struct {
	service        *Service
	maxUploadBytes int64
	requireEditor  bool
}

// NewHandler constructs a catalog [Handler].
//
// requireEditor puts every mutating route behind [sec.RoleEditor].
func NewHandler(service *Service, maxUploadBytes int64, requireEditor bool) *Handler {
	return &Handler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		requireEditor:  requireEditor,
	}
}

// Routes returns a [chi.Router] for /entries.
//
// # Routing Strategy
//
//   - Discovery (Public): list and detail.
//   - Management: create, update, delete; editor-only when auth is enabled.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Public Discovery Endpoints
	router.Get("/", handler.listEntries)
	router.Get("/{id}", handler.getEntry)

	// ## Catalog Management
	router.Group(func(editor chi.Router) {
		if handler.requireEditor {
			editor.Use(middleware.RequireRole(sec.RoleEditor))
		}

		editor.Post("/", handler.createEntry)
		editor.Put("/{id}", handler.updateEntry)
		editor.Post("/{id}", handler.updateEntry)
		editor.Delete("/{id}", handler.deleteEntry)
	})

	return router
}

// GenresHandler serves the known genre list.
func (handler *Handler) GenresHandler(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, handler.service.Genres())
}

// # Entry Endpoints

/*
GET /api/v1/entries.

Request:
  - searchTerm: string (Matches title or director, case-insensitive)
  - genre: string ("All" or empty for any)
  - category: string (Movie, Series, "All" or empty)
  - sortBy: string (rating, alphabetical; default newest first)

Response:
  - 200: []Entry
*/
func (handler *Handler) listEntries(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()

	entries, err := handler.service.ListEntries(request.Context(), ListParams{
		SearchTerm: query.Get("searchTerm"),
		Genre:      query.Get("genre"),
		Category:   query.Get("category"),
		SortBy:     query.Get("sortBy"),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entries)
}

/*
GET /api/v1/entries/{id}.

Response:
  - 200: Entry
  - 404: Unknown or malformed id
*/
func (handler *Handler) getEntry(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id", resourceEntry)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.service.GetEntry(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entry)
}

/*
POST /api/v1/entries.

Request (multipart/form-data or application/x-www-form-urlencoded):
  - title, director: string (required)
  - genre: string (default Action)
  - category: string (Movie or Series)
  - releaseYear: int
  - rating: decimal (default 3.0; clamped to 1.0-5.0)
  - imageFile: file (optional; .jpg, .jpeg or .png)

Response:
  - 201: Entry
  - 400: Validation failure
*/
func (handler *Handler) createEntry(writer http.ResponseWriter, request *http.Request) {
	if err := requestutil.ParseForm(writer, request, handler.maxUploadBytes); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := entryFromForm(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	image, closeImage, err := imageFromForm(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer closeImage()

	if err := handler.service.CreateEntry(request.Context(), entry, image); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entry)
}

/*
PUT /api/v1/entries/{id} (also POST, for HTML forms).

Request: as create, plus
  - id: int (optional; must equal the path id)
  - version: int (optional; defaults to the stored version)

Response:
  - 200: Entry
  - 404: Unknown id, or body id differs from the path
  - 409: Changed by another request
*/
func (handler *Handler) updateEntry(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id", resourceEntry)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := requestutil.ParseForm(writer, request, handler.maxUploadBytes); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if raw := requestutil.FormString(request, FieldID); raw != "" {
		if formID, err := strconv.ParseInt(raw, 10, 64); err != nil || formID != id {
			respond.Error(writer, request, apperr.NotFound(resourceEntry))
			return
		}
	}

	entry, err := entryFromForm(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	entry.ID = id

	version, _, err := requestutil.FormInt(request, FieldVersion)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	entry.Version = int(version)

	image, closeImage, err := imageFromForm(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer closeImage()

	if err := handler.service.UpdateEntry(request.Context(), entry, image); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entry)
}

/*
DELETE /api/v1/entries/{id}.

Response:
  - 204: Deleted
  - 404: Unknown id
*/
func (handler *Handler) deleteEntry(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id", resourceEntry)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteEntry(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Form Binding

// entryFromForm binds the submitted fields. Only malformed numbers fail here;
// field rules are the service's concern.
func entryFromForm(request *http.Request) (*Entry, error) {
	entry := &Entry{
		Title:    requestutil.FormString(request, FieldTitle),
		Director: requestutil.FormString(request, FieldDirector),
		Genre:    requestutil.FormString(request, FieldGenre),
		Category: Category(requestutil.FormString(request, FieldCategory)),
		Rating:   DefaultRating,
	}

	year, _, err := requestutil.FormInt(request, FieldReleaseYear)
	if err != nil {
		return nil, err
	}
	entry.ReleaseYear = int(year)

	rating, present, err := requestutil.FormFloat(request, FieldRating)
	if err != nil {
		return nil, err
	}
	if present {
		entry.Rating = rating
	}

	return entry, nil
}

// imageFromForm returns the optional cover image and a func releasing it.
func imageFromForm(request *http.Request) (*Image, func(), error) {
	file, header, err := requestutil.FormFile(request, upload.FieldImage)
	if err != nil {
		return nil, func() {}, err
	}
	if file == nil {
		return nil, func() {}, nil
	}

	return &Image{Content: file, FileName: header.Filename}, func() { _ = file.Close() }, nil
}
