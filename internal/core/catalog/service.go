// Copyright (c) 2026 FilmArchive. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/taibuivan/filmarchive/internal/platform/apperr"
	"github.com/taibuivan/filmarchive/internal/platform/ctxutil"
	"github.com/taibuivan/filmarchive/internal/platform/flash"
	"github.com/taibuivan/filmarchive/pkg/pointer"
)

// # Collaborators

// ImageStore persists cover images. Implemented by [upload.Store].
type ImageStore interface {
	Save(context context.Context, content io.Reader, originalName string) (string, error)
	Remove(publicPath string) error
}

// Flasher receives one-shot status banners. Implemented by [flash.Store].
type Flasher interface {
	Push(context context.Context, session string, message flash.Message) error
}

// Image is an uploaded cover image. Content is read once.
type Image struct {
	Content  io.Reader
	FileName string
}

// ListParams is the raw listing query as submitted by a client.
type ListParams struct {
	SearchTerm string
	Genre      string
	Category   string
	SortBy     string
}

// Banner texts shown after a mutation.
const (
	bannerCreated        = "Film successfully archived."
	bannerUpdated        = "Update Successful"
	bannerDeleted        = "Entry removed"
	bannerCreateFailed   = "Create Failed: "
	bannerUpdateFailed   = "Update Failed: "
	bannerDeleteFailed   = "Delete Failed: "
	bannerDefaultFailure = "Check required fields."
)

// # Service Layer

// Service orchestrates catalog listing and mutations, including cover image
// storage and status banners.
type Service struct {
	repository EntryRepository
	images     ImageStore
	flashes    Flasher
	logger     *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repository EntryRepository, images ImageStore, flashes Flasher, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		images:     images,
		flashes:    flashes,
		logger:     logger,
	}
}

// # Discovery

/*
ListEntries returns the entries matching params.

Description: Values are trimmed; empty or "All" (any case) means no filter
for that field. Category and genre are canonicalized so "movie" and "sci-fi"
match the stored spellings. Unknown sort keys fall back to newest first.

Parameters:
  - context: context.Context
  - params: ListParams

Returns:
  - []*Entry: Matching entries
  - error: Store failures
*/
func (service *Service) ListEntries(context context.Context, params ListParams) ([]*Entry, error) {
	filter := Filter{
		Search: strings.TrimSpace(params.SearchTerm),
		Sort:   strings.ToLower(strings.TrimSpace(params.SortBy)),
	}

	if category := filterValue(params.Category); category != "" {
		filter.Category = canonicalCategory(category)
	}

	if genre := filterValue(params.Genre); genre != "" {
		filter.Genre = NormalizeGenre(genre)
	}

	return service.repository.List(context, filter)
}

// GetEntry returns one entry by ID.
func (service *Service) GetEntry(context context.Context, id int64) (*Entry, error) {
	return service.repository.FindByID(context, id)
}

// Genres returns the known genre list.
func (service *Service) Genres() []string {
	return slices.Clone(KnownGenres)
}

// # Management

/*
CreateEntry validates and stores a new entry.

Description: Fields are validated before anything touches disk. When an
image is supplied it is stored first; a rejected image aborts creation. The
rating is clamped, then the entry is inserted. If the insert fails the
freshly stored image is removed.

Parameters:
  - context: context.Context
  - entry: *Entry (ID and Version are assigned on success)
  - image: *Image (Optional)

Returns:
  - error: Validation, image or store failures
*/
func (service *Service) CreateEntry(context context.Context, entry *Entry, image *Image) (err error) {
	defer func() { service.banner(context, bannerCreated, bannerCreateFailed, err) }()

	entry.Normalize()
	if err := entry.Validate(); err != nil {
		return err
	}

	entry.ImagePath = nil
	if image != nil {
		path, err := service.images.Save(context, image.Content, image.FileName)
		if err != nil {
			return err
		}
		entry.ImagePath = pointer.To(path)
	}

	if err := service.repository.Create(context, entry); err != nil {
		service.discardImage(context, entry.ImagePath)
		return err
	}

	service.logger.InfoContext(context, "entry_created",
		slog.Int64("entry_id", entry.ID),
		slog.String("title", entry.Title),
	)
	return nil
}

/*
UpdateEntry overwrites an existing entry.

Description: Without a new image the current image path is carried forward,
so omitting the file never clears it. With a new image, the replaced file is
removed after the update commits. A zero Version means "whatever is stored
now". Conflicts are re-checked: a row deleted meanwhile reports NOT_FOUND,
otherwise CONFLICT.

Parameters:
  - context: context.Context
  - entry: *Entry (ID identifies the row; Version is bumped on success)
  - image: *Image (Optional)

Returns:
  - error: Validation, NOT_FOUND, CONFLICT, image or store failures
*/
func (service *Service) UpdateEntry(context context.Context, entry *Entry, image *Image) (err error) {
	defer func() { service.banner(context, bannerUpdated, bannerUpdateFailed, err) }()

	entry.Normalize()
	if err := entry.Validate(); err != nil {
		return err
	}

	current, err := service.repository.FindByID(context, entry.ID)
	if err != nil {
		return err
	}

	if entry.Version == 0 {
		entry.Version = current.Version
	}

	entry.ImagePath = current.ImagePath
	if image != nil {
		path, err := service.images.Save(context, image.Content, image.FileName)
		if err != nil {
			return err
		}
		entry.ImagePath = pointer.To(path)
	}

	if err := service.repository.Update(context, entry); err != nil {
		if !pointer.Equal(entry.ImagePath, current.ImagePath) {
			service.discardImage(context, entry.ImagePath)
		}
		return service.resolveConflict(context, entry.ID, err)
	}

	if !pointer.Equal(entry.ImagePath, current.ImagePath) {
		service.discardImage(context, current.ImagePath)
	}

	service.logger.InfoContext(context, "entry_updated",
		slog.Int64("entry_id", entry.ID),
		slog.Int("version", entry.Version),
	)
	return nil
}

// resolveConflict re-checks existence after a failed update, so a row
// deleted mid-edit reports NOT_FOUND rather than CONFLICT.
func (service *Service) resolveConflict(context context.Context, id int64, err error) error {
	if !apperr.IsConflict(err) {
		return err
	}

	if _, findErr := service.repository.FindByID(context, id); apperr.IsNotFound(findErr) {
		return findErr
	}
	return err
}

/*
DeleteEntry removes an entry and, best effort, its image file.

Returns:
  - error: NOT_FOUND for an unknown ID, or store failures
*/
func (service *Service) DeleteEntry(context context.Context, id int64) (err error) {
	defer func() { service.banner(context, bannerDeleted, bannerDeleteFailed, err) }()

	deleted, err := service.repository.Delete(context, id)
	if err != nil {
		return err
	}

	service.discardImage(context, deleted.ImagePath)

	service.logger.InfoContext(context, "entry_deleted", slog.Int64("entry_id", id))
	return nil
}

// # Helpers

// discardImage removes a stored image; failures are logged, never returned.
func (service *Service) discardImage(context context.Context, path *string) {
	publicPath := pointer.Val(path)
	if publicPath == "" {
		return
	}

	if err := service.images.Remove(publicPath); err != nil {
		service.logger.WarnContext(context, "image_cleanup_failed",
			slog.String("path", publicPath),
			slog.String("error", err.Error()),
		)
	}
}

// banner pushes the outcome of a mutation to the caller's session, if any.
func (service *Service) banner(context context.Context, success, failurePrefix string, err error) {
	session := ctxutil.GetSessionID(context)
	if session == "" || service.flashes == nil {
		return
	}

	message := flash.Message{Level: flash.LevelSuccess, Text: success}
	if err != nil {
		message = flash.Message{Level: flash.LevelError, Text: failurePrefix + failureText(err)}
	}

	if pushErr := service.flashes.Push(context, session, message); pushErr != nil {
		service.logger.WarnContext(context, "flash_push_failed", slog.String("error", pushErr.Error()))
	}
}

// failureText picks the most specific client-safe text for a banner.
func failureText(err error) string {
	appError := apperr.As(err)
	if appError == nil || appError.Code == apperr.CodeInternal {
		return bannerDefaultFailure
	}
	if len(appError.Details) > 0 && appError.Details[0].Message != appError.Message {
		detail := appError.Details[0]
		return detail.Field + ": " + detail.Message
	}
	return appError.Message
}

func filterValue(value string) string {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, "All") {
		return ""
	}
	return value
}

func canonicalCategory(value string) Category {
	for _, category := range []Category{CategoryMovie, CategorySeries} {
		if strings.EqualFold(string(category), value) {
			return category
		}
	}
	return Category(value)
}
