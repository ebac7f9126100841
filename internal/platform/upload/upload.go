// Copyright (c) 2026 FilmArchive. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package upload stores cover images under the public static-asset root.

Files are streamed to a temp file in the upload directory and renamed into
place once fully written, so a reader of /uploads never observes a partial
image. Stored names are generated; the client's file name only contributes
its extension.
*/
package upload

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/taibuivan/filmarchive/internal/platform/apperr"
	"github.com/taibuivan/filmarchive/internal/platform/validate"
	"github.com/taibuivan/filmarchive/pkg/uuid"
)

// FieldImage is the form field that carries the uploaded image.
const FieldImage = "imageFile"

// allowedExtensions is the image whitelist, compared lower-cased.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// ErrInvalidExtension is returned for files outside the whitelist.
var ErrInvalidExtension = validate.FieldErr(FieldImage, "Only JPG and PNG allowed.")

// Store writes images into one directory and hands back their public path.
type Store struct {
	dir       string
	urlPrefix string
	logger    *slog.Logger
}

/*
NewStore prepares the upload directory.

Parameters:
  - dir: string (Directory on disk, created if missing)
  - urlPrefix: string (Public path the directory is served under, e.g. "/uploads")
  - logger: *slog.Logger

Returns:
  - *Store: Ready-to-use store
  - error: When the directory cannot be created
*/
func NewStore(dir, urlPrefix string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("upload: create dir %s: %w", dir, err)
	}

	return &Store{
		dir:       filepath.Clean(dir),
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
		logger:    logger,
	}, nil
}

// AllowedExtension reports whether name carries a whitelisted image extension.
func AllowedExtension(name string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(name))]
}

/*
Save streams content into a new uniquely named file.

Parameters:
  - context: context.Context (Cancellation aborts the copy)
  - content: io.Reader (Image bytes)
  - originalName: string (Client file name, used only for its extension)

Returns:
  - string: Public path such as "/uploads/<uuid>.png"
  - error: [ErrInvalidExtension] or an internal error; nothing is left on disk
*/
func (store *Store) Save(context context.Context, content io.Reader, originalName string) (string, error) {
	if !AllowedExtension(originalName) {
		return "", ErrInvalidExtension
	}
	extension := strings.ToLower(filepath.Ext(originalName))

	fileName := uuid.New() + extension
	destination, err := store.resolve(fileName)
	if err != nil {
		return "", err
	}

	// Generated names should never collide; refuse rather than overwrite.
	if _, err := os.Lstat(destination); err == nil {
		return "", apperr.Internal(fmt.Errorf("upload: %s already exists", fileName))
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", apperr.Internal(fmt.Errorf("upload: stat %s: %w", fileName, err))
	}

	if err := store.writeAtomic(context, destination, content); err != nil {
		return "", apperr.Internal(err)
	}

	store.logger.InfoContext(context, "image_stored",
		slog.String("file", fileName),
		slog.String("original_name", originalName),
	)

	return path.Join(store.urlPrefix, fileName), nil
}

func (store *Store) writeAtomic(context context.Context, destination string, content io.Reader) (err error) {
	tempFile, err := os.CreateTemp(store.dir, ".upload-*.tmp")
	if err != nil {
		return fmt.Errorf("upload: create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	defer func() {
		if err != nil {
			_ = tempFile.Close()
			_ = os.Remove(tempPath)
		}
	}()

	writer := bufio.NewWriter(tempFile)
	if _, err = io.Copy(writer, &contextReader{context: context, reader: content}); err != nil {
		return fmt.Errorf("upload: stream to disk: %w", err)
	}
	if err = writer.Flush(); err != nil {
		return fmt.Errorf("upload: flush: %w", err)
	}
	if err = tempFile.Close(); err != nil {
		return fmt.Errorf("upload: close temp file: %w", err)
	}
	if err = os.Rename(tempPath, destination); err != nil {
		return fmt.Errorf("upload: rename: %w", err)
	}

	return nil
}

/*
Remove deletes a file previously returned by [Store.Save].

A missing file is not an error. Paths outside the upload directory are
refused.
*/
func (store *Store) Remove(publicPath string) error {
	if publicPath == "" {
		return nil
	}

	name := strings.TrimPrefix(publicPath, store.urlPrefix+"/")
	if name == publicPath || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("upload: %q is not a stored image", publicPath)
	}

	target, err := store.resolve(name)
	if err != nil {
		return err
	}

	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("upload: remove %s: %w", name, err)
	}
	return nil
}

// resolve joins name onto the upload dir, refusing anything that escapes it.
func (store *Store) resolve(name string) (string, error) {
	target := filepath.Clean(filepath.Join(store.dir, name))
	if !strings.HasPrefix(target, store.dir+string(os.PathSeparator)) {
		return "", fmt.Errorf("upload: path %q escapes upload dir", name)
	}
	return target, nil
}

// contextReader stops a copy once the request is cancelled.
type contextReader struct {
	context context.Context
	reader  io.Reader
}

func (r *contextReader) Read(p []byte) (int, error) {
	if err := r.context.Err(); err != nil {
		return 0, err
	}
	return r.reader.Read(p)
}
