// Copyright (c) 2026 FilmArchive. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It abstracts away the router's parameter extraction and form decoding so
handlers share one error shape for malformed input.
*/
package requestutil

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/filmarchive/internal/platform/apperr"
	"github.com/taibuivan/filmarchive/internal/platform/validate"
)

// multipartMemory is how much of a multipart body is buffered in memory
// before spilling file parts to disk.
const multipartMemory = 4 << 20

/*
ParseForm parses a multipart or urlencoded body, capped at maxBytes.

Parameters:
  - writer: http.ResponseWriter (needed by http.MaxBytesReader)
  - request: *http.Request
  - maxBytes: int64 (Upper bound for the whole body)

Returns:
  - error: validate.ErrInvalidForm, or a size-limit validation error
*/
func ParseForm(writer http.ResponseWriter, request *http.Request, maxBytes int64) error {
	request.Body = http.MaxBytesReader(writer, request.Body, maxBytes)

	err := request.ParseMultipartForm(multipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = request.ParseForm()
	}
	if err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			return apperr.ValidationError("Upload exceeds the size limit")
		}
		return validate.ErrInvalidForm
	}
	return nil
}

/*
FormFile returns the named uploaded file, or nil when none was sent.

An empty file part (browsers send one for an untouched file input) counts
as no upload.
*/
func FormFile(request *http.Request, name string) (multipart.File, *multipart.FileHeader, error) {
	if request.MultipartForm == nil {
		return nil, nil, nil
	}

	file, header, err := request.FormFile(name)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, validate.ErrInvalidForm
	}

	if header.Size == 0 && header.Filename == "" {
		_ = file.Close()
		return nil, nil, nil
	}

	return file, header, nil
}

/*
ID retrieves a named URL parameter as a positive int64.

Returns apperr.NotFound(resource) when the value is not a valid identifier,
so unroutable ids behave like missing records.
*/
func ID(request *http.Request, name, resource string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(request, name), 10, 64)
	if err != nil || id < 1 {
		return 0, apperr.NotFound(resource)
	}
	return id, nil
}

// FormString returns a trimmed form value.
func FormString(request *http.Request, name string) string {
	return strings.TrimSpace(request.FormValue(name))
}

// FormInt parses an optional integer form value. Empty yields (0, false, nil).
func FormInt(request *http.Request, name string) (int64, bool, error) {
	raw := FormString(request, name)
	if raw == "" {
		return 0, false, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, validate.FieldErr(name, "Must be a whole number")
	}
	return value, true, nil
}

// FormFloat parses an optional decimal form value. Empty yields (0, false, nil).
func FormFloat(request *http.Request, name string) (float64, bool, error) {
	raw := FormString(request, name)
	if raw == "" {
		return 0, false, nil
	}
	value, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil {
		return 0, false, validate.FieldErr(name, "Must be a number")
	}
	return value, true, nil
}
