// Copyright (c) 2026 FilmArchive. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/filmarchive/internal/platform/apperr"
	"github.com/taibuivan/filmarchive/internal/platform/respond"
)

func TestError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{
			name:   "validation_with_details",
			err:    apperr.ValidationError("Validation failed", apperr.FieldError{Field: "title", Message: "This field is required"}),
			status: http.StatusBadRequest,
			body:   `{"error":"Validation failed","code":"VALIDATION_ERROR","details":[{"field":"title","message":"This field is required"}]}`,
		},
		{
			name:   "wrapped_not_found",
			err:    fmt.Errorf("get entry: %w", apperr.NotFound("Entry")),
			status: http.StatusNotFound,
			body:   `{"error":"Entry not found","code":"NOT_FOUND"}`,
		},
		{
			name:   "conflict",
			err:    apperr.Conflict("changed"),
			status: http.StatusConflict,
			body:   `{"error":"changed","code":"CONFLICT"}`,
		},
		{
			name:   "body_too_large",
			err:    &http.MaxBytesError{Limit: 10},
			status: http.StatusBadRequest,
			body:   `{"error":"Upload exceeds the size limit","code":"VALIDATION_ERROR"}`,
		},
		{
			name:   "unclassified_is_hidden",
			err:    errors.New("pq: connection reset"),
			status: http.StatusInternalServerError,
			body:   `{"error":"An unexpected error occurred","code":"INTERNAL_ERROR"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			respond.Error(recorder, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.status, recorder.Code)
			assert.JSONEq(t, tt.body, recorder.Body.String())
		})
	}
}

func TestSuccessHelpers(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Created(recorder, map[string]int{"id": 1})
	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.JSONEq(t, `{"data":{"id":1}}`, recorder.Body.String())

	recorder = httptest.NewRecorder()
	respond.NoContent(recorder)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Empty(t, recorder.Body.String())
}
