// Copyright (c) 2026 FilmArchive. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/filmarchive/internal/platform/apperr"
	requestutil "github.com/taibuivan/filmarchive/internal/platform/request"
)

func urlencoded(values url.Values) *http.Request {
	request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return request
}

func TestFormNumbers(t *testing.T) {
	request := urlencoded(url.Values{
		"releaseYear": {" 1999 "},
		"rating":      {"4,5"},
		"broken":      {"abc"},
	})
	require.NoError(t, requestutil.ParseForm(httptest.NewRecorder(), request, 1<<20))

	year, present, err := requestutil.FormInt(request, "releaseYear")
	require.NoError(t, err)
	assert.True(t, present)
	assert.EqualValues(t, 1999, year)

	rating, present, err := requestutil.FormFloat(request, "rating")
	require.NoError(t, err)
	assert.True(t, present)
	assert.InDelta(t, 4.5, rating, 1e-9)

	_, present, err = requestutil.FormInt(request, "missing")
	require.NoError(t, err)
	assert.False(t, present)

	_, _, err = requestutil.FormInt(request, "broken")
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "broken", ae.Details[0].Field)

	_, _, err = requestutil.FormFloat(request, "broken")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

func TestParseForm_SizeLimit(t *testing.T) {
	request := urlencoded(url.Values{"title": {strings.Repeat("x", 2048)}})

	err := requestutil.ParseForm(httptest.NewRecorder(), request, 64)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "Upload exceeds the size limit", ae.Message)
}

func TestFormFile(t *testing.T) {
	build := func(t *testing.T, fileName string, content []byte) *http.Request {
		t.Helper()
		var buffer bytes.Buffer
		writer := multipart.NewWriter(&buffer)
		require.NoError(t, writer.WriteField("title", "Heat"))
		if fileName != "-" {
			part, err := writer.CreateFormFile("imageFile", fileName)
			require.NoError(t, err)
			_, err = part.Write(content)
			require.NoError(t, err)
		}
		require.NoError(t, writer.Close())

		request := httptest.NewRequest(http.MethodPost, "/", &buffer)
		request.Header.Set("Content-Type", writer.FormDataContentType())
		require.NoError(t, requestutil.ParseForm(httptest.NewRecorder(), request, 1<<20))
		return request
	}

	t.Run("present", func(t *testing.T) {
		file, header, err := requestutil.FormFile(build(t, "cover.png", []byte("png")), "imageFile")
		require.NoError(t, err)
		require.NotNil(t, file)
		defer file.Close()
		assert.Equal(t, "cover.png", header.Filename)
	})

	t.Run("missing_part", func(t *testing.T) {
		file, header, err := requestutil.FormFile(build(t, "-", nil), "imageFile")
		assert.NoError(t, err)
		assert.Nil(t, file)
		assert.Nil(t, header)
	})

	t.Run("untouched_input", func(t *testing.T) {
		file, _, err := requestutil.FormFile(build(t, "", nil), "imageFile")
		assert.NoError(t, err)
		assert.Nil(t, file)
	})

	t.Run("urlencoded_body", func(t *testing.T) {
		request := urlencoded(url.Values{"title": {"Heat"}})
		require.NoError(t, requestutil.ParseForm(httptest.NewRecorder(), request, 1<<20))
		file, _, err := requestutil.FormFile(request, "imageFile")
		assert.NoError(t, err)
		assert.Nil(t, file)
	})
}

func TestID(t *testing.T) {
	tests := []struct {
		raw   string
		want  int64
		found bool
	}{
		{"7", 7, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			routeContext := chi.NewRouteContext()
			routeContext.URLParams.Add("id", tt.raw)
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request = request.WithContext(context.WithValue(request.Context(), chi.RouteCtxKey, routeContext))

			id, err := requestutil.ID(request, "id", "Entry")
			if tt.found {
				require.NoError(t, err)
				assert.Equal(t, tt.want, id)
				return
			}
			assert.True(t, apperr.IsNotFound(err))
		})
	}
}
