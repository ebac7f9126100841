// Copyright (c) 2026 FilmArchive. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/filmarchive/internal/api"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type readinessBody struct {
	Data struct {
		Status string `json:"status"`
		Checks []struct {
			Name  string `json:"name"`
			OK    bool   `json:"ok"`
			Error string `json:"error"`
		} `json:"checks"`
	} `json:"data"`
}

func TestLiveness(t *testing.T) {
	liveness, _ := api.NewHealthHandlers(nil, discardLogger())

	recorder := httptest.NewRecorder()
	liveness(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"data":{"status":"ok"}}`, recorder.Body.String())
}

func TestReadiness(t *testing.T) {
	healthy := func(context.Context) error { return nil }
	broken := func(context.Context) error { return errors.New("connection refused") }

	t.Run("all_dependencies_up", func(t *testing.T) {
		_, readiness := api.NewHealthHandlers([]api.HealthCheck{
			{Name: "database", Check: healthy},
			{Name: "flash", Check: healthy},
		}, discardLogger())

		recorder := httptest.NewRecorder()
		readiness(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))

		require.Equal(t, http.StatusOK, recorder.Code)
		var body readinessBody
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, "ready", body.Data.Status)
		assert.Len(t, body.Data.Checks, 2)
	})

	t.Run("one_dependency_down", func(t *testing.T) {
		_, readiness := api.NewHealthHandlers([]api.HealthCheck{
			{Name: "database", Check: broken},
			{Name: "flash", Check: healthy},
		}, discardLogger())

		recorder := httptest.NewRecorder()
		readiness(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))

		require.Equal(t, http.StatusServiceUnavailable, recorder.Code)
		var body readinessBody
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, "degraded", body.Data.Status)
		require.Len(t, body.Data.Checks, 2)
		assert.False(t, body.Data.Checks[0].OK)
		assert.Equal(t, "connection refused", body.Data.Checks[0].Error)
		assert.True(t, body.Data.Checks[1].OK)
	})

	t.Run("check_receives_deadline", func(t *testing.T) {
		_, readiness := api.NewHealthHandlers([]api.HealthCheck{
			{Name: "database", Check: func(ctx context.Context) error {
				if _, ok := ctx.Deadline(); !ok {
					return errors.New("no deadline")
				}
				return nil
			}},
		}, discardLogger())

		recorder := httptest.NewRecorder()
		readiness(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))
		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}
