// Copyright (c) 2026 FilmArchive. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"net/http"

	"github.com/taibuivan/filmarchive/internal/platform/apperr"
	"github.com/taibuivan/filmarchive/internal/platform/ctxutil"
	"github.com/taibuivan/filmarchive/internal/platform/flash"
	"github.com/taibuivan/filmarchive/internal/platform/respond"
)

/*
NewFlashHandler serves GET /api/v1/flash.

Response:
  - 200: {"level","text"} once after a mutation, then null
*/
func NewFlashHandler(store flash.Store) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		message, err := store.Pop(request.Context(), ctxutil.GetSessionID(request.Context()))
		if err != nil {
			respond.Error(writer, request, apperr.Internal(err))
			return
		}

		respond.OK(writer, message)
	}
}
