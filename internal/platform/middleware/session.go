// Copyright (c) 2026 FilmArchive. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"

	"github.com/taibuivan/filmarchive/internal/platform/constants"
	"github.com/taibuivan/filmarchive/internal/platform/ctxutil"
	"github.com/taibuivan/filmarchive/pkg/uuid"
)

// Session ties a browser to its pending flash messages.
//
// An existing fa_session cookie is reused when it holds a valid UUID;
// otherwise a new one is issued. API clients that ignore cookies simply get
// a fresh session per request.
func Session(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			sessionID := ""
			if cookie, err := request.Cookie(constants.SessionCookieName); err == nil {
				if canonical, ok := uuid.Canonical(cookie.Value); ok {
					sessionID = canonical
				}
			}

			if sessionID == "" {
				sessionID = uuid.New()
				http.SetCookie(writer, &http.Cookie{
					Name:     constants.SessionCookieName,
					Value:    sessionID,
					Path:     "/",
					MaxAge:   int(constants.SessionCookieMaxAge.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := ctxutil.WithSessionID(request.Context(), sessionID)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}
