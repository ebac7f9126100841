// Copyright (c) 2026 FilmArchive. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid generates the opaque identifiers used outside the database:
request IDs, session cookies and stored image file names.

Version 7 values are time-ordered, so upload directories list in creation
order and log correlation IDs sort naturally.
*/
package uuid

import "github.com/google/uuid"

// New generates a new UUIDv7 string, falling back to a random v4 if the
// clock-based generator fails.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Canonical returns the canonical lower-case form of s and true when s is a
// valid UUID. Cookie values from clients go through here before use.
func Canonical(s string) (string, bool) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", false
	}
	return id.String(), true
}
