// Copyright (c) 2026 FilmArchive. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package flash holds one-shot status banners keyed by browser session.

A mutation pushes "Entry created." (or an error text) and the next page load
pops it. At most one message is pending per session; a newer push replaces
an unread one.
*/
package flash

import (
	"context"
	"time"
)

// Level distinguishes success banners from error banners.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Message is one pending banner.
type Message struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// Store is implemented by [RedisStore] and [MemoryStore].
type Store interface {
	// Push replaces the pending message for session.
	Push(ctx context.Context, session string, message Message) error

	// Pop returns and clears the pending message, or nil if there is none.
	Pop(ctx context.Context, session string) (*Message, error)

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}

// clock is swapped in tests.
type clock func() time.Time
