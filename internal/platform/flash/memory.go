// Copyright (c) 2026 FilmArchive. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package flash

import (
	"context"
	"sync"
	"time"

	"github.com/taibuivan/filmarchive/internal/platform/constants"
)

type memoryItem struct {
	message   Message
	expiresAt time.Time
}

// MemoryStore is a single-process [Store] used when REDIS_URL is unset.
//
// Expired items are dropped lazily on access and by Push.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]memoryItem
	ttl   time.Duration
	now   clock
}

// NewMemoryStore creates a [MemoryStore]; ttl <= 0 selects [constants.FlashTTL].
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = constants.FlashTTL
	}
	return &MemoryStore{
		items: make(map[string]memoryItem),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Push implements [Store].
func (store *MemoryStore) Push(_ context.Context, session string, message Message) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	now := store.now()
	for key, item := range store.items {
		if now.After(item.expiresAt) {
			delete(store.items, key)
		}
	}

	store.items[session] = memoryItem{message: message, expiresAt: now.Add(store.ttl)}
	return nil
}

// Pop implements [Store].
func (store *MemoryStore) Pop(_ context.Context, session string) (*Message, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	item, found := store.items[session]
	if !found {
		return nil, nil
	}
	delete(store.items, session)

	if store.now().After(item.expiresAt) {
		return nil, nil
	}
	return &item.message, nil
}

// Ping implements [Store].
func (store *MemoryStore) Ping(context.Context) error { return nil }
