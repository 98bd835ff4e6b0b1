// Package cache holds the confirmed-replay idempotency stores. The
// store remembers idempotency keys the remote API is known to have
// committed, so a drain interrupted between submit and local delete can
// skip the write instead of re-applying it.
package cache

import (
	"context"
	"sync"
	"time"
)

// entry represents a stored key with expiration
type entry struct {
	expiresAt time.Time
}

// InMemoryIdempotencyStore implements the replay IdempotencyStore using
// an in-memory map. Suitable for a single terminal and for testing.
type InMemoryIdempotencyStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
}

// NewInMemoryIdempotencyStore creates an in-memory store. Entries expire
// after the TTL so the map cannot grow without bound.
func NewInMemoryIdempotencyStore(ttl time.Duration) *InMemoryIdempotencyStore {
	return &InMemoryIdempotencyStore{
		entries: make(map[string]entry),
		ttl:     ttl,
	}
}

// MarkConfirmed records that the remote committed this key.
func (s *InMemoryIdempotencyStore) MarkConfirmed(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry{expiresAt: time.Now().Add(s.ttl)}

	// opportunistic cleanup of expired entries
	now := time.Now()
	for k, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, k)
		}
	}
	return nil
}

// IsConfirmed reports whether the remote already committed this key.
func (s *InMemoryIdempotencyStore) IsConfirmed(ctx context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.entries[key]
	if !exists {
		return false, nil
	}
	if time.Now().After(e.expiresAt) {
		return false, nil
	}
	return true, nil
}
