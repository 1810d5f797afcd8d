package store

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps encoded artifacts in a map. Expired entries are reported
// as ErrExpired once and evicted by the next sweep.
type MemoryStore struct {
	codec   *codec
	entries map[string]memoryEntry
	now     func() time.Time
	mu      sync.RWMutex
}

type memoryEntry struct {
	raw       []byte
	expiresAt time.Time
}

func newMemoryStore(c *codec) *MemoryStore {
	return &MemoryStore{
		codec:   c,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Put(ctx context.Context, a *Artifact) error {
	if _, err := ttlFor(a, s.now()); err != nil {
		return err
	}

	raw, err := s.codec.encode(a)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()
	s.entries[a.ID] = memoryEntry{raw: raw, expiresAt: a.ExpiresAt}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Artifact, error) {
	s.mu.Lock()
	entry, ok := s.entries[id]
	if ok && !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		delete(s.entries, id)
		s.mu.Unlock()
		return nil, ErrExpired
	}
	s.mu.Unlock()

	if !ok {
		return nil, ErrNotFound
	}
	return s.codec.decode(entry.raw)
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, id)
	return nil
}

// Len returns the number of entries, expired ones included
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]memoryEntry)
	return nil
}

// sweepLocked drops expired entries; s.mu must be held
func (s *MemoryStore) sweepLocked() {
	now := s.now()
	for id, e := range s.entries {
		if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
			delete(s.entries, id)
		}
	}
}
