package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	mdwerror "github.com/msto63/mAF/foundation/core/error"
)

// MemoryStore implements Store in memory, for sessions without a data dir
type MemoryStore struct {
	mu      sync.RWMutex
	entries []*Entry
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save stores a copy of entry, filling in ID and CreatedAt when unset
func (s *MemoryStore) Save(ctx context.Context, entry *Entry) error {
	if !entry.Mode.Valid() {
		return mdwerror.Newf("unknown history mode %q", entry.Mode).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("store.Save")
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	entry.CreatedAt = entry.CreatedAt.UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *entry
	s.entries = append(s.entries, &stored)
	return nil
}

// Query lists matching entries, newest first
func (s *MemoryStore) Query(ctx context.Context, filter Filter) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*Entry
	// insertion order reversed keeps ties newest first
	for i := len(s.entries) - 1; i >= 0; i-- {
		if filter.matches(s.entries[i]) {
			e := *s.entries[i]
			result = append(result, &e)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

// Count returns the number of matching entries; Limit is ignored
func (s *MemoryStore) Count(ctx context.Context, filter Filter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, e := range s.entries {
		if filter.matches(e) {
			n++
		}
	}
	return n, nil
}

// Prune deletes entries older than the given age
func (s *MemoryStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[:0]
	var deleted int64
	for _, e := range s.entries {
		if e.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	return deleted, nil
}

// Ping always succeeds
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op for memory store
func (s *MemoryStore) Close() error {
	return nil
}

func (f Filter) matches(e *Entry) bool {
	if f.SessionID != "" && e.SessionID != f.SessionID {
		return false
	}
	if f.Mode != "" && e.Mode != f.Mode {
		return false
	}
	if f.OnlyFailed && e.ErrorCount == 0 {
		return false
	}
	return true
}
