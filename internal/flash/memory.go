package flash

import (
	"context"
	"sync"
	"time"

	"github.com/jmylchreest/toasty/internal/model"
	"github.com/jmylchreest/toasty/internal/toast"
)

// MemoryStore keeps flashes in a map. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]model.Flash
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]model.Flash)}
}

// Put stores e under key, replacing any previous entry.
func (s *MemoryStore) Put(_ context.Context, key string, e toast.FlashEntry) error {
	if key == "" {
		return ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = toRecord(e, time.Now())
	return nil
}

// Take removes and returns the entry under key.
func (s *MemoryStore) Take(_ context.Context, key string) (toast.FlashEntry, bool, error) {
	if key == "" {
		return toast.FlashEntry{}, false, ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.entries[key]
	if !ok {
		return toast.FlashEntry{}, false, nil
	}
	delete(s.entries, key)
	return fromRecord(r), true, nil
}

// Len returns the number of stored entries.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
