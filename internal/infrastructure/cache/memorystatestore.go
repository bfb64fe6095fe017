package cache

import (
	"context"
	"sync"
	"time"

	"github.com/csc-helpdesk/csc/internal/application/auth/usecases"
)

// MemoryStateStore is the single-instance fallback when Redis is disabled.
// Expired entries are dropped lazily on every Set.
type MemoryStateStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

type memoryEntry struct {
	verifier  string
	expiresAt time.Time
}

func NewMemoryStateStore(ttl time.Duration) *MemoryStateStore {
	return &MemoryStateStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

var _ usecases.StateStore = (*MemoryStateStore)(nil)

func (s *MemoryStateStore) Set(_ context.Context, state string, codeVerifier string) error {
	if err := validateState(state, codeVerifier); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, k)
		}
	}
	s.entries[state] = memoryEntry{verifier: codeVerifier, expiresAt: now.Add(s.ttl)}
	return nil
}

func (s *MemoryStateStore) Consume(_ context.Context, state string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[state]
	if !ok {
		return "", usecases.ErrStateNotFound
	}
	delete(s.entries, state)
	if !s.now().Before(e.expiresAt) {
		return "", usecases.ErrStateNotFound
	}
	return e.verifier, nil
}

// Len reports the number of pending states, expired ones included.
func (s *MemoryStateStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
