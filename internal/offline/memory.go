package offline

import (
	"context"
	"sort"
	"sync"

	"munchen_mate/internal/adapters/observability"
	"munchen_mate/internal/domain"
)

// MemoryStore keeps caches in process memory. It is the default store and
// the one used by tests.
type MemoryStore struct {
	mu     sync.RWMutex
	caches map[string]map[string]domain.AssetResponse
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{caches: map[string]map[string]domain.AssetResponse{}}
}

func (s *MemoryStore) Commit(ctx context.Context, name string, entries []domain.AssetResponse) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c := make(map[string]domain.AssetResponse, len(entries))
	for _, e := range entries {
		e.Body = append([]byte(nil), e.Body...)
		c[domain.AssetKey(e.Path)] = e
	}
	s.mu.Lock()
	s.caches[name] = c
	s.mu.Unlock()
	observability.ObserveCache("memory", "commit")
	return nil
}

func (s *MemoryStore) Lookup(_ context.Context, name, path string) (domain.AssetResponse, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.caches[name][domain.AssetKey(path)]
	return e, ok, nil
}

func (s *MemoryStore) Names(context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.caches))
	for n := range s.caches {
		out = append(out, n)
	}
	sort.Strings(out)
	return out, nil
}

func (s *MemoryStore) Drop(_ context.Context, name string) error {
	s.mu.Lock()
	delete(s.caches, name)
	s.mu.Unlock()
	observability.ObserveCache("memory", "drop")
	return nil
}
