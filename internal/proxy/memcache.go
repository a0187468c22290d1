package proxy

import (
	"context"
	"sync"
)

// MemCacheStore is an in-memory CacheStore. Used by tests and by
// single-instance deployments without Redis.
type MemCacheStore struct {
	mu     sync.RWMutex
	caches map[string]map[string]*CachedResponse
}

func NewMemCacheStore() *MemCacheStore {
	return &MemCacheStore{caches: make(map[string]map[string]*CachedResponse)}
}

func (s *MemCacheStore) Get(_ context.Context, cache, key string) (*CachedResponse, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries, ok := s.caches[cache]
	if !ok {
		return nil, false, nil
	}
	resp, ok := entries[key]
	if !ok {
		return nil, false, nil
	}
	return resp, true, nil
}

func (s *MemCacheStore) Put(_ context.Context, cache, key string, resp *CachedResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, ok := s.caches[cache]
	if !ok {
		entries = make(map[string]*CachedResponse)
		s.caches[cache] = entries
	}
	entries[key] = resp
	return nil
}

func (s *MemCacheStore) DeleteCache(_ context.Context, cache string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.caches, cache)
	return nil
}

func (s *MemCacheStore) ListCaches(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.caches))
	for name := range s.caches {
		names = append(names, name)
	}
	return names, nil
}
