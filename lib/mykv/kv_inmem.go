package mykv

import (
	"context"
	"sync"
	"time"

	"github.com/MarcGrol/workersdeploy/lib/mytime"
)

type inMemoryEntry struct {
	value     []byte
	expiresAt time.Time
}

type InMemoryStore struct {
	sync.Mutex
	nower mytime.Nower
	items map[string]inMemoryEntry
}

func NewInMemoryStore(nower mytime.Nower) *InMemoryStore {
	return &InMemoryStore{
		nower: nower,
		items: map[string]inMemoryEntry{},
	}
}

func (s *InMemoryStore) Put(c context.Context, key string, value []byte, ttl time.Duration) error {
	s.Lock()
	defer s.Unlock()

	now := s.nower.Now()

	// entries that are never read again would otherwise stay forever
	for k, entry := range s.items {
		if !now.Before(entry.expiresAt) {
			delete(s.items, k)
		}
	}

	copied := make([]byte, len(value))
	copy(copied, value)

	s.items[key] = inMemoryEntry{
		value:     copied,
		expiresAt: now.Add(ttl),
	}

	return nil
}

func (s *InMemoryStore) Get(c context.Context, key string) ([]byte, bool, error) {
	s.Lock()
	defer s.Unlock()

	entry, exists := s.items[key]
	if !exists {
		return nil, false, nil
	}

	if !s.nower.Now().Before(entry.expiresAt) {
		delete(s.items, key)
		return nil, false, nil
	}

	return entry.value, true, nil
}

func (s *InMemoryStore) Delete(c context.Context, key string) error {
	s.Lock()
	defer s.Unlock()

	delete(s.items, key)

	return nil
}
