package mycache

import (
	"context"
	"sync"
	"time"

	"github.com/MarcGrol/workersdeploy/lib/mytime"
)

type inMemoryEntry struct {
	value     string
	expiresAt time.Time
}

type InMemoryCache struct {
	sync.Mutex
	nower mytime.Nower
	ttl   time.Duration
	items map[string]inMemoryEntry
}

func NewInMemoryCache(nower mytime.Nower) *InMemoryCache {
	return &InMemoryCache{
		nower: nower,
		ttl:   DefaultTTL,
		items: map[string]inMemoryEntry{},
	}
}

func (ch *InMemoryCache) Get(c context.Context, key string) (string, bool, error) {
	ch.Lock()
	defer ch.Unlock()

	now := ch.nower.Now()

	entry, exists := ch.items[key]
	if !exists {
		return "", false, nil
	}
	if !now.Before(entry.expiresAt) {
		delete(ch.items, key)
		return "", false, nil
	}

	entry.expiresAt = now.Add(ch.ttl)
	ch.items[key] = entry

	return entry.value, true, nil
}

func (ch *InMemoryCache) Set(c context.Context, key string, value string) error {
	ch.Lock()
	defer ch.Unlock()

	ch.items[key] = inMemoryEntry{
		value:     value,
		expiresAt: ch.nower.Now().Add(ch.ttl),
	}

	return nil
}

func (ch *InMemoryCache) Clear(c context.Context) error {
	ch.Lock()
	defer ch.Unlock()

	ch.items = map[string]inMemoryEntry{}

	return nil
}
