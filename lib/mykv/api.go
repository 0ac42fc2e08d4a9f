package mykv

import (
	"context"
	"time"

	"github.com/MarcGrol/workersdeploy/lib/mytime"
)

// Store is a key-value store where every entry expires after its own time-to-live.
//
//go:generate mockgen -source=api.go -package mykv -destination store_mock.go Store
type Store interface {
	Put(c context.Context, key string, value []byte, ttl time.Duration) error
	Get(c context.Context, key string) ([]byte, bool, error)
	Delete(c context.Context, key string) error
}

// New picks redis when a redis-url is configured, datastore when running on google cloud and memory otherwise.
func New(c context.Context, redisURL string, projectID string, nower mytime.Nower) (Store, func(), error) {
	if redisURL != "" {
		return newRedisStore(c, redisURL)
	}

	if projectID != "" {
		return newGcloudStore(c, projectID, nower)
	}

	return NewInMemoryStore(nower), func() {}, nil
}
