package mykv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/datastore"

	"github.com/MarcGrol/workersdeploy/lib/mytime"
)

const kvKind = "KeyValue"

// ExpiresAt doubles as the field for a datastore ttl-policy, so expired entities are eventually removed.
type kvEntity struct {
	Value     []byte `datastore:",noindex"`
	ExpiresAt time.Time
}

type gcloudStore struct {
	client *datastore.Client
	nower  mytime.Nower
}

func newGcloudStore(c context.Context, projectID string, nower mytime.Nower) (*gcloudStore, func(), error) {
	client, err := datastore.NewClient(c, projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating datastore-client: %s", err)
	}

	return &gcloudStore{
			client: client,
			nower:  nower,
		}, func() {
			client.Close()
		}, nil
}

func (s *gcloudStore) Put(c context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := s.client.Put(c, datastore.NameKey(kvKind, key, nil), &kvEntity{
		Value:     value,
		ExpiresAt: s.nower.Now().Add(ttl),
	})
	if err != nil {
		return fmt.Errorf("error storing key %s: %s", key, err)
	}
	return nil
}

func (s *gcloudStore) Get(c context.Context, key string) ([]byte, bool, error) {
	entity := kvEntity{}
	err := s.client.Get(c, datastore.NameKey(kvKind, key, nil), &entity)
	if err != nil {
		if errors.Is(err, datastore.ErrNoSuchEntity) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("error fetching key %s: %s", key, err)
	}

	if !s.nower.Now().Before(entity.ExpiresAt) {
		return nil, false, nil
	}

	return entity.Value, true, nil
}

func (s *gcloudStore) Delete(c context.Context, key string) error {
	err := s.client.Delete(c, datastore.NameKey(kvKind, key, nil))
	if err != nil && !errors.Is(err, datastore.ErrNoSuchEntity) {
		return fmt.Errorf("error deleting key %s: %s", key, err)
	}
	return nil
}
