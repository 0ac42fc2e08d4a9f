package mykv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	client *redis.Client
}

func newRedisStore(c context.Context, redisURL string) (*redisStore, func(), error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("error parsing redis-url: %s", err)
	}

	client := redis.NewClient(opts)

	err = client.Ping(c).Err()
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("error connecting to redis: %s", err)
	}

	return &redisStore{
			client: client,
		}, func() {
			client.Close()
		}, nil
}

func (s *redisStore) Put(c context.Context, key string, value []byte, ttl time.Duration) error {
	err := s.client.Set(c, key, value, ttl).Err()
	if err != nil {
		return fmt.Errorf("error storing key %s: %s", key, err)
	}
	return nil
}

func (s *redisStore) Get(c context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(c, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("error fetching key %s: %s", key, err)
	}
	return value, true, nil
}

func (s *redisStore) Delete(c context.Context, key string) error {
	err := s.client.Del(c, key).Err()
	if err != nil {
		return fmt.Errorf("error deleting key %s: %s", key, err)
	}
	return nil
}
