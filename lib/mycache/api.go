package mycache

import (
	"context"
	"time"
)

// DefaultTTL is the lifetime of an entry since it was last set or read.
const DefaultTTL = time.Hour

// Cache is a small string store where reading an entry extends its lifetime.
//
//go:generate mockgen -source=api.go -package mycache -destination cache_mock.go Cache
type Cache interface {
	Get(c context.Context, key string) (string, bool, error)
	Set(c context.Context, key string, value string) error
	Clear(c context.Context) error
}
