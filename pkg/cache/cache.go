package cache

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrNotFound is returned when a key is absent or expired.
var ErrNotFound = errors.New("cache: not found")

// Cache is a generic key-value cache with TTL support.
//
// TTL semantics for Set:
//   - positive: item expires after the duration
//   - zero: use the cache's default TTL
//   - negative: item never expires
type Cache[V any] interface {
	// Get retrieves a value. Returns ErrNotFound when the key is absent
	// or expired.
	Get(ctx context.Context, key string) (V, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value V, ttl time.Duration) error

	// Delete removes a key.
	Delete(ctx context.Context, key string) error

	// Clear removes all entries.
	Clear(ctx context.Context) error
}

var sfGroup singleflight.Group

// GetOrLoad retrieves a value, calling fn to compute it on a miss.
// Concurrent callers with the same key share one fn invocation, so a
// cold key never stampedes the loader. A failing fn caches nothing.
func GetOrLoad[V any](ctx context.Context, c Cache[V], key string, fn func(ctx context.Context) (V, time.Duration, error)) (V, error) {
	if v, err := c.Get(ctx, key); err == nil {
		return v, nil
	} else if !errors.Is(err, ErrNotFound) {
		var zero V
		return zero, err
	}

	v, err, _ := sfGroup.Do(key, func() (any, error) {
		// Another caller may have filled the key while we queued.
		if v, err := c.Get(ctx, key); err == nil {
			return v, nil
		}

		v, ttl, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.Set(ctx, key, v, ttl); err != nil {
			return nil, err
		}
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}
