// Package cache is the time-boxed memo behind the pipeline's remote
// lookups: key = canonicalized input, value = JSON-encoded result, expiry
// is the only eviction.
package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Cache stores string values under string keys until their TTL lapses.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// GetOrCompute returns the cached value for key, or runs compute and
// caches its result. Compute errors are never cached. A cached value
// that no longer decodes is recomputed as if it were absent.
func GetOrCompute[T any](ctx context.Context, c Cache, key string, ttl time.Duration, compute func() (T, error)) (T, error) {
	if raw, ok := c.Get(ctx, key); ok {
		var v T
		if err := json.Unmarshal([]byte(raw), &v); err == nil {
			return v, nil
		}
	}

	v, err := compute()
	if err != nil {
		return v, err
	}

	if raw, err := json.Marshal(v); err == nil {
		_ = c.Set(ctx, key, string(raw), ttl)
	}
	return v, nil
}
