package Cache

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Cache stores encoded values with a TTL fixed at construction.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	// Generation is bumped by every Purge.
	Generation(ctx context.Context) (uint64, error)
	// Purge drops every entry owned by this cache and starts a new
	// generation.
	Purge(ctx context.Context) error
	Close() error
}

// Load returns the cached value for key, or computes, caches and returns it.
// Entries are keyed by the cache generation read before compute, so a value
// computed across a Purge is never served after it. Cache failures degrade
// to a recompute and are only logged.
func Load[T any](ctx context.Context, c Cache, key string, compute func() (T, error)) (T, error) {
	gen, err := c.Generation(ctx)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache generation failed")
		return compute()
	}
	key = Key(gen, key)

	if raw, ok, err := c.Get(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache get failed")
	} else if ok {
		var cached T
		err := msgpack.Unmarshal(raw, &cached)
		if err == nil {
			return cached, nil
		}
		log.Warn().Err(err).Str("key", key).Msg("cache entry undecodable")
	}
	value, err := compute()
	if err != nil {
		return value, err
	}
	if now, err := c.Generation(ctx); err != nil || now != gen {
		return value, nil
	}
	raw, err := msgpack.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache encode failed")
		return value, nil
	}
	if err := c.Set(ctx, key, raw); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
	return value, nil
}

// Key joins parts into a cache key.
func Key(parts ...interface{}) string {
	key := ""
	for i, p := range parts {
		if i > 0 {
			key += ":"
		}
		key += fmt.Sprint(p)
	}
	return key
}
