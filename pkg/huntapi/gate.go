package huntapi

import (
	"context"
	"time"
)

// LiveFunc performs the real network round trip for one page URL.
type LiveFunc func(ctx context.Context) ([]byte, error)

// Gate gives page fetches a time-bounded, invalidatable response
// cache. Entries are keyed by the fully-resolved request URL.
type Gate struct {
	cache Cache
	ttl   time.Duration
}

// NewGate wraps cache with a freshness window of ttl. A non-positive
// ttl means DefaultTTL.
func NewGate(cache Cache, ttl time.Duration) *Gate {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Gate{cache: cache, ttl: ttl}
}

// Fetch serves url from the cache when a fresh entry exists, otherwise
// calls live and stores the result. Cache store failures do not fail
// the fetch; the live result is authoritative.
func (g *Gate) Fetch(ctx context.Context, url string, live LiveFunc) ([]byte, error) {
	entry, err := g.cache.Get(ctx, url)
	if err == nil {
		return entry.Data, nil
	}

	data, err := live(ctx)
	if err != nil {
		return nil, err
	}

	_ = g.cache.Set(ctx, url, &CacheEntry{
		Data:      data,
		ExpiresAt: time.Now().Add(g.ttl),
	})

	return data, nil
}

// Invalidate deletes every cached entry whose key contains resourceURL,
// covering the resource's first page and every follow-up page URL.
// Called before a forced-refresh fetch so the subsequent round trips
// are guaranteed live.
func (g *Gate) Invalidate(ctx context.Context, resourceURL string) error {
	keys, err := g.cache.Keys(ctx)
	if err != nil {
		return err
	}

	for _, key := range matchKeys(keys, resourceURL) {
		err = g.cache.Delete(ctx, key)
		if err != nil {
			return err
		}
	}

	return nil
}
