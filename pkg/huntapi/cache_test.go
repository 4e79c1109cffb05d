package huntapi_test

import (
	"context"
	"testing"
	"time"

	"github.com/huntdesk-io/huntdesk/pkg/huntapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetAndGet(t *testing.T) {
	t.Parallel()

	cache := huntapi.NewMemoryCache(10)
	ctx := context.Background()

	entry := &huntapi.CacheEntry{
		Data:      []byte(`{"data":[]}`),
		ExpiresAt: time.Now().Add(time.Hour),
		ETag:      "abc123",
	}

	err := cache.Set(ctx, "https://labs.example/api/machines?per_page=100", entry)
	require.NoError(t, err)

	retrieved, err := cache.Get(ctx, "https://labs.example/api/machines?per_page=100")
	require.NoError(t, err)
	assert.Equal(t, entry.Data, retrieved.Data)
	assert.Equal(t, entry.ETag, retrieved.ETag)
}

func TestMemoryCache_GetNonExistent(t *testing.T) {
	t.Parallel()

	cache := huntapi.NewMemoryCache(10)

	_, err := cache.Get(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.ErrorIs(t, err, huntapi.ErrCacheKeyNotFound)
}

func TestMemoryCache_GetExpired(t *testing.T) {
	t.Parallel()

	cache := huntapi.NewMemoryCache(10)
	ctx := context.Background()

	entry := &huntapi.CacheEntry{
		Data:      []byte("stale"),
		ExpiresAt: time.Now().Add(-time.Minute),
	}

	require.NoError(t, cache.Set(ctx, "key", entry))

	_, err := cache.Get(ctx, "key")
	require.Error(t, err)
	assert.ErrorIs(t, err, huntapi.ErrCacheEntryStale)
}

func TestMemoryCache_MaxSize(t *testing.T) {
	t.Parallel()

	cache := huntapi.NewMemoryCache(2)
	ctx := context.Background()

	for i := range 3 {
		entry := &huntapi.CacheEntry{
			Data:      []byte("data"),
			ExpiresAt: time.Now().Add(time.Duration(i+1) * time.Hour),
		}
		require.NoError(t, cache.Set(ctx, string(rune('a'+i)), entry))
	}

	// Oldest entry (soonest expiry) is evicted.
	assert.False(t, cache.Has(ctx, "a"))
	assert.True(t, cache.Has(ctx, "b"))
	assert.True(t, cache.Has(ctx, "c"))
}

func TestFileCache_RoundTrip(t *testing.T) {
	t.Parallel()

	cache, err := huntapi.NewFileCache(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	key := "https://labs.example/api/machines?per_page=100"

	entry := &huntapi.CacheEntry{
		Data:      []byte(`{"data":[{"id":1}]}`),
		ExpiresAt: time.Now().Add(time.Hour).UTC(),
	}

	require.NoError(t, cache.Set(ctx, key, entry))

	retrieved, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, entry.Data, retrieved.Data)

	// Keys round-trips the original URL, not the hashed filename.
	keys, err := cache.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{key}, keys)
}

func TestFileCache_Expiry(t *testing.T) {
	t.Parallel()

	cache, err := huntapi.NewFileCache(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()

	entry := &huntapi.CacheEntry{
		Data:      []byte("stale"),
		ExpiresAt: time.Now().Add(-time.Minute),
	}

	require.NoError(t, cache.Set(ctx, "key", entry))

	_, err = cache.Get(ctx, "key")
	assert.ErrorIs(t, err, huntapi.ErrCacheEntryStale)

	// Stale entries are removed on read.
	keys, err := cache.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestFileCache_DeleteAndClear(t *testing.T) {
	t.Parallel()

	cache, err := huntapi.NewFileCache(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	fresh := time.Now().Add(time.Hour)

	require.NoError(t, cache.Set(ctx, "a", &huntapi.CacheEntry{Data: []byte("1"), ExpiresAt: fresh}))
	require.NoError(t, cache.Set(ctx, "b", &huntapi.CacheEntry{Data: []byte("2"), ExpiresAt: fresh}))

	require.NoError(t, cache.Delete(ctx, "a"))
	assert.False(t, cache.Has(ctx, "a"))
	assert.True(t, cache.Has(ctx, "b"))

	// Deleting an absent key is not an error.
	require.NoError(t, cache.Delete(ctx, "a"))

	require.NoError(t, cache.Clear(ctx))
	assert.False(t, cache.Has(ctx, "b"))
}

func TestNewCacheFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("file backend", func(t *testing.T) {
		t.Parallel()

		cache, err := huntapi.NewCacheFromConfig(huntapi.DefaultCacheConfig(t.TempDir()))
		require.NoError(t, err)
		assert.IsType(t, &huntapi.FileCache{}, cache)
	})

	t.Run("memory backend", func(t *testing.T) {
		t.Parallel()

		cache, err := huntapi.NewCacheFromConfig(&huntapi.CacheConfig{Type: huntapi.CacheTypeMemory})
		require.NoError(t, err)
		assert.IsType(t, &huntapi.MemoryCache{}, cache)
	})

	t.Run("none backend", func(t *testing.T) {
		t.Parallel()

		cache, err := huntapi.NewCacheFromConfig(&huntapi.CacheConfig{Type: huntapi.CacheTypeNone})
		require.NoError(t, err)
		assert.IsType(t, &huntapi.NoOpCache{}, cache)
	})

	t.Run("nats backend requires config", func(t *testing.T) {
		t.Parallel()

		_, err := huntapi.NewCacheFromConfig(&huntapi.CacheConfig{Type: huntapi.CacheTypeNATS})
		assert.ErrorIs(t, err, huntapi.ErrNATSConfigRequired)
	})

	t.Run("unknown backend", func(t *testing.T) {
		t.Parallel()

		_, err := huntapi.NewCacheFromConfig(&huntapi.CacheConfig{Type: "redis"})
		assert.ErrorIs(t, err, huntapi.ErrUnsupportedCacheType)
	})
}
