package huntapi

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// DefaultTTL is how long a cached response stays fresh.
const DefaultTTL = 5 * time.Minute

// CacheEntry is one cached upstream response. Data is an opaque blob;
// the cache never inspects it beyond the freshness timestamp.
type CacheEntry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
	ETag      string    `json:"etag,omitempty"`
}

// Expired reports whether the entry is past its freshness window.
func (e *CacheEntry) Expired() bool {
	return time.Now().After(e.ExpiresAt)
}

// Cache is a response cache keyed by fully-resolved request URL.
type Cache interface {
	Get(ctx context.Context, key string) (*CacheEntry, error)
	Set(ctx context.Context, key string, entry *CacheEntry) error
	Delete(ctx context.Context, key string) error
	Has(ctx context.Context, key string) bool
	Keys(ctx context.Context) ([]string, error)
	Clear(ctx context.Context) error
}

// MemoryCache is a bounded in-process cache. When full, the entry
// closest to expiry is evicted.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]*CacheEntry
	maxSize int
}

// NewMemoryCache creates a memory cache holding at most maxSize
// entries.
func NewMemoryCache(maxSize int) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]*CacheEntry),
		maxSize: maxSize,
	}
}

// Get returns the entry for key, or an error when it is absent or
// expired. Expired entries are removed.
func (c *MemoryCache) Get(_ context.Context, key string) (*CacheEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCacheKeyNotFound, key)
	}

	if entry.Expired() {
		delete(c.entries, key)

		return nil, fmt.Errorf("%w: %s", ErrCacheEntryStale, key)
	}

	return entry, nil
}

// Set stores entry under key, evicting the soonest-expiring entry when
// the cache is full.
func (c *MemoryCache) Set(_ context.Context, key string, entry *CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, e := range c.entries {
		if e.Expired() {
			delete(c.entries, k)
		}
	}

	if _, ok := c.entries[key]; !ok && c.maxSize > 0 && len(c.entries) >= c.maxSize {
		var oldest string

		for k, e := range c.entries {
			if oldest == "" || e.ExpiresAt.Before(c.entries[oldest].ExpiresAt) {
				oldest = k
			}
		}

		delete(c.entries, oldest)
	}

	c.entries[key] = entry

	return nil
}

// Delete removes key if present.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)

	return nil
}

// Has reports whether a fresh entry exists for key.
func (c *MemoryCache) Has(ctx context.Context, key string) bool {
	_, err := c.Get(ctx, key)

	return err == nil
}

// Keys returns every cached key, expired entries included.
func (c *MemoryCache) Keys(_ context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys, nil
}

// Clear removes every entry.
func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*CacheEntry)

	return nil
}

// FileCache persists entries as JSON files under a directory, one file
// per key. This is the default backend: entries survive process
// restarts, matching the upstream rate-limit-friendly behavior of a
// local response cache.
type FileCache struct {
	dir string
}

// NewFileCache creates a filesystem cache rooted at dir, creating the
// directory if needed.
func NewFileCache(dir string) (*FileCache, error) {
	err := os.MkdirAll(dir, 0o700)
	if err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	return &FileCache{dir: dir}, nil
}

type fileCacheRecord struct {
	Key   string     `json:"key"`
	Entry CacheEntry `json:"entry"`
}

func (c *FileCache) path(key string) string {
	sum := sha256.Sum256([]byte(key))

	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+".json")
}

// Get returns the entry for key, deleting the backing file when the
// entry has expired.
func (c *FileCache) Get(_ context.Context, key string) (*CacheEntry, error) {
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCacheKeyNotFound, key)
	}

	var record fileCacheRecord

	err = json.Unmarshal(data, &record)
	if err != nil {
		return nil, fmt.Errorf("reading cache entry %s: %w", key, err)
	}

	if record.Entry.Expired() {
		_ = os.Remove(c.path(key))

		return nil, fmt.Errorf("%w: %s", ErrCacheEntryStale, key)
	}

	return &record.Entry, nil
}

// Set writes entry to disk under key.
func (c *FileCache) Set(_ context.Context, key string, entry *CacheEntry) error {
	record := fileCacheRecord{Key: key, Entry: *entry}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	err = os.WriteFile(c.path(key), data, 0o600)
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}

	return nil
}

// Delete removes the backing file for key if present.
func (c *FileCache) Delete(_ context.Context, key string) error {
	err := os.Remove(c.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting cache entry: %w", err)
	}

	return nil
}

// Has reports whether a fresh entry exists for key.
func (c *FileCache) Has(ctx context.Context, key string) bool {
	_, err := c.Get(ctx, key)

	return err == nil
}

// Keys returns the original keys of every entry on disk.
func (c *FileCache) Keys(_ context.Context) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(c.dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("listing cache directory: %w", err)
	}

	keys := make([]string, 0, len(matches))

	for _, match := range matches {
		data, err := os.ReadFile(match)
		if err != nil {
			continue
		}

		var record fileCacheRecord
		if json.Unmarshal(data, &record) == nil && record.Key != "" {
			keys = append(keys, record.Key)
		}
	}

	sort.Strings(keys)

	return keys, nil
}

// Clear removes every entry on disk.
func (c *FileCache) Clear(ctx context.Context) error {
	matches, err := filepath.Glob(filepath.Join(c.dir, "*.json"))
	if err != nil {
		return fmt.Errorf("listing cache directory: %w", err)
	}

	for _, match := range matches {
		err = os.Remove(match)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("clearing cache: %w", err)
		}
	}

	return nil
}

// NoOpCache disables caching: every Get misses and every Set is
// discarded.
type NoOpCache struct{}

// NewNoOpCache creates a cache that caches nothing.
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) Get(context.Context, string) (*CacheEntry, error) {
	return nil, ErrCacheDisabled
}

func (c *NoOpCache) Set(context.Context, string, *CacheEntry) error { return nil }

func (c *NoOpCache) Delete(context.Context, string) error { return nil }

func (c *NoOpCache) Has(context.Context, string) bool { return false }

func (c *NoOpCache) Keys(context.Context) ([]string, error) { return nil, nil }

func (c *NoOpCache) Clear(context.Context) error { return nil }

// matchKeys returns the cached keys containing substr.
func matchKeys(keys []string, substr string) []string {
	var matched []string

	for _, key := range keys {
		if strings.Contains(key, substr) {
			matched = append(matched, key)
		}
	}

	return matched
}
