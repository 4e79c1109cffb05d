package huntapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
)

// NATSKVConfig configures the NATS JetStream KV cache backend, for
// deployments where several operator consoles share one response
// cache.
type NATSKVConfig struct {
	// URLs are the NATS server URLs.
	URLs []string

	// Bucket is the KV bucket name. Created on first use.
	Bucket string

	// TTL is applied bucket-wide by the server. Zero means DefaultTTL.
	TTL time.Duration

	// CredsFile optionally points to a NATS credentials file.
	CredsFile string
}

// NATSKVCache stores entries in a NATS JetStream key-value bucket.
// Request URLs are not valid KV keys, so keys are base64-encoded on
// the wire and the original key travels inside the entry record.
type NATSKVCache struct {
	conn *nats.Conn
	kv   nats.KeyValue
}

type natsKVRecord struct {
	Key   string     `json:"key"`
	Entry CacheEntry `json:"entry"`
}

// NewNATSKVCache connects to NATS and binds (or creates) the bucket.
func NewNATSKVCache(config *NATSKVConfig) (*NATSKVCache, error) {
	var opts []nats.Option
	if config.CredsFile != "" {
		opts = append(opts, nats.UserCredentials(config.CredsFile))
	}

	conn, err := nats.Connect(strings.Join(config.URLs, ","), opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()

		return nil, fmt.Errorf("creating JetStream context: %w", err)
	}

	ttl := config.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	kv, err := js.KeyValue(config.Bucket)
	if errors.Is(err, nats.ErrBucketNotFound) {
		kv, err = js.CreateKeyValue(&nats.KeyValueConfig{
			Bucket: config.Bucket,
			TTL:    ttl,
		})
	}

	if err != nil {
		conn.Close()

		return nil, fmt.Errorf("binding KV bucket %q: %w", config.Bucket, err)
	}

	return &NATSKVCache{conn: conn, kv: kv}, nil
}

func encodeKVKey(key string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(key))
}

// Get returns the entry for key. The bucket TTL expires entries server
// side; the entry timestamp is still checked for callers that set a
// shorter freshness window.
func (c *NATSKVCache) Get(_ context.Context, key string) (*CacheEntry, error) {
	kve, err := c.kv.Get(encodeKVKey(key))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCacheKeyNotFound, key)
	}

	var record natsKVRecord

	err = json.Unmarshal(kve.Value(), &record)
	if err != nil {
		return nil, fmt.Errorf("reading cache entry %s: %w", key, err)
	}

	if record.Entry.Expired() {
		_ = c.kv.Delete(encodeKVKey(key))

		return nil, fmt.Errorf("%w: %s", ErrCacheEntryStale, key)
	}

	return &record.Entry, nil
}

// Set stores entry under key.
func (c *NATSKVCache) Set(_ context.Context, key string, entry *CacheEntry) error {
	record := natsKVRecord{Key: key, Entry: *entry}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	_, err = c.kv.Put(encodeKVKey(key), data)
	if err != nil {
		return fmt.Errorf("storing cache entry: %w", err)
	}

	return nil
}

// Delete removes key if present.
func (c *NATSKVCache) Delete(_ context.Context, key string) error {
	err := c.kv.Delete(encodeKVKey(key))
	if err != nil && !errors.Is(err, nats.ErrKeyNotFound) {
		return fmt.Errorf("deleting cache entry: %w", err)
	}

	return nil
}

// Has reports whether a fresh entry exists for key.
func (c *NATSKVCache) Has(ctx context.Context, key string) bool {
	_, err := c.Get(ctx, key)

	return err == nil
}

// Keys returns the original (decoded) keys in the bucket.
func (c *NATSKVCache) Keys(_ context.Context) ([]string, error) {
	encoded, err := c.kv.Keys()
	if errors.Is(err, nats.ErrNoKeysFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("listing cache keys: %w", err)
	}

	keys := make([]string, 0, len(encoded))

	for _, k := range encoded {
		decoded, err := base64.RawURLEncoding.DecodeString(k)
		if err != nil {
			continue
		}

		keys = append(keys, string(decoded))
	}

	return keys, nil
}

// Clear removes every entry in the bucket.
func (c *NATSKVCache) Clear(ctx context.Context) error {
	keys, err := c.Keys(ctx)
	if err != nil {
		return err
	}

	for _, key := range keys {
		err = c.Delete(ctx, key)
		if err != nil {
			return err
		}
	}

	return nil
}

// Close releases the NATS connection.
func (c *NATSKVCache) Close() {
	c.conn.Close()
}
