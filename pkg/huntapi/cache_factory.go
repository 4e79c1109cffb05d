package huntapi

import (
	"errors"
	"fmt"
	"time"
)

// CacheType selects the cache backend.
type CacheType string

const (
	// CacheTypeFile stores entries on the local filesystem (default).
	CacheTypeFile CacheType = "file"

	// CacheTypeMemory keeps entries in process memory only.
	CacheTypeMemory CacheType = "memory"

	// CacheTypeNATS stores entries in a NATS JetStream KV bucket.
	CacheTypeNATS CacheType = "nats"

	// CacheTypeNone disables caching.
	CacheTypeNone CacheType = "none"
)

var (
	ErrUnsupportedCacheType = errors.New("unsupported cache type")
	ErrNATSConfigRequired   = errors.New("NATS configuration required for NATS cache")
)

// FileCacheConfig configures the filesystem backend.
type FileCacheConfig struct {
	// Dir is the cache directory.
	Dir string
}

// MemoryCacheConfig configures the memory backend.
type MemoryCacheConfig struct {
	// MaxSize is the maximum number of entries held at once.
	MaxSize int
}

// CacheConfig selects and configures a cache backend.
type CacheConfig struct {
	Type   CacheType
	File   *FileCacheConfig
	Memory *MemoryCacheConfig
	NATS   *NATSKVConfig

	// TTL is the freshness window applied to new entries. Zero means
	// DefaultTTL.
	TTL time.Duration
}

const defaultMemoryCacheSize = 256

// DefaultCacheConfig returns the default configuration: a filesystem
// cache under dir with the default TTL.
func DefaultCacheConfig(dir string) *CacheConfig {
	return &CacheConfig{
		Type: CacheTypeFile,
		File: &FileCacheConfig{Dir: dir},
		TTL:  DefaultTTL,
	}
}

// NewCacheFromConfig creates the cache backend selected by config.
func NewCacheFromConfig(config *CacheConfig) (Cache, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: nil config", ErrInvalidArgument)
	}

	switch config.Type {
	case CacheTypeFile, "":
		if config.File == nil || config.File.Dir == "" {
			return nil, fmt.Errorf("%w: file cache requires a directory", ErrInvalidArgument)
		}

		return NewFileCache(config.File.Dir)

	case CacheTypeMemory:
		size := defaultMemoryCacheSize
		if config.Memory != nil && config.Memory.MaxSize > 0 {
			size = config.Memory.MaxSize
		}

		return NewMemoryCache(size), nil

	case CacheTypeNATS:
		if config.NATS == nil {
			return nil, ErrNATSConfigRequired
		}

		return NewNATSKVCache(config.NATS)

	case CacheTypeNone:
		return NewNoOpCache(), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCacheType, config.Type)
	}
}
