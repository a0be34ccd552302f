// Package cache stores plugin about payloads so repeated refreshes can
// skip reinstalling plugins whose package has not changed.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for all cache backends
type Cache interface {
	// Get retrieves a value from the cache
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with a TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache
	Delete(ctx context.Context, key string) error
}

// CacheConfig holds common configuration for cache backends
type CacheConfig struct {
	// DefaultTTL is the default time-to-live for cached items
	DefaultTTL time.Duration
	// Prefix is prepended to all cache keys
	Prefix string
}

// DefaultCacheConfig returns a default cache configuration
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		DefaultTTL: 24 * time.Hour,
		Prefix:     "hubctl:about:",
	}
}

func (c CacheConfig) key(k string) string {
	return c.Prefix + k
}

// ttl applies DefaultTTL when a caller passes zero.
func (c CacheConfig) ttl(ttl time.Duration) time.Duration {
	if ttl == 0 {
		return c.DefaultTTL
	}
	return ttl
}

// ErrCacheMiss is returned when a key is not found in the cache
type ErrCacheMiss struct {
	Key string
}

func (e ErrCacheMiss) Error() string {
	return "cache miss: " + e.Key
}

// IsCacheMiss checks if an error is a cache miss
func IsCacheMiss(err error) bool {
	_, ok := err.(ErrCacheMiss)
	return ok
}

// AboutKey derives the cache key for the about output of executable as
// installed from pipURL.
func AboutKey(pipURL, executable string) string {
	sum := sha256.Sum256([]byte(pipURL + "\x00" + executable))
	return hex.EncodeToString(sum[:])
}
