package common

import "time"

// CacheInterface is what the catalog and pilot services cache through.
// Values are stored as JSON strings by the callers, so both backends hand
// the same concrete type back and the Redis round trip loses nothing.
type CacheInterface interface {
	Set(key string, value interface{}, duration time.Duration)

	// Get returns the cached value and true, or nil and false on a miss.
	Get(key string) (interface{}, bool)

	Delete(key string)

	// Close releases any backing connection. No-op for the in-process cache.
	Close() error
}
