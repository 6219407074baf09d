package cache

import (
	"context"
	"time"
)

// Cache defines the interface for caching remote API responses
// This abstraction allows swapping cache implementations (Redis, in-memory)
// Keys are short URLs or hashes; values are the serialized API entries
type Cache interface {
	// Set stores a key-value pair with expiration
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Get retrieves a value by key
	// Returns empty string when the key is absent
	Get(ctx context.Context, key string) (string, error)

	// SetMultiple stores several key-value pairs in one round trip
	// Used after a batch expand/info call to remember every entry
	SetMultiple(ctx context.Context, items map[string]string, ttl time.Duration) error

	// GetMultiple retrieves several values in one round trip
	// Missing keys are simply absent from the result
	GetMultiple(ctx context.Context, keys []string) (map[string]string, error)

	// Delete removes a key from cache
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists
	Exists(ctx context.Context, key string) (bool, error)

	// Close closes the cache connection
	Close() error
}
