package ports

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value cache. Errors are advisory: callers fall back
// to the primary datastore.
type Cache interface {
	// Get returns ok=false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set with ttl <= 0 stores without expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
