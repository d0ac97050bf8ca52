// Package session maps opaque cookie tokens to users. Session records live in
// a key-value store with TTL (memory, Redis or PostgreSQL); the cookie carries
// a signed token wrapping the record key.
package session

import (
	"context"
	"time"
)

// Store is a key-value store with per-key expiry.
type Store interface {
	// Put stores value under key for ttl, replacing any previous value.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get returns the value for key. Missing and expired keys both return
	// common.ErrorNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Pinger is implemented by stores that depend on an external service.
type Pinger interface {
	Ping(ctx context.Context) error
}
