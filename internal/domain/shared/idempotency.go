package shared

import (
	"context"
	"time"
)

// IdempotencyPending is the value held by a reserved key until the
// request that reserved it finishes.
const IdempotencyPending = "pending"

// IdempotencyStore remembers client-supplied request keys so a retried
// request is answered with the original outcome instead of being re-applied.
type IdempotencyStore interface {
	// Reserve atomically claims key. It returns false if the key already exists.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Get returns the value stored under key, or "" if absent.
	Get(ctx context.Context, key string) (string, error)

	// Complete stores the final value for a reserved key.
	Complete(ctx context.Context, key, value string, ttl time.Duration) error

	// Release drops a reservation so the key can be retried.
	Release(ctx context.Context, key string) error

	// Close releases resources held by the store
	Close() error
}
