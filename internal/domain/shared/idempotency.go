package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers keys that were already claimed, so an operation runs once per TTL.
type IdempotencyStore interface {
	// MarkProcessed claims the key. It returns false if the key was already claimed.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether the key is currently claimed
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Release drops a claim so the operation may be retried
	Release(ctx context.Context, key string) error

	Close() error
}
