package ports

import (
	"context"
	"time"
)

// Cache stores JSON-encodable listing snapshots keyed by string.
type Cache interface {
	// Get decodes the cached value into dest and reports whether the key was present.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// DeletePattern removes every key matching a glob pattern such as "dish_*".
	DeletePattern(ctx context.Context, pattern string) (int64, error)
}
