package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Apurer/go-gin-takeout-api/internal/domains/catalog/ports"
)

var _ ports.Cache = (*Cache)(nil)

const scanBatch = 100

// Cache stores catalog listings in Redis as JSON payloads.
type Cache struct {
	client goredis.UniversalClient
}

func NewCache(client goredis.UniversalClient) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}

// DeletePattern collects every match with SCAN before deleting them in
// batches. Deleting mid-scan can make the cursor skip keys.
func (c *Cache) DeletePattern(ctx context.Context, pattern string) (int64, error) {
	var (
		cursor  uint64
		matched []string
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return 0, err
		}
		matched = append(matched, keys...)
		if next == 0 {
			break
		}
		cursor = next
	}

	var removed int64
	for start := 0; start < len(matched); start += scanBatch {
		end := min(start+scanBatch, len(matched))
		n, err := c.client.Del(ctx, matched[start:end]...).Result()
		if err != nil {
			return removed, err
		}
		removed += n
	}
	return removed, nil
}
