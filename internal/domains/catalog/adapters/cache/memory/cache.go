package memory

import (
	"context"
	"encoding/json"
	"path"
	"sync"
	"time"

	"github.com/Apurer/go-gin-takeout-api/internal/domains/catalog/ports"
)

var _ ports.Cache = (*Cache)(nil)

type entry struct {
	payload   []byte
	expiresAt time.Time
}

// Cache is a process-local listing cache used when no Redis is configured.
// Values are stored JSON-encoded so callers get the same copy semantics as Redis.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

func NewCache() *Cache {
	return &Cache{entries: map[string]entry{}, now: time.Now}
}

func (c *Cache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return false, nil
	}
	if err := json.Unmarshal(e.payload, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Cache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	e := entry{payload: payload}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}

func (c *Cache) DeletePattern(_ context.Context, pattern string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var removed int64
	for key := range c.entries {
		matched, err := path.Match(pattern, key)
		if err != nil {
			return removed, err
		}
		if matched {
			delete(c.entries, key)
			removed++
		}
	}
	return removed, nil
}
