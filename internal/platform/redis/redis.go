// Package redis dials the Redis deployment backing the catalog cache.
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Connect parses a redis:// URL, dials, and verifies connectivity.
func Connect(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(strings.TrimSpace(url))
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := goredis.NewClient(opts)
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Open returns nil and a no-op cleanup when url is empty or unreachable so
// callers can fall back to an in-process cache.
func Open(ctx context.Context, url string, log *slog.Logger) (*goredis.Client, func()) {
	if strings.TrimSpace(url) == "" {
		if log != nil {
			log.Warn("redis URL not set, falling back to in-memory catalog cache")
		}
		return nil, func() {}
	}
	client, err := Connect(ctx, url)
	if err != nil {
		if log != nil {
			log.Warn("failed to connect to redis, falling back to in-memory catalog cache", slog.String("error", err.Error()))
		}
		return nil, func() {}
	}
	if log != nil {
		log.Info("redis connection established", slog.String("addr", client.Options().Addr))
	}
	return client, func() { _ = client.Close() }
}
