// Command cache-purge evicts cached catalog listings so the next read goes to the database.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	cacheredis "github.com/Apurer/go-gin-takeout-api/internal/domains/catalog/adapters/cache/redis"
	catalogapp "github.com/Apurer/go-gin-takeout-api/internal/domains/catalog/application"
	platformobservability "github.com/Apurer/go-gin-takeout-api/internal/platform/observability"
	platformredis "github.com/Apurer/go-gin-takeout-api/internal/platform/redis"
)

func main() {
	only := flag.String("only", "", "evict only dish or setmeal listings")
	flag.Parse()
	patterns := []string{catalogapp.DishCachePattern, catalogapp.SetmealCachePattern}
	switch *only {
	case "":
	case "dish":
		patterns = patterns[:1]
	case "setmeal":
		patterns = patterns[1:]
	default:
		log.Fatalf("-only must be dish or setmeal, got %q", *only)
	}
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to load .env: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := platformobservability.NewLogger(os.Stdout, os.Getenv("LOG_LEVEL"))
	client, err := platformredis.Connect(ctx, os.Getenv("REDIS_URL"))
	if err != nil {
		log.Fatalf("REDIS_URL not set or unreachable; cannot purge catalog cache: %v", err)
	}
	defer client.Close()

	cache := cacheredis.NewCache(client)
	for _, pattern := range patterns {
		removed, err := cache.DeletePattern(ctx, pattern)
		if err != nil {
			log.Fatalf("failed to purge catalog cache %s: %v", pattern, err)
		}
		logger.Info("catalog cache purge completed", slog.String("pattern", pattern), slog.Int64("removed", removed))
	}
}
