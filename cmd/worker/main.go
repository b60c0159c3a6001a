package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/worker"

	appworker "github.com/Apurer/go-gin-takeout-api/internal/app/worker"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to load .env: %v", err)
	}
	cfg, err := appworker.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if err := appworker.Run(context.Background(), cfg, worker.InterruptCh()); err != nil {
		log.Fatalf("refund worker failed: %v", err)
	}
}
