package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/swapmarket/swapmarket-backend/internal/config"
	"github.com/swapmarket/swapmarket-backend/internal/store"
)

// Resets the catalog and review collections to the seed data. Run it to
// restore a demo environment; user accounts and purchases are untouched.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()
	client, err := store.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis connect error: %v", err)
	}
	defer client.Close()

	if err := store.ResetDefaults(ctx, store.NewCollections(client, nil)); err != nil {
		log.Fatalf("seed error: %v", err)
	}
	log.Printf("seeded default catalog and reviews")
}
