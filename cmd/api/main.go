package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/swapmarket/swapmarket-backend/internal/config"
	"github.com/swapmarket/swapmarket-backend/internal/logger"
	"github.com/swapmarket/swapmarket-backend/internal/server"
	"github.com/swapmarket/swapmarket-backend/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	slg := logger.New("swapmarket-api", cfg.LogLevel)

	client, err := store.Connect(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		slg.Error("redis connect failed", "addr", cfg.RedisAddr, "err", err)
		os.Exit(1)
	}
	defer client.Close()

	srv := server.New(cfg, client, slg)

	addr := ":" + cfg.Port
	slg.Info("starting server", "addr", addr)
	if err := srv.Start(addr); err != nil {
		slg.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
