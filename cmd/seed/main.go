package main

import (
	"context"
	"os"

	"menumate/internal/config"
	"menumate/internal/db"
	"menumate/internal/logger"
	"menumate/internal/seed"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New("seed")

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		log.Err("connect db", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := seed.Apply(ctx, pool); err != nil {
		log.Err("seed apply", err)
		os.Exit(1)
	}

	log.Info("seed applied")
}
