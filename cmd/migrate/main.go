package main

import (
	"context"
	"os"

	"menumate/internal/config"
	"menumate/internal/db"
	"menumate/internal/logger"
	"menumate/internal/migrate"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New("migrate")

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		log.Err("connect db", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		log.Err("apply migrations", err)
		os.Exit(1)
	}

	log.Info("migrations applied")
}
