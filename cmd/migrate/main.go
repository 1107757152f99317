package main

import (
	"context"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"wealthwatch-service/internal/config"
	"wealthwatch-service/internal/infrastructure/logx"
	"wealthwatch-service/internal/infrastructure/pg"
)

func init() { _ = godotenv.Load() }

// migrate applies the resolution audit schema and exits.
func main() {
	log := logx.L()
	ctx := context.Background()
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	db, err := pg.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("connect", zap.Error(err))
	}
	defer db.Close()
	if err := pg.RunMigrations(ctx, db); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}
	log.Info("migrations applied")
}
