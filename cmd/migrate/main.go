package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/banksampah/banksampah/internal/config"
	"github.com/banksampah/banksampah/internal/infra"
	"github.com/banksampah/banksampah/internal/logging"
	"github.com/banksampah/banksampah/internal/migrate"
)

func main() {
	command := flag.String("cmd", "up", "goose command: up, down, status, version, redo, reset")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.AppName+"-migrate", cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()
	db, err := infra.NewPostgresPool(ctx, cfg.DatabaseURL, cfg.AppName, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect postgres")
	}
	defer db.Close()

	if err := migrate.RunPool(ctx, db, *command, flag.Args()...); err != nil {
		logger.Error().Err(err).Str("cmd", *command).Msg("migration failed")
		os.Exit(1)
	}
	logger.Info().Str("cmd", *command).Msg("migration finished")
}
