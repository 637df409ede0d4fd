package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alumnet-dev/alumnet/internal/config"
	"github.com/alumnet-dev/alumnet/internal/logger"
	"github.com/alumnet-dev/alumnet/internal/mockapi"
)

var version = "dev" // Will be set during build with -ldflags

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// The backend is chatty by default so reset codes show up
	level := cfg.Logging.Level
	if os.Getenv("LOG_LEVEL") == "" {
		level = "info"
	}
	logger.Init(level, cfg.Logging.Format)
	log := logger.Component("mockapi")

	srv, err := mockapi.New(cfg.MockAPI, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server")
	}

	log.Info().Str("version", version).Str("admin", cfg.MockAPI.AdminEmail).Msg("Starting AlumNet development backend...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
