package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"tag-admin/cmd"
	"tag-admin/pkg/config"
	"tag-admin/pkg/logger"
	"tag-admin/pkg/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	appLogger := logger.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	// Initialize services
	services.InitService(cfg, appLogger)

	if err := cmd.ListenAndServe(cfg, services.Default(), appLogger); err != nil {
		appLogger.Error().Err(err).Msg("Server error")
		os.Exit(1)
	}
}
