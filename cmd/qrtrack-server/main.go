package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mikepea/qrtrack/pkg/qrtrack/config"
	"github.com/mikepea/qrtrack/pkg/qrtrack/database"
	"github.com/mikepea/qrtrack/pkg/qrtrack/logger"
	"github.com/mikepea/qrtrack/pkg/qrtrack/models"
	"github.com/mikepea/qrtrack/pkg/qrtrack/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Setup(cfg.LogLevel, cfg.Production())

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to connect to database")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}()

	// Run auto-migrations
	if err := models.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	log.Info().Msg("database migrations completed")

	r, err := server.NewRouter(db, cfg.BaseURL, logger.Component("http"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Info().Str("address", cfg.Addr()).Str("base_url", cfg.BaseURL).Msg("server starting")
	if err := server.Run(ctx, cfg.Addr(), r); err != nil {
		log.Error().Err(err).Msg("server error")
	}
}
