package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/habitcoach/coaching-system/internal/api"
	"github.com/habitcoach/coaching-system/internal/core/ports"
	"github.com/habitcoach/coaching-system/internal/core/service"
	"github.com/habitcoach/coaching-system/internal/infrastructure/config"
	"github.com/habitcoach/coaching-system/internal/infrastructure/db/redis"
	"github.com/habitcoach/coaching-system/internal/infrastructure/db/sqlite"
	"github.com/habitcoach/coaching-system/internal/infrastructure/store"
	"github.com/habitcoach/coaching-system/internal/infrastructure/voice"
	"github.com/habitcoach/coaching-system/pkg/logger"
)

// @title Habit Coaching API
// @version 1.0
// @description Habit tracking and coaching backend with change-log based sync and a voice-to-habit pipeline.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	backing, err := sqlite.Open(cfg.Store.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Store.Path).Msg("open store database")
	}
	defer backing.Close()

	// Redis is optional: without it the voice pipeline just skips the
	// extraction cache.
	var rdb *goredis.Client
	var extractionCache ports.ExtractionCache
	connectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	rdb, err = redis.Connect(connectCtx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	cancel()
	if err != nil {
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, extraction cache disabled")
		rdb = nil
	} else {
		extractionCache = redis.NewExtractionCache(rdb)
	}

	records := store.New(backing, log)

	userService := service.NewUserService(records, cfg.JWTSecret, log)
	habitService := service.NewHabitService(records, records, log)
	bloodworkService := service.NewBloodworkService(records, records, cfg.Store.BlobBaseURL, log)
	syncService := service.NewSyncService(records, records, log)
	adminService := service.NewAdminService(records, log)
	voiceService := service.NewVoiceService(
		voice.NewTranscriberClient(cfg.Voice.TranscribeURL, cfg.Voice.Timeout),
		voice.NewExtractorClient(cfg.Voice.ExtractURL, cfg.Voice.Timeout),
		extractionCache,
		habitService,
		log,
	)

	e := api.NewRouter(api.Dependencies{
		Users:     userService,
		Habits:    habitService,
		Bloodwork: bloodworkService,
		Sync:      syncService,
		Admin:     adminService,
		Voice:     voiceService,
		Backing:   backing,
		Redis:     rdb,
		Log:       log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	log.Info().Msg("server stopped")
}
