package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campushire/identity-service/internal/api"
	"github.com/campushire/identity-service/internal/core/service"
	"github.com/campushire/identity-service/internal/infrastructure/config"
	"github.com/campushire/identity-service/internal/infrastructure/profile"
	"github.com/campushire/identity-service/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	store := profile.NewClient(cfg.Profile.BaseURL, cfg.Profile.Timeout, log)
	hasher := service.NewBcryptHasher(cfg.BcryptCost)
	tokens := service.NewJWTIssuer(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(store, hasher, tokens, log)

	e := api.NewRouter(authService, tokens, store, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	log.Info().
		Str("port", cfg.Port).
		Str("profile_service", cfg.Profile.BaseURL).
		Msg("identity service started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
