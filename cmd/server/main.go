package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/labstack/echo/v4"

	"happythoughts/docs"
	"happythoughts/internal/auth"
	"happythoughts/internal/cache"
	"happythoughts/internal/config"
	"happythoughts/internal/db"
	"happythoughts/internal/handler"
	"happythoughts/internal/logger"
	"happythoughts/internal/router"
	"happythoughts/internal/service"
)

// @title Happy Thoughts API
// @version 1.0
// @description Sign up, sign in, post short thoughts and heart them.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey AccessToken
// @in header
// @name Authorization
// @description The raw access token returned by /signup or /signin, without a scheme prefix.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{Service: "happythoughts"}).Fatal().Err(err).Msg("load config")
	}

	log := logger.New(logger.Options{
		Service: "happythoughts",
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := db.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("open store")
	}
	log.Info().Str("driver", cfg.StoreDriver).Msg("store connected")

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if cacheClient == nil {
		log.Info().Msg("token cache disabled")
	} else if err := cacheClient.Ping(ctx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, token checks go to the store")
	}

	tokenCache := auth.NewTokenCache(cacheClient, cfg.TokenCacheTTL)

	authService := service.NewAuthService(store.Users, auth.NewBcryptHasher(), auth.RandomTokenGenerator{}, tokenCache)
	thoughtService := service.NewThoughtService(store.Thoughts)

	authHandler := handler.NewAuthHandler(authService)
	thoughtHandler := handler.NewThoughtHandler(thoughtService)
	healthHandler := handler.NewHealthHandler(store)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}

	e := echo.New()
	router.Register(e, cfg, log, authService, authHandler, thoughtHandler, healthHandler)

	go func() {
		log.Info().Str("addr", cfg.Addr()).Bool("gate_new_thought", cfg.GateNewThought).Msg("server starting")
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if err := store.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("close store")
	}
	if err := cacheClient.Close(); err != nil {
		log.Error().Err(err).Msg("close redis")
	}

	log.Info().Msg("stopped")
}
