package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/SimpnicServerTeam/line-profile-viewer/internal/config"
	"github.com/SimpnicServerTeam/line-profile-viewer/internal/handlers"
	"github.com/SimpnicServerTeam/line-profile-viewer/internal/logger"
	"github.com/SimpnicServerTeam/line-profile-viewer/internal/middleware"
	"github.com/SimpnicServerTeam/line-profile-viewer/internal/models"
	"github.com/SimpnicServerTeam/line-profile-viewer/internal/repository"
	"github.com/SimpnicServerTeam/line-profile-viewer/internal/repository/memory"
	redis_repo "github.com/SimpnicServerTeam/line-profile-viewer/internal/repository/redis"
	"github.com/SimpnicServerTeam/line-profile-viewer/internal/router"
	"github.com/SimpnicServerTeam/line-profile-viewer/internal/sdk"
	"github.com/SimpnicServerTeam/line-profile-viewer/internal/server"
	"github.com/SimpnicServerTeam/line-profile-viewer/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.App.LogLevel, cfg.App.Env)

	sessionRepo, closeRepo := newSessionRepository(cfg)
	defer closeRepo()

	tokenService := service.NewTokenService(cfg.Session.Secret)
	sessionService := service.NewSessionService(sessionRepo, tokenService, cfg.Session.Duration)
	lineAuth := service.NewLineAuth(cfg)
	go func() {
		if _, err := lineAuth.Discover(context.Background()); err != nil {
			log.Warn().Err(err).Msg("LINE OIDC discovery failed at startup, retrying on first request")
		}
	}()

	newSDK := func(session *models.Session, navigator sdk.Navigator, loginURL string) sdk.SDK {
		return service.NewLineSDK(lineAuth, session, navigator, loginURL)
	}

	app := server.New()
	session := middleware.Session(cfg.App.SessionCookieName, tokenService)

	router.SetupProfileRoutes(app, handlers.NewProfileHandler(sessionService, newSDK, cfg), session)
	router.SetupAuthRoutes(app, handlers.NewOAuthHandler(lineAuth, sessionService, cfg), session)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Server starting")
		if err := app.Start(":" + cfg.App.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped gracefully.")
}

func newSessionRepository(cfg *config.Config) (repository.SessionRepository, func()) {
	if cfg.Session.Store == config.SessionStoreRedis {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Str("address", cfg.Redis.Address).Msg("Failed to connect to redis")
		}
		log.Info().Str("address", cfg.Redis.Address).Msg("Using redis session store")
		return redis_repo.NewRedisSessionRepository(redisClient), func() {
			if err := redisClient.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close redis client")
			}
		}
	}

	log.Info().Msg("Using in-memory session store")
	repo := memory.NewMemorySessionRepository(time.Minute)
	return repo, repo.StopCleanup
}
