package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/cv-builder-api/internal/api"
	"github.com/dom/cv-builder-api/internal/cache"
	"github.com/dom/cv-builder-api/internal/config"
	"github.com/dom/cv-builder-api/internal/logging"
	"github.com/dom/cv-builder-api/internal/repository/postgres"
	"github.com/dom/cv-builder-api/internal/service"
	"github.com/dom/cv-builder-api/internal/storage"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logging.Setup(cfg.LogLevel, cfg.Environment)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Initialize database
	gormLevel := logger.Warn
	if cfg.IsDevelopment() {
		gormLevel = logger.Info
	}
	db, err := postgres.NewConnection(ctx, cfg.DatabaseURL, gormLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to access database pool")
	}
	defer sqlDB.Close()

	repos := postgres.NewRepositories(db)

	cvCache, closeCache := newCache(ctx, cfg)
	defer closeCache()

	store := newStore(ctx, cfg)

	services := service.NewServices(repos, cvCache, store, cfg)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := services.User.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatal().Err(err).Msg("failed to create administrator")
		}
	}

	router := api.NewRouter(services, repos, store, cfg)

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("environment", cfg.Environment).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// newCache uses redis when configured and an in-process cache otherwise.
func newCache(ctx context.Context, cfg *config.Config) (cache.Cache, func()) {
	if cfg.RedisURL == "" {
		log.Warn().Msg("REDIS_URL not set, using in-process CV cache")
		return cache.NewMemoryCache(cfg.CVCacheTTL), func() {}
	}

	redisCache, err := cache.NewRedisCache(ctx, cfg.RedisURL, cfg.CVCacheTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	return redisCache, func() {
		if err := redisCache.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close redis client")
		}
	}
}

func newStore(ctx context.Context, cfg *config.Config) storage.Store {
	switch cfg.StorageDriver {
	case config.StorageS3:
		store, err := storage.NewS3Store(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to configure s3 storage")
		}
		return store
	default:
		store, err := storage.NewDiskStore(cfg.UploadDir)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to configure disk storage")
		}
		return store
	}
}
