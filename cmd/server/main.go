package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appsync "github.com/catalogsync/backend/internal/application/sync"
	"github.com/catalogsync/backend/internal/infrastructure/cache"
	"github.com/catalogsync/backend/internal/infrastructure/config"
	"github.com/catalogsync/backend/internal/infrastructure/distributor"
	"github.com/catalogsync/backend/internal/infrastructure/logger"
	"github.com/catalogsync/backend/internal/infrastructure/persistence"
	"github.com/catalogsync/backend/internal/interfaces/http/handler"
	"github.com/catalogsync/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("failed to build logger: " + err.Error())
	}
	defer log.Sync() //nolint:errcheck

	gormLogger := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogger)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	catalogCache := cache.NewDisabledCatalogCache()
	if cfg.Redis.Enabled {
		catalogCache, err = cache.NewCatalogCache(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cache.WithTTL(cfg.Sync.CacheTTL), cache.WithLogger(log))
		if err != nil {
			log.Warn("redis unavailable, caching disabled", zap.Error(err))
		}
		defer catalogCache.Close()
	}

	providerRepo := persistence.NewGormProviderRepository(db.DB)
	brandRepo := persistence.NewGormBrandRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	jobRepo := persistence.NewGormSyncJobRepository(db.DB)

	registry := distributor.NewRegistry(&cfg.Providers)

	syncService := appsync.NewSyncService(
		providerRepo, brandRepo, categoryRepo, productRepo, jobRepo, registry,
		log.Named("sync"),
		appsync.WithPageSize(cfg.Sync.PageSize),
		appsync.WithJobTimeout(cfg.Sync.JobTimeout),
		appsync.WithDeltaOverlap(cfg.Sync.DeltaOverlap),
		appsync.WithMaxJobLogLines(cfg.Sync.MaxJobLogLines),
		appsync.WithCache(catalogCache),
	)
	jobService := appsync.NewJobService(jobRepo, providerRepo)
	providerService := appsync.NewProviderService(providerRepo, productRepo, catalogCache, log.Named("providers"))

	engine := router.New(log.Named("http"), router.Handlers{
		Sync:     handler.NewSyncHandler(syncService, jobService),
		Provider: handler.NewProviderHandler(providerService, syncService),
		Health:   handler.NewHealthHandler(db),
	}, cfg.App.Env)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Env),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
