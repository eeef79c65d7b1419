package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"phoneline/internal/auth"
	"phoneline/internal/config"
	"phoneline/internal/db"
	"phoneline/internal/logging"
	"phoneline/internal/restaurant"
	"phoneline/internal/router"
	"phoneline/internal/storage"
	"phoneline/internal/upstream"
)

func main() {

	// ───────────────────────── ENV ─────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ config: %v", err)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("❌ logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	location, err := cfg.Location()
	if err != nil {
		logger.Fatal("invalid RESTAURANT_TIMEZONE", zap.String("timezone", cfg.RestaurantTimezone), zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ───────────────────────── UPSTREAM ─────────────────────────
	var fetcher restaurant.Fetcher
	if cfg.UseSampleRestaurant {
		logger.Warn("serving the built-in sample restaurant for every phone line")
		fetcher = upstream.NewSampleClient()
	} else {
		fetcher = upstream.NewClient(cfg.RestaurantAPIBaseURL, cfg.UpstreamTimeout, logger)
	}

	// ───────────────────────── DB ─────────────────────────
	var repo restaurant.Repository
	if cfg.DatabaseURL != "" {
		pgDB, err := db.ConnectPostgres(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			logger.Fatal("database init failed", zap.Error(err))
		}
		defer pgDB.Close()
		repo = restaurant.NewPostgresRepository(pgDB)
	} else {
		logger.Info("DATABASE_URL not set, keeping snapshots in memory")
		repo = restaurant.NewInMemoryRepository()
	}

	// ───────────────────────── STORAGE ─────────────────────────
	var store storage.Store
	switch cfg.SnapshotStore {
	case config.SnapshotStoreLocal:
		store = storage.NewLocalStore(cfg.SnapshotDir)
	case config.SnapshotStoreR2:
		r2, err := storage.NewR2Store(ctx, cfg.R2)
		if err != nil {
			logger.Fatal("R2 init failed", zap.Error(err))
		}
		store = r2
	}

	// ───────────────────────── AUTH ─────────────────────────
	var tokens *auth.Tokens
	if cfg.JWTSecret != "" {
		tokens, err = auth.NewTokens(cfg.JWTSecret, 24*time.Hour)
		if err != nil {
			logger.Fatal("jwt init failed", zap.Error(err))
		}
	}

	// ───────────────────────── ROUTES ─────────────────────────
	restaurantService := restaurant.NewService(fetcher, repo, store, logger, location)

	engine, err := router.New(router.Options{
		Restaurants:      restaurantService,
		Tokens:           tokens,
		Logger:           logger,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		StaticDir:        cfg.StaticDir,
		APIProxyTarget:   cfg.APIProxyTarget,
	})
	if err != nil {
		logger.Fatal("router init failed", zap.Error(err))
	}

	// ───────────────────────── START ─────────────────────────
	srv := router.Server(":"+cfg.Port, engine)

	go func() {
		logger.Info("🚀 API running", zap.String("addr", "http://localhost:"+cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
