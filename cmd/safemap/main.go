package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/mr1hm/safemap/internal/api"
	"github.com/mr1hm/safemap/internal/broadcast"
	"github.com/mr1hm/safemap/internal/cache"
	"github.com/mr1hm/safemap/internal/config"
	"github.com/mr1hm/safemap/internal/ingestion"
	"github.com/mr1hm/safemap/internal/logging"
	"github.com/mr1hm/safemap/internal/repository"
	"github.com/mr1hm/safemap/internal/safety"
	"github.com/mr1hm/safemap/internal/sources"
	"github.com/mr1hm/safemap/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	store, err := cache.New(cfg.Cache.RedisURL)
	if err != nil {
		logging.Fatalf("Failed to initialize cache: %v", err)
	}
	defer store.Close()

	client := sources.NewClient(cfg.Providers,
		sources.WithCache(store, cfg.Cache.WeatherTTL, cfg.Cache.NewsTTL))
	svc := safety.NewService(client, client, cfg.Providers.Timeout)

	if dir := filepath.Dir(cfg.DB.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logging.Fatalf("Failed to create data directory: %v", err)
		}
	}
	db, err := repository.NewSQLiteDB(cfg.DB.Path)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	broadcaster := broadcast.NewBroadcaster()

	var mgr *ingestion.Manager
	if cfg.Alerts.Enabled {
		mgr = ingestion.NewManager(cfg, db, broadcaster, ingestion.DefaultPollers(cfg, client)...)
		mgr.Start(ctx)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(cfg.Server.AllowedOrigins)))
	router.Use(api.RateLimitMiddleware(cfg.Server.RateLimit))

	deps := api.Deps{
		Safety:      svc,
		Alerts:      db,
		Broadcaster: broadcaster,
		AlertsQuery: cfg.Alerts.Query,
	}
	if cfg.Providers.NewsAPIKey != "" {
		deps.Search = client
	}
	if mgr != nil {
		deps.Stats = func() worker.Stats { return mgr.Stats() }
	}
	handler := api.NewHandler(deps)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	cancel()
	if mgr != nil {
		mgr.Stop()
	}
	broadcaster.Close() // ends open alert streams

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Length", "Retry-After"},
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
