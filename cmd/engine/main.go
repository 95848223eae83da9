// ====================================
// File: cmd/engine/main.go
// ====================================
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/propscout/dealengine/internal/cache"
	"github.com/propscout/dealengine/internal/config"
	"github.com/propscout/dealengine/internal/engine/score"
	"github.com/propscout/dealengine/internal/logger"
	"github.com/propscout/dealengine/internal/server"
	"github.com/propscout/dealengine/internal/storage"
	"github.com/propscout/dealengine/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		zap.NewExample().Fatal("Failed to load configuration", zap.Error(err))
	}

	log, err := logger.New(&logger.Config{
		LogFile:     cfg.LogFile,
		MaxSize:     100,
		MaxAge:      7,
		MaxBackups:  3,
		Compress:    true,
		Development: cfg.DebugLogging,
	})
	if err != nil {
		zap.NewExample().Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer log.Sync()

	log.Info("Starting deal engine",
		zap.String("listen_addr", cfg.ListenAddr),
		zap.String("engine_version", cfg.Engine.Version),
	)

	store := openStorage(cfg, log)
	defer store.Close()

	verdictCache := openCache(ctx, cfg, log)

	handler := server.NewHandler(cfg.Engine, score.HeuristicSignals{},
		verdictCache, store, log)
	srv := server.New(cfg, handler, log.WithComponent("http"))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			log.Error("Server error", zap.Error(err))
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
	log.Info("Deal engine stopped")
}

// openStorage prefers postgres and falls back to in-memory history when no
// DSN is configured or the database is unreachable.
func openStorage(cfg *config.Config, log *logger.Logger) storage.Storage {
	if cfg.PostgresURL == "" {
		log.Info("No postgres_url configured, using in-memory verdict history")
		return storage.NewMemoryStorage()
	}

	store, err := postgres.NewStorage(cfg.PostgresURL, log.WithComponent("storage"))
	if err != nil {
		log.Warn("Postgres unavailable, using in-memory verdict history", zap.Error(err))
		return storage.NewMemoryStorage()
	}
	if err := store.RunMigrations(); err != nil {
		log.Warn("Migrations failed, using in-memory verdict history", zap.Error(err))
		_ = store.Close()
		return storage.NewMemoryStorage()
	}
	return store
}

// openCache connects to redis when configured; otherwise verdicts are
// recomputed on every request.
func openCache(ctx context.Context, cfg *config.Config, log *logger.Logger) cache.VerdictCache {
	if cfg.RedisAddr == "" {
		log.Info("No redis_addr configured, verdict caching disabled")
		return cache.Noop{}
	}

	c, err := cache.NewRedisCache(ctx, cfg.RedisAddr, cfg.CacheTTL, log.WithComponent("cache"))
	if err != nil {
		log.Warn("Redis unavailable, verdict caching disabled", zap.Error(err))
		return cache.Noop{}
	}
	return c
}
