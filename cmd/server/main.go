package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/bggcollect/internal/api"
	"github.com/vytor/bggcollect/internal/bggapi"
	"github.com/vytor/bggcollect/internal/cache"
	cachesqlite "github.com/vytor/bggcollect/internal/cache/sqlite"
	"github.com/vytor/bggcollect/internal/config"
	"github.com/vytor/bggcollect/internal/db"
	"github.com/vytor/bggcollect/internal/logger"
	"github.com/vytor/bggcollect/internal/services"
	"github.com/vytor/bggcollect/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration:\n%v", err)
		os.Exit(1)
	}

	log.Info("===========================================")
	log.Info("bggcollect server starting")
	log.Info("===========================================")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("bgg_base_url=%s", cfg.BGGBaseURL)
	log.Debug("bgg_timeout=%v", cfg.BGGTimeout)
	log.Debug("bgg_retries=%d", cfg.BGGRetries)
	log.Debug("bgg_retry_delay=%v", cfg.BGGRetryDelay)
	log.Debug("fetch_concurrency=%d", cfg.FetchConcurrency)
	log.Debug("cache_backend=%s", cfg.CacheBackend)
	log.Debug("cache_ttl=%v", cfg.CacheTTL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := &api.Server{}
	pool := worker.NewPool(1, 4)

	var responseCache cache.Cache = cache.None{}
	switch cfg.CacheBackend {
	case config.CacheMemory:
		responseCache = cache.NewMemory(cfg.CacheTTL)
	case config.CacheSQLite:
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			log.Error("failed to open database: %v", err)
			os.Exit(1)
		}
		defer func() {
			log.Debug("closing database connection")
			database.Close()
		}()
		sqliteCache := cachesqlite.New(database.DB, cfg.CacheTTL)
		responseCache = sqliteCache
		srv.DB = database

		pool.Start(ctx)
		go worker.Every(ctx, pool, cfg.CachePurgeInterval, &worker.PurgeCacheJob{Cache: sqliteCache})
	}

	client := bggapi.New(
		bggapi.WithBaseURL(cfg.BGGBaseURL),
		bggapi.WithTimeout(cfg.BGGTimeout),
		bggapi.WithRetries(uint(cfg.BGGRetries)),
		bggapi.WithRetryDelay(cfg.BGGRetryDelay),
		bggapi.WithCache(responseCache),
	)
	srv.CollectionService = services.NewCollectionService(client, cfg.FetchConcurrency)

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // queued collections can take several retries
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping background jobs")
	cancel()
	pool.Stop()

	log.Info("===========================================")
	log.Info("bggcollect server stopped")
	log.Info("===========================================")
}
