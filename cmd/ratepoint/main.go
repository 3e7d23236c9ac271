// Package main is the entry point for the ratepoint API server. It loads
// configuration, connects to services, sets up routing, and starts the
// HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"ratepoint/internal/cache"
	"ratepoint/internal/config"
	"ratepoint/internal/database"
	"ratepoint/internal/handlers"
	"ratepoint/internal/hashing"
	"ratepoint/internal/middleware"
	"ratepoint/internal/router"
	"ratepoint/internal/store"
)

func main() {
	// Structured logger for everything the server reports.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed the enumeration tables (idempotent).
	if err := database.Seed(db); err != nil {
		slog.Error("failed to seed database", "error", err)
		os.Exit(1)
	}

	// Connect to Valkey. The server runs without it; rankings are just
	// computed on every request.
	var valkeyClient *redis.Client
	valkeyClient, err = cache.ConnectValkey(cfg)
	if err != nil {
		slog.Warn("valkey unavailable, ranking cache disabled", "error", err)
		valkeyClient = nil
	} else {
		defer valkeyClient.Close()
	}
	rankings := cache.NewRankingCache(valkeyClient, cache.DefaultRankingTTL)

	// Wire the entity store and the REST façade.
	st := store.New(db, hashing.NewBcrypt())
	api := handlers.New(st, rankings)

	var limiter *middleware.RateLimiter
	if !cfg.IsDev() {
		limiter = router.DefaultRateLimiter()
		defer limiter.Stop()
	}
	r := router.New(api, limiter)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
