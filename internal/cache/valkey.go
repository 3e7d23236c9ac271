// Package cache provides Valkey (Redis-compatible) client initialization
// and short-TTL caching for the tag ranking responses.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"ratepoint/internal/config"
)

// ConnectValkey opens the optional Valkey client behind the ranking cache
// and verifies the connection with a ping. Callers treat a failure as
// "no cache", not as a startup error.
func ConnectValkey(cfg *config.Config) (*redis.Client, error) {
	addr := net.JoinHostPort(cfg.ValkeyHost, cfg.ValkeyPort)
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.ValkeyPassword,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("valkey ping: %w", err)
	}

	slog.Info("valkey connected", "addr", addr)
	return client, nil
}
