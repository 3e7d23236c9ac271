// ranking.go provides a Valkey-backed cache for the popular and trending
// tag rankings. The rankings scan every post-tag link, so the HTTP layer
// caches the encoded response briefly. The persistence layer itself never
// reads from the cache.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// rankingKeyPrefix is the Valkey key prefix for cached rankings.
	rankingKeyPrefix = "ranking:"

	// DefaultRankingTTL is how long a computed ranking stays cached.
	DefaultRankingTTL = 1 * time.Minute
)

// RankingCache caches encoded tag-ranking responses in Valkey. A nil client
// disables caching: every Get misses and every Set is dropped, so callers
// need no availability checks.
type RankingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRankingCache creates a ranking cache backed by the given Valkey
// client, which may be nil.
func NewRankingCache(client *redis.Client, ttl time.Duration) *RankingCache {
	if ttl == 0 {
		ttl = DefaultRankingTTL
	}
	return &RankingCache{client: client, ttl: ttl}
}

// Get retrieves a cached ranking by key. Returns false on miss.
func (rc *RankingCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if rc.client == nil {
		return nil, false
	}
	val, err := rc.client.Get(ctx, rankingKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("ranking cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("ranking cache hit", "key", key)
	return val, true
}

// Set stores an encoded ranking with the configured TTL.
func (rc *RankingCache) Set(ctx context.Context, key string, data []byte) {
	if rc.client == nil {
		return
	}
	if err := rc.client.Set(ctx, rankingKeyPrefix+key, data, rc.ttl).Err(); err != nil {
		slog.Warn("ranking cache set error", "key", key, "error", err)
	}
}

// Invalidate removes one cached ranking.
func (rc *RankingCache) Invalidate(ctx context.Context, key string) {
	if rc.client == nil {
		return
	}
	if err := rc.client.Del(ctx, rankingKeyPrefix+key).Err(); err != nil {
		slog.Warn("ranking cache invalidate error", "key", key, "error", err)
	}
}
