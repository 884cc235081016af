package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/parcelworks/bylaw/zoning"
)

// resultCache caches evaluation results in Redis. The engine itself is
// deterministic, so a cached result is always as good as a fresh one; the
// cache only saves work under repeated lookups of the same property. A nil
// resultCache disables caching entirely.
type resultCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func newResultCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *resultCache {
	if client == nil {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &resultCache{client: client, ttl: ttl, logger: logger}
}

// key derives a stable cache key from the designation and geometry. The
// geometry's JSON form distinguishes absent fields from zeroes, so two
// requests collide only when they are genuinely identical inputs.
func (c *resultCache) key(designation string, geom zoning.LotGeometry) string {
	payload, _ := json.Marshal(struct {
		Designation string             `json:"d"`
		Geometry    zoning.LotGeometry `json:"g"`
	}{designation, geom})
	sum := sha256.Sum256(payload)
	return "bylaw:eval:" + hex.EncodeToString(sum[:16])
}

func (c *resultCache) get(ctx context.Context, key string) (*zoning.DevelopmentPotential, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache read failed", "error", err)
		}
		cacheMissesTotal.Inc()
		return nil, false
	}
	var res zoning.DevelopmentPotential
	if err := json.Unmarshal(data, &res); err != nil {
		c.logger.Warn("cache entry corrupt, ignoring", "key", key, "error", err)
		cacheMissesTotal.Inc()
		return nil, false
	}
	cacheHitsTotal.Inc()
	return &res, true
}

func (c *resultCache) set(ctx context.Context, key string, res *zoning.DevelopmentPotential) {
	if c == nil {
		return
	}
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", "error", err)
	}
}
