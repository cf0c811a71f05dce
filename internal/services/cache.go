package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/platewise/recipeledger/internal/logger"
	"github.com/platewise/recipeledger/internal/utils"
)

// ActiveVersionCache is a read-through cache for the hot "get active
// version" path. It is strictly optional: every failure degrades to a
// database read and is logged, never surfaced to callers.
type ActiveVersionCache interface {
	Get(ctx context.Context, kind string, recipeID uuid.UUID, out any) bool
	Set(ctx context.Context, kind string, recipeID uuid.UUID, snapshot any)
	Invalidate(ctx context.Context, kind string, recipeID uuid.UUID)
}

type redisActiveVersionCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewActiveVersionCache(log *logger.Logger) (ActiveVersionCache, error) {
	addr := strings.TrimSpace(utils.GetEnv("REDIS_ADDR", "", log))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ttlSeconds := utils.GetEnvAsInt("ACTIVE_VERSION_CACHE_TTL", 600, log)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisActiveVersionCache{
		log: log.With("service", "ActiveVersionCache"),
		rdb: rdb,
		ttl: time.Duration(ttlSeconds) * time.Second,
	}, nil
}

func cacheKey(kind string, recipeID uuid.UUID) string {
	return fmt.Sprintf("active_version:%s:%s", kind, recipeID)
}

func (c *redisActiveVersionCache) Get(ctx context.Context, kind string, recipeID uuid.UUID, out any) bool {
	raw, err := c.rdb.Get(ctx, cacheKey(kind, recipeID)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("Cache read failed", "error", err, "recipe_id", recipeID)
		}
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.log.Warn("Cache entry could not be decoded, dropping it", "error", err, "recipe_id", recipeID)
		_ = c.rdb.Del(ctx, cacheKey(kind, recipeID)).Err()
		return false
	}
	return true
}

func (c *redisActiveVersionCache) Set(ctx context.Context, kind string, recipeID uuid.UUID, snapshot any) {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		c.log.Warn("Cache encode failed", "error", err, "recipe_id", recipeID)
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(kind, recipeID), raw, c.ttl).Err(); err != nil {
		c.log.Warn("Cache write failed", "error", err, "recipe_id", recipeID)
	}
}

func (c *redisActiveVersionCache) Invalidate(ctx context.Context, kind string, recipeID uuid.UUID) {
	if err := c.rdb.Del(ctx, cacheKey(kind, recipeID)).Err(); err != nil {
		c.log.Warn("Cache invalidation failed", "error", err, "recipe_id", recipeID)
	}
}
