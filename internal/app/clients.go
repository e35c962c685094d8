package app

import (
	"context"
	"fmt"

	"github.com/facebookgo/clock"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/leetcoach-backend/internal/platform/cache"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
	"github.com/yungbote/leetcoach-backend/internal/platform/openai"
)

const dashboardCachePrefix = "leetcoach:"

type Clients struct {
	Redis     *goredis.Client
	Cache     cache.Cache
	Generator openai.Client // nil when no API key is configured
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config, c clock.Clock) (Clients, error) {
	log.Info("Wiring clients...")

	var out Clients

	// Redis
	if cfg.RedisAddr != "" {
		rdb, err := cache.Dial(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis: %w", err)
		}
		out.Redis = rdb
		out.Cache = cache.NewRedis(rdb, dashboardCachePrefix, cfg.DashboardTTL)
	} else {
		out.Cache = cache.NewMemory(cfg.CacheCapacity, cfg.DashboardTTL, c)
	}

	// Openai
	if cfg.OpenAI.APIKey != "" {
		gen, err := openai.NewClient(log, cfg.OpenAI)
		if err != nil {
			out.Close()
			return Clients{}, fmt.Errorf("init openai client: %w", err)
		}
		out.Generator = gen
	} else {
		log.Warn("OPENAI_API_KEY not set; missions use the deterministic plan only")
	}

	return out, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
