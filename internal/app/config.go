package app

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/yungbote/leetcoach-backend/internal/data/db"
	"github.com/yungbote/leetcoach-backend/internal/http/middleware"
	"github.com/yungbote/leetcoach-backend/internal/modules/coach/mission"
	"github.com/yungbote/leetcoach-backend/internal/platform/envutil"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
	"github.com/yungbote/leetcoach-backend/internal/platform/openai"
	"github.com/yungbote/leetcoach-backend/internal/services"
)

type Config struct {
	Port        string
	Environment string
	Version     string

	PostgresDSN string

	JWTSecretKey string
	CronSecret   string
	CORSOrigins  []string

	RedisAddr     string
	RedisPassword string
	DashboardTTL  time.Duration
	CacheCapacity int

	OpenAI           openai.Config
	GeneratorTimeout time.Duration
	GenerateAllConc  int

	RegenerateRate  rate.Limit
	RegenerateBurst int

	OtelEnabled     bool
	ServiceName     string
	OtelEndpoint    string
	OtelHeaders     string
	OtelInsecure    bool
	OtelSampleRatio float64
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:        envutil.String("PORT", "8080"),
		Environment: envutil.String("APP_ENV", "development"),
		Version:     envutil.String("APP_VERSION", "dev"),

		PostgresDSN: db.DSNFromEnv(),

		JWTSecretKey: envutil.String("JWT_SECRET_KEY", ""),
		CronSecret:   envutil.String("CRON_SECRET", ""),
		CORSOrigins:  envutil.List("CORS_ALLOWED_ORIGINS", nil),

		RedisAddr:     envutil.String("REDIS_ADDR", ""),
		RedisPassword: envutil.String("REDIS_PASSWORD", ""),
		DashboardTTL:  envutil.Seconds("DASHBOARD_CACHE_TTL_SECONDS", services.DefaultDashboardTTL),
		CacheCapacity: envutil.Int("DASHBOARD_CACHE_CAPACITY", 10000),

		OpenAI:           openai.ConfigFromEnv(),
		GeneratorTimeout: envutil.Seconds("MISSION_GENERATOR_TIMEOUT_SECONDS", mission.DefaultGeneratorTimeout),
		GenerateAllConc:  envutil.Int("MISSION_GENERATE_ALL_CONCURRENCY", services.DefaultGenerateAllConc),

		RegenerateRate:  rate.Limit(envutil.Float("REGENERATE_RATE_PER_SECOND", float64(rate.Every(middleware.DefaultRegenerateEvery)))),
		RegenerateBurst: envutil.Int("REGENERATE_BURST", middleware.DefaultRegenerateBurst),

		OtelEnabled:     envutil.Bool("OTEL_ENABLED", false),
		ServiceName:     envutil.String("OTEL_SERVICE_NAME", "leetcoach-api"),
		OtelEndpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OtelHeaders:     envutil.String("OTEL_EXPORTER_OTLP_HEADERS", ""),
		OtelInsecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
		OtelSampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 0.1),
	}

	if cfg.JWTSecretKey == "" {
		log.Warn("JWT_SECRET_KEY is not set; every protected request will be rejected")
	}
	if cfg.CronSecret == "" {
		log.Warn("CRON_SECRET is not set; internal batch routes are disabled")
	}
	log.Info("Config loaded",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"redis", cfg.RedisAddr != "",
		"generator", cfg.OpenAI.APIKey != "",
		"dashboard_ttl", cfg.DashboardTTL.String(),
		"otel", cfg.OtelEnabled,
	)
	return cfg
}
