package app

import (
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DASHBOARD_CACHE_TTL_SECONDS", "MISSION_GENERATOR_TIMEOUT_SECONDS", "REGENERATE_RATE_PER_SECOND", "REGENERATE_BURST", "OPENAI_API_KEY", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}

	cfg := LoadConfig(logger.Nop())
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %q", cfg.Port)
	}
	if cfg.DashboardTTL != 300*time.Second || cfg.GeneratorTimeout != 30*time.Second {
		t.Fatalf("unexpected durations: ttl=%s timeout=%s", cfg.DashboardTTL, cfg.GeneratorTimeout)
	}
	if cfg.RegenerateRate != rate.Every(5*time.Second) || cfg.RegenerateBurst != 3 {
		t.Fatalf("unexpected limiter: %v/%d", cfg.RegenerateRate, cfg.RegenerateBurst)
	}
	if cfg.OpenAI.APIKey != "" || cfg.CORSOrigins != nil {
		t.Fatalf("expected empty optional settings, got %+v", cfg)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DASHBOARD_CACHE_TTL_SECONDS", "60")
	t.Setenv("REGENERATE_RATE_PER_SECOND", "2")
	t.Setenv("REGENERATE_BURST", "7")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("POSTGRES_DSN", "postgres://u:p@db:5432/x")

	cfg := LoadConfig(logger.Nop())
	if cfg.Port != "9000" || cfg.DashboardTTL != time.Minute {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.RegenerateRate != 2 || cfg.RegenerateBurst != 7 {
		t.Fatalf("unexpected limiter: %v/%d", cfg.RegenerateRate, cfg.RegenerateBurst)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %v", cfg.CORSOrigins)
	}
	if cfg.PostgresDSN != "postgres://u:p@db:5432/x" {
		t.Fatalf("unexpected dsn: %q", cfg.PostgresDSN)
	}
}
