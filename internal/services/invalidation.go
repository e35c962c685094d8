package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/leetcoach-backend/internal/observability"
	"github.com/yungbote/leetcoach-backend/internal/platform/cache"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
)

const (
	DefaultDashboardTTL = 300 * time.Second
	dashboardKeyPrefix  = "today:"
)

// DashboardCache stores rendered Today views per user. Every write path for a
// user calls Invalidate; failures are logged and never surface.
type DashboardCache struct {
	store cache.Cache
	ttl   time.Duration
	log   *logger.Logger
}

func NewDashboardCache(store cache.Cache, ttl time.Duration, log *logger.Logger) *DashboardCache {
	if store == nil {
		store = cache.Nop{}
	}
	if ttl <= 0 {
		ttl = DefaultDashboardTTL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardCache{store: store, ttl: ttl, log: log.With("service", "DashboardCache")}
}

func dashboardKey(userID uuid.UUID) string { return dashboardKeyPrefix + userID.String() }

func (d *DashboardCache) load(ctx context.Context, userID uuid.UUID) (*Today, bool) {
	if d == nil {
		return nil, false
	}
	raw, ok, err := d.store.Get(ctx, dashboardKey(userID))
	if err != nil {
		observability.IncCache("error")
		d.log.Warn("dashboard cache get failed", "user_id", userID, "error", err)
		return nil, false
	}
	if !ok {
		observability.IncCache("miss")
		return nil, false
	}
	var out Today
	if err := json.Unmarshal(raw, &out); err != nil {
		observability.IncCache("error")
		d.log.Warn("dashboard cache entry unreadable", "user_id", userID, "error", err)
		return nil, false
	}
	observability.IncCache("hit")
	return &out, true
}

func (d *DashboardCache) put(ctx context.Context, userID uuid.UUID, v *Today) {
	if d == nil || v == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		d.log.Warn("dashboard marshal failed", "user_id", userID, "error", err)
		return
	}
	if err := d.store.Set(ctx, dashboardKey(userID), raw, d.ttl); err != nil {
		d.log.Warn("dashboard cache set failed", "user_id", userID, "error", err)
	}
}

// Invalidate drops the user's dashboard entry.
func (d *DashboardCache) Invalidate(ctx context.Context, userID uuid.UUID) {
	if d == nil || userID == uuid.Nil {
		return
	}
	if err := d.store.Delete(ctx, dashboardKey(userID)); err != nil {
		d.log.Warn("dashboard cache invalidate failed", "user_id", userID, "error", err)
	}
}
