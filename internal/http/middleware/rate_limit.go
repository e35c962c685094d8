package middleware

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/yungbote/leetcoach-backend/internal/http/response"
	"github.com/yungbote/leetcoach-backend/internal/observability"
	"github.com/yungbote/leetcoach-backend/internal/platform/ctxutil"
)

const (
	DefaultRegenerateEvery = 5 * time.Second
	DefaultRegenerateBurst = 3

	limiterIdleTTL = 30 * time.Minute
)

// UserRateLimiter keeps one token bucket per authenticated user.
type UserRateLimiter struct {
	limit rate.Limit
	burst int
	now   func() time.Time

	mu        sync.Mutex
	limiters  map[uuid.UUID]*userLimiter
	lastSweep time.Time
}

type userLimiter struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func NewUserRateLimiter(limit rate.Limit, burst int) *UserRateLimiter {
	if limit <= 0 {
		limit = rate.Every(DefaultRegenerateEvery)
	}
	if burst <= 0 {
		burst = DefaultRegenerateBurst
	}
	return &UserRateLimiter{
		limit:    limit,
		burst:    burst,
		now:      time.Now,
		limiters: make(map[uuid.UUID]*userLimiter),
	}
}

func (l *UserRateLimiter) Allow(userID uuid.UUID) bool {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > limiterIdleTTL {
		for id, ul := range l.limiters {
			if now.Sub(ul.lastSeen) > limiterIdleTTL {
				delete(l.limiters, id)
			}
		}
		l.lastSweep = now
	}
	ul, ok := l.limiters[userID]
	if !ok {
		ul = &userLimiter{lim: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[userID] = ul
	}
	ul.lastSeen = now
	return ul.lim.AllowN(now, 1)
}

// Middleware rejects with 429 once the caller's bucket is empty. It must run
// after RequireAuth.
func (l *UserRateLimiter) Middleware(route string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := ctxutil.UserID(c.Request.Context())
		if userID == uuid.Nil {
			c.Next()
			return
		}
		if !l.Allow(userID) {
			observability.IncRateLimited(route)
			response.RespondError(c, http.StatusTooManyRequests, "rate_limited", errors.New("too many requests, retry shortly"))
			c.Abort()
			return
		}
		c.Next()
	}
}
