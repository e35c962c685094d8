package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/yungbote/leetcoach-backend/internal/platform/ctxutil"
)

func TestUserRateLimiter_PerUserBuckets(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)
	l := NewUserRateLimiter(rate.Every(5*time.Second), 2)
	l.now = func() time.Time { return now }

	a, b := uuid.New(), uuid.New()
	if !l.Allow(a) || !l.Allow(a) {
		t.Fatalf("burst of 2 should be allowed")
	}
	if l.Allow(a) {
		t.Fatalf("third call should be limited")
	}
	if !l.Allow(b) {
		t.Fatalf("other users keep their own bucket")
	}
	now = now.Add(5 * time.Second)
	if !l.Allow(a) {
		t.Fatalf("token should refill after the interval")
	}
}

func TestUserRateLimiter_Middleware(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	userID := uuid.New()
	l := NewUserRateLimiter(rate.Every(time.Hour), 1)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{UserID: userID}))
		c.Next()
	})
	r.POST("/regenerate", l.Middleware("mission_regenerate"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := []int{}
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/regenerate", nil))
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("unexpected statuses: %v", codes)
	}
}

func TestRequireCronSecret(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		secret string
		header string
		status int
	}{
		{"match", "s3cret", "s3cret", http.StatusOK},
		{"mismatch", "s3cret", "nope", http.StatusUnauthorized},
		{"missing", "s3cret", "", http.StatusUnauthorized},
		{"disabled", "", "anything", http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.POST("/cron", RequireCronSecret(tc.secret), func(c *gin.Context) { c.Status(http.StatusOK) })
			req := httptest.NewRequest(http.MethodPost, "/cron", nil)
			if tc.header != "" {
				req.Header.Set("X-Cron-Secret", tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("status: got=%d want=%d", rec.Code, tc.status)
			}
		})
	}
}
