package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	httpH "github.com/yungbote/leetcoach-backend/internal/http/handlers"
	httpMW "github.com/yungbote/leetcoach-backend/internal/http/middleware"
	"github.com/yungbote/leetcoach-backend/internal/modules/coach/mission"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
	"github.com/yungbote/leetcoach-backend/internal/services"
)

type fakeToday struct{ calls int }

func (f *fakeToday) Get(_ context.Context, userID uuid.UUID) (*services.Today, error) {
	f.calls++
	return &services.Today{UserID: userID, DailyGoal: 5}, nil
}

type fakeMissions struct{ regenerated int }

func (f *fakeMissions) Today(_ context.Context, userID uuid.UUID) (*mission.View, error) {
	return &mission.View{UserID: userID}, nil
}

func (f *fakeMissions) Regenerate(_ context.Context, userID uuid.UUID) (*mission.View, error) {
	f.regenerated++
	return &mission.View{UserID: userID}, nil
}

func (f *fakeMissions) GenerateAll(context.Context) (services.GenerateAllResult, error) {
	return services.GenerateAllResult{Generated: 2, Skipped: 1, Total: 3}, nil
}

const testSecret = "router-secret"

func testRouter(today *fakeToday, missions *fakeMissions) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.Nop()
	return NewRouter(RouterConfig{
		Log:               log,
		AuthMiddleware:    httpMW.NewAuthMiddleware(log, httpMW.NewTokenVerifier(testSecret)),
		RegenerateLimiter: httpMW.NewUserRateLimiter(rate.Every(time.Hour), 1),
		CronSecret:        "cron",
		HealthHandler:     httpH.NewHealthHandler(nil),
		TodayHandler:      httpH.NewTodayHandler(log, today),
		MissionHandler:    httpH.NewMissionHandler(log, missions),
	})
}

func bearer(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	tok, err := httpMW.NewTokenVerifier(testSecret).Sign(userID, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	return "Bearer " + tok
}

func serve(r *gin.Engine, method, path, auth string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_HealthcheckIsPublic(t *testing.T) {
	r := testRouter(&fakeToday{}, &fakeMissions{})
	w := serve(r, http.MethodGet, "/healthcheck", "", nil)
	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Fatalf("expected 200 ok, got %d %q", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected request id header")
	}
}

func TestRouter_ProtectedNeedsToken(t *testing.T) {
	today := &fakeToday{}
	r := testRouter(today, &fakeMissions{})

	w := serve(r, http.MethodGet, "/api/today", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if today.calls != 0 {
		t.Fatalf("handler ran without a token")
	}

	userID := uuid.New()
	w = serve(r, http.MethodGet, "/api/today", bearer(t, userID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var got services.Today
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.UserID != userID {
		t.Fatalf("expected user from token, got %s", got.UserID)
	}
}

func TestRouter_RegenerateIsRateLimited(t *testing.T) {
	missions := &fakeMissions{}
	r := testRouter(&fakeToday{}, missions)
	auth := bearer(t, uuid.New())

	if w := serve(r, http.MethodPost, "/api/mission/regenerate", auth, nil); w.Code != http.StatusOK {
		t.Fatalf("first regenerate: expected 200, got %d", w.Code)
	}
	if w := serve(r, http.MethodPost, "/api/mission/regenerate", auth, nil); w.Code != http.StatusTooManyRequests {
		t.Fatalf("second regenerate: expected 429, got %d", w.Code)
	}
	if missions.regenerated != 1 {
		t.Fatalf("expected one regenerate call, got %d", missions.regenerated)
	}
}

func TestRouter_GenerateAllNeedsCronSecret(t *testing.T) {
	r := testRouter(&fakeToday{}, &fakeMissions{})

	if w := serve(r, http.MethodPost, "/api/internal/missions/generate-all", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without secret, got %d", w.Code)
	}
	w := serve(r, http.MethodPost, "/api/internal/missions/generate-all", "", map[string]string{"X-Cron-Secret": "cron"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var got services.GenerateAllResult
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Generated != 2 || got.Total != 3 {
		t.Fatalf("unexpected result: %+v", got)
	}
}
