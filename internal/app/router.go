package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/leetcoach-backend/internal/http"
	"github.com/yungbote/leetcoach-backend/internal/observability"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, metrics *observability.Metrics, h Handlers, mw Middleware) *gin.Engine {
	serviceName := ""
	if cfg.OtelEnabled {
		serviceName = cfg.ServiceName
	}
	return http.NewRouter(http.RouterConfig{
		Log:               log,
		AuthMiddleware:    mw.Auth,
		RegenerateLimiter: mw.Regenerate,
		Metrics:           metrics,
		CronSecret:        cfg.CronSecret,
		CORSOrigins:       cfg.CORSOrigins,
		ServiceName:       serviceName,

		HealthHandler:         h.Health,
		ReviewHandler:         h.Review,
		RecommendationHandler: h.Recommendation,
		ObjectiveHandler:      h.Objective,
		MissionHandler:        h.Mission,
		TodayHandler:          h.Today,
		SubmissionHandler:     h.Submission,
		PathHandler:           h.Path,
		ProgressHandler:       h.Progress,
		MasteryHandler:        h.Mastery,
		OnboardingHandler:     h.Onboarding,
	})
}
