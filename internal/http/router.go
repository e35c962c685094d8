package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/leetcoach-backend/internal/http/handlers"
	httpMW "github.com/yungbote/leetcoach-backend/internal/http/middleware"
	"github.com/yungbote/leetcoach-backend/internal/observability"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	AuthMiddleware *httpMW.AuthMiddleware
	Metrics        *observability.Metrics
	CronSecret     string
	CORSOrigins    []string

	// RegenerateLimiter guards mission regeneration per user; nil disables it.
	RegenerateLimiter *httpMW.UserRateLimiter

	// ServiceName enables otelgin spans when non-empty.
	ServiceName string

	HealthHandler         *httpH.HealthHandler
	ReviewHandler         *httpH.ReviewHandler
	RecommendationHandler *httpH.RecommendationHandler
	ObjectiveHandler      *httpH.ObjectiveHandler
	MissionHandler        *httpH.MissionHandler
	TodayHandler          *httpH.TodayHandler
	SubmissionHandler     *httpH.SubmissionHandler
	PathHandler           *httpH.PathHandler
	ProgressHandler       *httpH.ProgressHandler
	MasteryHandler        *httpH.MasteryHandler
	OnboardingHandler     *httpH.OnboardingHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")

	// Cron
	if cfg.MissionHandler != nil {
		internal := api.Group("/internal", httpMW.RequireCronSecret(cfg.CronSecret))
		internal.POST("/missions/generate-all", cfg.MissionHandler.GenerateAll)
	}

	protected := api.Group("")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Reviews
		if cfg.ReviewHandler != nil {
			protected.GET("/reviews", cfg.ReviewHandler.List)
			protected.GET("/reviews/count", cfg.ReviewHandler.Count)
			protected.POST("/reviews", cfg.ReviewHandler.Add)
			protected.POST("/reviews/grade", cfg.ReviewHandler.Grade)
			protected.POST("/reviews/:id/complete", cfg.ReviewHandler.Complete)
			protected.DELETE("/reviews/:id", cfg.ReviewHandler.Remove)
		}

		// Recommendations
		if cfg.RecommendationHandler != nil {
			protected.GET("/recommendations", cfg.RecommendationHandler.List)
			protected.GET("/recommendations/next", cfg.RecommendationHandler.Next)
		}

		// Objectives
		if cfg.ObjectiveHandler != nil {
			protected.GET("/objectives/templates", cfg.ObjectiveHandler.ListTemplates)
			protected.GET("/objectives/templates/:id", cfg.ObjectiveHandler.GetTemplate)
			protected.POST("/objectives", cfg.ObjectiveHandler.Create)
			protected.GET("/objectives", cfg.ObjectiveHandler.Get)
			protected.PUT("/objectives", cfg.ObjectiveHandler.Update)
			protected.DELETE("/objectives", cfg.ObjectiveHandler.Delete)
			protected.GET("/objectives/pace", cfg.ObjectiveHandler.Pace)
		}

		// Mission
		if cfg.MissionHandler != nil {
			protected.GET("/mission", cfg.MissionHandler.Get)
			regenerate := []gin.HandlerFunc{}
			if cfg.RegenerateLimiter != nil {
				regenerate = append(regenerate, cfg.RegenerateLimiter.Middleware("mission_regenerate"))
			}
			regenerate = append(regenerate, cfg.MissionHandler.Regenerate)
			protected.POST("/mission/regenerate", regenerate...)
		}

		// Today
		if cfg.TodayHandler != nil {
			protected.GET("/today", cfg.TodayHandler.Get)
		}

		// Submissions
		if cfg.SubmissionHandler != nil {
			protected.POST("/submissions", cfg.SubmissionHandler.Create)
			protected.POST("/submissions/batch", cfg.SubmissionHandler.CreateBatch)
		}

		// Paths
		if cfg.PathHandler != nil {
			protected.GET("/paths", cfg.PathHandler.List)
			protected.GET("/paths/:id", cfg.PathHandler.Get)
			protected.PUT("/paths/current", cfg.PathHandler.SetCurrent)
			protected.POST("/paths/:id/complete", cfg.PathHandler.CompleteProblem)
		}

		// Progress
		if cfg.ProgressHandler != nil {
			protected.GET("/progress", cfg.ProgressHandler.Get)
			protected.GET("/progress/stats", cfg.ProgressHandler.Stats)
			protected.GET("/progress/skills", cfg.ProgressHandler.Skills)
			protected.GET("/submissions", cfg.ProgressHandler.History)
		}

		// Mastery
		if cfg.MasteryHandler != nil {
			protected.GET("/mastery", cfg.MasteryHandler.Get)
			protected.GET("/mastery/:domain", cfg.MasteryHandler.Domain)
		}

		// Onboarding
		if cfg.OnboardingHandler != nil {
			protected.GET("/onboarding", cfg.OnboardingHandler.Get)
			protected.POST("/onboarding/step", cfg.OnboardingHandler.UpdateStep)
			protected.POST("/onboarding/skip-step", cfg.OnboardingHandler.Skip)
			protected.POST("/onboarding/verify-extension", cfg.OnboardingHandler.VerifyExtension)
			protected.POST("/onboarding/import-history", cfg.OnboardingHandler.ImportHistory)
			protected.POST("/onboarding/complete", cfg.OnboardingHandler.Complete)
			protected.DELETE("/onboarding", cfg.OnboardingHandler.Reset)
		}
	}

	return r
}
