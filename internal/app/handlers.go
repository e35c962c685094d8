package app

import (
	"gorm.io/gorm"

	httpH "github.com/yungbote/leetcoach-backend/internal/http/handlers"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
)

type Handlers struct {
	Health         *httpH.HealthHandler
	Review         *httpH.ReviewHandler
	Recommendation *httpH.RecommendationHandler
	Objective      *httpH.ObjectiveHandler
	Mission        *httpH.MissionHandler
	Today          *httpH.TodayHandler
	Submission     *httpH.SubmissionHandler
	Path           *httpH.PathHandler
	Progress       *httpH.ProgressHandler
	Mastery        *httpH.MasteryHandler
	Onboarding     *httpH.OnboardingHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:         httpH.NewHealthHandler(db),
		Review:         httpH.NewReviewHandler(log, s.Review),
		Recommendation: httpH.NewRecommendationHandler(log, s.Recommendation),
		Objective:      httpH.NewObjectiveHandler(log, s.Objective),
		Mission:        httpH.NewMissionHandler(log, s.Mission),
		Today:          httpH.NewTodayHandler(log, s.Today),
		Submission:     httpH.NewSubmissionHandler(log, s.Submission),
		Path:           httpH.NewPathHandler(log, s.Path),
		Progress:       httpH.NewProgressHandler(log, s.Stats),
		Mastery:        httpH.NewMasteryHandler(log, s.Mastery),
		Onboarding:     httpH.NewOnboardingHandler(log, s.Onboarding),
	}
}
