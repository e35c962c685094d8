package app

import (
	"github.com/facebookgo/clock"

	"github.com/yungbote/leetcoach-backend/internal/modules/coach/mission"
	"github.com/yungbote/leetcoach-backend/internal/modules/coach/reviews"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
	"github.com/yungbote/leetcoach-backend/internal/services"
)

type Services struct {
	Queue     *reviews.Queue
	Assembler *mission.Assembler
	Dashboard *services.DashboardCache

	Review         services.ReviewService
	Recommendation services.RecommendationService
	Objective      services.ObjectiveService
	Mission        services.MissionService
	Today          services.TodayService
	Submission     services.SubmissionService
	Path           services.PathService
	Stats          services.StatsService
	Mastery        services.MasteryService
	Onboarding     services.OnboardingService
}

func wireServices(log *logger.Logger, cfg Config, r Repos, clients Clients, c clock.Clock) Services {
	log.Info("Wiring services...")

	dashboard := services.NewDashboardCache(clients.Cache, cfg.DashboardTTL, log)
	queue := reviews.New(reviews.Deps{Log: log, Store: r.ReviewItem, Clock: c})

	missionContext := services.NewMissionContext(log, services.MissionContextRepos{
		Goals:       r.Goal,
		Settings:    r.Settings,
		Paths:       r.Path,
		Progress:    r.Progress,
		Skills:      r.Skill,
		Reviews:     r.ReviewItem,
		Submissions: r.Submission,
		Attempts:    r.Attempts,
		Streaks:     r.Streak,
	})

	deps := mission.Deps{
		Log:              log,
		Store:            r.Mission,
		Context:          missionContext,
		Activity:         missionContext,
		Clock:            c,
		GeneratorTimeout: cfg.GeneratorTimeout,
		OnChange:         dashboard.Invalidate,
	}
	if clients.Generator != nil {
		deps.Generator = clients.Generator
	}
	assembler := mission.New(deps)

	return Services{
		Queue:     queue,
		Assembler: assembler,
		Dashboard: dashboard,

		Review:         services.NewReviewService(log, queue, dashboard),
		Recommendation: services.NewRecommendationService(log, queue, r.Skill, r.Submission, c),
		Objective:      services.NewObjectiveService(log, r.Goal, r.Template, r.Skill, r.Submission, dashboard, c),
		Mission:        services.NewMissionService(log, assembler, r.Submission, c, cfg.GenerateAllConc),
		Today: services.NewTodayService(log, services.TodayRepos{
			Goals:       r.Goal,
			Settings:    r.Settings,
			Paths:       r.Path,
			Progress:    r.Progress,
			Skills:      r.Skill,
			Submissions: r.Submission,
			Streaks:     r.Streak,
		}, queue, dashboard, c),
		Submission: services.NewSubmissionService(log, services.SubmissionRepos{
			Submissions: r.Submission,
			Attempts:    r.Attempts,
			Skills:      r.Skill,
			Settings:    r.Settings,
			Paths:       r.Path,
			Progress:    r.Progress,
			Streaks:     r.Streak,
		}, queue, dashboard, c),
		Path: services.NewPathService(log, services.PathRepos{
			Paths:       r.Path,
			Progress:    r.Progress,
			Settings:    r.Settings,
			Submissions: r.Submission,
			Streaks:     r.Streak,
		}, dashboard, c),
		Stats: services.NewStatsService(log, services.StatsRepos{
			Submissions: r.Submission,
			Skills:      r.Skill,
			Streaks:     r.Streak,
		}, queue, c),
		Mastery: services.NewMasteryService(log, services.MasteryRepos{
			Skills:      r.Skill,
			Submissions: r.Submission,
			Settings:    r.Settings,
			Paths:       r.Path,
		}),
		Onboarding: services.NewOnboardingService(log, r.Onboarding, r.Submission, c),
	}
}
