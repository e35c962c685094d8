package services

import (
	"context"
	"testing"
	"time"

	"github.com/facebookgo/clock"
	"gorm.io/gorm"

	"github.com/yungbote/leetcoach-backend/internal/data/catalog"
	"github.com/yungbote/leetcoach-backend/internal/data/repos"
	"github.com/yungbote/leetcoach-backend/internal/data/repos/testutil"
	"github.com/yungbote/leetcoach-backend/internal/modules/coach/reviews"
	"github.com/yungbote/leetcoach-backend/internal/platform/cache"
	"github.com/yungbote/leetcoach-backend/internal/platform/dbctx"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
)

// harness wires every service over one seeded test database.
type harness struct {
	db    *gorm.DB
	log   *logger.Logger
	clock *clock.Mock
	cache *cache.Memory

	goals       repos.GoalRepo
	templates   repos.ObjectiveTemplateRepo
	paths       repos.LearningPathRepo
	progress    repos.PathProgressRepo
	settings    repos.UserSettingsRepo
	submissions repos.SubmissionRepo
	attempts    repos.AttemptStatsRepo
	skills      repos.SkillScoreRepo
	streaks     repos.StreakRepo
	reviewItems repos.ReviewItemRepo

	queue     *reviews.Queue
	dashboard *DashboardCache
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	clk := clock.NewMock()
	clk.Add(time.Date(2024, 3, 6, 15, 0, 0, 0, time.UTC).Sub(clk.Now()))

	h := &harness{
		db:          db,
		log:         log,
		clock:       clk,
		goals:       repos.NewGoalRepo(db, log),
		templates:   repos.NewObjectiveTemplateRepo(db, log),
		paths:       repos.NewLearningPathRepo(db, log),
		progress:    repos.NewPathProgressRepo(db, log),
		settings:    repos.NewUserSettingsRepo(db, log),
		submissions: repos.NewSubmissionRepo(db, log),
		attempts:    repos.NewAttemptStatsRepo(db, log),
		skills:      repos.NewSkillScoreRepo(db, log),
		streaks:     repos.NewStreakRepo(db, log),
		reviewItems: repos.NewReviewItemRepo(db, log),
	}
	h.cache = cache.NewMemory(64, time.Minute, clk)
	h.dashboard = NewDashboardCache(h.cache, time.Minute, log)
	h.queue = reviews.New(reviews.Deps{Log: log, Store: h.reviewItems, Clock: clk})

	c, err := catalog.Load()
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}
	if err := catalog.Seed(dbctx.Context{Ctx: context.Background()}, log, c, h.paths, h.templates); err != nil {
		t.Fatalf("catalog.Seed: %v", err)
	}
	return h
}

func (h *harness) submissionService() SubmissionService {
	return NewSubmissionService(h.log, SubmissionRepos{
		Submissions: h.submissions,
		Attempts:    h.attempts,
		Skills:      h.skills,
		Settings:    h.settings,
		Paths:       h.paths,
		Progress:    h.progress,
		Streaks:     h.streaks,
	}, h.queue, h.dashboard, h.clock)
}

func (h *harness) todayService() TodayService {
	return NewTodayService(h.log, TodayRepos{
		Goals:       h.goals,
		Settings:    h.settings,
		Paths:       h.paths,
		Progress:    h.progress,
		Skills:      h.skills,
		Submissions: h.submissions,
		Streaks:     h.streaks,
	}, h.queue, h.dashboard, h.clock)
}

func (h *harness) objectiveService() ObjectiveService {
	return NewObjectiveService(h.log, h.goals, h.templates, h.skills, h.submissions, h.dashboard, h.clock)
}

func (h *harness) pathService() PathService {
	return NewPathService(h.log, PathRepos{
		Paths:       h.paths,
		Progress:    h.progress,
		Settings:    h.settings,
		Submissions: h.submissions,
		Streaks:     h.streaks,
	}, h.dashboard, h.clock)
}

func (h *harness) statsService() StatsService {
	return NewStatsService(h.log, StatsRepos{
		Submissions: h.submissions,
		Skills:      h.skills,
		Streaks:     h.streaks,
	}, h.queue, h.clock)
}

func (h *harness) masteryService() MasteryService {
	return NewMasteryService(h.log, MasteryRepos{
		Skills:      h.skills,
		Submissions: h.submissions,
		Settings:    h.settings,
		Paths:       h.paths,
	})
}

func (h *harness) onboardingService() OnboardingService {
	return NewOnboardingService(h.log, repos.NewOnboardingRepo(h.db, h.log), h.submissions, h.clock)
}
