package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/leetcoach-backend/internal/data/repos"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
)

type Repos struct {
	Goal       repos.GoalRepo
	Template   repos.ObjectiveTemplateRepo
	Path       repos.LearningPathRepo
	Progress   repos.PathProgressRepo
	Settings   repos.UserSettingsRepo
	Onboarding repos.OnboardingRepo
	Submission repos.SubmissionRepo
	Attempts   repos.AttemptStatsRepo
	Skill      repos.SkillScoreRepo
	Streak     repos.StreakRepo
	ReviewItem repos.ReviewItemRepo
	Mission    repos.DailyMissionRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Goal:       repos.NewGoalRepo(db, log),
		Template:   repos.NewObjectiveTemplateRepo(db, log),
		Path:       repos.NewLearningPathRepo(db, log),
		Progress:   repos.NewPathProgressRepo(db, log),
		Settings:   repos.NewUserSettingsRepo(db, log),
		Onboarding: repos.NewOnboardingRepo(db, log),
		Submission: repos.NewSubmissionRepo(db, log),
		Attempts:   repos.NewAttemptStatsRepo(db, log),
		Skill:      repos.NewSkillScoreRepo(db, log),
		Streak:     repos.NewStreakRepo(db, log),
		ReviewItem: repos.NewReviewItemRepo(db, log),
		Mission:    repos.NewDailyMissionRepo(db, log),
	}
}
