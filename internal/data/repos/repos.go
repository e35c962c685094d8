package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/leetcoach-backend/internal/data/repos/coach"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
)

type GoalRepo = coach.GoalRepo
type ObjectiveTemplateRepo = coach.ObjectiveTemplateRepo
type LearningPathRepo = coach.LearningPathRepo
type PathProgressRepo = coach.PathProgressRepo
type UserSettingsRepo = coach.UserSettingsRepo
type OnboardingRepo = coach.OnboardingRepo

type SubmissionRepo = coach.SubmissionRepo
type AttemptStatsRepo = coach.AttemptStatsRepo
type SkillScoreRepo = coach.SkillScoreRepo
type StreakRepo = coach.StreakRepo

type ReviewItemRepo = coach.ReviewItemRepo
type DailyMissionRepo = coach.DailyMissionRepo

type DifficultyCount = coach.DifficultyCount
type SubmissionTotals = coach.SubmissionTotals
type SubmissionFilter = coach.SubmissionFilter

func NewGoalRepo(db *gorm.DB, baseLog *logger.Logger) GoalRepo { return coach.NewGoalRepo(db, baseLog) }
func NewObjectiveTemplateRepo(db *gorm.DB, baseLog *logger.Logger) ObjectiveTemplateRepo {
	return coach.NewObjectiveTemplateRepo(db, baseLog)
}
func NewLearningPathRepo(db *gorm.DB, baseLog *logger.Logger) LearningPathRepo {
	return coach.NewLearningPathRepo(db, baseLog)
}
func NewPathProgressRepo(db *gorm.DB, baseLog *logger.Logger) PathProgressRepo {
	return coach.NewPathProgressRepo(db, baseLog)
}
func NewUserSettingsRepo(db *gorm.DB, baseLog *logger.Logger) UserSettingsRepo {
	return coach.NewUserSettingsRepo(db, baseLog)
}
func NewOnboardingRepo(db *gorm.DB, baseLog *logger.Logger) OnboardingRepo {
	return coach.NewOnboardingRepo(db, baseLog)
}

func NewSubmissionRepo(db *gorm.DB, baseLog *logger.Logger) SubmissionRepo {
	return coach.NewSubmissionRepo(db, baseLog)
}
func NewAttemptStatsRepo(db *gorm.DB, baseLog *logger.Logger) AttemptStatsRepo {
	return coach.NewAttemptStatsRepo(db, baseLog)
}
func NewSkillScoreRepo(db *gorm.DB, baseLog *logger.Logger) SkillScoreRepo {
	return coach.NewSkillScoreRepo(db, baseLog)
}
func NewStreakRepo(db *gorm.DB, baseLog *logger.Logger) StreakRepo {
	return coach.NewStreakRepo(db, baseLog)
}

func NewReviewItemRepo(db *gorm.DB, baseLog *logger.Logger) ReviewItemRepo {
	return coach.NewReviewItemRepo(db, baseLog)
}
func NewDailyMissionRepo(db *gorm.DB, baseLog *logger.Logger) DailyMissionRepo {
	return coach.NewDailyMissionRepo(db, baseLog)
}
