package db

import (
	"gorm.io/gorm"

	types "github.com/yungbote/leetcoach-backend/internal/domain"
)

// Models lists every persisted entity in migration order.
func Models() []any {
	return []any{
		// Goals + catalog
		&types.Goal{},
		&types.ObjectiveTemplate{},
		&types.LearningPath{},

		// Activity
		&types.Submission{},
		&types.ProblemAttemptStats{},
		&types.SkillScore{},
		&types.UserStreak{},
		&types.UserSettings{},
		&types.UserPathProgress{},
		&types.UserOnboarding{},

		// Scheduling
		&types.ReviewItem{},
		&types.DailyMission{},
		&types.MissionProblem{},
	}
}

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
