package coach

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/leetcoach-backend/internal/domain"
	"github.com/yungbote/leetcoach-backend/internal/platform/dbctx"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
)

type StreakRepo interface {
	Get(dbc dbctx.Context, userID uuid.UUID) (*types.UserStreak, error)
	Upsert(dbc dbctx.Context, s *types.UserStreak) error
}

type streakRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStreakRepo(db *gorm.DB, baseLog *logger.Logger) StreakRepo {
	return &streakRepo{db: db, log: baseLog.With("repo", "StreakRepo")}
}

func (r *streakRepo) Get(dbc dbctx.Context, userID uuid.UUID) (*types.UserStreak, error) {
	var s types.UserStreak
	if err := dbc.DB(r.db).Where("user_id = ?", userID).Limit(1).Find(&s).Error; err != nil {
		return nil, err
	}
	if s.UserID == uuid.Nil {
		return nil, nil
	}
	return &s, nil
}

func (r *streakRepo) Upsert(dbc dbctx.Context, s *types.UserStreak) error {
	return dbc.DB(r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"current_streak", "longest_streak", "last_activity_date", "updated_at"}),
	}).Create(s).Error
}
