package coach

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/leetcoach-backend/internal/domain"
	"github.com/yungbote/leetcoach-backend/internal/platform/dbctx"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
)

type UserSettingsRepo interface {
	Get(dbc dbctx.Context, userID uuid.UUID) (*types.UserSettings, error)
	Upsert(dbc dbctx.Context, s *types.UserSettings) error
}

type userSettingsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserSettingsRepo(db *gorm.DB, baseLog *logger.Logger) UserSettingsRepo {
	return &userSettingsRepo{db: db, log: baseLog.With("repo", "UserSettingsRepo")}
}

func (r *userSettingsRepo) Get(dbc dbctx.Context, userID uuid.UUID) (*types.UserSettings, error) {
	var s types.UserSettings
	if err := dbc.DB(r.db).Where("user_id = ?", userID).Limit(1).Find(&s).Error; err != nil {
		return nil, err
	}
	if s.UserID == uuid.Nil {
		return nil, nil
	}
	return &s, nil
}

func (r *userSettingsRepo) Upsert(dbc dbctx.Context, s *types.UserSettings) error {
	return dbc.DB(r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"current_path_id", "daily_goal", "updated_at"}),
	}).Create(s).Error
}
