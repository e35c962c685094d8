package coach

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/leetcoach-backend/internal/domain"
	"github.com/yungbote/leetcoach-backend/internal/platform/dbctx"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
)

type SkillScoreRepo interface {
	// ListByUser returns scores weakest first.
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.SkillScore, error)
	Upsert(dbc dbctx.Context, scores []*types.SkillScore) error
}

type skillScoreRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSkillScoreRepo(db *gorm.DB, baseLog *logger.Logger) SkillScoreRepo {
	return &skillScoreRepo{db: db, log: baseLog.With("repo", "SkillScoreRepo")}
}

func (r *skillScoreRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.SkillScore, error) {
	var out []*types.SkillScore
	if err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order("score ASC").
		Order("tag ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *skillScoreRepo) Upsert(dbc dbctx.Context, scores []*types.SkillScore) error {
	if len(scores) == 0 {
		return nil
	}
	return dbc.DB(r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "tag"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "total_attempts", "success_rate", "last_practiced", "updated_at"}),
	}).Create(&scores).Error
}
