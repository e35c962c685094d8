package coach

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/leetcoach-backend/internal/domain"
	"github.com/yungbote/leetcoach-backend/internal/platform/dbctx"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
)

type PathProgressRepo interface {
	Get(dbc dbctx.Context, userID, pathID uuid.UUID) (*types.UserPathProgress, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.UserPathProgress, error)
	Upsert(dbc dbctx.Context, p *types.UserPathProgress) error
}

type pathProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPathProgressRepo(db *gorm.DB, baseLog *logger.Logger) PathProgressRepo {
	return &pathProgressRepo{db: db, log: baseLog.With("repo", "PathProgressRepo")}
}

func (r *pathProgressRepo) Get(dbc dbctx.Context, userID, pathID uuid.UUID) (*types.UserPathProgress, error) {
	var p types.UserPathProgress
	if err := dbc.DB(r.db).
		Where("user_id = ? AND path_id = ?", userID, pathID).
		Limit(1).
		Find(&p).Error; err != nil {
		return nil, err
	}
	if p.ID == uuid.Nil {
		return nil, nil
	}
	return &p, nil
}

func (r *pathProgressRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.UserPathProgress, error) {
	var out []*types.UserPathProgress
	if err := dbc.DB(r.db).Where("user_id = ?", userID).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

var pathProgressColumns = []string{"completed_problems", "current_category", "updated_at"}

func (r *pathProgressRepo) Upsert(dbc dbctx.Context, p *types.UserPathProgress) error {
	if p.ID != uuid.Nil {
		return dbc.DB(r.db).Model(p).Select(pathProgressColumns).Updates(p).Error
	}
	return dbc.DB(r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "path_id"}},
		DoUpdates: clause.AssignmentColumns(pathProgressColumns),
	}).Create(p).Error
}
