package coach

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/leetcoach-backend/internal/domain"
	"github.com/yungbote/leetcoach-backend/internal/platform/dbctx"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
)

type GoalRepo interface {
	GetActive(dbc dbctx.Context, userID uuid.UUID) (*types.Goal, error)
	// CreateActive pauses the user's current active goal and inserts g as
	// the new active one in a single transaction.
	CreateActive(dbc dbctx.Context, g *types.Goal) error
	UpdateActive(dbc dbctx.Context, userID uuid.UUID, updates map[string]interface{}) (bool, error)
	DeleteActive(dbc dbctx.Context, userID uuid.UUID) (bool, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Goal, error)
}

type goalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGoalRepo(db *gorm.DB, baseLog *logger.Logger) GoalRepo {
	return &goalRepo{db: db, log: baseLog.With("repo", "GoalRepo")}
}

func (r *goalRepo) GetActive(dbc dbctx.Context, userID uuid.UUID) (*types.Goal, error) {
	var g types.Goal
	if err := dbc.DB(r.db).
		Where("user_id = ? AND status = ?", userID, types.GoalStatusActive).
		Order("created_at DESC").
		Limit(1).
		Find(&g).Error; err != nil {
		return nil, err
	}
	if g.ID == uuid.Nil {
		return nil, nil
	}
	return &g, nil
}

func (r *goalRepo) CreateActive(dbc dbctx.Context, g *types.Goal) error {
	g.Status = types.GoalStatusActive
	return dbc.DB(r.db).Transaction(func(txx *gorm.DB) error {
		if err := txx.Model(&types.Goal{}).
			Where("user_id = ? AND status = ?", g.UserID, types.GoalStatusActive).
			Update("status", types.GoalStatusPaused).Error; err != nil {
			return err
		}
		return mapWriteErr(txx.Create(g).Error)
	})
}

func (r *goalRepo) UpdateActive(dbc dbctx.Context, userID uuid.UUID, updates map[string]interface{}) (bool, error) {
	if len(updates) == 0 {
		return true, nil
	}
	res := dbc.DB(r.db).
		Model(&types.Goal{}).
		Where("user_id = ? AND status = ?", userID, types.GoalStatusActive).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *goalRepo) DeleteActive(dbc dbctx.Context, userID uuid.UUID) (bool, error) {
	res := dbc.DB(r.db).
		Where("user_id = ? AND status = ?", userID, types.GoalStatusActive).
		Delete(&types.Goal{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *goalRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Goal, error) {
	var out []*types.Goal
	if err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
