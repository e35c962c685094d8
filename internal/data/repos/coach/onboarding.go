package coach

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/leetcoach-backend/internal/domain"
	"github.com/yungbote/leetcoach-backend/internal/platform/dbctx"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
)

type OnboardingRepo interface {
	Get(dbc dbctx.Context, userID uuid.UUID) (*types.UserOnboarding, error)
	// Upsert writes every checklist column, so callers pass the full row.
	Upsert(dbc dbctx.Context, o *types.UserOnboarding) error
}

type onboardingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOnboardingRepo(db *gorm.DB, baseLog *logger.Logger) OnboardingRepo {
	return &onboardingRepo{db: db, log: baseLog.With("repo", "OnboardingRepo")}
}

func (r *onboardingRepo) Get(dbc dbctx.Context, userID uuid.UUID) (*types.UserOnboarding, error) {
	var o types.UserOnboarding
	if err := dbc.DB(r.db).Where("user_id = ?", userID).Limit(1).Find(&o).Error; err != nil {
		return nil, err
	}
	if o.UserID == uuid.Nil {
		return nil, nil
	}
	return &o, nil
}

func (r *onboardingRepo) Upsert(dbc dbctx.Context, o *types.UserOnboarding) error {
	return dbc.DB(r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"has_objective",
			"extension_installed",
			"history_imported",
			"first_path_selected",
			"onboarding_complete",
			"current_step",
			"extension_verified_at",
			"history_imported_at",
			"problems_imported_count",
			"updated_at",
		}),
	}).Create(o).Error
}
