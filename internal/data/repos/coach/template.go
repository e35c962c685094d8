package coach

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/leetcoach-backend/internal/domain"
	"github.com/yungbote/leetcoach-backend/internal/platform/dbctx"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
)

type ObjectiveTemplateRepo interface {
	List(dbc dbctx.Context, company string) ([]*types.ObjectiveTemplate, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ObjectiveTemplate, error)
	Upsert(dbc dbctx.Context, t *types.ObjectiveTemplate) error
}

type objectiveTemplateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewObjectiveTemplateRepo(db *gorm.DB, baseLog *logger.Logger) ObjectiveTemplateRepo {
	return &objectiveTemplateRepo{db: db, log: baseLog.With("repo", "ObjectiveTemplateRepo")}
}

func (r *objectiveTemplateRepo) List(dbc dbctx.Context, company string) ([]*types.ObjectiveTemplate, error) {
	var out []*types.ObjectiveTemplate
	q := dbc.DB(r.db)
	if c := strings.TrimSpace(company); c != "" {
		q = q.Where("LOWER(company) = ?", strings.ToLower(c))
	}
	if err := q.Order("company ASC").Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *objectiveTemplateRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ObjectiveTemplate, error) {
	var t types.ObjectiveTemplate
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&t).Error; err != nil {
		return nil, err
	}
	if t.ID == uuid.Nil {
		return nil, nil
	}
	return &t, nil
}

func (r *objectiveTemplateRepo) Upsert(dbc dbctx.Context, t *types.ObjectiveTemplate) error {
	return dbc.DB(r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "company", "role", "level", "description",
			"required_skills", "recommended_path_ids", "estimated_weeks", "updated_at",
		}),
	}).Create(t).Error
}
