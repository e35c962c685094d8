package coach

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/leetcoach-backend/internal/domain"
	"github.com/yungbote/leetcoach-backend/internal/platform/dbctx"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
)

type AttemptStatsRepo interface {
	GetByUserAndSlug(dbc dbctx.Context, userID uuid.UUID, slug string) (*types.ProblemAttemptStats, error)
	Upsert(dbc dbctx.Context, s *types.ProblemAttemptStats) error
	ListSlowSolves(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.ProblemAttemptStats, error)
	ListStruggles(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.ProblemAttemptStats, error)
}

type attemptStatsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAttemptStatsRepo(db *gorm.DB, baseLog *logger.Logger) AttemptStatsRepo {
	return &attemptStatsRepo{db: db, log: baseLog.With("repo", "AttemptStatsRepo")}
}

func (r *attemptStatsRepo) GetByUserAndSlug(dbc dbctx.Context, userID uuid.UUID, slug string) (*types.ProblemAttemptStats, error) {
	var s types.ProblemAttemptStats
	if err := dbc.DB(r.db).
		Where("user_id = ? AND problem_slug = ?", userID, slug).
		Limit(1).
		Find(&s).Error; err != nil {
		return nil, err
	}
	if s.ID == uuid.Nil {
		return nil, nil
	}
	return &s, nil
}

var attemptStatsColumns = []string{
	"problem_title", "difficulty", "total_attempts", "failed_attempts",
	"first_attempt_at", "first_success_at", "time_to_first_success_seconds",
	"is_slow_solve", "is_struggle", "last_attempt_at", "updated_at",
}

// Upsert updates a loaded row in place by id, otherwise inserts and merges
// on (user_id, problem_slug).
func (r *attemptStatsRepo) Upsert(dbc dbctx.Context, s *types.ProblemAttemptStats) error {
	if s.ID != uuid.Nil {
		return dbc.DB(r.db).Model(s).Select(attemptStatsColumns).Updates(s).Error
	}
	return dbc.DB(r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "problem_slug"}},
		DoUpdates: clause.AssignmentColumns(attemptStatsColumns),
	}).Create(s).Error
}

func (r *attemptStatsRepo) ListSlowSolves(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.ProblemAttemptStats, error) {
	return r.listFlagged(dbc, userID, "is_slow_solve", limit)
}

func (r *attemptStatsRepo) ListStruggles(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.ProblemAttemptStats, error) {
	return r.listFlagged(dbc, userID, "is_struggle", limit)
}

func (r *attemptStatsRepo) listFlagged(dbc dbctx.Context, userID uuid.UUID, column string, limit int) ([]*types.ProblemAttemptStats, error) {
	var out []*types.ProblemAttemptStats
	q := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Where(clause.Eq{Column: clause.Column{Name: column}, Value: true}).
		Order("last_attempt_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
