package coach

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/leetcoach-backend/internal/domain"
	"github.com/yungbote/leetcoach-backend/internal/platform/dbctx"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
)

// DifficultyCount is the accepted/total submission tally for one difficulty.
type DifficultyCount struct {
	Difficulty string
	Accepted   int64
	Total      int64
}

// SubmissionTotals counts all submissions and distinct problems for a user.
type SubmissionTotals struct {
	Total             int64
	Accepted          int64
	ProblemsSolved    int64
	ProblemsAttempted int64
}

// SubmissionFilter narrows History. Empty fields match everything.
type SubmissionFilter struct {
	Status     string
	Difficulty string
	Tag        string
	Limit      int
	Offset     int
}

type SubmissionRepo interface {
	// Insert stores s unless a submission with the same id exists, and
	// reports whether it inserted.
	Insert(dbc dbctx.Context, s *types.Submission) (bool, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Submission, error)
	ListByUserAndSlug(dbc dbctx.Context, userID uuid.UUID, slug string) ([]*types.Submission, error)
	RecentFailures(dbc dbctx.Context, userID uuid.UUID, since time.Time, limit int) ([]*types.Submission, error)
	// AcceptedSlugs returns the distinct accepted slugs submitted in
	// [from, to). A zero bound is open.
	AcceptedSlugs(dbc dbctx.Context, userID uuid.UUID, from, to time.Time) (map[string]bool, error)
	AttemptedSlugs(dbc dbctx.Context, userID uuid.UUID) (map[string]bool, error)
	DifficultyCounts(dbc dbctx.Context, userID uuid.UUID) ([]DifficultyCount, error)
	ActiveUserIDs(dbc dbctx.Context, since time.Time) ([]uuid.UUID, error)
	// ListSince returns submissions at or after since, oldest first.
	ListSince(dbc dbctx.Context, userID uuid.UUID, since time.Time) ([]*types.Submission, error)
	// History pages through submissions newest first.
	History(dbc dbctx.Context, userID uuid.UUID, f SubmissionFilter) ([]*types.Submission, error)
	Totals(dbc dbctx.Context, userID uuid.UUID) (SubmissionTotals, error)
}

type submissionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubmissionRepo(db *gorm.DB, baseLog *logger.Logger) SubmissionRepo {
	return &submissionRepo{db: db, log: baseLog.With("repo", "SubmissionRepo")}
}

func (r *submissionRepo) Insert(dbc dbctx.Context, s *types.Submission) (bool, error) {
	res := dbc.DB(r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(s)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *submissionRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Submission, error) {
	var out []*types.Submission
	if err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order("submitted_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *submissionRepo) ListByUserAndSlug(dbc dbctx.Context, userID uuid.UUID, slug string) ([]*types.Submission, error) {
	var out []*types.Submission
	if err := dbc.DB(r.db).
		Where("user_id = ? AND problem_slug = ?", userID, slug).
		Order("submitted_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *submissionRepo) RecentFailures(dbc dbctx.Context, userID uuid.UUID, since time.Time, limit int) ([]*types.Submission, error) {
	var out []*types.Submission
	q := dbc.DB(r.db).
		Where("user_id = ? AND status <> ?", userID, types.SubmissionAccepted)
	if !since.IsZero() {
		q = q.Where("submitted_at >= ?", since.UTC())
	}
	q = q.Order("submitted_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *submissionRepo) AcceptedSlugs(dbc dbctx.Context, userID uuid.UUID, from, to time.Time) (map[string]bool, error) {
	q := dbc.DB(r.db).
		Model(&types.Submission{}).
		Where("user_id = ? AND status = ?", userID, types.SubmissionAccepted)
	if !from.IsZero() {
		q = q.Where("submitted_at >= ?", from.UTC())
	}
	if !to.IsZero() {
		q = q.Where("submitted_at < ?", to.UTC())
	}
	var slugs []string
	if err := q.Distinct("problem_slug").Pluck("problem_slug", &slugs).Error; err != nil {
		return nil, err
	}
	return toSet(slugs), nil
}

func (r *submissionRepo) AttemptedSlugs(dbc dbctx.Context, userID uuid.UUID) (map[string]bool, error) {
	var slugs []string
	if err := dbc.DB(r.db).
		Model(&types.Submission{}).
		Where("user_id = ?", userID).
		Distinct("problem_slug").
		Pluck("problem_slug", &slugs).Error; err != nil {
		return nil, err
	}
	return toSet(slugs), nil
}

func (r *submissionRepo) DifficultyCounts(dbc dbctx.Context, userID uuid.UUID) ([]DifficultyCount, error) {
	var rows []DifficultyCount
	if err := dbc.DB(r.db).
		Model(&types.Submission{}).
		Select("difficulty, SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS accepted, COUNT(*) AS total", types.SubmissionAccepted).
		Where("user_id = ?", userID).
		Group("difficulty").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *submissionRepo) ActiveUserIDs(dbc dbctx.Context, since time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := dbc.DB(r.db).
		Model(&types.Submission{}).
		Where("submitted_at >= ?", since.UTC()).
		Distinct("user_id").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *submissionRepo) ListSince(dbc dbctx.Context, userID uuid.UUID, since time.Time) ([]*types.Submission, error) {
	var out []*types.Submission
	if err := dbc.DB(r.db).
		Where("user_id = ? AND submitted_at >= ?", userID, since.UTC()).
		Order("submitted_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// History applies status and difficulty in SQL. Tags live in a JSON column
// whose containment syntax differs between postgres and sqlite, so a tag
// filter is applied here and paging follows it.
func (r *submissionRepo) History(dbc dbctx.Context, userID uuid.UUID, f SubmissionFilter) ([]*types.Submission, error) {
	q := dbc.DB(r.db).Where("user_id = ?", userID)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Difficulty != "" {
		q = q.Where("difficulty = ?", f.Difficulty)
	}
	q = q.Order("submitted_at DESC")
	if f.Tag == "" {
		if f.Offset > 0 {
			q = q.Offset(f.Offset)
		}
		if f.Limit > 0 {
			q = q.Limit(f.Limit)
		}
	}

	var out []*types.Submission
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	if f.Tag == "" {
		return out, nil
	}

	tagged := out[:0]
	for _, s := range out {
		if s.HasTag(f.Tag) {
			tagged = append(tagged, s)
		}
	}
	if f.Offset >= len(tagged) {
		return []*types.Submission{}, nil
	}
	tagged = tagged[f.Offset:]
	if f.Limit > 0 && len(tagged) > f.Limit {
		tagged = tagged[:f.Limit]
	}
	return tagged, nil
}

func (r *submissionRepo) Totals(dbc dbctx.Context, userID uuid.UUID) (SubmissionTotals, error) {
	var out SubmissionTotals
	base := func() *gorm.DB {
		return dbc.DB(r.db).Model(&types.Submission{}).Where("user_id = ?", userID)
	}
	if err := base().Count(&out.Total).Error; err != nil {
		return out, err
	}
	if err := base().Where("status = ?", types.SubmissionAccepted).Count(&out.Accepted).Error; err != nil {
		return out, err
	}
	if err := base().Distinct("problem_slug").Count(&out.ProblemsAttempted).Error; err != nil {
		return out, err
	}
	if err := base().Where("status = ?", types.SubmissionAccepted).Distinct("problem_slug").Count(&out.ProblemsSolved).Error; err != nil {
		return out, err
	}
	return out, nil
}

func toSet(in []string) map[string]bool {
	out := make(map[string]bool, len(in))
	for _, s := range in {
		out[s] = true
	}
	return out
}
