package coach

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/leetcoach-backend/internal/domain"
	"github.com/yungbote/leetcoach-backend/internal/platform/dbctx"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
)

type ReviewItemRepo interface {
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ReviewItem, error)
	GetByUserAndKey(dbc dbctx.Context, userID uuid.UUID, subjectKey string) (*types.ReviewItem, error)
	Create(dbc dbctx.Context, item *types.ReviewItem) error
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	// ListByUser filters on kind before applying limit; an empty kind
	// matches every kind.
	ListByUser(dbc dbctx.Context, userID uuid.UUID, kind string, dueBy *time.Time, limit int) ([]*types.ReviewItem, error)
	CountDue(dbc dbctx.Context, userID uuid.UUID, now time.Time) (int64, error)
	CompareAndSwapSchedule(dbc dbctx.Context, id uuid.UUID, expectedReviewCount int, next types.ReviewSchedule) (bool, error)
	DeleteByUserAndID(dbc dbctx.Context, userID, id uuid.UUID) error
}

type reviewItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReviewItemRepo(db *gorm.DB, baseLog *logger.Logger) ReviewItemRepo {
	return &reviewItemRepo{db: db, log: baseLog.With("repo", "ReviewItemRepo")}
}

func (r *reviewItemRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ReviewItem, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var item types.ReviewItem
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&item).Error; err != nil {
		return nil, err
	}
	if item.ID == uuid.Nil {
		return nil, nil
	}
	return &item, nil
}

func (r *reviewItemRepo) GetByUserAndKey(dbc dbctx.Context, userID uuid.UUID, subjectKey string) (*types.ReviewItem, error) {
	var item types.ReviewItem
	if err := dbc.DB(r.db).
		Where("user_id = ? AND subject_key = ?", userID, subjectKey).
		Limit(1).
		Find(&item).Error; err != nil {
		return nil, err
	}
	if item.ID == uuid.Nil {
		return nil, nil
	}
	return &item, nil
}

func (r *reviewItemRepo) Create(dbc dbctx.Context, item *types.ReviewItem) error {
	return mapWriteErr(dbc.DB(r.db).Create(item).Error)
}

func (r *reviewItemRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Model(&types.ReviewItem{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *reviewItemRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, kind string, dueBy *time.Time, limit int) ([]*types.ReviewItem, error) {
	var out []*types.ReviewItem
	q := dbc.DB(r.db).Where("user_id = ?", userID)
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	if dueBy != nil {
		q = q.Where("next_review <= ?", dueBy.UTC())
	}
	q = q.Order("priority DESC").Order("next_review ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *reviewItemRepo) CountDue(dbc dbctx.Context, userID uuid.UUID, now time.Time) (int64, error) {
	var n int64
	err := dbc.DB(r.db).
		Model(&types.ReviewItem{}).
		Where("user_id = ? AND next_review <= ?", userID, now.UTC()).
		Count(&n).Error
	return n, err
}

// CompareAndSwapSchedule is a conditional update on review_count; no row
// lock is taken.
func (r *reviewItemRepo) CompareAndSwapSchedule(dbc dbctx.Context, id uuid.UUID, expectedReviewCount int, next types.ReviewSchedule) (bool, error) {
	res := dbc.DB(r.db).
		Model(&types.ReviewItem{}).
		Where("id = ? AND review_count = ?", id, expectedReviewCount).
		Updates(map[string]interface{}{
			"interval_days": next.IntervalDays,
			"next_review":   next.NextReview.UTC(),
			"review_count":  next.ReviewCount,
			"last_reviewed": next.LastReviewed.UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *reviewItemRepo) DeleteByUserAndID(dbc dbctx.Context, userID, id uuid.UUID) error {
	return dbc.DB(r.db).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&types.ReviewItem{}).Error
}
