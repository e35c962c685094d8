// Package reviews owns the per-user spaced-repetition queue.
package reviews

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"

	types "github.com/yungbote/leetcoach-backend/internal/domain"
	"github.com/yungbote/leetcoach-backend/internal/modules/coach/srs"
	"github.com/yungbote/leetcoach-backend/internal/observability"
	coreerrs "github.com/yungbote/leetcoach-backend/internal/pkg/errors"
	"github.com/yungbote/leetcoach-backend/internal/platform/dbctx"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
)

const (
	DefaultLimit        = 10
	DefaultManualReason = "Manual addition"

	// GradeThreshold is the score below which a graded exercise is queued.
	GradeThreshold = 70
	gradePriority  = 1

	maxCompleteAttempts = 5
)

// Store is the persistence the queue needs. Lookups return (nil, nil) when
// the row does not exist. Create returns ErrConflict when (user, subject_key)
// is already taken.
type Store interface {
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ReviewItem, error)
	GetByUserAndKey(dbc dbctx.Context, userID uuid.UUID, subjectKey string) (*types.ReviewItem, error)
	Create(dbc dbctx.Context, item *types.ReviewItem) error
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	ListByUser(dbc dbctx.Context, userID uuid.UUID, kind string, dueBy *time.Time, limit int) ([]*types.ReviewItem, error)
	CountDue(dbc dbctx.Context, userID uuid.UUID, now time.Time) (int64, error)
	// CompareAndSwapSchedule writes next only if the row still has
	// expectedReviewCount, and reports whether it did.
	CompareAndSwapSchedule(dbc dbctx.Context, id uuid.UUID, expectedReviewCount int, next types.ReviewSchedule) (bool, error)
	DeleteByUserAndID(dbc dbctx.Context, userID, id uuid.UUID) error
}

type Deps struct {
	Log   *logger.Logger
	Store Store
	Clock clock.Clock
}

type Queue struct {
	log   *logger.Logger
	store Store
	clock clock.Clock
}

func New(deps Deps) *Queue {
	c := deps.Clock
	if c == nil {
		c = clock.New()
	}
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	return &Queue{log: log.With("module", "ReviewQueue"), store: deps.Store, clock: c}
}

type UpsertRequest struct {
	UserID     uuid.UUID
	SubjectKey string
	Kind       string
	Title      string
	Reason     string
	Priority   int
}

// Upsert queues a subject at interval 1 due now. Re-flagging an existing
// subject only overwrites its reason, priority and title.
func (q *Queue) Upsert(ctx context.Context, req UpsertRequest) (*types.ReviewItem, error) {
	key := strings.TrimSpace(req.SubjectKey)
	if req.UserID == uuid.Nil || key == "" {
		return nil, fmt.Errorf("upsert review: %w", coreerrs.ErrInvalidArgument)
	}
	kind := req.Kind
	if kind == "" {
		kind = types.ReviewKindProblem
	}
	dbc := dbctx.Context{Ctx: ctx}

	existing, err := q.store.GetByUserAndKey(dbc, req.UserID, key)
	if err != nil {
		return nil, fmt.Errorf("load review: %w", err)
	}
	if existing == nil {
		now := q.clock.Now().UTC()
		item := &types.ReviewItem{
			UserID:       req.UserID,
			SubjectKey:   key,
			Kind:         kind,
			Title:        req.Title,
			Reason:       req.Reason,
			Priority:     req.Priority,
			NextReview:   now,
			IntervalDays: srs.InitialIntervalDays,
		}
		err = q.store.Create(dbc, item)
		if err == nil {
			return item, nil
		}
		if !errors.Is(err, coreerrs.ErrConflict) {
			return nil, fmt.Errorf("create review: %w", err)
		}
		// Lost the insert race; the winner's row gets our labels.
		existing, err = q.store.GetByUserAndKey(dbc, req.UserID, key)
		if err != nil {
			return nil, fmt.Errorf("reload review: %w", err)
		}
		if existing == nil {
			return nil, fmt.Errorf("reload review: %w", coreerrs.ErrConflict)
		}
	}

	updates := map[string]interface{}{
		"reason":   req.Reason,
		"priority": req.Priority,
	}
	existing.Reason = req.Reason
	existing.Priority = req.Priority
	if req.Title != "" {
		updates["title"] = req.Title
		existing.Title = req.Title
	}
	if err := q.store.UpdateFields(dbc, existing.ID, updates); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}
	return existing, nil
}

// Due lists the user's queue, most urgent first. Without includeFuture only
// items with next_review <= now are returned.
func (q *Queue) Due(ctx context.Context, userID uuid.UUID, limit int, includeFuture bool) ([]*types.ReviewItem, error) {
	return q.list(ctx, userID, "", limit, includeFuture)
}

// DueProblems is Due restricted to problem reviews. The kind filter runs
// before the limit, so language and system design items never crowd out
// problems.
func (q *Queue) DueProblems(ctx context.Context, userID uuid.UUID, limit int) ([]*types.ReviewItem, error) {
	return q.list(ctx, userID, types.ReviewKindProblem, limit, false)
}

func (q *Queue) list(ctx context.Context, userID uuid.UUID, kind string, limit int, includeFuture bool) ([]*types.ReviewItem, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	var dueBy *time.Time
	if !includeFuture {
		now := q.clock.Now().UTC()
		dueBy = &now
	}
	items, err := q.store.ListByUser(dbctx.Context{Ctx: ctx}, userID, kind, dueBy, limit)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	SortByUrgency(items)
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// Count returns how many items are due now.
func (q *Queue) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := q.store.CountDue(dbctx.Context{Ctx: ctx}, userID, q.clock.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("count reviews: %w", err)
	}
	return n, nil
}

// Complete records one review outcome. The read-advance-write cycle is
// retried when another completion wins the compare-and-swap, so advance is
// always applied to the latest interval.
func (q *Queue) Complete(ctx context.Context, userID, itemID uuid.UUID, success bool) (*types.ReviewItem, error) {
	dbc := dbctx.Context{Ctx: ctx}
	for attempt := 0; attempt < maxCompleteAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		item, err := q.store.GetByID(dbc, itemID)
		if err != nil {
			return nil, fmt.Errorf("load review: %w", err)
		}
		if item == nil || item.UserID != userID {
			return nil, fmt.Errorf("review %s: %w", itemID, coreerrs.ErrNotFound)
		}

		now := q.clock.Now().UTC()
		interval, next := srs.Advance(success, item.IntervalDays, now)
		sched := types.ReviewSchedule{
			IntervalDays: interval,
			NextReview:   next,
			ReviewCount:  item.ReviewCount + 1,
			LastReviewed: now,
		}
		ok, err := q.store.CompareAndSwapSchedule(dbc, item.ID, item.ReviewCount, sched)
		if err != nil {
			return nil, fmt.Errorf("save review: %w", err)
		}
		if !ok {
			observability.IncCASRetry("review_complete")
			q.log.Debug("review completion lost race, retrying", "review_id", itemID, "attempt", attempt+1)
			continue
		}

		item.IntervalDays = sched.IntervalDays
		item.NextReview = sched.NextReview
		item.ReviewCount = sched.ReviewCount
		item.LastReviewed = &now
		observability.IncReviewCompletion(outcome(success))
		return item, nil
	}
	return nil, fmt.Errorf("complete review %s: %w", itemID, coreerrs.ErrConflict)
}

// Remove deletes the item. Missing items are not an error.
func (q *Queue) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	if err := q.store.DeleteByUserAndID(dbctx.Context{Ctx: ctx}, userID, itemID); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}

type GradeRequest struct {
	UserID uuid.UUID
	Kind   string
	Topic  string
	Score  int
}

// Grade queues a language or system-design topic when the exercise scored
// below GradeThreshold. It returns (nil, nil) when nothing was queued.
func (q *Queue) Grade(ctx context.Context, req GradeRequest) (*types.ReviewItem, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, fmt.Errorf("grade: topic required: %w", coreerrs.ErrInvalidArgument)
	}
	if req.Kind != types.ReviewKindLanguage && req.Kind != types.ReviewKindSystemDesign {
		return nil, fmt.Errorf("grade: unknown kind %q: %w", req.Kind, coreerrs.ErrInvalidArgument)
	}
	if req.Score < 0 || req.Score > 100 {
		return nil, fmt.Errorf("grade: score out of range: %w", coreerrs.ErrInvalidArgument)
	}
	if req.Score >= GradeThreshold {
		return nil, nil
	}
	return q.Upsert(ctx, UpsertRequest{
		UserID:     req.UserID,
		SubjectKey: SubjectKey(req.Kind, topic),
		Kind:       req.Kind,
		Title:      topic,
		Reason:     fmt.Sprintf("Low score (%d) on %s exercise", req.Score, strings.ReplaceAll(req.Kind, "_", " ")),
		Priority:   gradePriority,
	})
}

// SubjectKey namespaces non-problem topics so they never collide with slugs.
func SubjectKey(kind, subject string) string {
	if kind == "" || kind == types.ReviewKindProblem {
		return subject
	}
	return kind + ":" + subject
}

// SortByUrgency orders by priority desc, then next_review asc.
func SortByUrgency(items []*types.ReviewItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Priority != items[j].Priority {
			return items[i].Priority > items[j].Priority
		}
		return items[i].NextReview.Before(items[j].NextReview)
	})
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
