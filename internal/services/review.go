package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	types "github.com/yungbote/leetcoach-backend/internal/domain"
	"github.com/yungbote/leetcoach-backend/internal/modules/coach/reviews"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
)

type ReviewService interface {
	List(ctx context.Context, userID uuid.UUID, limit int, includeFuture bool) ([]*types.ReviewItem, error)
	CountDue(ctx context.Context, userID uuid.UUID) (int64, error)
	Add(ctx context.Context, userID uuid.UUID, in AddReviewInput) (*types.ReviewItem, error)
	Complete(ctx context.Context, userID, itemID uuid.UUID, success bool) (*types.ReviewItem, error)
	Remove(ctx context.Context, userID, itemID uuid.UUID) error
	Grade(ctx context.Context, userID uuid.UUID, in GradeInput) (*types.ReviewItem, error)
}

type AddReviewInput struct {
	ProblemSlug  string
	ProblemTitle string
	Reason       string
	Priority     int
}

type GradeInput struct {
	Kind  string
	Topic string
	Score int
}

type reviewService struct {
	log       *logger.Logger
	queue     *reviews.Queue
	dashboard *DashboardCache
}

func NewReviewService(log *logger.Logger, queue *reviews.Queue, dashboard *DashboardCache) ReviewService {
	return &reviewService{log: log.With("service", "ReviewService"), queue: queue, dashboard: dashboard}
}

func (s *reviewService) List(ctx context.Context, userID uuid.UUID, limit int, includeFuture bool) ([]*types.ReviewItem, error) {
	return s.queue.Due(ctx, userID, limit, includeFuture)
}

func (s *reviewService) CountDue(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.queue.Count(ctx, userID)
}

func (s *reviewService) Add(ctx context.Context, userID uuid.UUID, in AddReviewInput) (*types.ReviewItem, error) {
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		reason = reviews.DefaultManualReason
	}
	item, err := s.queue.Upsert(ctx, reviews.UpsertRequest{
		UserID:     userID,
		SubjectKey: in.ProblemSlug,
		Kind:       types.ReviewKindProblem,
		Title:      in.ProblemTitle,
		Reason:     reason,
		Priority:   in.Priority,
	})
	if err != nil {
		return nil, err
	}
	s.dashboard.Invalidate(ctx, userID)
	return item, nil
}

func (s *reviewService) Complete(ctx context.Context, userID, itemID uuid.UUID, success bool) (*types.ReviewItem, error) {
	item, err := s.queue.Complete(ctx, userID, itemID, success)
	if err != nil {
		return nil, err
	}
	s.dashboard.Invalidate(ctx, userID)
	return item, nil
}

func (s *reviewService) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	if err := s.queue.Remove(ctx, userID, itemID); err != nil {
		return err
	}
	s.dashboard.Invalidate(ctx, userID)
	return nil
}

// Grade returns (nil, nil) when the score was high enough that nothing was
// queued.
func (s *reviewService) Grade(ctx context.Context, userID uuid.UUID, in GradeInput) (*types.ReviewItem, error) {
	item, err := s.queue.Grade(ctx, reviews.GradeRequest{UserID: userID, Kind: in.Kind, Topic: in.Topic, Score: in.Score})
	if err != nil {
		return nil, err
	}
	if item != nil {
		s.dashboard.Invalidate(ctx, userID)
	}
	return item, nil
}
