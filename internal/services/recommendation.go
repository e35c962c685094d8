package services

import (
	"context"
	"fmt"
	"time"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"

	"github.com/yungbote/leetcoach-backend/internal/data/repos"
	"github.com/yungbote/leetcoach-backend/internal/modules/coach/recommend"
	"github.com/yungbote/leetcoach-backend/internal/modules/coach/reviews"
	coreerrs "github.com/yungbote/leetcoach-backend/internal/pkg/errors"
	"github.com/yungbote/leetcoach-backend/internal/platform/dbctx"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
)

const recommendationFailureLimit = 200

type RecommendationService interface {
	List(ctx context.Context, userID uuid.UUID, limit int) (*Recommendations, error)
	Next(ctx context.Context, userID uuid.UUID) (*recommend.Recommendation, error)
}

type Recommendations struct {
	UserID          uuid.UUID                  `json:"user_id"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
	WeakAreas       []string                   `json:"weak_areas"`
	GeneratedAt     time.Time                  `json:"generated_at"`
}

type recommendationService struct {
	log         *logger.Logger
	queue       *reviews.Queue
	skills      repos.SkillScoreRepo
	submissions repos.SubmissionRepo
	clock       clock.Clock
}

func NewRecommendationService(log *logger.Logger, queue *reviews.Queue, skills repos.SkillScoreRepo, submissions repos.SubmissionRepo, c clock.Clock) RecommendationService {
	if c == nil {
		c = clock.New()
	}
	return &recommendationService{
		log:         log.With("service", "RecommendationService"),
		queue:       queue,
		skills:      skills,
		submissions: submissions,
		clock:       c,
	}
}

func (s *recommendationService) List(ctx context.Context, userID uuid.UUID, limit int) (*Recommendations, error) {
	if limit <= 0 {
		limit = recommend.DefaultLimit
	}
	recs, weak, err := s.compute(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	return &Recommendations{UserID: userID, Recommendations: recs, WeakAreas: weak, GeneratedAt: s.clock.Now().UTC()}, nil
}

func (s *recommendationService) Next(ctx context.Context, userID uuid.UUID) (*recommend.Recommendation, error) {
	recs, _, err := s.compute(ctx, userID, 1)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("no recommendations available: %w", coreerrs.ErrNotFound)
	}
	return &recs[0], nil
}

func (s *recommendationService) compute(ctx context.Context, userID uuid.UUID, limit int) ([]recommend.Recommendation, []string, error) {
	dbc := dbctx.Context{Ctx: ctx}

	due, err := s.queue.DueProblems(ctx, userID, limit)
	if err != nil {
		return nil, nil, err
	}
	scores, err := s.skills.ListByUser(dbc, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("load skill scores: %w", err)
	}
	failed, err := s.submissions.RecentFailures(dbc, userID, time.Time{}, recommendationFailureLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("load failures: %w", err)
	}
	solved, err := s.submissions.AcceptedSlugs(dbc, userID, time.Time{}, time.Time{})
	if err != nil {
		return nil, nil, fmt.Errorf("load solved: %w", err)
	}
	counts, err := s.submissions.DifficultyCounts(dbc, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("load difficulty counts: %w", err)
	}
	stats := make(map[string]recommend.DifficultyStats, len(counts))
	for _, c := range counts {
		stats[c.Difficulty] = recommend.DifficultyStats{Accepted: c.Accepted, Total: c.Total}
	}

	merged := recommend.Merge(limit,
		recommend.FromReviews(due),
		recommend.FromWeakSkills(scores, failed),
		recommend.FromProgression(recommend.ProgressionTier(stats), failed, solved),
	)
	return merged, recommend.WeakAreas(scores), nil
}
