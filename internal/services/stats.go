package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"

	"github.com/yungbote/leetcoach-backend/internal/data/repos"
	types "github.com/yungbote/leetcoach-backend/internal/domain"
	"github.com/yungbote/leetcoach-backend/internal/modules/coach/reviews"
	"github.com/yungbote/leetcoach-backend/internal/platform/dbctx"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
)

const (
	DefaultTrendDays = 30
	MaxTrendDays     = 365

	recentSubmissionLimit = 10
)

type UserStats struct {
	TotalSubmissions  int64   `json:"total_submissions"`
	AcceptedCount     int64   `json:"accepted_count"`
	FailedCount       int64   `json:"failed_count"`
	SuccessRate       float64 `json:"success_rate"`
	ProblemsSolved    int64   `json:"problems_solved"`
	ProblemsAttempted int64   `json:"problems_attempted"`
	StreakDays        int     `json:"streak_days"`
	ReviewsDue        int64   `json:"reviews_due"`
}

// TrendPoint is one calendar day with at least one submission.
type TrendPoint struct {
	Date        string  `json:"date"`
	Submissions int     `json:"submissions"`
	Accepted    int     `json:"accepted"`
	SuccessRate float64 `json:"success_rate"`
}

type UserProgress struct {
	Stats             UserStats           `json:"stats"`
	SkillScores       []*types.SkillScore `json:"skill_scores"`
	Trends            []TrendPoint        `json:"trends"`
	RecentSubmissions []*types.Submission `json:"recent_submissions"`
}

type StatsService interface {
	Stats(ctx context.Context, userID uuid.UUID) (*UserStats, error)
	// Progress bundles stats, skills, days of trend and recent submissions.
	Progress(ctx context.Context, userID uuid.UUID, days int) (*UserProgress, error)
	Skills(ctx context.Context, userID uuid.UUID) ([]*types.SkillScore, error)
	History(ctx context.Context, userID uuid.UUID, f repos.SubmissionFilter) ([]*types.Submission, error)
}

type StatsRepos struct {
	Submissions repos.SubmissionRepo
	Skills      repos.SkillScoreRepo
	Streaks     repos.StreakRepo
}

type statsService struct {
	log   *logger.Logger
	repos StatsRepos
	queue *reviews.Queue
	clock clock.Clock
}

func NewStatsService(log *logger.Logger, r StatsRepos, queue *reviews.Queue, c clock.Clock) StatsService {
	if c == nil {
		c = clock.New()
	}
	return &statsService{log: log.With("service", "StatsService"), repos: r, queue: queue, clock: c}
}

func (s *statsService) Stats(ctx context.Context, userID uuid.UUID) (*UserStats, error) {
	dbc := dbctx.Context{Ctx: ctx}
	tot, err := s.repos.Submissions.Totals(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("count submissions: %w", err)
	}
	streak, err := s.repos.Streaks.Get(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("load streak: %w", err)
	}
	due, err := s.queue.Count(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count due reviews: %w", err)
	}

	out := &UserStats{
		TotalSubmissions:  tot.Total,
		AcceptedCount:     tot.Accepted,
		FailedCount:       tot.Total - tot.Accepted,
		ProblemsSolved:    tot.ProblemsSolved,
		ProblemsAttempted: tot.ProblemsAttempted,
		StreakDays:        activeStreak(streak, s.clock.Now().UTC()),
		ReviewsDue:        due,
	}
	if tot.Total > 0 {
		out.SuccessRate = round2(float64(tot.Accepted) / float64(tot.Total))
	}
	return out, nil
}

func (s *statsService) Progress(ctx context.Context, userID uuid.UUID, days int) (*UserProgress, error) {
	if days <= 0 {
		days = DefaultTrendDays
	}
	if days > MaxTrendDays {
		days = MaxTrendDays
	}
	stats, err := s.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}
	skills, err := s.Skills(ctx, userID)
	if err != nil {
		return nil, err
	}

	dbc := dbctx.Context{Ctx: ctx}
	since := s.clock.Now().UTC().Add(-time.Duration(days) * 24 * time.Hour)
	window, err := s.repos.Submissions.ListSince(dbc, userID, since)
	if err != nil {
		return nil, fmt.Errorf("load trend window: %w", err)
	}
	recent, err := s.repos.Submissions.History(dbc, userID, repos.SubmissionFilter{Limit: recentSubmissionLimit})
	if err != nil {
		return nil, fmt.Errorf("load recent submissions: %w", err)
	}

	return &UserProgress{
		Stats:             *stats,
		SkillScores:       skills,
		Trends:            Trends(window),
		RecentSubmissions: nonNilSubs(recent),
	}, nil
}

func (s *statsService) Skills(ctx context.Context, userID uuid.UUID) ([]*types.SkillScore, error) {
	scores, err := s.repos.Skills.ListByUser(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, fmt.Errorf("load skill scores: %w", err)
	}
	if scores == nil {
		scores = []*types.SkillScore{}
	}
	return scores, nil
}

func (s *statsService) History(ctx context.Context, userID uuid.UUID, f repos.SubmissionFilter) ([]*types.Submission, error) {
	out, err := s.repos.Submissions.History(dbctx.Context{Ctx: ctx}, userID, f)
	if err != nil {
		return nil, fmt.Errorf("load submission history: %w", err)
	}
	return nonNilSubs(out), nil
}

// Trends buckets submissions by UTC day, oldest day first.
func Trends(subs []*types.Submission) []TrendPoint {
	out := []TrendPoint{}
	idx := map[string]int{}
	for _, s := range subs {
		day := types.DateKey(s.SubmittedAt.UTC())
		i, ok := idx[day]
		if !ok {
			i = len(out)
			idx[day] = i
			out = append(out, TrendPoint{Date: day})
		}
		out[i].Submissions++
		if s.Accepted() {
			out[i].Accepted++
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	for i := range out {
		out[i].SuccessRate = round2(float64(out[i].Accepted) / float64(out[i].Submissions))
	}
	return out
}

func nonNilSubs(in []*types.Submission) []*types.Submission {
	if in == nil {
		return []*types.Submission{}
	}
	return in
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
