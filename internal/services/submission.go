package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"

	"github.com/yungbote/leetcoach-backend/internal/data/repos"
	types "github.com/yungbote/leetcoach-backend/internal/domain"
	"github.com/yungbote/leetcoach-backend/internal/modules/coach/reviews"
	"github.com/yungbote/leetcoach-backend/internal/observability"
	coreerrs "github.com/yungbote/leetcoach-backend/internal/pkg/errors"
	"github.com/yungbote/leetcoach-backend/internal/platform/dbctx"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
)

const (
	slowSolveAttempts     = 3
	struggleFailures      = 3
	skillConfidenceFloor  = 5
	neutralSkillScore     = 50.0
	failedReviewPriority  = 1
	failedReviewReasonFmt = "Failed: %s"
	maxBatchSubmissions   = 100
)

type SubmissionInput struct {
	ID                 uuid.UUID  `json:"id"`
	ProblemSlug        string     `json:"problem_slug"`
	ProblemTitle       string     `json:"problem_title"`
	Difficulty         string     `json:"difficulty"`
	Tags               []string   `json:"tags"`
	Status             string     `json:"status"`
	Language           string     `json:"language"`
	Code               string     `json:"code"`
	AttemptNumber      int        `json:"attempt_number"`
	TimeElapsedSeconds int        `json:"time_elapsed_seconds"`
	SubmittedAt        *time.Time `json:"submitted_at"`
}

type SubmissionResult struct {
	ID      uuid.UUID `json:"id"`
	Success bool      `json:"success"`
	Message string    `json:"message"`
}

type SubmissionService interface {
	// Ingest records one attempt. Replaying an id is a no-op.
	Ingest(ctx context.Context, userID uuid.UUID, in SubmissionInput) (*SubmissionResult, error)
	IngestBatch(ctx context.Context, userID uuid.UUID, in []SubmissionInput) ([]SubmissionResult, error)
}

type SubmissionRepos struct {
	Submissions repos.SubmissionRepo
	Attempts    repos.AttemptStatsRepo
	Skills      repos.SkillScoreRepo
	Settings    repos.UserSettingsRepo
	Paths       repos.LearningPathRepo
	Progress    repos.PathProgressRepo
	Streaks     repos.StreakRepo
}

type submissionService struct {
	log       *logger.Logger
	repos     SubmissionRepos
	queue     *reviews.Queue
	dashboard *DashboardCache
	clock     clock.Clock
}

func NewSubmissionService(log *logger.Logger, r SubmissionRepos, queue *reviews.Queue, dashboard *DashboardCache, c clock.Clock) SubmissionService {
	if c == nil {
		c = clock.New()
	}
	return &submissionService{
		log:       log.With("service", "SubmissionService"),
		repos:     r,
		queue:     queue,
		dashboard: dashboard,
		clock:     c,
	}
}

func (s *submissionService) Ingest(ctx context.Context, userID uuid.UUID, in SubmissionInput) (*SubmissionResult, error) {
	sub, err := s.normalize(userID, in)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	inserted, err := s.repos.Submissions.Insert(dbc, sub)
	if err != nil {
		return nil, fmt.Errorf("insert submission: %w", err)
	}
	if !inserted {
		return &SubmissionResult{ID: sub.ID, Success: true, Message: "Submission already recorded"}, nil
	}
	observability.IncSubmission(sub.Status)

	if err := s.updateAttempts(dbc, sub); err != nil {
		return nil, err
	}
	if err := s.updateSkills(dbc, sub); err != nil {
		return nil, err
	}
	if sub.Accepted() {
		if err := s.markSolved(dbc, sub); err != nil {
			return nil, err
		}
		if err := s.touchStreak(dbc, sub); err != nil {
			return nil, err
		}
	} else {
		_, err := s.queue.Upsert(ctx, reviews.UpsertRequest{
			UserID:     userID,
			SubjectKey: sub.ProblemSlug,
			Kind:       types.ReviewKindProblem,
			Title:      sub.ProblemTitle,
			Reason:     fmt.Sprintf(failedReviewReasonFmt, sub.Status),
			Priority:   failedReviewPriority,
		})
		if err != nil {
			return nil, fmt.Errorf("queue failed problem: %w", err)
		}
	}
	s.dashboard.Invalidate(ctx, userID)
	s.log.Debug("submission ingested", "user_id", userID, "problem_slug", sub.ProblemSlug, "status", sub.Status)
	return &SubmissionResult{ID: sub.ID, Success: true, Message: "Submission recorded"}, nil
}

// IngestBatch runs Ingest per item and reports each outcome. Only invalid
// items are reported as failures; a storage error aborts the batch.
func (s *submissionService) IngestBatch(ctx context.Context, userID uuid.UUID, in []SubmissionInput) ([]SubmissionResult, error) {
	if len(in) > maxBatchSubmissions {
		return nil, fmt.Errorf("batch holds %d submissions, max %d: %w", len(in), maxBatchSubmissions, coreerrs.ErrInvalidArgument)
	}
	out := make([]SubmissionResult, 0, len(in))
	for _, item := range in {
		res, err := s.Ingest(ctx, userID, item)
		if err != nil {
			if !errors.Is(err, coreerrs.ErrInvalidArgument) {
				return nil, err
			}
			out = append(out, SubmissionResult{ID: item.ID, Success: false, Message: err.Error()})
			continue
		}
		out = append(out, *res)
	}
	return out, nil
}

func (s *submissionService) normalize(userID uuid.UUID, in SubmissionInput) (*types.Submission, error) {
	slug := strings.TrimSpace(in.ProblemSlug)
	status := strings.TrimSpace(in.Status)
	switch {
	case in.ID == uuid.Nil:
		return nil, fmt.Errorf("submission id is required: %w", coreerrs.ErrInvalidArgument)
	case slug == "":
		return nil, fmt.Errorf("problem_slug is required: %w", coreerrs.ErrInvalidArgument)
	case status == "":
		return nil, fmt.Errorf("status is required: %w", coreerrs.ErrInvalidArgument)
	}
	at := s.clock.Now().UTC()
	if in.SubmittedAt != nil && !in.SubmittedAt.IsZero() {
		at = in.SubmittedAt.UTC()
	}
	tags := make([]string, 0, len(in.Tags))
	for _, t := range in.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return &types.Submission{
		ID:                 in.ID,
		UserID:             userID,
		ProblemSlug:        slug,
		ProblemTitle:       strings.TrimSpace(in.ProblemTitle),
		Difficulty:         in.Difficulty,
		Tags:               types.EncodeStrings(tags),
		Status:             status,
		Language:           in.Language,
		Code:               in.Code,
		AttemptNumber:      in.AttemptNumber,
		TimeElapsedSeconds: in.TimeElapsedSeconds,
		SubmittedAt:        at,
	}, nil
}

func (s *submissionService) updateAttempts(dbc dbctx.Context, sub *types.Submission) error {
	st, err := s.repos.Attempts.GetByUserAndSlug(dbc, sub.UserID, sub.ProblemSlug)
	if err != nil {
		return fmt.Errorf("load attempt stats: %w", err)
	}
	if st == nil {
		st = &types.ProblemAttemptStats{
			UserID:         sub.UserID,
			ProblemSlug:    sub.ProblemSlug,
			FirstAttemptAt: sub.SubmittedAt,
			LastAttemptAt:  sub.SubmittedAt,
		}
	}
	applyAttempt(st, sub)
	if err := s.repos.Attempts.Upsert(dbc, st); err != nil {
		return fmt.Errorf("save attempt stats: %w", err)
	}
	return nil
}

// applyAttempt folds sub into st. A solve is slow when the first success
// needed slowSolveAttempts or more attempts; a problem is a struggle while
// it has struggleFailures or more failures and no success.
func applyAttempt(st *types.ProblemAttemptStats, sub *types.Submission) {
	if sub.ProblemTitle != "" {
		st.ProblemTitle = sub.ProblemTitle
	}
	if sub.Difficulty != "" {
		st.Difficulty = sub.Difficulty
	}
	st.TotalAttempts++
	if !sub.Accepted() {
		st.FailedAttempts++
	}
	if sub.SubmittedAt.Before(st.FirstAttemptAt) {
		st.FirstAttemptAt = sub.SubmittedAt
	}
	if sub.SubmittedAt.After(st.LastAttemptAt) {
		st.LastAttemptAt = sub.SubmittedAt
	}
	if sub.Accepted() && st.FirstSuccessAt == nil {
		at := sub.SubmittedAt
		secs := int(at.Sub(st.FirstAttemptAt).Seconds())
		if secs < 0 {
			secs = 0
		}
		st.FirstSuccessAt = &at
		st.TimeToFirstSuccessSeconds = &secs
		st.IsSlowSolve = st.TotalAttempts >= slowSolveAttempts
	}
	st.IsStruggle = st.FirstSuccessAt == nil && st.FailedAttempts >= struggleFailures
}

func (s *submissionService) updateSkills(dbc dbctx.Context, sub *types.Submission) error {
	tags := sub.TagList()
	if len(tags) == 0 {
		return nil
	}
	all, err := s.repos.Submissions.ListByUser(dbc, sub.UserID)
	if err != nil {
		return fmt.Errorf("load submissions: %w", err)
	}
	now := s.clock.Now().UTC()
	scores := make([]*types.SkillScore, 0, len(tags))
	for _, tag := range tags {
		total, ok := 0, 0
		for _, x := range all {
			if !x.HasTag(tag) {
				continue
			}
			total++
			if x.Accepted() {
				ok++
			}
		}
		rate := 0.0
		if total > 0 {
			rate = float64(ok) / float64(total)
		}
		practiced := sub.SubmittedAt
		scores = append(scores, &types.SkillScore{
			UserID:        sub.UserID,
			Tag:           tag,
			Score:         SkillScore(rate, total),
			TotalAttempts: total,
			SuccessRate:   rate,
			LastPracticed: &practiced,
			UpdatedAt:     now,
		})
	}
	if err := s.repos.Skills.Upsert(dbc, scores); err != nil {
		return fmt.Errorf("save skill scores: %w", err)
	}
	return nil
}

// SkillScore converts a success rate into a 0..100 score. With fewer than
// skillConfidenceFloor attempts the score is pulled toward neutral.
func SkillScore(successRate float64, attempts int) float64 {
	raw := successRate * 100
	if attempts >= skillConfidenceFloor {
		return raw
	}
	if attempts <= 0 {
		return neutralSkillScore
	}
	w := float64(attempts) / skillConfidenceFloor
	return neutralSkillScore + (raw-neutralSkillScore)*w
}

// markSolved adds an accepted slug to the current path's progress when the
// path contains it.
func (s *submissionService) markSolved(dbc dbctx.Context, sub *types.Submission) error {
	pathID, err := currentPathID(dbc, s.repos.Settings, sub.UserID)
	if err != nil {
		return err
	}
	path, err := s.repos.Paths.GetByID(dbc, pathID)
	if err != nil {
		return fmt.Errorf("load path: %w", err)
	}
	_, err = markPathProblem(dbc, s.repos.Progress, sub.UserID, path, sub.ProblemSlug, s.clock.Now().UTC())
	return err
}

func (s *submissionService) touchStreak(dbc dbctx.Context, sub *types.Submission) error {
	return recordActivity(dbc, s.repos.Streaks, sub.UserID, sub.SubmittedAt, s.clock.Now().UTC())
}
