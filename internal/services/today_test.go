package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/leetcoach-backend/internal/domain"
	"github.com/yungbote/leetcoach-backend/internal/platform/dbctx"
)

func failure(tags ...string) *types.Submission {
	return &types.Submission{Status: "Wrong Answer", Tags: types.EncodeStrings(tags)}
}

func TestInsight_RulesInOrder(t *testing.T) {
	t.Parallel()

	builders := []DailyFocusProblem{{Category: "Graph"}}
	cases := []struct {
		name     string
		failures []*types.Submission
		due      int
		builders []DailyFocusProblem
		want     string
	}{
		{"no failures", nil, 3, builders, "Start your journey!"},
		{"no tags", []*types.Submission{failure()}, 3, builders, "Keep practicing!"},
		{"struggle", []*types.Submission{failure("Tree"), failure("Tree", "DFS"), failure("Tree")}, 3, builders, "You've struggled with 'Tree' problems recently (3 attempts)"},
		{"one review", []*types.Submission{failure("Tree")}, 1, builders, "You have 1 review due."},
		{"reviews", []*types.Submission{failure("Tree")}, 2, builders, "You have 2 reviews due."},
		{"skill builder", []*types.Submission{failure("Tree")}, 0, builders, "Your 'Graph' skills need work."},
		{"default", []*types.Submission{failure("Tree")}, 0, nil, "Great progress!"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Insight(tc.failures, tc.due, tc.builders)
			if !strings.HasPrefix(got, tc.want) {
				t.Fatalf("expected prefix %q got %q", tc.want, got)
			}
		})
	}
}

func TestTodayService_BuildsDashboard(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	userID := uuid.New()
	subs := h.submissionService()

	for _, in := range []SubmissionInput{
		{ID: uuid.New(), ProblemSlug: "contains-duplicate", Status: types.SubmissionAccepted, Tags: []string{"Array"}},
		{ID: uuid.New(), ProblemSlug: "number-of-islands", ProblemTitle: "Number of Islands", Status: "Wrong Answer", Tags: []string{"Graph"}},
	} {
		if _, err := subs.Ingest(ctx, userID, in); err != nil {
			t.Fatalf("Ingest: %v", err)
		}
	}

	v, err := h.todayService().Get(ctx, userID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v.Streak != 1 || v.DailyGoal != defaultDailyGoal || v.CompletedToday != 1 {
		t.Fatalf("unexpected counters: %+v", v)
	}
	if len(v.ReviewsDue) != 1 || v.ReviewsDue[0].Slug != "number-of-islands" || v.ReviewsDue[0].Priority != 1 || v.ReviewsDue[0].Category != "Review" {
		t.Fatalf("unexpected reviews: %+v", v.ReviewsDue)
	}
	if len(v.PathProblems) != 3 || v.PathProblems[0].Slug != "valid-anagram" || v.PathProblems[0].Reason != "Next in Arrays & Hashing" {
		t.Fatalf("unexpected path problems: %+v", v.PathProblems)
	}
	// The only failed Graph problem is already listed as a review.
	if len(v.SkillBuilders) != 0 {
		t.Fatalf("expected no skill builders, got %+v", v.SkillBuilders)
	}
	if !strings.HasPrefix(v.Insight, "You have 1 review due.") {
		t.Fatalf("unexpected insight: %q", v.Insight)
	}
	if v.PaceStatus != nil {
		t.Fatalf("expected no pace without a goal, got %+v", v.PaceStatus)
	}
}

func TestTodayService_ServesCacheUntilInvalidated(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	userID := uuid.New()
	today := h.todayService()

	first, err := today.Get(ctx, userID)
	if err != nil || first.CompletedToday != 0 {
		t.Fatalf("Get: v=%+v err=%v", first, err)
	}

	// Written straight to the repo, so nothing invalidates the entry.
	sub := &types.Submission{ID: uuid.New(), UserID: userID, ProblemSlug: "two-sum", Status: types.SubmissionAccepted, SubmittedAt: h.clock.Now().UTC()}
	if _, err := h.submissions.Insert(dbctx.Context{Ctx: ctx}, sub); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	cached, err := today.Get(ctx, userID)
	if err != nil || cached.CompletedToday != 0 {
		t.Fatalf("expected cached dashboard, got=%+v err=%v", cached, err)
	}

	h.dashboard.Invalidate(ctx, userID)
	fresh, err := today.Get(ctx, userID)
	if err != nil || fresh.CompletedToday != 1 {
		t.Fatalf("expected recomputed dashboard, got=%+v err=%v", fresh, err)
	}
}

func TestTodayService_MutationInvalidates(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	userID := uuid.New()
	today := h.todayService()

	if _, err := today.Get(ctx, userID); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if _, err := NewReviewService(h.log, h.queue, h.dashboard).Add(ctx, userID, AddReviewInput{ProblemSlug: "lru-cache"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	v, err := today.Get(ctx, userID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(v.ReviewsDue) != 1 || v.ReviewsDue[0].Reason != "Manual addition" {
		t.Fatalf("expected manual review after invalidation, got %+v", v.ReviewsDue)
	}
}
