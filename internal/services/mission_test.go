package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/leetcoach-backend/internal/data/repos"
	types "github.com/yungbote/leetcoach-backend/internal/domain"
	"github.com/yungbote/leetcoach-backend/internal/modules/coach/mission"
	"github.com/yungbote/leetcoach-backend/internal/platform/dbctx"
)

func (h *harness) missionContext() *MissionContext {
	return NewMissionContext(h.log, MissionContextRepos{
		Goals:       h.goals,
		Settings:    h.settings,
		Paths:       h.paths,
		Progress:    h.progress,
		Skills:      h.skills,
		Reviews:     h.reviewItems,
		Submissions: h.submissions,
		Attempts:    h.attempts,
		Streaks:     h.streaks,
	})
}

func (h *harness) missionService() MissionService {
	mc := h.missionContext()
	a := mission.New(mission.Deps{
		Log:      h.log,
		Store:    repos.NewDailyMissionRepo(h.db, h.log),
		Context:  mc,
		Activity: mc,
		Clock:    h.clock,
		OnChange: h.dashboard.Invalidate,
	})
	return NewMissionService(h.log, a, h.submissions, h.clock, 1)
}

func TestMissionContext_Gather(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	userID := uuid.New()

	if _, err := h.submissionService().Ingest(ctx, userID, SubmissionInput{
		ID:           uuid.New(),
		ProblemSlug:  "coin-change",
		ProblemTitle: "Coin Change",
		Difficulty:   "Medium",
		Tags:         []string{"Dynamic Programming"},
		Status:       "Time Limit Exceeded",
	}); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	mc, err := h.missionContext().Gather(ctx, userID, h.clock.Now())
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if mc.MissionDate != "2024-03-06" {
		t.Fatalf("unexpected mission date %q", mc.MissionDate)
	}
	if len(mc.RecentFailures) != 1 || mc.RecentFailures[0].ProblemID != "coin-change" {
		t.Fatalf("unexpected failures: %+v", mc.RecentFailures)
	}
	if len(mc.RecentFailurePatterns) != 1 || mc.RecentFailurePatterns[0].Tag != "Dynamic Programming" {
		t.Fatalf("unexpected patterns: %+v", mc.RecentFailurePatterns)
	}
	if len(mc.WeakSkills) != 1 || len(mc.SkillScores) != 1 {
		t.Fatalf("expected one weak skill, got scores=%+v weak=%+v", mc.SkillScores, mc.WeakSkills)
	}
	if mc.Path == nil || len(mc.Path.Upcoming) == 0 || mc.Path.CurrentCategory == "" {
		t.Fatalf("expected default path context, got %+v", mc.Path)
	}
	if mc.Goal != nil || mc.Pace != nil {
		t.Fatalf("expected no goal context without a goal")
	}
	if len(mc.SolvedProblems) != 0 || mc.CurrentStreak != 0 {
		t.Fatalf("unexpected solved=%v streak=%d", mc.SolvedProblems, mc.CurrentStreak)
	}
}

func TestMissionService_TodayAndGenerateAll(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	svc := h.missionService()
	active, idle := uuid.New(), uuid.New()

	if _, err := h.submissionService().Ingest(ctx, active, SubmissionInput{
		ID:          uuid.New(),
		ProblemSlug: "two-sum",
		Tags:        []string{"Array"},
		Status:      types.SubmissionAccepted,
	}); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	res, err := svc.GenerateAll(ctx)
	if err != nil {
		t.Fatalf("GenerateAll: %v", err)
	}
	if res.Generated < 1 || res.Failed != 0 || res.Total != res.Generated+res.Skipped+res.Failed {
		t.Fatalf("unexpected first run: %+v", res)
	}

	again, err := svc.GenerateAll(ctx)
	if err != nil {
		t.Fatalf("GenerateAll: %v", err)
	}
	if again.Generated != 0 || again.Skipped < 1 {
		t.Fatalf("second run should only skip, got %+v", again)
	}

	v, err := svc.Today(ctx, active)
	if err != nil {
		t.Fatalf("Today: %v", err)
	}
	if v.GenerationSource != types.GenerationSourceFallback || len(v.Problems) == 0 {
		t.Fatalf("expected fallback mission with problems, got %+v", v)
	}
	if v.TotalCompletedToday != 1 || v.Streak != 1 {
		t.Fatalf("expected today's accepted solve in the view, got completed=%d streak=%d", v.TotalCompletedToday, v.Streak)
	}

	// Users without recent submissions are never batch generated.
	store := repos.NewDailyMissionRepo(h.db, h.log)
	m, err := store.GetByUserAndDate(dbctx.Context{Ctx: ctx}, idle, "2024-03-06")
	if err != nil || m != nil {
		t.Fatalf("expected no mission for idle user, got=%v err=%v", m, err)
	}
}
