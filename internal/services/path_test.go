package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/leetcoach-backend/internal/domain"
	coreerrs "github.com/yungbote/leetcoach-backend/internal/pkg/errors"
	"github.com/yungbote/leetcoach-backend/internal/platform/dbctx"
)

func TestPathService_ListAndProgress(t *testing.T) {
	h := newHarness(t)
	svc := h.pathService()
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	userID := uuid.New()

	list, err := svc.List(ctx)
	if err != nil || len(list) == 0 {
		t.Fatalf("List: got=%v err=%v", list, err)
	}
	var found bool
	for _, p := range list {
		if p.ID == types.DefaultPathID {
			found = true
			if p.TotalProblems != 150 || p.Categories[0] != "Arrays & Hashing" {
				t.Fatalf("unexpected summary: %+v", p)
			}
		}
	}
	if !found {
		t.Fatalf("default path missing from %+v", list)
	}

	if err := h.progress.Upsert(dbc, &types.UserPathProgress{
		UserID:            userID,
		PathID:            types.DefaultPathID,
		CompletedProblems: types.EncodeStrings([]string{"contains-duplicate"}),
	}); err != nil {
		t.Fatalf("Upsert progress: %v", err)
	}
	sub := &types.Submission{ID: uuid.New(), UserID: userID, ProblemSlug: "two-sum", Status: types.SubmissionAccepted, SubmittedAt: h.clock.Now().UTC()}
	if _, err := h.submissions.Insert(dbc, sub); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	v, err := svc.Current(ctx, userID)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if !v.IsCurrent || v.CompletedCount != 2 || v.TotalProblems != 150 {
		t.Fatalf("unexpected progress: completed=%d total=%d current=%v", v.CompletedCount, v.TotalProblems, v.IsCurrent)
	}
	if v.CompletionPercentage != 1.3 {
		t.Fatalf("expected 1.3%%, got %v", v.CompletionPercentage)
	}
	first := v.Categories[0]
	if first.Completed != 2 || !first.Problems[0].Completed || first.Problems[1].Completed || !first.Problems[2].Completed {
		t.Fatalf("unexpected first category: %+v", first)
	}
}

func TestPathService_SetCurrent(t *testing.T) {
	h := newHarness(t)
	svc := h.pathService()
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	userID := uuid.New()

	if _, err := svc.SetCurrent(ctx, userID, uuid.New()); !errors.Is(err, coreerrs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown path, got %v", err)
	}

	res, err := svc.SetCurrent(ctx, userID, types.DefaultPathID)
	if err != nil || !res.Success || res.PathID != types.DefaultPathID || res.PathName == "" {
		t.Fatalf("SetCurrent: res=%+v err=%v", res, err)
	}
	settings, err := h.settings.Get(dbc, userID)
	if err != nil || settings == nil || settings.CurrentPathID == nil || *settings.CurrentPathID != types.DefaultPathID {
		t.Fatalf("settings not saved: %+v err=%v", settings, err)
	}
	if settings.DailyGoal != defaultDailyGoal {
		t.Fatalf("expected default daily goal, got %d", settings.DailyGoal)
	}
	progress, err := h.progress.Get(dbc, userID, types.DefaultPathID)
	if err != nil || progress == nil || progress.CurrentCategory != "Arrays & Hashing" {
		t.Fatalf("progress row not created: %+v err=%v", progress, err)
	}
}

func TestPathService_CompleteProblem(t *testing.T) {
	h := newHarness(t)
	svc := h.pathService()
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	userID := uuid.New()

	if _, err := svc.CompleteProblem(ctx, userID, types.DefaultPathID, "not-on-path"); !errors.Is(err, coreerrs.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if _, err := svc.CompleteProblem(ctx, userID, uuid.New(), "two-sum"); !errors.Is(err, coreerrs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	res, err := svc.CompleteProblem(ctx, userID, types.DefaultPathID, "climbing-stairs")
	if err != nil || !res.Success || res.AlreadyCompleted {
		t.Fatalf("CompleteProblem: res=%+v err=%v", res, err)
	}
	again, err := svc.CompleteProblem(ctx, userID, types.DefaultPathID, "climbing-stairs")
	if err != nil || !again.AlreadyCompleted {
		t.Fatalf("second CompleteProblem: res=%+v err=%v", again, err)
	}

	p, err := h.progress.Get(dbc, userID, types.DefaultPathID)
	if err != nil || p == nil {
		t.Fatalf("progress: got=%v err=%v", p, err)
	}
	if done := p.Completed(); len(done) != 1 || done[0] != "climbing-stairs" || p.CurrentCategory != "1-D Dynamic Programming" {
		t.Fatalf("unexpected progress: completed=%v category=%q", done, p.CurrentCategory)
	}

	st, err := h.streaks.Get(dbc, userID)
	if err != nil || st == nil || st.CurrentStreak != 1 {
		t.Fatalf("expected streak of 1, got=%+v err=%v", st, err)
	}
}
