package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/leetcoach-backend/internal/domain"
	"github.com/yungbote/leetcoach-backend/internal/modules/coach/pacing"
	coreerrs "github.com/yungbote/leetcoach-backend/internal/pkg/errors"
	"github.com/yungbote/leetcoach-backend/internal/platform/dbctx"
)

var googleTemplateID = uuid.MustParse("22222222-2222-2222-2222-000000000001")

func TestObjectiveService_CreateFromTemplate(t *testing.T) {
	h := newHarness(t)
	svc := h.objectiveService()
	ctx := context.Background()
	userID := uuid.New()

	g, err := svc.Create(ctx, userID, CreateObjectiveInput{
		Title:          "Google in spring",
		TargetDeadline: h.clock.Now().AddDate(0, 0, 70),
		TemplateID:     &googleTemplateID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if g.TargetCompany != "Google" || g.TargetLevel != "L4" || g.WeeklyProblemTarget != defaultWeeklyProblemTarget || g.DailyProblemMinimum != defaultDailyProblemMinimum {
		t.Fatalf("template defaults not applied: %+v", g)
	}
	skills, err := pacing.DecodeRequiredSkills(g.RequiredSkills)
	if err != nil || len(skills) != 5 || skills[0].Domain != "Array" || skills[0].Target != 80 {
		t.Fatalf("unexpected required skills: %+v err=%v", skills, err)
	}
	if ids := types.DecodeStrings(g.PathIDs); len(ids) != 1 || ids[0] != types.DefaultPathID.String() {
		t.Fatalf("unexpected path ids: %v", ids)
	}
}

func TestObjectiveService_CreateRejectsBadInput(t *testing.T) {
	h := newHarness(t)
	svc := h.objectiveService()
	ctx := context.Background()
	userID := uuid.New()
	future := h.clock.Now().AddDate(0, 1, 0)
	unknown := uuid.New()

	cases := []struct {
		name string
		in   CreateObjectiveInput
		want error
	}{
		{"missing title", CreateObjectiveInput{TargetDeadline: future}, coreerrs.ErrInvalidArgument},
		{"past deadline", CreateObjectiveInput{Title: "x", TargetDeadline: h.clock.Now().AddDate(0, 0, -1)}, coreerrs.ErrInvalidArgument},
		{"today deadline", CreateObjectiveInput{Title: "x", TargetDeadline: h.clock.Now()}, coreerrs.ErrInvalidArgument},
		{"weekly too high", CreateObjectiveInput{Title: "x", TargetDeadline: future, WeeklyProblemTarget: 1000}, coreerrs.ErrInvalidArgument},
		{"bad skill", CreateObjectiveInput{Title: "x", TargetDeadline: future, RequiredSkills: []pacing.RequiredSkill{{Domain: "Graph", Target: 120}}}, coreerrs.ErrInvalidArgument},
		{"unknown template", CreateObjectiveInput{Title: "x", TargetDeadline: future, TemplateID: &unknown}, coreerrs.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, userID, tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestObjectiveService_OverviewPaceAndReadiness(t *testing.T) {
	h := newHarness(t)
	svc := h.objectiveService()
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	userID := uuid.New()

	_, err := svc.Create(ctx, userID, CreateObjectiveInput{
		Title:               "Graphs",
		TargetDeadline:      h.clock.Now().AddDate(0, 0, 28),
		WeeklyProblemTarget: 10,
		RequiredSkills: []pacing.RequiredSkill{
			{Domain: "Graph", Target: 80},
			{Domain: "Tree", Target: 50},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	now := h.clock.Now().UTC()
	if err := h.skills.Upsert(dbc, []*types.SkillScore{
		{UserID: userID, Tag: "Graph", Score: 40, UpdatedAt: now},
		{UserID: userID, Tag: "Tree", Score: 75, UpdatedAt: now},
	}); err != nil {
		t.Fatalf("Upsert scores: %v", err)
	}
	h.clock.Add(time.Hour)
	for _, slug := range []string{"number-of-islands", "clone-graph", "number-of-islands"} {
		sub := &types.Submission{ID: uuid.New(), UserID: userID, ProblemSlug: slug, Status: types.SubmissionAccepted, SubmittedAt: h.clock.Now().UTC()}
		if _, err := h.submissions.Insert(dbc, sub); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	ov, err := svc.Get(ctx, userID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ov.ProblemsSolved != 2 || ov.PaceStatus.ProblemsThisWeek != 2 || ov.PaceStatus.WeeklyTarget != 10 {
		t.Fatalf("unexpected pace counts: %+v", ov)
	}
	if len(ov.SkillGaps) != 2 || ov.SkillGaps[0].Domain != "Graph" || ov.SkillGaps[0].Gap != 40 || ov.SkillGaps[1].Gap != 0 {
		t.Fatalf("unexpected gaps: %+v", ov.SkillGaps)
	}
	// (40/80*100 + min(100, 75/50*100)) / 2
	if ov.ReadinessPercentage != 75 {
		t.Fatalf("expected readiness 75, got %v", ov.ReadinessPercentage)
	}
	if ov.TotalDays != ov.PaceStatus.Window.DaysTotal || ov.DaysRemaining != ov.PaceStatus.Window.DaysRemaining {
		t.Fatalf("window fields disagree with pace: %+v", ov)
	}

	pace, err := svc.Pace(ctx, userID)
	if err != nil || pace.Status != ov.PaceStatus.Status {
		t.Fatalf("Pace: got=%+v err=%v", pace, err)
	}
}

func TestObjectiveService_UpdateAndDelete(t *testing.T) {
	h := newHarness(t)
	svc := h.objectiveService()
	ctx := context.Background()
	userID := uuid.New()

	if _, err := svc.Get(ctx, userID); !errors.Is(err, coreerrs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound without a goal, got %v", err)
	}
	created, err := svc.Create(ctx, userID, CreateObjectiveInput{Title: "First", TargetDeadline: h.clock.Now().AddDate(0, 2, 0)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	bad := "archived"
	if _, err := svc.Update(ctx, userID, UpdateObjectiveInput{Status: &bad}); !errors.Is(err, coreerrs.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for status, got %v", err)
	}

	title := "Renamed"
	weekly := 30
	updated, err := svc.Update(ctx, userID, UpdateObjectiveInput{Title: &title, WeeklyProblemTarget: &weekly})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.ID != created.ID || updated.Title != "Renamed" || updated.WeeklyProblemTarget != 30 {
		t.Fatalf("unexpected update: %+v", updated)
	}

	if err := svc.Delete(ctx, userID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, userID); !errors.Is(err, coreerrs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestObjectiveService_Templates(t *testing.T) {
	h := newHarness(t)
	svc := h.objectiveService()
	ctx := context.Background()

	all, err := svc.ListTemplates(ctx, "")
	if err != nil || len(all) < 4 {
		t.Fatalf("ListTemplates: got=%d err=%v", len(all), err)
	}
	tpl, err := svc.GetTemplate(ctx, googleTemplateID)
	if err != nil || tpl.Company != "Google" {
		t.Fatalf("GetTemplate: got=%+v err=%v", tpl, err)
	}
	if _, err := svc.GetTemplate(ctx, uuid.New()); !errors.Is(err, coreerrs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
