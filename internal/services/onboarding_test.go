package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/leetcoach-backend/internal/domain"
	"github.com/yungbote/leetcoach-backend/internal/modules/coach/onboarding"
	coreerrs "github.com/yungbote/leetcoach-backend/internal/pkg/errors"
)

func TestOnboardingService_Flow(t *testing.T) {
	h := newHarness(t)
	svc := h.onboardingService()
	ctx := context.Background()
	userID := uuid.New()

	o, err := svc.Get(ctx, userID)
	if err != nil || o.CurrentStep != 1 || o.OnboardingComplete {
		t.Fatalf("Get: row=%+v err=%v", o, err)
	}

	if _, err := svc.ImportHistory(ctx, userID); !errors.Is(err, coreerrs.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState before the extension, got %v", err)
	}

	if _, err := h.submissionService().Ingest(ctx, userID, SubmissionInput{ID: uuid.New(), ProblemSlug: "two-sum", Status: types.SubmissionAccepted}); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	o, err = svc.VerifyExtension(ctx, userID)
	if err != nil || !o.ExtensionInstalled || !o.HistoryImported || o.ProblemsImportedCount != 1 {
		t.Fatalf("VerifyExtension: row=%+v err=%v", o, err)
	}

	res, err := svc.ImportHistory(ctx, userID)
	if err != nil || !res.Success || res.ProblemsImported != 1 || res.Message != "History import completed" {
		t.Fatalf("ImportHistory: res=%+v err=%v", res, err)
	}

	if _, err := svc.Complete(ctx, userID); !errors.Is(err, coreerrs.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState without objective, got %v", err)
	}
	for _, s := range []onboarding.Step{onboarding.StepObjective, onboarding.StepPath} {
		if _, err := svc.UpdateStep(ctx, userID, onboarding.StepUpdate{Step: s, Completed: true}); err != nil {
			t.Fatalf("UpdateStep(%s): %v", s, err)
		}
	}
	o, err = svc.Complete(ctx, userID)
	if err != nil || !o.OnboardingComplete || o.CurrentStep != 5 {
		t.Fatalf("Complete: row=%+v err=%v", o, err)
	}

	stored, err := svc.Get(ctx, userID)
	if err != nil || !stored.OnboardingComplete {
		t.Fatalf("completion not persisted: row=%+v err=%v", stored, err)
	}

	o, err = svc.Reset(ctx, userID)
	if err != nil || o.OnboardingComplete || o.HasObjective || o.CurrentStep != 1 {
		t.Fatalf("Reset: row=%+v err=%v", o, err)
	}
}

func TestOnboardingService_SkipRejectsRequiredSteps(t *testing.T) {
	h := newHarness(t)
	svc := h.onboardingService()
	ctx := context.Background()
	userID := uuid.New()

	if _, err := svc.Skip(ctx, userID, onboarding.StepPath); !errors.Is(err, coreerrs.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	o, err := svc.Skip(ctx, userID, onboarding.StepHistory)
	if err != nil || !o.HistoryImported || o.HistoryImportedAt != nil {
		t.Fatalf("Skip(history): row=%+v err=%v", o, err)
	}
}
