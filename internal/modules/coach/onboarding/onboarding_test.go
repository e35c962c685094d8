package onboarding

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	coreerrs "github.com/yungbote/leetcoach-backend/internal/pkg/errors"
)

var now = time.Date(2024, 3, 6, 15, 0, 0, 0, time.UTC)

func TestParseStep(t *testing.T) {
	t.Parallel()
	for _, s := range Steps {
		got, err := ParseStep(string(s))
		if err != nil || got != s {
			t.Fatalf("ParseStep(%q): got=%q err=%v", s, got, err)
		}
	}
	if _, err := ParseStep("payment"); !errors.Is(err, coreerrs.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestApply_AdvancesCurrentStep(t *testing.T) {
	t.Parallel()
	o := New(uuid.New(), now)
	if o.CurrentStep != 1 {
		t.Fatalf("new checklist should start at step 1, got %d", o.CurrentStep)
	}

	Apply(o, StepUpdate{Step: StepObjective, Completed: true}, now)
	if !o.HasObjective || o.CurrentStep != 2 {
		t.Fatalf("after objective: %+v", o)
	}

	Apply(o, StepUpdate{Step: StepPath, Completed: true}, now)
	if o.CurrentStep != 2 {
		t.Fatalf("path out of order should not skip the extension step, got %d", o.CurrentStep)
	}

	n := 42
	Apply(o, StepUpdate{Step: StepExtension, Completed: true}, now)
	Apply(o, StepUpdate{Step: StepHistory, Completed: true, ImportedCount: &n}, now)
	if o.CurrentStep != 5 || o.ProblemsImportedCount != 42 || o.ExtensionVerifiedAt == nil || o.HistoryImportedAt == nil {
		t.Fatalf("after all steps: %+v", o)
	}

	Apply(o, StepUpdate{Step: StepObjective, Completed: false}, now)
	if o.HasObjective || o.CurrentStep != 1 {
		t.Fatalf("unsetting objective should rewind to step 1: %+v", o)
	}
}

func TestSkip_OnlyOptionalSteps(t *testing.T) {
	t.Parallel()
	o := New(uuid.New(), now)
	for _, s := range []Step{StepObjective, StepPath} {
		if err := Skip(o, s, now); !errors.Is(err, coreerrs.ErrInvalidArgument) {
			t.Fatalf("Skip(%q): expected ErrInvalidArgument, got %v", s, err)
		}
	}
	if err := Skip(o, StepExtension, now); err != nil || !o.ExtensionInstalled {
		t.Fatalf("Skip(extension): err=%v row=%+v", err, o)
	}
	if o.ExtensionVerifiedAt != nil {
		t.Fatalf("skipping must not stamp verification")
	}
	if err := Skip(o, StepHistory, now); err != nil || !o.HistoryImported {
		t.Fatalf("Skip(history): err=%v row=%+v", err, o)
	}
}

func TestVerifyExtension_ClosesHistoryWhenSubmissionsExist(t *testing.T) {
	t.Parallel()
	o := New(uuid.New(), now)
	VerifyExtension(o, 0, now)
	if !o.ExtensionInstalled || o.HistoryImported {
		t.Fatalf("no submissions: %+v", o)
	}

	o = New(uuid.New(), now)
	VerifyExtension(o, 17, now)
	if !o.HistoryImported || o.ProblemsImportedCount != 17 || o.HistoryImportedAt == nil {
		t.Fatalf("with submissions: %+v", o)
	}
}

func TestImportHistory_RequiresExtension(t *testing.T) {
	t.Parallel()
	o := New(uuid.New(), now)
	if err := ImportHistory(o, 3, now); !errors.Is(err, coreerrs.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	o.ExtensionInstalled = true
	if err := ImportHistory(o, 3, now); err != nil || !o.HistoryImported || o.ProblemsImportedCount != 3 {
		t.Fatalf("ImportHistory: err=%v row=%+v", err, o)
	}
	if ImportMessage(3) != "History import completed" || ImportMessage(0) == ImportMessage(3) {
		t.Fatalf("unexpected import messages")
	}
}

func TestComplete_RequiresObjectiveAndPath(t *testing.T) {
	t.Parallel()
	o := New(uuid.New(), now)
	if err := Complete(o, now); !errors.Is(err, coreerrs.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState without objective, got %v", err)
	}
	o.HasObjective = true
	if err := Complete(o, now); !errors.Is(err, coreerrs.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState without path, got %v", err)
	}
	o.FirstPathSelected = true
	if err := Complete(o, now); err != nil || !o.OnboardingComplete {
		t.Fatalf("Complete: err=%v row=%+v", err, o)
	}
	if o.CurrentStep != 2 {
		t.Fatalf("skippable steps still open should leave step 2 current, got %d", o.CurrentStep)
	}
}

func TestReset_KeepsCreatedAt(t *testing.T) {
	t.Parallel()
	created := now.Add(-48 * time.Hour)
	o := New(uuid.New(), created)
	Apply(o, StepUpdate{Step: StepObjective, Completed: true}, now)
	o.OnboardingComplete = true
	o.ProblemsImportedCount = 9

	userID := o.UserID
	Reset(o, now)
	if o.UserID != userID || o.HasObjective || o.OnboardingComplete || o.ProblemsImportedCount != 0 || o.CurrentStep != 1 {
		t.Fatalf("Reset left state behind: %+v", o)
	}
	if !o.CreatedAt.Equal(created) || !o.UpdatedAt.Equal(now) {
		t.Fatalf("Reset timestamps: created=%v updated=%v", o.CreatedAt, o.UpdatedAt)
	}
}
