// Package onboarding holds the first-run checklist rules: which steps exist,
// which may be skipped, and when the checklist may be closed.
package onboarding

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/leetcoach-backend/internal/domain"
	coreerrs "github.com/yungbote/leetcoach-backend/internal/pkg/errors"
)

type Step string

const (
	StepObjective Step = "objective"
	StepExtension Step = "extension"
	StepHistory   Step = "history"
	StepPath      Step = "path"
)

// Steps in display order. CurrentStep is 1-based over this list and is
// len(Steps)+1 once every step is done.
var Steps = []Step{StepObjective, StepExtension, StepHistory, StepPath}

// ParseStep rejects names outside Steps.
func ParseStep(name string) (Step, error) {
	for _, s := range Steps {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("invalid step %q, must be one of %v: %w", name, Steps, coreerrs.ErrInvalidArgument)
}

// Skippable reports whether a step may be marked done without doing it.
func Skippable(s Step) bool {
	return s == StepExtension || s == StepHistory
}

// New is the initial checklist.
func New(userID uuid.UUID, now time.Time) *types.UserOnboarding {
	return &types.UserOnboarding{UserID: userID, CurrentStep: 1, CreatedAt: now, UpdatedAt: now}
}

// StepUpdate sets one step. ImportedCount is only read for the history step.
type StepUpdate struct {
	Step          Step
	Completed     bool
	ImportedCount *int
}

// Apply mutates o for u and recomputes the current step. Completing the
// extension or history step stamps its timestamp.
func Apply(o *types.UserOnboarding, u StepUpdate, now time.Time) {
	switch u.Step {
	case StepObjective:
		o.HasObjective = u.Completed
	case StepExtension:
		o.ExtensionInstalled = u.Completed
		if u.Completed {
			o.ExtensionVerifiedAt = &now
		}
	case StepHistory:
		o.HistoryImported = u.Completed
		if u.Completed {
			o.HistoryImportedAt = &now
			if u.ImportedCount != nil {
				o.ProblemsImportedCount = *u.ImportedCount
			}
		}
	case StepPath:
		o.FirstPathSelected = u.Completed
	}
	o.CurrentStep = CurrentStep(o)
	o.UpdatedAt = now
}

// Skip marks a skippable step done.
func Skip(o *types.UserOnboarding, s Step, now time.Time) error {
	if !Skippable(s) {
		return fmt.Errorf("step %q cannot be skipped: %w", s, coreerrs.ErrInvalidArgument)
	}
	switch s {
	case StepExtension:
		o.ExtensionInstalled = true
	case StepHistory:
		o.HistoryImported = true
	}
	o.CurrentStep = CurrentStep(o)
	o.UpdatedAt = now
	return nil
}

// VerifyExtension records the extension reporting in. Existing submissions
// mean history already synced, so that step closes too.
func VerifyExtension(o *types.UserOnboarding, submissions int, now time.Time) {
	o.ExtensionInstalled = true
	o.ExtensionVerifiedAt = &now
	if submissions > 0 {
		o.HistoryImported = true
		o.HistoryImportedAt = &now
		o.ProblemsImportedCount = submissions
	}
	o.CurrentStep = CurrentStep(o)
	o.UpdatedAt = now
}

// ImportHistory needs the extension, which performs the actual sync.
func ImportHistory(o *types.UserOnboarding, submissions int, now time.Time) error {
	if !o.ExtensionInstalled {
		return fmt.Errorf("extension must be installed before importing history: %w", coreerrs.ErrInvalidState)
	}
	o.HistoryImported = true
	o.HistoryImportedAt = &now
	o.ProblemsImportedCount = submissions
	o.CurrentStep = CurrentStep(o)
	o.UpdatedAt = now
	return nil
}

// Complete closes the checklist. Extension and history may have been
// skipped; objective and path may not.
func Complete(o *types.UserOnboarding, now time.Time) error {
	if !o.HasObjective {
		return fmt.Errorf("cannot complete onboarding: objective not set: %w", coreerrs.ErrInvalidState)
	}
	if !o.FirstPathSelected {
		return fmt.Errorf("cannot complete onboarding: learning path not selected: %w", coreerrs.ErrInvalidState)
	}
	o.OnboardingComplete = true
	o.CurrentStep = CurrentStep(o)
	o.UpdatedAt = now
	return nil
}

// Reset clears progress but keeps the row.
func Reset(o *types.UserOnboarding, now time.Time) {
	created := o.CreatedAt
	*o = *New(o.UserID, now)
	if !created.IsZero() {
		o.CreatedAt = created
	}
}

func CurrentStep(o *types.UserOnboarding) int {
	done := []bool{o.HasObjective, o.ExtensionInstalled, o.HistoryImported, o.FirstPathSelected}
	for i, d := range done {
		if !d {
			return i + 1
		}
	}
	return len(done) + 1
}

func ImportMessage(count int) string {
	if count > 0 {
		return "History import completed"
	}
	return "No existing submissions found. Practice on LeetCode and your submissions will sync automatically."
}
