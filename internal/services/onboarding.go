package services

import (
	"context"
	"fmt"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"

	"github.com/yungbote/leetcoach-backend/internal/data/repos"
	types "github.com/yungbote/leetcoach-backend/internal/domain"
	"github.com/yungbote/leetcoach-backend/internal/modules/coach/onboarding"
	"github.com/yungbote/leetcoach-backend/internal/platform/dbctx"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
)

type ImportHistoryResult struct {
	Success          bool   `json:"success"`
	ProblemsImported int    `json:"problems_imported"`
	Message          string `json:"message"`
}

type OnboardingService interface {
	// Get creates the checklist on first read.
	Get(ctx context.Context, userID uuid.UUID) (*types.UserOnboarding, error)
	UpdateStep(ctx context.Context, userID uuid.UUID, u onboarding.StepUpdate) (*types.UserOnboarding, error)
	Skip(ctx context.Context, userID uuid.UUID, step onboarding.Step) (*types.UserOnboarding, error)
	VerifyExtension(ctx context.Context, userID uuid.UUID) (*types.UserOnboarding, error)
	ImportHistory(ctx context.Context, userID uuid.UUID) (*ImportHistoryResult, error)
	Complete(ctx context.Context, userID uuid.UUID) (*types.UserOnboarding, error)
	Reset(ctx context.Context, userID uuid.UUID) (*types.UserOnboarding, error)
}

type onboardingService struct {
	log         *logger.Logger
	repo        repos.OnboardingRepo
	submissions repos.SubmissionRepo
	clock       clock.Clock
}

func NewOnboardingService(log *logger.Logger, repo repos.OnboardingRepo, submissions repos.SubmissionRepo, c clock.Clock) OnboardingService {
	if c == nil {
		c = clock.New()
	}
	return &onboardingService{log: log.With("service", "OnboardingService"), repo: repo, submissions: submissions, clock: c}
}

func (s *onboardingService) Get(ctx context.Context, userID uuid.UUID) (*types.UserOnboarding, error) {
	dbc := dbctx.Context{Ctx: ctx}
	o, err := s.repo.Get(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("load onboarding: %w", err)
	}
	if o != nil {
		return o, nil
	}
	o = onboarding.New(userID, s.clock.Now().UTC())
	if err := s.save(dbc, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *onboardingService) UpdateStep(ctx context.Context, userID uuid.UUID, u onboarding.StepUpdate) (*types.UserOnboarding, error) {
	return s.mutate(ctx, userID, func(o *types.UserOnboarding) error {
		onboarding.Apply(o, u, s.clock.Now().UTC())
		return nil
	})
}

func (s *onboardingService) Skip(ctx context.Context, userID uuid.UUID, step onboarding.Step) (*types.UserOnboarding, error) {
	return s.mutate(ctx, userID, func(o *types.UserOnboarding) error {
		return onboarding.Skip(o, step, s.clock.Now().UTC())
	})
}

func (s *onboardingService) VerifyExtension(ctx context.Context, userID uuid.UUID) (*types.UserOnboarding, error) {
	n, err := s.countSubmissions(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, userID, func(o *types.UserOnboarding) error {
		onboarding.VerifyExtension(o, n, s.clock.Now().UTC())
		return nil
	})
}

func (s *onboardingService) ImportHistory(ctx context.Context, userID uuid.UUID) (*ImportHistoryResult, error) {
	n, err := s.countSubmissions(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.mutate(ctx, userID, func(o *types.UserOnboarding) error {
		return onboarding.ImportHistory(o, n, s.clock.Now().UTC())
	}); err != nil {
		return nil, err
	}
	return &ImportHistoryResult{Success: true, ProblemsImported: n, Message: onboarding.ImportMessage(n)}, nil
}

func (s *onboardingService) Complete(ctx context.Context, userID uuid.UUID) (*types.UserOnboarding, error) {
	o, err := s.mutate(ctx, userID, func(o *types.UserOnboarding) error {
		return onboarding.Complete(o, s.clock.Now().UTC())
	})
	if err == nil {
		s.log.Info("onboarding complete", "user_id", userID)
	}
	return o, err
}

func (s *onboardingService) Reset(ctx context.Context, userID uuid.UUID) (*types.UserOnboarding, error) {
	return s.mutate(ctx, userID, func(o *types.UserOnboarding) error {
		onboarding.Reset(o, s.clock.Now().UTC())
		return nil
	})
}

// mutate loads or creates the row, applies fn and saves. A rejected
// transition leaves storage untouched.
func (s *onboardingService) mutate(ctx context.Context, userID uuid.UUID, fn func(*types.UserOnboarding) error) (*types.UserOnboarding, error) {
	dbc := dbctx.Context{Ctx: ctx}
	o, err := s.load(dbc, userID)
	if err != nil {
		return nil, err
	}
	if err := fn(o); err != nil {
		return nil, err
	}
	if err := s.save(dbc, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *onboardingService) load(dbc dbctx.Context, userID uuid.UUID) (*types.UserOnboarding, error) {
	o, err := s.repo.Get(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("load onboarding: %w", err)
	}
	if o == nil {
		o = onboarding.New(userID, s.clock.Now().UTC())
	}
	return o, nil
}

func (s *onboardingService) save(dbc dbctx.Context, o *types.UserOnboarding) error {
	if err := s.repo.Upsert(dbc, o); err != nil {
		return fmt.Errorf("save onboarding: %w", err)
	}
	return nil
}

func (s *onboardingService) countSubmissions(ctx context.Context, userID uuid.UUID) (int, error) {
	tot, err := s.submissions.Totals(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}
	return int(tot.Total), nil
}
