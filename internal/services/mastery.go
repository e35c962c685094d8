package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/leetcoach-backend/internal/data/repos"
	"github.com/yungbote/leetcoach-backend/internal/modules/coach/mastery"
	coreerrs "github.com/yungbote/leetcoach-backend/internal/pkg/errors"
	"github.com/yungbote/leetcoach-backend/internal/platform/dbctx"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
)

type MasteryService interface {
	Report(ctx context.Context, userID uuid.UUID) (*mastery.Report, error)
	// Domain resolves name by display name or slug.
	Domain(ctx context.Context, userID uuid.UUID, name string) (*mastery.Detail, error)
}

type MasteryRepos struct {
	Skills      repos.SkillScoreRepo
	Submissions repos.SubmissionRepo
	Settings    repos.UserSettingsRepo
	Paths       repos.LearningPathRepo
}

type masteryService struct {
	log   *logger.Logger
	repos MasteryRepos
}

func NewMasteryService(log *logger.Logger, r MasteryRepos) MasteryService {
	return &masteryService{log: log.With("service", "MasteryService"), repos: r}
}

func (s *masteryService) Report(ctx context.Context, userID uuid.UUID) (*mastery.Report, error) {
	scores, err := s.repos.Skills.ListByUser(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, fmt.Errorf("load skill scores: %w", err)
	}
	r := mastery.Assess(scores)
	return &r, nil
}

// Domain recommends problems from the user's current path; a missing path
// only leaves the recommendation empty.
func (s *masteryService) Domain(ctx context.Context, userID uuid.UUID, name string) (*mastery.Detail, error) {
	d, ok := mastery.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("mastery domain %q: %w", name, coreerrs.ErrNotFound)
	}
	dbc := dbctx.Context{Ctx: ctx}
	scores, err := s.repos.Skills.ListByUser(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("load skill scores: %w", err)
	}
	subs, err := s.repos.Submissions.ListByUser(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("load submissions: %w", err)
	}
	pathID, err := currentPathID(dbc, s.repos.Settings, userID)
	if err != nil {
		return nil, err
	}
	path, err := s.repos.Paths.GetByID(dbc, pathID)
	if err != nil {
		return nil, fmt.Errorf("load path: %w", err)
	}
	if path == nil {
		s.log.Warn("current path missing; mastery detail without recommendations", "user_id", userID, "path_id", pathID)
	}

	out := mastery.Describe(d, scores, subs, path)
	return &out, nil
}
