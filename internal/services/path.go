package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"

	"github.com/yungbote/leetcoach-backend/internal/data/repos"
	types "github.com/yungbote/leetcoach-backend/internal/domain"
	coreerrs "github.com/yungbote/leetcoach-backend/internal/pkg/errors"
	"github.com/yungbote/leetcoach-backend/internal/platform/dbctx"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
)

type PathSummary struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	TotalProblems int       `json:"total_problems"`
	Categories    []string  `json:"categories"`
}

type PathProblemProgress struct {
	Slug       string `json:"slug"`
	Title      string `json:"title"`
	Difficulty string `json:"difficulty,omitempty"`
	Completed  bool   `json:"completed"`
}

type CategoryProgress struct {
	Name      string                `json:"name"`
	Total     int                   `json:"total"`
	Completed int                   `json:"completed"`
	Problems  []PathProblemProgress `json:"problems"`
}

type PathProgressView struct {
	ID                   uuid.UUID          `json:"id"`
	Name                 string             `json:"name"`
	Description          string             `json:"description,omitempty"`
	TotalProblems        int                `json:"total_problems"`
	CompletedCount       int                `json:"completed_count"`
	CompletionPercentage float64            `json:"completion_percentage"`
	CurrentCategory      string             `json:"current_category,omitempty"`
	IsCurrent            bool               `json:"is_current"`
	Categories           []CategoryProgress `json:"categories"`
}

type CompleteProblemResult struct {
	Success          bool   `json:"success"`
	ProblemSlug      string `json:"problem_slug"`
	AlreadyCompleted bool   `json:"already_completed"`
}

type SetCurrentPathResult struct {
	Success  bool      `json:"success"`
	PathID   uuid.UUID `json:"path_id"`
	PathName string    `json:"path_name"`
}

type PathService interface {
	List(ctx context.Context) ([]PathSummary, error)
	Get(ctx context.Context, userID, pathID uuid.UUID) (*PathProgressView, error)
	Current(ctx context.Context, userID uuid.UUID) (*PathProgressView, error)
	SetCurrent(ctx context.Context, userID, pathID uuid.UUID) (*SetCurrentPathResult, error)
	// CompleteProblem marks a path problem solved without a submission.
	CompleteProblem(ctx context.Context, userID, pathID uuid.UUID, slug string) (*CompleteProblemResult, error)
}

type PathRepos struct {
	Paths       repos.LearningPathRepo
	Progress    repos.PathProgressRepo
	Settings    repos.UserSettingsRepo
	Submissions repos.SubmissionRepo
	Streaks     repos.StreakRepo
}

type pathService struct {
	log       *logger.Logger
	repos     PathRepos
	dashboard *DashboardCache
	clock     clock.Clock
}

func NewPathService(log *logger.Logger, r PathRepos, dashboard *DashboardCache, c clock.Clock) PathService {
	if c == nil {
		c = clock.New()
	}
	return &pathService{log: log.With("service", "PathService"), repos: r, dashboard: dashboard, clock: c}
}

func (s *pathService) List(ctx context.Context) ([]PathSummary, error) {
	paths, err := s.repos.Paths.List(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, fmt.Errorf("list paths: %w", err)
	}
	out := make([]PathSummary, 0, len(paths))
	for _, p := range paths {
		sum := PathSummary{ID: p.ID, Name: p.Name, Description: p.Description, Categories: []string{}}
		for _, c := range p.OrderedCategories() {
			sum.Categories = append(sum.Categories, c.Name)
			sum.TotalProblems += len(c.Problems)
		}
		out = append(out, sum)
	}
	return out, nil
}

// Get renders a path with the user's progress. Manually completed problems
// and accepted submissions both count as solved.
func (s *pathService) Get(ctx context.Context, userID, pathID uuid.UUID) (*PathProgressView, error) {
	dbc := dbctx.Context{Ctx: ctx}
	path, err := s.load(dbc, pathID)
	if err != nil {
		return nil, err
	}
	progress, err := s.repos.Progress.Get(dbc, userID, pathID)
	if err != nil {
		return nil, fmt.Errorf("load path progress: %w", err)
	}
	accepted, err := s.repos.Submissions.AcceptedSlugs(dbc, userID, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("load accepted submissions: %w", err)
	}
	current, err := currentPathID(dbc, s.repos.Settings, userID)
	if err != nil {
		return nil, err
	}

	solved := solvedSet(progress, accepted)
	v := &PathProgressView{
		ID:          path.ID,
		Name:        path.Name,
		Description: path.Description,
		IsCurrent:   current == path.ID,
		Categories:  []CategoryProgress{},
	}
	if progress != nil {
		v.CurrentCategory = progress.CurrentCategory
	}
	for _, c := range path.OrderedCategories() {
		cp := CategoryProgress{Name: c.Name, Total: len(c.Problems), Problems: make([]PathProblemProgress, 0, len(c.Problems))}
		for _, p := range c.Problems {
			done := solved[p.Slug]
			if done {
				cp.Completed++
			}
			cp.Problems = append(cp.Problems, PathProblemProgress{Slug: p.Slug, Title: p.Title, Difficulty: p.Difficulty, Completed: done})
		}
		v.TotalProblems += cp.Total
		v.CompletedCount += cp.Completed
		if v.CurrentCategory == "" && cp.Completed < cp.Total {
			v.CurrentCategory = c.Name
		}
		v.Categories = append(v.Categories, cp)
	}
	if v.TotalProblems > 0 {
		v.CompletionPercentage = math.Round(float64(v.CompletedCount)/float64(v.TotalProblems)*1000) / 10
	}
	return v, nil
}

func (s *pathService) Current(ctx context.Context, userID uuid.UUID) (*PathProgressView, error) {
	id, err := currentPathID(dbctx.Context{Ctx: ctx}, s.repos.Settings, userID)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, id)
}

// SetCurrent switches the user's active path and opens a progress row for
// it when none exists.
func (s *pathService) SetCurrent(ctx context.Context, userID, pathID uuid.UUID) (*SetCurrentPathResult, error) {
	dbc := dbctx.Context{Ctx: ctx}
	path, err := s.load(dbc, pathID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now().UTC()

	settings, err := s.repos.Settings.Get(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if settings == nil {
		settings = &types.UserSettings{UserID: userID, DailyGoal: defaultDailyGoal}
	}
	id := path.ID
	settings.CurrentPathID = &id
	settings.UpdatedAt = now
	if err := s.repos.Settings.Upsert(dbc, settings); err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}

	progress, err := s.repos.Progress.Get(dbc, userID, path.ID)
	if err != nil {
		return nil, fmt.Errorf("load path progress: %w", err)
	}
	if progress == nil {
		progress = &types.UserPathProgress{
			UserID:            userID,
			PathID:            path.ID,
			CompletedProblems: types.EncodeStrings(nil),
			UpdatedAt:         now,
		}
		if cats := path.OrderedCategories(); len(cats) > 0 {
			progress.CurrentCategory = cats[0].Name
		}
		if err := s.repos.Progress.Upsert(dbc, progress); err != nil {
			return nil, fmt.Errorf("create path progress: %w", err)
		}
	}
	s.dashboard.Invalidate(ctx, userID)
	s.log.Info("current path changed", "user_id", userID, "path_id", path.ID)
	return &SetCurrentPathResult{Success: true, PathID: path.ID, PathName: path.Name}, nil
}

// CompleteProblem counts as activity for the streak even when the slug was
// already complete.
func (s *pathService) CompleteProblem(ctx context.Context, userID, pathID uuid.UUID, slug string) (*CompleteProblemResult, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, fmt.Errorf("problem_slug is required: %w", coreerrs.ErrInvalidArgument)
	}
	dbc := dbctx.Context{Ctx: ctx}
	path, err := s.load(dbc, pathID)
	if err != nil {
		return nil, err
	}
	if !pathContains(path, slug) {
		return nil, fmt.Errorf("problem %q is not on path %s: %w", slug, path.ID, coreerrs.ErrInvalidArgument)
	}
	now := s.clock.Now().UTC()
	added, err := markPathProblem(dbc, s.repos.Progress, userID, path, slug, now)
	if err != nil {
		return nil, err
	}
	if err := recordActivity(dbc, s.repos.Streaks, userID, now, now); err != nil {
		return nil, err
	}
	s.dashboard.Invalidate(ctx, userID)
	s.log.Info("path problem completed", "user_id", userID, "path_id", path.ID, "slug", slug, "added", added)
	return &CompleteProblemResult{Success: true, ProblemSlug: slug, AlreadyCompleted: !added}, nil
}

func pathContains(path *types.LearningPath, slug string) bool {
	for _, c := range path.OrderedCategories() {
		for _, p := range c.Problems {
			if p.Slug == slug {
				return true
			}
		}
	}
	return false
}

func (s *pathService) load(dbc dbctx.Context, pathID uuid.UUID) (*types.LearningPath, error) {
	path, err := s.repos.Paths.GetByID(dbc, pathID)
	if err != nil {
		return nil, fmt.Errorf("load path: %w", err)
	}
	if path == nil {
		return nil, fmt.Errorf("path %s: %w", pathID, coreerrs.ErrNotFound)
	}
	return path, nil
}
