package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/leetcoach-backend/internal/data/repos"
	types "github.com/yungbote/leetcoach-backend/internal/domain"
	"github.com/yungbote/leetcoach-backend/internal/modules/coach/mission"
	"github.com/yungbote/leetcoach-backend/internal/modules/coach/pacing"
	"github.com/yungbote/leetcoach-backend/internal/platform/dbctx"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
)

const (
	contextFailureWindow  = 7 * 24 * time.Hour
	contextFailureLimit   = 50
	contextReviewLimit    = 10
	contextAttemptLimit   = 10
	contextStruggleLimit  = 5
	contextUpcomingLimit  = 10
	contextWeakSkillLimit = 5
	contextPatternLimit   = 5

	// contextWeakSkillThreshold marks skills the generator is told to target.
	contextWeakSkillThreshold = 60.0
)

type MissionContextRepos struct {
	Goals       repos.GoalRepo
	Settings    repos.UserSettingsRepo
	Paths       repos.LearningPathRepo
	Progress    repos.PathProgressRepo
	Skills      repos.SkillScoreRepo
	Reviews     repos.ReviewItemRepo
	Submissions repos.SubmissionRepo
	Attempts    repos.AttemptStatsRepo
	Streaks     repos.StreakRepo
}

// MissionContext reads everything mission generation looks at. It also
// serves read-time completion and streak lookups for mission views.
type MissionContext struct {
	log *logger.Logger
	r   MissionContextRepos
}

func NewMissionContext(log *logger.Logger, r MissionContextRepos) *MissionContext {
	return &MissionContext{log: log.With("service", "MissionContext"), r: r}
}

// Gather runs the independent reads concurrently. The snapshot need not be
// consistent across reads.
func (m *MissionContext) Gather(ctx context.Context, userID uuid.UUID, now time.Time) (*mission.Context, error) {
	out := &mission.Context{
		UserID:                userID,
		MissionDate:           types.DateKey(now),
		SkillScores:           []mission.SkillContext{},
		WeakSkills:            []mission.SkillContext{},
		DueReviews:            []mission.ReviewContext{},
		RecentFailurePatterns: []mission.TagCount{},
		RecentFailures:        []mission.FailureContext{},
		SlowSolves:            []mission.AttemptContext{},
		Struggles:             []mission.AttemptContext{},
		SolvedProblems:        []string{},
	}

	var (
		goal     *types.Goal
		scores   []*types.SkillScore
		accepted map[string]bool
		failures []*types.Submission
	)

	g, gctx := errgroup.WithContext(ctx)
	dbc := dbctx.Context{Ctx: gctx}

	g.Go(func() error {
		var err error
		goal, err = m.r.Goals.GetActive(dbc, userID)
		if err != nil {
			return fmt.Errorf("load goal: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		scores, err = m.r.Skills.ListByUser(dbc, userID)
		if err != nil {
			return fmt.Errorf("load skill scores: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		accepted, err = m.r.Submissions.AcceptedSlugs(dbc, userID, time.Time{}, time.Time{})
		if err != nil {
			return fmt.Errorf("load solved problems: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		failures, err = m.r.Submissions.RecentFailures(dbc, userID, now.Add(-contextFailureWindow), contextFailureLimit)
		if err != nil {
			return fmt.Errorf("load recent failures: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		items, err := m.r.Reviews.ListByUser(dbc, userID, types.ReviewKindProblem, &now, contextReviewLimit)
		if err != nil {
			return fmt.Errorf("load due reviews: %w", err)
		}
		for _, it := range items {
			out.DueReviews = append(out.DueReviews, mission.ReviewContext{
				ProblemID:    it.SubjectKey,
				Title:        it.Title,
				Reason:       it.Reason,
				IntervalDays: it.IntervalDays,
				NextReview:   it.NextReview,
			})
		}
		return nil
	})
	g.Go(func() error {
		slow, err := m.r.Attempts.ListSlowSolves(dbc, userID, contextAttemptLimit)
		if err != nil {
			return fmt.Errorf("load slow solves: %w", err)
		}
		out.SlowSolves = attemptContexts(slow)
		return nil
	})
	g.Go(func() error {
		st, err := m.r.Attempts.ListStruggles(dbc, userID, contextStruggleLimit)
		if err != nil {
			return fmt.Errorf("load struggles: %w", err)
		}
		out.Struggles = attemptContexts(st)
		return nil
	})
	g.Go(func() error {
		s, err := m.r.Streaks.Get(dbc, userID)
		if err != nil {
			return fmt.Errorf("load streak: %w", err)
		}
		out.CurrentStreak = activeStreak(s, now)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	base := dbctx.Context{Ctx: ctx}
	for _, s := range scores {
		sc := mission.SkillContext{Tag: s.Tag, Score: s.Score, TotalAttempts: s.TotalAttempts}
		out.SkillScores = append(out.SkillScores, sc)
		if s.Score < contextWeakSkillThreshold && len(out.WeakSkills) < contextWeakSkillLimit {
			out.WeakSkills = append(out.WeakSkills, sc)
		}
	}
	for _, f := range failures {
		out.RecentFailures = append(out.RecentFailures, mission.FailureContext{
			ProblemID:  f.ProblemSlug,
			Title:      f.ProblemTitle,
			Difficulty: f.Difficulty,
			Status:     f.Status,
			Tags:       nonNilStrings(f.TagList()),
			At:         f.SubmittedAt,
		})
	}
	out.RecentFailurePatterns = mission.FailurePatterns(failures, contextPatternLimit)

	pc, solved, err := m.pathContext(base, userID, accepted)
	if err != nil {
		return nil, err
	}
	out.Path = pc
	out.SolvedProblems = sortedKeys(solved)

	if goal != nil {
		pace, _, err := goalPace(base, m.r.Submissions, goal, now)
		if err != nil {
			return nil, err
		}
		out.Pace = &pace
		out.Goal = goalContext(goal, pace, scores)
	}
	return out, nil
}

func (m *MissionContext) pathContext(dbc dbctx.Context, userID uuid.UUID, accepted map[string]bool) (*mission.PathContext, map[string]bool, error) {
	pathID, err := currentPathID(dbc, m.r.Settings, userID)
	if err != nil {
		return nil, nil, err
	}
	path, err := m.r.Paths.GetByID(dbc, pathID)
	if err != nil {
		return nil, nil, fmt.Errorf("load path: %w", err)
	}
	progress, err := m.r.Progress.Get(dbc, userID, pathID)
	if err != nil {
		return nil, nil, fmt.Errorf("load path progress: %w", err)
	}
	solved := solvedSet(progress, accepted)
	if path == nil {
		m.log.Warn("current path missing", "user_id", userID, "path_id", pathID)
		return nil, solved, nil
	}

	done := 0
	for _, c := range path.OrderedCategories() {
		for _, p := range c.Problems {
			if solved[p.Slug] {
				done++
			}
		}
	}
	pc := &mission.PathContext{
		ID:             path.ID,
		Name:           path.Name,
		TotalProblems:  path.TotalProblems(),
		CompletedCount: done,
		Upcoming:       mission.NextUncompleted(path, solved, contextUpcomingLimit),
	}
	if progress != nil {
		pc.CurrentCategory = progress.CurrentCategory
	}
	if pc.CurrentCategory == "" && len(pc.Upcoming) > 0 {
		pc.CurrentCategory = pc.Upcoming[0].Category
	}
	if pc.Upcoming == nil {
		pc.Upcoming = []mission.PathItem{}
	}
	return pc, solved, nil
}

func goalContext(g *types.Goal, pace pacing.Status, scores []*types.SkillScore) *mission.GoalContext {
	deadline := g.TargetDeadline
	gc := &mission.GoalContext{
		Title:               g.Title,
		TargetCompany:       g.TargetCompany,
		TargetRole:          g.TargetRole,
		TargetDeadline:      &deadline,
		WeeklyCommitment:    g.WeeklyProblemTarget,
		DaysUntilDeadline:   pace.Window.DaysRemaining,
		DailyProblemMinimum: g.DailyProblemMinimum,
	}
	required, err := pacing.DecodeRequiredSkills(g.RequiredSkills)
	if err == nil && len(required) > 0 {
		gc.SkillGaps = pacing.SkillGaps(required, scoreMap(scores))
	}
	return gc
}

func attemptContexts(in []*types.ProblemAttemptStats) []mission.AttemptContext {
	out := make([]mission.AttemptContext, 0, len(in))
	for _, s := range in {
		out = append(out, mission.AttemptContext{
			ProblemID:      s.ProblemSlug,
			Title:          s.ProblemTitle,
			Difficulty:     s.Difficulty,
			TotalAttempts:  s.TotalAttempts,
			FailedAttempts: s.FailedAttempts,
		})
	}
	return out
}

// AcceptedSlugsOn returns problems accepted during the UTC calendar day date.
func (m *MissionContext) AcceptedSlugsOn(ctx context.Context, userID uuid.UUID, date string) (map[string]bool, error) {
	day, err := time.Parse(types.DateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("parse mission date %q: %w", date, err)
	}
	from := types.StartOfDay(day)
	return m.r.Submissions.AcceptedSlugs(dbctx.Context{Ctx: ctx}, userID, from, from.Add(24*time.Hour))
}

func (m *MissionContext) CurrentStreak(ctx context.Context, userID uuid.UUID, now time.Time) (int, error) {
	s, err := m.r.Streaks.Get(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return 0, err
	}
	return activeStreak(s, now), nil
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
