package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"

	"github.com/yungbote/leetcoach-backend/internal/data/repos"
	types "github.com/yungbote/leetcoach-backend/internal/domain"
	"github.com/yungbote/leetcoach-backend/internal/modules/coach/pacing"
	"github.com/yungbote/leetcoach-backend/internal/modules/coach/reviews"
	"github.com/yungbote/leetcoach-backend/internal/platform/dbctx"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
)

const (
	defaultDailyGoal = 5

	todayReviewLimit    = 5
	todayPathLimit      = 3
	todaySkillLimit     = 3
	weakSkillThreshold  = 60
	insightFailureLimit = 10
	struggleTagMinimum  = 3
	failureScanLimit    = 200
)

type DailyFocusProblem struct {
	Slug       string `json:"slug"`
	Title      string `json:"title"`
	Difficulty string `json:"difficulty,omitempty"`
	Category   string `json:"category"`
	Reason     string `json:"reason"`
	Priority   int    `json:"priority"`
}

// Today is the cached dashboard.
type Today struct {
	UserID         uuid.UUID           `json:"user_id"`
	Streak         int                 `json:"streak"`
	DailyGoal      int                 `json:"daily_goal"`
	CompletedToday int                 `json:"completed_today"`
	ReviewsDue     []DailyFocusProblem `json:"reviews_due"`
	PathProblems   []DailyFocusProblem `json:"path_problems"`
	SkillBuilders  []DailyFocusProblem `json:"skill_builders"`
	Insight        string              `json:"insight"`
	PaceStatus     *pacing.Status      `json:"pace_status,omitempty"`
	GeneratedAt    time.Time           `json:"generated_at"`
}

type TodayService interface {
	Get(ctx context.Context, userID uuid.UUID) (*Today, error)
}

type TodayRepos struct {
	Goals       repos.GoalRepo
	Settings    repos.UserSettingsRepo
	Paths       repos.LearningPathRepo
	Progress    repos.PathProgressRepo
	Skills      repos.SkillScoreRepo
	Submissions repos.SubmissionRepo
	Streaks     repos.StreakRepo
}

type todayService struct {
	log       *logger.Logger
	repos     TodayRepos
	queue     *reviews.Queue
	dashboard *DashboardCache
	clock     clock.Clock
}

func NewTodayService(log *logger.Logger, r TodayRepos, queue *reviews.Queue, dashboard *DashboardCache, c clock.Clock) TodayService {
	if c == nil {
		c = clock.New()
	}
	return &todayService{
		log:       log.With("service", "TodayService"),
		repos:     r,
		queue:     queue,
		dashboard: dashboard,
		clock:     c,
	}
}

func (s *todayService) Get(ctx context.Context, userID uuid.UUID) (*Today, error) {
	if v, ok := s.dashboard.load(ctx, userID); ok {
		return v, nil
	}
	v, err := s.compute(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.dashboard.put(ctx, userID, v)
	return v, nil
}

func (s *todayService) compute(ctx context.Context, userID uuid.UUID) (*Today, error) {
	dbc := dbctx.Context{Ctx: ctx}
	now := s.clock.Now().UTC()
	day := types.StartOfDay(now)

	out := &Today{
		UserID:        userID,
		DailyGoal:     defaultDailyGoal,
		ReviewsDue:    []DailyFocusProblem{},
		PathProblems:  []DailyFocusProblem{},
		SkillBuilders: []DailyFocusProblem{},
		GeneratedAt:   now,
	}

	streak, err := s.repos.Streaks.Get(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("load streak: %w", err)
	}
	out.Streak = activeStreak(streak, now)

	settings, err := s.repos.Settings.Get(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if settings != nil && settings.DailyGoal > 0 {
		out.DailyGoal = settings.DailyGoal
	}

	today, err := s.repos.Submissions.AcceptedSlugs(dbc, userID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("load today's submissions: %w", err)
	}
	out.CompletedToday = len(today)

	path, solved, err := s.pathState(dbc, userID, settings)
	if err != nil {
		return nil, err
	}
	meta := pathIndex(path)
	seen := map[string]bool{}

	due, err := s.queue.DueProblems(ctx, userID, todayReviewLimit)
	if err != nil {
		return nil, fmt.Errorf("load due reviews: %w", err)
	}
	for _, it := range due {
		p := meta[it.SubjectKey]
		title := it.Title
		if title == "" {
			title = p.Title
		}
		if title == "" {
			title = it.SubjectKey
		}
		reason := it.Reason
		if reason == "" {
			reason = "Due for review"
		}
		out.ReviewsDue = append(out.ReviewsDue, DailyFocusProblem{
			Slug:       it.SubjectKey,
			Title:      title,
			Difficulty: p.Difficulty,
			Category:   "Review",
			Reason:     reason,
			Priority:   1,
		})
		seen[it.SubjectKey] = true
	}

	for _, cat := range path.OrderedCategories() {
		if len(out.PathProblems) >= todayPathLimit {
			break
		}
		for _, p := range cat.Problems {
			if len(out.PathProblems) >= todayPathLimit {
				break
			}
			if solved[p.Slug] || seen[p.Slug] {
				continue
			}
			out.PathProblems = append(out.PathProblems, DailyFocusProblem{
				Slug:       p.Slug,
				Title:      p.Title,
				Difficulty: p.Difficulty,
				Category:   cat.Name,
				Reason:     "Next in " + cat.Name,
				Priority:   2,
			})
			seen[p.Slug] = true
		}
	}

	builders, err := s.skillBuilders(dbc, userID, seen)
	if err != nil {
		return nil, err
	}
	out.SkillBuilders = builders

	recent, err := s.repos.Submissions.RecentFailures(dbc, userID, time.Time{}, insightFailureLimit)
	if err != nil {
		return nil, fmt.Errorf("load recent failures: %w", err)
	}
	out.Insight = Insight(recent, len(out.ReviewsDue), out.SkillBuilders)

	g, err := s.repos.Goals.GetActive(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("load goal: %w", err)
	}
	if g != nil {
		pace, _, err := goalPace(dbc, s.repos.Submissions, g, now)
		if err != nil {
			return nil, err
		}
		out.PaceStatus = &pace
	}
	return out, nil
}

func (s *todayService) pathState(dbc dbctx.Context, userID uuid.UUID, settings *types.UserSettings) (*types.LearningPath, map[string]bool, error) {
	pathID := types.DefaultPathID
	if settings != nil && settings.CurrentPathID != nil && *settings.CurrentPathID != uuid.Nil {
		pathID = *settings.CurrentPathID
	}
	path, err := s.repos.Paths.GetByID(dbc, pathID)
	if err != nil {
		return nil, nil, fmt.Errorf("load path: %w", err)
	}
	progress, err := s.repos.Progress.Get(dbc, userID, pathID)
	if err != nil {
		return nil, nil, fmt.Errorf("load path progress: %w", err)
	}
	accepted, err := s.repos.Submissions.AcceptedSlugs(dbc, userID, time.Time{}, time.Time{})
	if err != nil {
		return nil, nil, fmt.Errorf("load accepted submissions: %w", err)
	}
	return path, solvedSet(progress, accepted), nil
}

// skillBuilders suggests the latest failed problem for each of the weakest
// skills below the threshold.
func (s *todayService) skillBuilders(dbc dbctx.Context, userID uuid.UUID, seen map[string]bool) ([]DailyFocusProblem, error) {
	scores, err := s.repos.Skills.ListByUser(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("load skill scores: %w", err)
	}
	var weak []*types.SkillScore
	for _, sc := range scores {
		if sc.Score < weakSkillThreshold {
			weak = append(weak, sc)
		}
		if len(weak) == todaySkillLimit {
			break
		}
	}
	out := []DailyFocusProblem{}
	if len(weak) == 0 {
		return out, nil
	}
	failures, err := s.repos.Submissions.RecentFailures(dbc, userID, time.Time{}, failureScanLimit)
	if err != nil {
		return nil, fmt.Errorf("load failures: %w", err)
	}
	for _, sc := range weak {
		for _, f := range failures {
			if seen[f.ProblemSlug] || !f.HasTag(sc.Tag) {
				continue
			}
			title := f.ProblemTitle
			if title == "" {
				title = f.ProblemSlug
			}
			out = append(out, DailyFocusProblem{
				Slug:       f.ProblemSlug,
				Title:      title,
				Difficulty: f.Difficulty,
				Category:   sc.Tag,
				Reason:     fmt.Sprintf("Strengthen %s (score: %d%%)", sc.Tag, int(sc.Score)),
				Priority:   3,
			})
			seen[f.ProblemSlug] = true
			break
		}
	}
	return out, nil
}

// Insight picks one coaching line from recent failures and the rest of the
// dashboard. Rules are checked in order and the first match wins.
func Insight(recentFailures []*types.Submission, reviewsDue int, builders []DailyFocusProblem) string {
	if len(recentFailures) == 0 {
		return "Start your journey! Complete your first problem to get personalized insights."
	}
	counts := map[string]int{}
	for _, f := range recentFailures {
		for _, t := range f.TagList() {
			counts[t]++
		}
	}
	if len(counts) == 0 {
		return "Keep practicing! Your insights will become more personalized as you solve more problems."
	}
	tags := make([]string, 0, len(counts))
	for t := range counts {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool {
		if counts[tags[i]] != counts[tags[j]] {
			return counts[tags[i]] > counts[tags[j]]
		}
		return tags[i] < tags[j]
	})
	if top := tags[0]; counts[top] >= struggleTagMinimum {
		return fmt.Sprintf("You've struggled with '%s' problems recently (%d attempts). Focus on understanding the underlying pattern before moving on.", top, counts[top])
	}
	if reviewsDue > 0 {
		noun := "review"
		if reviewsDue != 1 {
			noun = "reviews"
		}
		return fmt.Sprintf("You have %d %s due. Complete these first to reinforce your learning before tackling new problems.", reviewsDue, noun)
	}
	if len(builders) > 0 {
		return fmt.Sprintf("Your '%s' skills need work. Try easier problems in this category to build fundamentals.", builders[0].Category)
	}
	return "Great progress! Keep up the consistent practice to maintain your skills."
}

func pathIndex(p *types.LearningPath) map[string]types.PathProblem {
	out := map[string]types.PathProblem{}
	for _, c := range p.OrderedCategories() {
		for _, pr := range c.Problems {
			out[pr.Slug] = pr
		}
	}
	return out
}
