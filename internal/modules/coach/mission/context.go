package mission

import (
	"context"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/leetcoach-backend/internal/domain"
	"github.com/yungbote/leetcoach-backend/internal/modules/coach/pacing"
)

// Context is everything generation looks at for one user and day. It is
// marshalled as the generator's input.
type Context struct {
	UserID      uuid.UUID `json:"-"`
	MissionDate string    `json:"mission_date"`

	Goal *GoalContext   `json:"goal,omitempty"`
	Pace *pacing.Status `json:"pace,omitempty"`

	Path *PathContext `json:"current_path,omitempty"`

	SkillScores []SkillContext  `json:"skill_scores"`
	WeakSkills  []SkillContext  `json:"weak_skills"`
	DueReviews  []ReviewContext `json:"review_queue"`

	RecentFailurePatterns []TagCount       `json:"recent_failure_patterns"`
	RecentFailures        []FailureContext `json:"recent_failures"`
	SlowSolves            []AttemptContext `json:"recent_slow_solves"`
	Struggles             []AttemptContext `json:"struggles"`

	SolvedProblems []string `json:"solved_problems"`
	CurrentStreak  int      `json:"current_streak"`
}

type GoalContext struct {
	Title               string            `json:"title"`
	TargetCompany       string            `json:"target_company,omitempty"`
	TargetRole          string            `json:"target_role,omitempty"`
	TargetDeadline      *time.Time        `json:"target_deadline,omitempty"`
	WeeklyCommitment    int               `json:"weekly_commitment"`
	DaysUntilDeadline   int               `json:"days_until_deadline"`
	DailyProblemMinimum int               `json:"daily_problem_minimum"`
	SkillGaps           []pacing.SkillGap `json:"skill_gaps,omitempty"`
}

type PathContext struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	TotalProblems   int        `json:"total_problems"`
	CompletedCount  int        `json:"completed_count"`
	CurrentCategory string     `json:"current_category,omitempty"`
	Upcoming        []PathItem `json:"upcoming"`
}

// PathItem is an uncompleted path problem in path order.
type PathItem struct {
	Slug       string `json:"slug"`
	Title      string `json:"title"`
	Difficulty string `json:"difficulty,omitempty"`
	Category   string `json:"category"`
}

type SkillContext struct {
	Tag           string  `json:"tag"`
	Score         float64 `json:"score"`
	TotalAttempts int     `json:"total_attempts"`
}

type ReviewContext struct {
	ProblemID    string    `json:"problem_id"`
	Title        string    `json:"title,omitempty"`
	Reason       string    `json:"failure_reason,omitempty"`
	IntervalDays int       `json:"interval"`
	NextReview   time.Time `json:"next_review"`
}

type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

type FailureContext struct {
	ProblemID  string    `json:"problem_id"`
	Title      string    `json:"title,omitempty"`
	Difficulty string    `json:"difficulty,omitempty"`
	Status     string    `json:"status"`
	Tags       []string  `json:"tags"`
	At         time.Time `json:"submitted_at"`
}

type AttemptContext struct {
	ProblemID      string `json:"problem_id"`
	Title          string `json:"title,omitempty"`
	Difficulty     string `json:"difficulty,omitempty"`
	TotalAttempts  int    `json:"total_attempts"`
	FailedAttempts int    `json:"failed_attempts"`
}

// ContextSource gathers a Context. Reads need not be mutually consistent.
type ContextSource interface {
	Gather(ctx context.Context, userID uuid.UUID, now time.Time) (*Context, error)
}

// NextUncompleted walks the path in category then problem order and returns
// up to n problems not in solved.
func NextUncompleted(path *types.LearningPath, solved map[string]bool, n int) []PathItem {
	var out []PathItem
	for _, cat := range path.OrderedCategories() {
		for _, p := range cat.Problems {
			if n > 0 && len(out) >= n {
				return out
			}
			if solved[p.Slug] {
				continue
			}
			out = append(out, PathItem{Slug: p.Slug, Title: p.Title, Difficulty: p.Difficulty, Category: cat.Name})
		}
	}
	return out
}

// FailurePatterns counts tags across failures, most frequent first, top n.
// Equal counts keep first-seen order.
func FailurePatterns(failures []*types.Submission, n int) []TagCount {
	idx := map[string]int{}
	var out []TagCount
	for _, f := range failures {
		for _, tag := range f.TagList() {
			if i, ok := idx[tag]; ok {
				out[i].Count++
				continue
			}
			idx[tag] = len(out)
			out = append(out, TagCount{Tag: tag, Count: 1})
		}
	}
	sortTagCounts(out)
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
