// Package pacing measures goal progress against a linear schedule from the
// goal's start to its deadline.
package pacing

import (
	"math"
	"time"

	types "github.com/yungbote/leetcoach-backend/internal/domain"
)

const (
	StatusAhead    = "ahead"
	StatusOnTrack  = "on_track"
	StatusBehind   = "behind"
	StatusCritical = "critical"
)

type Input struct {
	StartedAt           time.Time
	TargetDeadline      time.Time
	WeeklyTarget        int
	CumulativeCompleted int
	CompletedThisWeek   int
	Today               time.Time
}

// Window is the calendar part of a pace computation.
type Window struct {
	DaysElapsed         int `json:"days_elapsed"`
	DaysTotal           int `json:"days_total"`
	DaysRemaining       int `json:"days_remaining"`
	TotalProblemsTarget int `json:"total_problems_target"`
	ExpectedProblems    int `json:"expected_problems"`
}

type Status struct {
	Status                  string     `json:"status"`
	ProblemsThisWeek        int        `json:"problems_this_week"`
	WeeklyTarget            int        `json:"weekly_target"`
	ProblemsBehind          int        `json:"problems_behind"`
	PacePercentage          float64    `json:"pace_percentage"`
	ProjectedCompletionDate *time.Time `json:"projected_completion_date"`
	DailyRateNeeded         float64    `json:"daily_rate_needed"`
	Window                  Window     `json:"window"`
}

// ComputeWindow returns elapsed/total/remaining calendar days (all clamped)
// and the problem targets they imply.
func ComputeWindow(in Input) Window {
	start := types.StartOfDay(in.StartedAt)
	deadline := types.StartOfDay(in.TargetDeadline)
	today := types.StartOfDay(in.Today)

	w := Window{
		DaysElapsed:   maxInt(1, daysBetween(start, today)),
		DaysTotal:     maxInt(1, daysBetween(start, deadline)),
		DaysRemaining: maxInt(0, daysBetween(today, deadline)),
	}
	weeksTotal := float64(w.DaysTotal) / 7
	w.TotalProblemsTarget = int(math.Floor(float64(in.WeeklyTarget) * weeksTotal))
	w.ExpectedProblems = int(math.Floor(float64(w.DaysElapsed) / float64(w.DaysTotal) * float64(w.TotalProblemsTarget)))
	return w
}

// Compute classifies progress and projects completion. It never fails:
// every divisor is floored at 1.
func Compute(in Input) Status {
	w := ComputeWindow(in)
	done := in.CumulativeCompleted

	pct := float64(done) / float64(maxInt(1, w.ExpectedProblems)) * 100

	var rate float64
	if w.DaysRemaining > 0 {
		rate = float64(w.TotalProblemsTarget-done) / float64(maxInt(1, w.DaysRemaining))
	}

	var projected *time.Time
	if done > 0 && w.DaysElapsed > 0 {
		daily := float64(done) / float64(w.DaysElapsed)
		if daily > 0 {
			p := types.StartOfDay(in.StartedAt).AddDate(0, 0, int(math.Floor(float64(w.TotalProblemsTarget)/daily)))
			projected = &p
		}
	}

	return Status{
		Status:                  Classify(pct),
		ProblemsThisWeek:        in.CompletedThisWeek,
		WeeklyTarget:            in.WeeklyTarget,
		ProblemsBehind:          maxInt(0, w.ExpectedProblems-done),
		PacePercentage:          round1(pct),
		ProjectedCompletionDate: projected,
		DailyRateNeeded:         round1(rate),
		Window:                  w,
	}
}

// Classify maps a pace percentage to a status. Lower bounds are inclusive.
func Classify(pct float64) string {
	switch {
	case pct >= 110:
		return StatusAhead
	case pct >= 90:
		return StatusOnTrack
	case pct >= 70:
		return StatusBehind
	default:
		return StatusCritical
	}
}

// WeekStart is the Monday of t's week at UTC midnight.
func WeekStart(t time.Time) time.Time {
	d := types.StartOfDay(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

func daysBetween(from, to time.Time) int {
	return int(math.Round(to.Sub(from).Hours() / 24))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
