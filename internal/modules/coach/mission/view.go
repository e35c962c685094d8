package mission

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/leetcoach-backend/internal/domain"
)

type Objective struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	SkillTags      []string `json:"skill_tags"`
	TargetCount    int      `json:"target_count"`
	CompletedCount int      `json:"completed_count"`
}

type ProblemView struct {
	ProblemID           string   `json:"problem_id"`
	ProblemTitle        string   `json:"problem_title,omitempty"`
	Source              string   `json:"source"`
	Reasoning           string   `json:"reasoning"`
	Priority            int      `json:"priority"`
	Skills              []string `json:"skills"`
	EstimatedDifficulty string   `json:"estimated_difficulty,omitempty"`
	Completed           bool     `json:"completed"`
}

// View is a stored mission plus fields derived at read time. Nothing in it
// beyond the stored mission is ever written back.
type View struct {
	ID                  uuid.UUID     `json:"id"`
	UserID              uuid.UUID     `json:"user_id"`
	MissionDate         string        `json:"mission_date"`
	Objective           Objective     `json:"objective"`
	Problems            []ProblemView `json:"problems"`
	BalanceExplanation  string        `json:"balance_explanation,omitempty"`
	PacingStatus        string        `json:"pacing_status,omitempty"`
	PacingNote          string        `json:"pacing_note,omitempty"`
	Streak              int           `json:"streak"`
	TotalCompletedToday int           `json:"total_completed_today"`
	RegeneratedCount    int           `json:"regenerated_count"`
	CanRegenerate       bool          `json:"can_regenerate"`
	GenerationSource    string        `json:"generation_source"`
	GeneratedAt         time.Time     `json:"generated_at"`
}

// view enriches m with completion flags from accepted submissions on the
// mission date. The streak is optional: a failed lookup reports 0 and logs.
func (a *Assembler) view(ctx context.Context, m *types.DailyMission, now time.Time) (*View, error) {
	accepted := map[string]bool{}
	if a.activity != nil {
		got, err := a.activity.AcceptedSlugsOn(ctx, m.UserID, m.MissionDate)
		if err != nil {
			return nil, fmt.Errorf("load accepted submissions: %w", err)
		}
		if got != nil {
			accepted = got
		}
	}

	streak := 0
	if a.activity != nil {
		s, err := a.activity.CurrentStreak(ctx, m.UserID, now)
		if err != nil {
			a.log.Warn("streak unavailable for mission view", "user_id", m.UserID, "error", err)
		} else {
			streak = s
		}
	}

	return Enrich(m, accepted, streak), nil
}

// Enrich derives the read-time view of m.
func Enrich(m *types.DailyMission, accepted map[string]bool, streak int) *View {
	v := &View{
		ID:          m.ID,
		UserID:      m.UserID,
		MissionDate: m.MissionDate,
		Objective: Objective{
			Title:       m.ObjectiveTitle,
			Description: m.ObjectiveDescription,
			SkillTags:   nonNil(types.DecodeStrings(m.ObjectiveSkillTags)),
			TargetCount: len(m.Problems),
		},
		Problems:            make([]ProblemView, 0, len(m.Problems)),
		BalanceExplanation:  m.BalanceExplanation,
		PacingStatus:        m.PacingStatus,
		PacingNote:          m.PacingNote,
		Streak:              streak,
		TotalCompletedToday: len(accepted),
		RegeneratedCount:    m.RegeneratedCount,
		CanRegenerate:       m.CanRegenerate(),
		GenerationSource:    m.GenerationSource,
		GeneratedAt:         m.GeneratedAt,
	}
	for _, p := range m.Problems {
		done := accepted[p.ProblemID]
		if done {
			v.Objective.CompletedCount++
		}
		v.Problems = append(v.Problems, ProblemView{
			ProblemID:           p.ProblemID,
			ProblemTitle:        p.Title,
			Source:              p.Source,
			Reasoning:           p.Reasoning,
			Priority:            p.Priority,
			Skills:              nonNil(types.DecodeStrings(p.Skills)),
			EstimatedDifficulty: p.EstimatedDifficulty,
			Completed:           done,
		})
	}
	return v
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
