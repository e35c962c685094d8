package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/leetcoach-backend/internal/data/repos"
	types "github.com/yungbote/leetcoach-backend/internal/domain"
	"github.com/yungbote/leetcoach-backend/internal/modules/coach/pacing"
	"github.com/yungbote/leetcoach-backend/internal/platform/dbctx"
)

// goalPace counts distinct accepted problems since the goal started and since
// the start of the current week, and runs the pacing engine over them.
func goalPace(dbc dbctx.Context, subs repos.SubmissionRepo, g *types.Goal, now time.Time) (pacing.Status, int, error) {
	total, err := subs.AcceptedSlugs(dbc, g.UserID, g.StartedAt, time.Time{})
	if err != nil {
		return pacing.Status{}, 0, fmt.Errorf("count solved since start: %w", err)
	}
	week, err := subs.AcceptedSlugs(dbc, g.UserID, pacing.WeekStart(now), time.Time{})
	if err != nil {
		return pacing.Status{}, 0, fmt.Errorf("count solved this week: %w", err)
	}
	st := pacing.Compute(pacing.Input{
		StartedAt:           g.StartedAt,
		TargetDeadline:      g.TargetDeadline,
		WeeklyTarget:        g.WeeklyProblemTarget,
		CumulativeCompleted: len(total),
		CompletedThisWeek:   len(week),
		Today:               now,
	})
	return st, len(total), nil
}

// currentPathID falls back to the default path when the user never chose one.
func currentPathID(dbc dbctx.Context, settings repos.UserSettingsRepo, userID uuid.UUID) (uuid.UUID, error) {
	s, err := settings.Get(dbc, userID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("load settings: %w", err)
	}
	if s != nil && s.CurrentPathID != nil && *s.CurrentPathID != uuid.Nil {
		return *s.CurrentPathID, nil
	}
	return types.DefaultPathID, nil
}

// solvedSet merges manually completed path problems with accepted slugs.
func solvedSet(progress *types.UserPathProgress, accepted map[string]bool) map[string]bool {
	out := make(map[string]bool, len(accepted))
	for slug := range accepted {
		out[slug] = true
	}
	for _, slug := range progress.Completed() {
		out[slug] = true
	}
	return out
}

func scoreMap(scores []*types.SkillScore) map[string]float64 {
	out := make(map[string]float64, len(scores))
	for _, s := range scores {
		out[s.Tag] = s.Score
	}
	return out
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// markPathProblem appends slug to the user's completed list for path and
// moves the current category to the slug's category. It reports false when
// the path has no such problem or the slug is already complete.
func markPathProblem(dbc dbctx.Context, progressRepo repos.PathProgressRepo, userID uuid.UUID, path *types.LearningPath, slug string, now time.Time) (bool, error) {
	category := ""
	for _, c := range path.OrderedCategories() {
		for _, p := range c.Problems {
			if p.Slug == slug {
				category = c.Name
			}
		}
	}
	if category == "" {
		return false, nil
	}
	progress, err := progressRepo.Get(dbc, userID, path.ID)
	if err != nil {
		return false, fmt.Errorf("load path progress: %w", err)
	}
	if progress == nil {
		progress = &types.UserPathProgress{UserID: userID, PathID: path.ID}
	}
	done := progress.Completed()
	for _, s := range done {
		if s == slug {
			return false, nil
		}
	}
	progress.CompletedProblems = types.EncodeStrings(append(done, slug))
	progress.CurrentCategory = category
	progress.UpdatedAt = now
	if err := progressRepo.Upsert(dbc, progress); err != nil {
		return false, fmt.Errorf("save path progress: %w", err)
	}
	return true, nil
}
