// Package recommend ranks what a user should practice next from three
// candidate sources: due reviews, weak skills and difficulty progression.
package recommend

import (
	"fmt"
	"sort"
	"strings"

	types "github.com/yungbote/leetcoach-backend/internal/domain"
)

const (
	SourceReviewQueue = "review_queue"
	SourceWeakSkill   = "weak_skill"
	SourceProgression = "progression"

	DefaultLimit = 5

	// WeakSkillThreshold marks a skill as worth a targeted problem.
	WeakSkillThreshold = 70.0
	weakSkillCount     = 3

	// WeakAreaThreshold and weakAreaWindow define the weak-area summary.
	WeakAreaThreshold = 60.0
	weakAreaWindow    = 5

	progressionPriority = 30.0
	defaultReviewReason = "Previously failed"
)

type Recommendation struct {
	ProblemSlug  string   `json:"problem_slug"`
	ProblemTitle string   `json:"problem_title,omitempty"`
	Difficulty   string   `json:"difficulty,omitempty"`
	Tags         []string `json:"tags"`
	Reason       string   `json:"reason"`
	Priority     float64  `json:"priority"`
	Source       string   `json:"source"`
}

// FromReviews scores due problem reviews: shorter intervals are more urgent.
func FromReviews(items []*types.ReviewItem) []Recommendation {
	out := make([]Recommendation, 0, len(items))
	for _, it := range items {
		if it == nil || (it.Kind != "" && it.Kind != types.ReviewKindProblem) {
			continue
		}
		reason := it.Reason
		if strings.TrimSpace(reason) == "" {
			reason = defaultReviewReason
		}
		out = append(out, Recommendation{
			ProblemSlug:  it.SubjectKey,
			ProblemTitle: it.Title,
			Tags:         []string{},
			Reason:       "Review needed: " + reason,
			Priority:     100 - float64(it.IntervalDays),
			Source:       SourceReviewQueue,
		})
	}
	return out
}

// FromWeakSkills surfaces, for each of the three weakest skills under
// WeakSkillThreshold, the most recent failed submission carrying that tag.
// Skills without such a submission are skipped.
func FromWeakSkills(skills []*types.SkillScore, failed []*types.Submission) []Recommendation {
	weak := lowest(skills, weakSkillCount)
	recent := newestFirst(failed)

	var out []Recommendation
	seen := map[string]bool{}
	for _, sk := range weak {
		if sk.Score >= WeakSkillThreshold {
			continue
		}
		for _, sub := range recent {
			if sub.Accepted() || !sub.HasTag(sk.Tag) {
				continue
			}
			if !seen[sub.ProblemSlug] {
				seen[sub.ProblemSlug] = true
				out = append(out, Recommendation{
					ProblemSlug:  sub.ProblemSlug,
					ProblemTitle: sub.ProblemTitle,
					Difficulty:   sub.Difficulty,
					Tags:         nonNil(sub.TagList()),
					Reason:       fmt.Sprintf("Strengthen weak area: %s (score: %.0f)", sk.Tag, sk.Score),
					Priority:     WeakSkillThreshold - sk.Score,
					Source:       SourceWeakSkill,
				})
			}
			break
		}
	}
	return out
}

// DifficultyStats counts submissions at one difficulty.
type DifficultyStats struct {
	Accepted int64
	Total    int64
}

func (s DifficultyStats) rate() float64 {
	if s.Total <= 0 {
		return 0
	}
	return float64(s.Accepted) / float64(s.Total)
}

// ProgressionTier picks the difficulty a user should be working at.
func ProgressionTier(stats map[string]DifficultyStats) string {
	easy := stats[types.DifficultyEasy]
	medium := stats[types.DifficultyMedium]
	switch {
	case easy.rate() < 0.7 || easy.Total < 10:
		return types.DifficultyEasy
	case medium.rate() < 0.5 || medium.Total < 5:
		return types.DifficultyMedium
	default:
		return types.DifficultyHard
	}
}

// FromProgression surfaces attempted problems at tier that are still unsolved.
func FromProgression(tier string, failed []*types.Submission, solved map[string]bool) []Recommendation {
	var out []Recommendation
	seen := map[string]bool{}
	for _, sub := range newestFirst(failed) {
		if sub.Accepted() || sub.Difficulty != tier || solved[sub.ProblemSlug] || seen[sub.ProblemSlug] {
			continue
		}
		seen[sub.ProblemSlug] = true
		out = append(out, Recommendation{
			ProblemSlug:  sub.ProblemSlug,
			ProblemTitle: sub.ProblemTitle,
			Difficulty:   sub.Difficulty,
			Tags:         nonNil(sub.TagList()),
			Reason:       fmt.Sprintf("Continue %s difficulty progression", tier),
			Priority:     progressionPriority,
			Source:       SourceProgression,
		})
	}
	return out
}

// Merge concatenates sources in order until limit is reached, skipping any
// slug already taken by an earlier source, then sorts by priority. The sort
// is stable so equal priorities keep source order.
func Merge(limit int, sources ...[]Recommendation) []Recommendation {
	if limit <= 0 {
		limit = DefaultLimit
	}
	out := make([]Recommendation, 0, limit)
	seen := map[string]bool{}
fill:
	for _, src := range sources {
		for _, r := range src {
			if len(out) >= limit {
				break fill
			}
			if r.ProblemSlug == "" || seen[r.ProblemSlug] {
				continue
			}
			seen[r.ProblemSlug] = true
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority > out[j].Priority })
	return out
}

// WeakAreas lists tags scoring under WeakAreaThreshold among the five
// lowest-scoring skills.
func WeakAreas(skills []*types.SkillScore) []string {
	out := []string{}
	for _, sk := range lowest(skills, weakAreaWindow) {
		if sk.Score < WeakAreaThreshold {
			out = append(out, sk.Tag)
		}
	}
	return out
}

func lowest(skills []*types.SkillScore, n int) []*types.SkillScore {
	cp := make([]*types.SkillScore, 0, len(skills))
	for _, s := range skills {
		if s != nil {
			cp = append(cp, s)
		}
	}
	sort.SliceStable(cp, func(i, j int) bool { return cp[i].Score < cp[j].Score })
	if len(cp) > n {
		cp = cp[:n]
	}
	return cp
}

func newestFirst(subs []*types.Submission) []*types.Submission {
	cp := make([]*types.Submission, 0, len(subs))
	for _, s := range subs {
		if s != nil {
			cp = append(cp, s)
		}
	}
	sort.SliceStable(cp, func(i, j int) bool { return cp[i].SubmittedAt.After(cp[j].SubmittedAt) })
	return cp
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
