package mastery

import (
	"fmt"
	"sort"
	"strings"

	types "github.com/yungbote/leetcoach-backend/internal/domain"
)

const (
	detailTagLimit       = 3
	recentPerTag         = 3
	recentTotal          = 5
	failuresPerTag       = 5
	recommendedPathLimit = 5

	noFailuresAnalysis = "No failure data yet. Keep practicing to get personalized analysis."
)

type Detail struct {
	Domain            DomainScore         `json:"domain"`
	FailureAnalysis   string              `json:"failure_analysis"`
	RecommendedPath   []types.PathProblem `json:"recommended_path"`
	RecentSubmissions []*types.Submission `json:"recent_submissions"`
}

// Describe breaks one domain down by tag. The domain score averages only
// practiced tags. subs may be in any order; path supplies the recommended
// problems and may be nil.
func Describe(d Domain, scores []*types.SkillScore, subs []*types.Submission, path *types.LearningPath) Detail {
	byTag := make(map[string]*types.SkillScore, len(scores))
	for _, s := range scores {
		if s != nil {
			byTag[s.Tag] = s
		}
	}

	ds := DomainScore{Name: d.Name, Slug: Slug(d.Name), SubPatterns: make([]SubPattern, 0, len(d.Tags))}
	var sum float64
	var practiced int
	for _, tag := range d.Tags {
		sp := SubPattern{Name: tag}
		if s := byTag[tag]; s != nil {
			sp.Score = round1(s.Score)
			sp.Attempted = s.TotalAttempts
			sp.Solved = solvedEstimate(s)
			ds.ProblemsAttempted += sp.Attempted
			ds.ProblemsSolved += sp.Solved
			if sp.Attempted > 0 {
				sum += s.Score
				practiced++
			}
		}
		ds.SubPatterns = append(ds.SubPatterns, sp)
	}
	var avg float64
	if practiced > 0 {
		avg = sum / float64(practiced)
	}
	ds.Score = round1(avg)
	ds.Status = StatusFor(avg)

	newest := append([]*types.Submission(nil), subs...)
	sort.SliceStable(newest, func(i, j int) bool { return newest[i].SubmittedAt.After(newest[j].SubmittedAt) })
	focusTags := d.Tags
	if len(focusTags) > detailTagLimit {
		focusTags = focusTags[:detailTagLimit]
	}

	return Detail{
		Domain:            ds,
		FailureAnalysis:   AnalyzeFailures(failuresFor(newest, focusTags)),
		RecommendedPath:   PathFor(path, d.Name, recommendedPathLimit),
		RecentSubmissions: recentFor(newest, focusTags),
	}
}

// recentFor takes the newest few submissions per tag, deduplicated, in tag
// order.
func recentFor(newest []*types.Submission, tags []string) []*types.Submission {
	out := []*types.Submission{}
	seen := map[string]bool{}
	for _, tag := range tags {
		n := 0
		for _, s := range newest {
			if n >= recentPerTag {
				break
			}
			if !s.HasTag(tag) {
				continue
			}
			n++
			if key := s.ID.String(); !seen[key] {
				seen[key] = true
				out = append(out, s)
			}
		}
	}
	if len(out) > recentTotal {
		out = out[:recentTotal]
	}
	return out
}

func failuresFor(newest []*types.Submission, tags []string) []*types.Submission {
	var out []*types.Submission
	for _, tag := range tags {
		n := 0
		for _, s := range newest {
			if n >= failuresPerTag {
				break
			}
			if s.Accepted() || !s.HasTag(tag) {
				continue
			}
			n++
			out = append(out, s)
		}
	}
	return out
}

// AnalyzeFailures names the most common failure status and the difficulty
// it clusters on. Ties go to the value seen first.
func AnalyzeFailures(failures []*types.Submission) string {
	if len(failures) == 0 {
		return noFailuresAnalysis
	}
	status := mostCommon(failures, func(s *types.Submission) string { return s.Status })
	difficulty := mostCommon(failures, func(s *types.Submission) string { return s.Difficulty })

	switch status {
	case "Time Limit Exceeded":
		return fmt.Sprintf("Most failures are TLE on %s problems. Focus on optimizing time complexity and recognizing when O(n^2) won't work.", difficulty)
	case "Wrong Answer":
		return fmt.Sprintf("Most failures are Wrong Answer on %s problems. Review edge cases and trace through your logic carefully.", difficulty)
	case "Runtime Error":
		return "Frequent runtime errors suggest issues with null checks or array bounds. Guard inputs and indexes before using them."
	default:
		return fmt.Sprintf("Common failure: %s. Practice more %s problems to build confidence.", status, difficulty)
	}
}

func mostCommon(subs []*types.Submission, key func(*types.Submission) string) string {
	counts := map[string]int{}
	var order []string
	for _, s := range subs {
		k := key(s)
		if k == "" {
			k = "Unknown"
		}
		if counts[k] == 0 {
			order = append(order, k)
		}
		counts[k]++
	}
	best := ""
	for _, k := range order {
		if best == "" || counts[k] > counts[best] {
			best = k
		}
	}
	return best
}

// PathFor returns the first problems of the path category matching domain,
// either by exact name or by containing it case-insensitively.
func PathFor(path *types.LearningPath, domain string, limit int) []types.PathProblem {
	out := []types.PathProblem{}
	needle := strings.ToLower(domain)
	for _, c := range path.OrderedCategories() {
		if c.Name != domain && !strings.Contains(strings.ToLower(c.Name), needle) {
			continue
		}
		for _, p := range c.Problems {
			if len(out) >= limit {
				break
			}
			out = append(out, p)
		}
		break
	}
	return out
}
