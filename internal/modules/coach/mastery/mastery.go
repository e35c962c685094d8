// Package mastery rolls per-tag skill scores up into the sixteen interview
// domains and scores overall readiness across them.
package mastery

import (
	"math"
	"sort"
	"strings"

	types "github.com/yungbote/leetcoach-backend/internal/domain"
)

const (
	StatusStrong = "STRONG"
	StatusGood   = "GOOD"
	StatusFair   = "FAIR"
	StatusWeak   = "WEAK"

	strongThreshold = 80
	goodThreshold   = 60
	fairThreshold   = 40

	summaryFocusCount = 2
)

// Domain groups the problem tags that count toward it.
type Domain struct {
	Name string
	Tags []string
}

var domains = []Domain{
	{"Arrays & Hashing", []string{"Array", "Hash Table", "String", "Sorting"}},
	{"Two Pointers", []string{"Two Pointers"}},
	{"Sliding Window", []string{"Sliding Window"}},
	{"Stack", []string{"Stack", "Monotonic Stack"}},
	{"Binary Search", []string{"Binary Search"}},
	{"Linked List", []string{"Linked List"}},
	{"Trees", []string{"Tree", "Binary Tree", "Binary Search Tree", "Depth-First Search", "Breadth-First Search"}},
	{"Tries", []string{"Trie"}},
	{"Heap / Priority Queue", []string{"Heap (Priority Queue)", "Heap"}},
	{"Backtracking", []string{"Backtracking", "Recursion"}},
	{"Graphs", []string{"Graph", "Union Find", "Topological Sort"}},
	{"Dynamic Programming", []string{"Dynamic Programming", "Memoization"}},
	{"Greedy", []string{"Greedy"}},
	{"Intervals", []string{"Interval", "Line Sweep"}},
	{"Math & Geometry", []string{"Math", "Geometry", "Matrix", "Simulation"}},
	{"Bit Manipulation", []string{"Bit Manipulation"}},
}

var tagDomain = func() map[string]string {
	m := map[string]string{}
	for _, d := range domains {
		for _, t := range d.Tags {
			m[t] = d.Name
		}
	}
	return m
}()

// Domains returns every domain in display order.
func Domains() []Domain {
	out := make([]Domain, len(domains))
	for i, d := range domains {
		out[i] = Domain{Name: d.Name, Tags: append([]string(nil), d.Tags...)}
	}
	return out
}

// DomainForTag reports which domain a problem tag belongs to.
func DomainForTag(tag string) (string, bool) {
	d, ok := tagDomain[tag]
	return d, ok
}

// Slug is the URL form of a domain name: "Heap / Priority Queue" becomes
// "heap-priority-queue".
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Lookup finds a domain by exact name or by slug.
func Lookup(name string) (Domain, bool) {
	for _, d := range domains {
		if d.Name == name || Slug(d.Name) == name {
			return Domain{Name: d.Name, Tags: append([]string(nil), d.Tags...)}, true
		}
	}
	return Domain{}, false
}

// StatusFor bands a 0..100 score.
func StatusFor(score float64) string {
	switch {
	case score >= strongThreshold:
		return StatusStrong
	case score >= goodThreshold:
		return StatusGood
	case score >= fairThreshold:
		return StatusFair
	default:
		return StatusWeak
	}
}

type SubPattern struct {
	Name      string  `json:"name"`
	Score     float64 `json:"score"`
	Attempted int     `json:"attempted"`
	Solved    int     `json:"solved"`
}

type DomainScore struct {
	Name              string       `json:"name"`
	Slug              string       `json:"slug"`
	Score             float64      `json:"score"`
	Status            string       `json:"status"`
	ProblemsAttempted int          `json:"problems_attempted"`
	ProblemsSolved    int          `json:"problems_solved"`
	SubPatterns       []SubPattern `json:"sub_patterns"`
}

type Report struct {
	ReadinessScore   float64       `json:"readiness_score"`
	ReadinessSummary string        `json:"readiness_summary"`
	Domains          []DomainScore `json:"domains"`
	WeakAreas        []string      `json:"weak_areas"`
	StrongAreas      []string      `json:"strong_areas"`
}

// Assess averages tag scores per domain and ranks domains weakest first.
// Unpracticed domains score 0 and still count toward readiness, which is
// the mean over all sixteen domains. Tags outside every domain are ignored.
func Assess(scores []*types.SkillScore) Report {
	type acc struct {
		sum      float64
		n        int
		attempts int
		solved   int
	}
	byDomain := map[string]*acc{}
	for _, s := range scores {
		if s == nil {
			continue
		}
		d, ok := tagDomain[s.Tag]
		if !ok {
			continue
		}
		a := byDomain[d]
		if a == nil {
			a = &acc{}
			byDomain[d] = a
		}
		a.sum += s.Score
		a.n++
		a.attempts += s.TotalAttempts
		a.solved += solvedEstimate(s)
	}

	type ranked struct {
		score DomainScore
		raw   float64
	}
	rows := make([]ranked, 0, len(domains))
	var total float64
	for _, d := range domains {
		var avg float64
		ds := DomainScore{Name: d.Name, Slug: Slug(d.Name), SubPatterns: []SubPattern{}}
		if a := byDomain[d.Name]; a != nil {
			if a.n > 0 {
				avg = a.sum / float64(a.n)
			}
			ds.ProblemsAttempted = a.attempts
			ds.ProblemsSolved = a.solved
		}
		ds.Score = round1(avg)
		ds.Status = StatusFor(avg)
		total += avg
		rows = append(rows, ranked{score: ds, raw: avg})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].raw < rows[j].raw })

	r := Report{Domains: make([]DomainScore, len(rows)), WeakAreas: []string{}, StrongAreas: []string{}}
	for i, row := range rows {
		r.Domains[i] = row.score
		switch {
		case row.score.Status == StatusWeak && row.score.ProblemsAttempted > 0:
			r.WeakAreas = append(r.WeakAreas, row.score.Name)
		case row.score.Status == StatusStrong:
			r.StrongAreas = append(r.StrongAreas, row.score.Name)
		}
	}
	readiness := total / float64(len(domains))
	r.ReadinessScore = round1(readiness)
	r.ReadinessSummary = summary(readiness, r)
	return r
}

// summary names up to two focus domains: practiced weak areas first, then
// the lowest scoring domains.
func summary(readiness float64, r Report) string {
	focus := append([]string(nil), r.WeakAreas...)
	for _, d := range r.Domains {
		if len(focus) >= summaryFocusCount {
			break
		}
		if !contains(focus, d.Name) {
			focus = append(focus, d.Name)
		}
	}
	if len(focus) > summaryFocusCount {
		focus = focus[:summaryFocusCount]
	}
	names := strings.Join(focus, ", ")

	switch {
	case readiness >= 75:
		return "Strong foundation across most domains. Focus on maintaining consistency."
	case readiness >= 50:
		return "Solid progress. Focus on " + names + " to reach interview readiness."
	case readiness >= 25:
		return "Building fundamentals. Prioritize " + names + " and practice consistently."
	default:
		return "Start with Arrays & Hashing and Two Pointers to build your foundation."
	}
}

// solvedEstimate truncates success_rate * attempts.
func solvedEstimate(s *types.SkillScore) int {
	return int(s.SuccessRate * float64(s.TotalAttempts))
}

func contains(xs []string, v string) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
