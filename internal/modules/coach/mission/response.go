package mission

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

const (
	// MaxProblems caps a persisted mission.
	MaxProblems = 8

	defaultSideQuestSource = "skill_gap"
)

// Draft is the one canonical shape a generated or fallback mission takes
// before it is persisted.
type Draft struct {
	ObjectiveTitle       string
	ObjectiveDescription string
	SkillTags            []string
	BalanceExplanation   string
	PacingStatus         string
	PacingNote           string
	Problems             []Problem
	Source               string
}

type Problem struct {
	ProblemID           string
	Title               string
	Source              string
	Reasoning           string
	Priority            int
	Skills              []string
	EstimatedDifficulty string
}

// responseShape tells which problem-list layout a generator reply used.
type responseShape int

const (
	shapeCanonical responseShape = iota
	shapeLegacy
)

// generatorResponse is the parsed reply. Exactly one of canonical/legacy is
// meaningful, selected by shape.
type generatorResponse struct {
	shape     responseShape
	objective objectiveField
	canonical []canonicalProblem
	legacy    legacyQuests
	balance   string
	pacing    string
	note      string
}

type canonicalProblem struct {
	ProblemID           string   `json:"problem_id"`
	ProblemTitle        string   `json:"problem_title"`
	Title               string   `json:"title"`
	Source              string   `json:"source"`
	Reasoning           string   `json:"reasoning"`
	Priority            int      `json:"priority"`
	Skills              []string `json:"skills"`
	EstimatedDifficulty string   `json:"estimated_difficulty"`
	Difficulty          string   `json:"difficulty"`
}

type legacyMainQuest struct {
	Slug       string   `json:"slug"`
	Title      string   `json:"title"`
	Order      int      `json:"order"`
	Category   string   `json:"category"`
	Reasoning  string   `json:"reasoning"`
	Difficulty string   `json:"difficulty"`
	Skills     []string `json:"skills"`
}

type legacySideQuest struct {
	Slug           string `json:"slug"`
	Title          string `json:"title"`
	Reason         string `json:"reason"`
	Difficulty     string `json:"difficulty"`
	TargetWeakness string `json:"target_weakness"`
	QuestType      string `json:"quest_type"`
}

type legacyQuests struct {
	main []legacyMainQuest
	side []legacySideQuest
}

// objectiveField accepts either a bare string or an object.
type objectiveField struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	SkillTags   []string `json:"skill_tags"`
}

func (o *objectiveField) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		return json.Unmarshal(b, &o.Title)
	}
	type plain objectiveField
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*o = objectiveField(p)
	return nil
}

type rawResponse struct {
	DailyObjective     objectiveField     `json:"daily_objective"`
	Objective          objectiveField     `json:"objective"`
	Problems           []canonicalProblem `json:"problems"`
	MainQuests         []legacyMainQuest  `json:"main_quests"`
	SideQuests         []legacySideQuest  `json:"side_quests"`
	BalanceExplanation string             `json:"balance_explanation"`
	PacingStatus       string             `json:"pacing_status"`
	PacingNote         string             `json:"pacing_note"`
}

// ParseResponse decodes generator text, tolerating a markdown code fence,
// and normalizes it into a Draft. It fails when no problems survive.
func ParseResponse(text string) (Draft, error) {
	resp, err := decodeResponse(text)
	if err != nil {
		return Draft{}, err
	}
	d := Normalize(resp)
	if len(d.Problems) == 0 {
		return Draft{}, fmt.Errorf("generator response has no problems")
	}
	return d, nil
}

func decodeResponse(text string) (generatorResponse, error) {
	body := StripCodeFence(text)
	if body == "" {
		return generatorResponse{}, fmt.Errorf("empty generator response")
	}
	var raw rawResponse
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return generatorResponse{}, fmt.Errorf("decode generator response: %w", err)
	}

	out := generatorResponse{
		objective: raw.DailyObjective,
		balance:   raw.BalanceExplanation,
		pacing:    raw.PacingStatus,
		note:      raw.PacingNote,
	}
	if out.objective.Title == "" {
		out.objective = raw.Objective
	}
	if len(raw.Problems) > 0 {
		out.shape = shapeCanonical
		out.canonical = raw.Problems
	} else {
		out.shape = shapeLegacy
		out.legacy = legacyQuests{main: raw.MainQuests, side: raw.SideQuests}
	}
	return out, nil
}

// Normalize converts either response shape into a Draft. Legacy quests map
// slug to problem id, order to priority and category to source. The result
// is deduplicated by problem id and capped at MaxProblems.
func Normalize(resp generatorResponse) Draft {
	d := Draft{
		ObjectiveTitle:       strings.TrimSpace(resp.objective.Title),
		ObjectiveDescription: strings.TrimSpace(resp.objective.Description),
		SkillTags:            resp.objective.SkillTags,
		BalanceExplanation:   resp.balance,
		PacingStatus:         resp.pacing,
		PacingNote:           resp.note,
	}

	var probs []Problem
	switch resp.shape {
	case shapeCanonical:
		for i, p := range resp.canonical {
			title := p.ProblemTitle
			if title == "" {
				title = p.Title
			}
			est := p.EstimatedDifficulty
			if est == "" {
				est = strings.ToLower(p.Difficulty)
			}
			probs = append(probs, Problem{
				ProblemID:           p.ProblemID,
				Title:               title,
				Source:              p.Source,
				Reasoning:           p.Reasoning,
				Priority:            orDefault(p.Priority, i+1),
				Skills:              p.Skills,
				EstimatedDifficulty: est,
			})
		}
	case shapeLegacy:
		for i, q := range resp.legacy.main {
			probs = append(probs, Problem{
				ProblemID:           q.Slug,
				Title:               q.Title,
				Source:              q.Category,
				Reasoning:           q.Reasoning,
				Priority:            orDefault(q.Order, i+1),
				Skills:              q.Skills,
				EstimatedDifficulty: strings.ToLower(q.Difficulty),
			})
		}
		next := len(probs)
		for _, q := range resp.legacy.side {
			next++
			src := q.QuestType
			if src == "" {
				src = defaultSideQuestSource
			}
			var skills []string
			if q.TargetWeakness != "" {
				skills = []string{q.TargetWeakness}
			}
			probs = append(probs, Problem{
				ProblemID:           q.Slug,
				Title:               q.Title,
				Source:              src,
				Reasoning:           q.Reason,
				Priority:            next,
				Skills:              skills,
				EstimatedDifficulty: strings.ToLower(q.Difficulty),
			})
		}
	}
	d.Problems = Dedupe(probs, MaxProblems)
	return d
}

// Dedupe drops blank and repeated problem ids (first wins) and caps at max.
func Dedupe(probs []Problem, max int) []Problem {
	seen := map[string]bool{}
	out := make([]Problem, 0, len(probs))
	for _, p := range probs {
		p.ProblemID = strings.TrimSpace(p.ProblemID)
		if p.ProblemID == "" || seen[p.ProblemID] {
			continue
		}
		if max > 0 && len(out) >= max {
			break
		}
		seen[p.ProblemID] = true
		if p.Skills == nil {
			p.Skills = []string{}
		}
		out = append(out, p)
	}
	return out
}

// StripCodeFence returns the body of the first ```json or ``` fence, or the
// trimmed input when there is none.
func StripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	for _, open := range []string{"```json", "```JSON", "```"} {
		i := strings.Index(s, open)
		if i < 0 {
			continue
		}
		rest := s[i+len(open):]
		if j := strings.Index(rest, "```"); j >= 0 {
			rest = rest[:j]
		}
		return strings.TrimSpace(rest)
	}
	return s
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func sortTagCounts(tc []TagCount) {
	sort.SliceStable(tc, func(i, j int) bool { return tc[i].Count > tc[j].Count })
}
