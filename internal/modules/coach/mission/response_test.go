package mission

import (
	"fmt"
	"strings"
	"testing"
)

func TestParseResponse_LegacyMainQuestsOnly(t *testing.T) {
	t.Parallel()

	d, err := ParseResponse(`{"main_quests":[{"slug":"a","title":"A","order":1,"category":"X"}]}`)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if len(d.Problems) != 1 {
		t.Fatalf("expected 1 problem, got %d", len(d.Problems))
	}
	p := d.Problems[0]
	if p.ProblemID != "a" || p.Priority != 1 || p.Source != "X" || p.Title != "A" {
		t.Fatalf("unexpected normalized problem: %+v", p)
	}
}

func TestParseResponse_CanonicalInsideFence(t *testing.T) {
	t.Parallel()

	text := "Here you go:\n```json\n" + `{
  "daily_objective": "Master Two Pointer patterns",
  "problems": [
    {"problem_id": "two-sum", "source": "path", "reasoning": "Continue", "priority": 1, "skills": ["Arrays"], "estimated_difficulty": "easy"},
    {"problem_id": "valid-palindrome", "source": "path", "reasoning": "Start", "priority": 2}
  ],
  "balance_explanation": "60% path, 40% gap-filling",
  "pacing_status": "on_track",
  "pacing_note": "Good progress"
}` + "\n```\nGood luck!"

	d, err := ParseResponse(text)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if d.ObjectiveTitle != "Master Two Pointer patterns" || d.BalanceExplanation != "60% path, 40% gap-filling" || d.PacingStatus != "on_track" {
		t.Fatalf("unexpected metadata: %+v", d)
	}
	if len(d.Problems) != 2 || d.Problems[0].ProblemID != "two-sum" || d.Problems[1].Skills == nil {
		t.Fatalf("unexpected problems: %+v", d.Problems)
	}
}

func TestParseResponse_CanonicalWinsOverLegacy(t *testing.T) {
	t.Parallel()

	d, err := ParseResponse(`{
  "problems": [{"problem_id": "p1", "source": "review", "priority": 1}],
  "main_quests": [{"slug": "m1", "order": 1, "category": "X"}]
}`)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if len(d.Problems) != 1 || d.Problems[0].ProblemID != "p1" {
		t.Fatalf("expected canonical list only, got %+v", d.Problems)
	}
}

func TestParseResponse_LegacySideQuestsAppended(t *testing.T) {
	t.Parallel()

	d, err := ParseResponse("```\n" + `{
  "daily_objective": {"title": "Sliding Window", "description": "d", "skill_tags": ["sliding-window"]},
  "main_quests": [{"slug": "two-sum", "order": 1, "title": "Two Sum", "category": "Arrays & Hashing", "difficulty": "Easy"}],
  "side_quests": [
    {"slug": "contains-duplicate", "title": "Contains Duplicate", "reason": "Review", "quest_type": "review_due"},
    {"slug": "two-sum", "title": "dup"},
    {"slug": "top-k", "reason": "gap"}
  ]
}` + "\n```")
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if d.ObjectiveTitle != "Sliding Window" || len(d.SkillTags) != 1 {
		t.Fatalf("object objective not decoded: %+v", d)
	}
	if len(d.Problems) != 3 {
		t.Fatalf("expected 3 problems after dedupe, got %+v", d.Problems)
	}
	if d.Problems[0].EstimatedDifficulty != "easy" {
		t.Fatalf("expected lowercased difficulty, got %q", d.Problems[0].EstimatedDifficulty)
	}
	if d.Problems[1].Source != "review_due" || d.Problems[1].Priority != 2 {
		t.Fatalf("unexpected side quest: %+v", d.Problems[1])
	}
	if d.Problems[2].Source != "skill_gap" {
		t.Fatalf("expected default side quest source, got %+v", d.Problems[2])
	}
}

func TestParseResponse_Failures(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"empty":       "   ",
		"not json":    "I could not plan today.",
		"no problems": `{"daily_objective": "x", "problems": [], "main_quests": []}`,
		"blank ids":   `{"problems": [{"problem_id": "  "}]}`,
	}
	for name, text := range cases {
		if _, err := ParseResponse(text); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestNormalize_CapsAtMaxProblems(t *testing.T) {
	t.Parallel()

	var items []string
	for i := 0; i < MaxProblems+4; i++ {
		items = append(items, fmt.Sprintf(`{"problem_id":"p%d"}`, i))
	}
	d, err := ParseResponse(`{"problems":[` + strings.Join(items, ",") + `]}`)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if len(d.Problems) != MaxProblems {
		t.Fatalf("expected %d problems got %d", MaxProblems, len(d.Problems))
	}
	if d.Problems[2].Priority != 3 {
		t.Fatalf("missing priority should default to position, got %d", d.Problems[2].Priority)
	}
}

func TestStripCodeFence(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}\n```":     `{"a":1}`,
		"  {\"a\":1}  ":           `{"a":1}`,
		"```json\n{\"a\":1}":      `{"a":1}`,
	}
	for in, want := range cases {
		if got := StripCodeFence(in); got != want {
			t.Fatalf("StripCodeFence(%q): expected %q got %q", in, want, got)
		}
	}
}
