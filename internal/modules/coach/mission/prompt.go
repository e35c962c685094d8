package mission

import (
	"encoding/json"
	"fmt"
)

const systemPrompt = `You plan one day of coding-interview practice for a learner.
Balance the learner's learning path against their weak skills and due reviews, and respect their pacing.
Only choose problem ids that appear in the context (path upcoming, review_queue, recent_failures, recent_slow_solves, struggles) unless a well-known LeetCode slug clearly fits a weak skill.
Choose between 3 and 8 problems.

Respond with JSON only:
{
  "daily_objective": {"title": "...", "description": "1-2 sentences", "skill_tags": ["..."]},
  "problems": [
    {"problem_id": "leetcode-slug", "problem_title": "...", "source": "path|gap_fill|review|reinforcement",
     "reasoning": "why this problem today", "priority": 1, "skills": ["..."], "estimated_difficulty": "easy|medium|hard"}
  ],
  "balance_explanation": "e.g. 60% path, 40% gap-filling",
  "pacing_status": "ahead|on_track|behind|critical",
  "pacing_note": "one sentence"
}`

// BuildPrompt renders the generator input for c.
func BuildPrompt(c *Context) (string, string, error) {
	body, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("marshal mission context: %w", err)
	}
	user := "Learner context:\n" + string(body) + "\n\nPlan today's mission."
	return systemPrompt, user, nil
}
