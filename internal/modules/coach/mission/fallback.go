package mission

import (
	"fmt"
	"strings"

	types "github.com/yungbote/leetcoach-backend/internal/domain"
)

const (
	SourceReview = "review"
	SourcePath   = "path"

	// FallbackTarget is how many problems a fallback mission aims for.
	FallbackTarget     = 5
	fallbackMaxReviews = 2
)

// Fallback builds a mission without the generator: up to two due reviews,
// then the next uncompleted path problems, up to FallbackTarget.
func Fallback(c *Context) Draft {
	d := Draft{Source: types.GenerationSourceFallback}

	if len(c.WeakSkills) > 0 {
		tag := c.WeakSkills[0].Tag
		d.ObjectiveTitle = "Strengthen " + tag
		d.ObjectiveDescription = fmt.Sprintf("Your %s skills need work. Focus on understanding the core pattern through deliberate practice.", tag)
		d.SkillTags = []string{tag}
	} else {
		d.ObjectiveTitle = "Build Your Foundation"
		d.ObjectiveDescription = "Focus on solving problems consistently. Each attempt teaches you something valuable."
		d.SkillTags = []string{}
	}

	var probs []Problem
	reviews := 0
	for _, r := range c.DueReviews {
		if reviews >= fallbackMaxReviews {
			break
		}
		reason := r.Reason
		if reason == "" {
			reason = "previously failed"
		}
		probs = append(probs, Problem{
			ProblemID: r.ProblemID,
			Title:     r.Title,
			Source:    SourceReview,
			Reasoning: "Due for review: " + reason,
		})
		reviews++
	}
	probs = Dedupe(probs, FallbackTarget)
	reviews = len(probs)

	if c.Path != nil {
		for _, item := range c.Path.Upcoming {
			if len(probs) >= FallbackTarget {
				break
			}
			probs = append(probs, Problem{
				ProblemID:           item.Slug,
				Title:               item.Title,
				Source:              SourcePath,
				Reasoning:           "Next in " + item.Category,
				EstimatedDifficulty: strings.ToLower(item.Difficulty),
			})
			probs = Dedupe(probs, FallbackTarget)
		}
	}
	for i := range probs {
		probs[i].Priority = i + 1
	}
	d.Problems = probs
	d.BalanceExplanation = fmt.Sprintf("%d review, %d path", reviews, len(probs)-reviews)
	if c.Pace != nil {
		d.PacingStatus = c.Pace.Status
	}
	return d
}
