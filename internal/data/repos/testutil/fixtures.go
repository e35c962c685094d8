package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/leetcoach-backend/internal/domain"
)

func SeedSubmission(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, slug, status string, tags []string, at time.Time) *types.Submission {
	tb.Helper()
	s := &types.Submission{
		ID:           uuid.New(),
		UserID:       userID,
		ProblemSlug:  slug,
		ProblemTitle: slug,
		Difficulty:   types.DifficultyMedium,
		Tags:         types.EncodeStrings(tags),
		Status:       status,
		SubmittedAt:  at.UTC(),
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed submission: %v", err)
	}
	return s
}

func SeedReviewItem(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, key string, priority, interval int, next time.Time) *types.ReviewItem {
	tb.Helper()
	it := &types.ReviewItem{
		ID:           uuid.New(),
		UserID:       userID,
		SubjectKey:   key,
		Kind:         types.ReviewKindProblem,
		Title:        key,
		Reason:       "seed",
		Priority:     priority,
		IntervalDays: interval,
		NextReview:   next.UTC(),
	}
	if err := tx.WithContext(ctx).Create(it).Error; err != nil {
		tb.Fatalf("seed review item: %v", err)
	}
	return it
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrTime(v time.Time) *time.Time { return &v }
