package services

import (
	"go.opentelemetry.io/otel/trace"
	"github.com/yungbote/leetcoach-backend/internal/observability"
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/leetcoach-backend/internal/data/repos"
	"github.com/yungbote/leetcoach-backend/internal/modules/coach/mission"
	"github.com/yungbote/leetcoach-backend/internal/platform/dbctx"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
)

const (
	generateAllActiveWindow = 30 * 24 * time.Hour
	DefaultGenerateAllConc  = 4
)

type MissionService interface {
	Today(ctx context.Context, userID uuid.UUID) (*mission.View, error)
	Regenerate(ctx context.Context, userID uuid.UUID) (*mission.View, error)
	GenerateAll(ctx context.Context) (GenerateAllResult, error)
}

type GenerateAllResult struct {
	Generated int `json:"generated"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
	Total     int `json:"total"`
}

type missionService struct {
	log         *logger.Logger
	assembler   *mission.Assembler
	submissions repos.SubmissionRepo
	clock       clock.Clock
	concurrency int
}

func NewMissionService(log *logger.Logger, assembler *mission.Assembler, submissions repos.SubmissionRepo, c clock.Clock, concurrency int) MissionService {
	if c == nil {
		c = clock.New()
	}
	if concurrency <= 0 {
		concurrency = DefaultGenerateAllConc
	}
	return &missionService{
		log:         log.With("service", "MissionService"),
		assembler:   assembler,
		submissions: submissions,
		clock:       c,
		concurrency: concurrency,
	}
}

func (s *missionService) Today(ctx context.Context, userID uuid.UUID) (*mission.View, error) {
	ctx, span := observability.StartSpan(ctx, "mission.today", observability.AttrUserID.String(userID.String()))
	v, err := s.assembler.Get(ctx, userID)
	annotateMission(span, v)
	observability.EndSpan(span, err)
	return v, err
}

func (s *missionService) Regenerate(ctx context.Context, userID uuid.UUID) (*mission.View, error) {
	ctx, span := observability.StartSpan(ctx, "mission.regenerate", observability.AttrUserID.String(userID.String()))
	v, err := s.assembler.Regenerate(ctx, userID)
	annotateMission(span, v)
	observability.EndSpan(span, err)
	return v, err
}

func annotateMission(span trace.Span, v *mission.View) {
	if v == nil {
		return
	}
	span.SetAttributes(
		observability.AttrMissionDate.String(v.MissionDate),
		observability.AttrGenerationSource.String(v.GenerationSource),
		observability.AttrMissionProblems.Int(len(v.Problems)),
	)
}

// GenerateAll ensures today's mission for every user active in the last 30
// days. One user's failure is counted and does not stop the batch.
func (s *missionService) GenerateAll(ctx context.Context) (res GenerateAllResult, err error) {
	ctx, span := observability.StartSpan(ctx, "mission.generate_all")
	defer func() {
		span.SetAttributes(
			observability.AttrBatchUsers.Int(res.Total),
			observability.AttrBatchFailed.Int(res.Failed),
		)
		observability.EndSpan(span, err)
	}()

	since := s.clock.Now().UTC().Add(-generateAllActiveWindow)
	ids, err := s.submissions.ActiveUserIDs(dbctx.Context{Ctx: ctx}, since)
	if err != nil {
		return GenerateAllResult{}, fmt.Errorf("list active users: %w", err)
	}

	var generated, skipped, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, id := range ids {
		userID := id
		g.Go(func() error {
			created, err := s.assembler.EnsureForDate(gctx, userID)
			switch {
			case err != nil:
				failed.Add(1)
				s.log.Warn("mission generation failed", "user_id", userID, "error", err)
			case created:
				generated.Add(1)
			default:
				skipped.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	res = GenerateAllResult{
		Generated: int(generated.Load()),
		Skipped:   int(skipped.Load()),
		Failed:    int(failed.Load()),
		Total:     len(ids),
	}
	s.log.Info("generate-all finished", "generated", res.Generated, "skipped", res.Skipped, "failed", res.Failed, "total", res.Total)
	return res, ctx.Err()
}
