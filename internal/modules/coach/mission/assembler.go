// Package mission assembles, persists and enriches the daily practice set.
package mission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	types "github.com/yungbote/leetcoach-backend/internal/domain"
	"github.com/yungbote/leetcoach-backend/internal/observability"
	coreerrs "github.com/yungbote/leetcoach-backend/internal/pkg/errors"
	"github.com/yungbote/leetcoach-backend/internal/platform/dbctx"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
)

var tracer = otel.Tracer("leetcoach.mission")

const (
	DefaultGeneratorTimeout = 30 * time.Second
	maxRegenerateAttempts   = 5
)

// Store persists missions. GetByUserAndDate returns (nil, nil) when absent
// and loads problems ordered by position. Create returns ErrConflict when a
// mission for (user, date) already exists.
type Store interface {
	GetByUserAndDate(dbc dbctx.Context, userID uuid.UUID, date string) (*types.DailyMission, error)
	Create(dbc dbctx.Context, m *types.DailyMission) error
	// ReplaceIfCount overwrites objective and problems from m and sets
	// regenerated_count to m.RegeneratedCount, but only while the stored
	// count still equals expectedCount.
	ReplaceIfCount(dbc dbctx.Context, m *types.DailyMission, expectedCount int) (bool, error)
}

// TextGenerator is the external model. It may be slow and may fail.
type TextGenerator interface {
	GenerateText(ctx context.Context, system, user string) (string, error)
}

// ActivitySource supplies read-time enrichment.
type ActivitySource interface {
	AcceptedSlugsOn(ctx context.Context, userID uuid.UUID, date string) (map[string]bool, error)
	CurrentStreak(ctx context.Context, userID uuid.UUID, now time.Time) (int, error)
}

type Deps struct {
	Log       *logger.Logger
	Store     Store
	Context   ContextSource
	Activity  ActivitySource
	Generator TextGenerator // nil runs fallback only
	Clock     clock.Clock

	GeneratorTimeout time.Duration
	// OnChange runs after a mission was created or replaced.
	OnChange func(ctx context.Context, userID uuid.UUID)
}

type Assembler struct {
	log       *logger.Logger
	store     Store
	source    ContextSource
	activity  ActivitySource
	generator TextGenerator
	clock     clock.Clock
	timeout   time.Duration
	onChange  func(ctx context.Context, userID uuid.UUID)
}

func New(deps Deps) *Assembler {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	c := deps.Clock
	if c == nil {
		c = clock.New()
	}
	timeout := deps.GeneratorTimeout
	if timeout <= 0 {
		timeout = DefaultGeneratorTimeout
	}
	return &Assembler{
		log:       log.With("module", "MissionAssembler"),
		store:     deps.Store,
		source:    deps.Context,
		activity:  deps.Activity,
		generator: deps.Generator,
		clock:     c,
		timeout:   timeout,
		onChange:  deps.OnChange,
	}
}

// Get returns today's mission, generating and persisting it on first request.
func (a *Assembler) Get(ctx context.Context, userID uuid.UUID) (*View, error) {
	now := a.clock.Now().UTC()
	m, _, err := a.ensure(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	return a.view(ctx, m, now)
}

// EnsureForDate creates the mission for today if absent and reports whether
// it did.
func (a *Assembler) EnsureForDate(ctx context.Context, userID uuid.UUID) (bool, error) {
	_, created, err := a.ensure(ctx, userID, a.clock.Now().UTC())
	return created, err
}

// Regenerate replaces today's mission while fewer than MaxRegenerations
// have happened. At the cap it returns the stored mission unchanged.
func (a *Assembler) Regenerate(ctx context.Context, userID uuid.UUID) (*View, error) {
	now := a.clock.Now().UTC()
	date := types.DateKey(now)
	dbc := dbctx.Context{Ctx: ctx}

	m, err := a.store.GetByUserAndDate(dbc, userID, date)
	if err != nil {
		return nil, fmt.Errorf("load mission: %w", err)
	}
	if m == nil {
		return a.Get(ctx, userID)
	}
	if !m.CanRegenerate() {
		return a.view(ctx, m, now)
	}

	d, err := a.draft(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	for attempt := 0; attempt < maxRegenerateAttempts; attempt++ {
		next := build(userID, date, d, now)
		next.ID = m.ID
		next.RegeneratedCount = m.RegeneratedCount + 1
		ok, err := a.store.ReplaceIfCount(dbc, next, m.RegeneratedCount)
		if err != nil {
			return nil, fmt.Errorf("replace mission: %w", err)
		}
		if ok {
			a.changed(ctx, userID)
			observability.IncMissionGeneration(d.Source)
			a.log.Info("mission regenerated", "user_id", userID, "mission_date", date, "regenerated_count", next.RegeneratedCount, "source", d.Source)
			stored, err := a.store.GetByUserAndDate(dbc, userID, date)
			if err != nil {
				return nil, fmt.Errorf("reload mission: %w", err)
			}
			if stored == nil {
				stored = next
			}
			return a.view(ctx, stored, now)
		}

		observability.IncCASRetry("mission_regenerate")
		m, err = a.store.GetByUserAndDate(dbc, userID, date)
		if err != nil {
			return nil, fmt.Errorf("reload mission: %w", err)
		}
		if m == nil {
			return nil, fmt.Errorf("mission vanished during regenerate: %w", coreerrs.ErrConflict)
		}
		if !m.CanRegenerate() {
			return a.view(ctx, m, now)
		}
	}
	return nil, fmt.Errorf("regenerate mission: %w", coreerrs.ErrConflict)
}

func (a *Assembler) ensure(ctx context.Context, userID uuid.UUID, now time.Time) (*types.DailyMission, bool, error) {
	date := types.DateKey(now)
	dbc := dbctx.Context{Ctx: ctx}

	m, err := a.store.GetByUserAndDate(dbc, userID, date)
	if err != nil {
		return nil, false, fmt.Errorf("load mission: %w", err)
	}
	if m != nil {
		return m, false, nil
	}

	d, err := a.draft(ctx, userID, now)
	if err != nil {
		return nil, false, err
	}
	m = build(userID, date, d, now)
	if err := a.store.Create(dbc, m); err != nil {
		if !errors.Is(err, coreerrs.ErrConflict) {
			return nil, false, fmt.Errorf("create mission: %w", err)
		}
		// Another request created it first; theirs stands.
		winner, err := a.store.GetByUserAndDate(dbc, userID, date)
		if err != nil {
			return nil, false, fmt.Errorf("reload mission: %w", err)
		}
		if winner == nil {
			return nil, false, fmt.Errorf("create mission: %w", coreerrs.ErrConflict)
		}
		return winner, false, nil
	}
	a.changed(ctx, userID)
	observability.IncMissionGeneration(d.Source)
	a.log.Info("mission created", "user_id", userID, "mission_date", date, "source", d.Source, "problems", len(m.Problems))
	return m, true, nil
}

// draft gathers context and asks the generator, falling back to the
// deterministic plan on any generator failure.
func (a *Assembler) draft(ctx context.Context, userID uuid.UUID, now time.Time) (Draft, error) {
	mc, err := a.source.Gather(ctx, userID, now)
	if err != nil {
		return Draft{}, fmt.Errorf("gather mission context: %w", err)
	}
	if a.generator == nil {
		observability.IncFallback("unconfigured")
		return Fallback(mc), nil
	}

	d, err := a.generate(ctx, mc)
	if err != nil {
		reason := "error"
		if errors.Is(err, context.DeadlineExceeded) {
			reason = "timeout"
		}
		observability.IncFallback(reason)
		a.log.Warn("mission generator unavailable, using fallback", "user_id", userID, "reason", reason, "error", err)
		return Fallback(mc), nil
	}
	return d, nil
}

func (a *Assembler) generate(ctx context.Context, mc *Context) (Draft, error) {
	ctx, span := tracer.Start(ctx, "mission.generate")
	defer span.End()

	system, user, err := BuildPrompt(mc)
	if err != nil {
		return Draft{}, err
	}

	cctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	text, err := a.generator.GenerateText(cctx, system, user)
	if err == nil {
		err = cctx.Err()
	}
	if err != nil {
		status := "error"
		if errors.Is(err, context.DeadlineExceeded) {
			status = "timeout"
		}
		observability.ObserveGenerator(status, time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Draft{}, fmt.Errorf("%w: %w", coreerrs.ErrUpstreamUnavailable, err)
	}

	d, err := ParseResponse(text)
	if err != nil {
		observability.ObserveGenerator("invalid", time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, "unparseable response")
		return Draft{}, fmt.Errorf("%w: %w", coreerrs.ErrUpstreamUnavailable, err)
	}
	observability.ObserveGenerator("ok", time.Since(start))
	span.SetAttributes(attribute.Int("mission.problems", len(d.Problems)))
	span.SetStatus(codes.Ok, "")

	d.Source = types.GenerationSourceGenerator
	if d.ObjectiveTitle == "" {
		fb := Fallback(mc)
		d.ObjectiveTitle, d.ObjectiveDescription = fb.ObjectiveTitle, fb.ObjectiveDescription
	}
	if d.SkillTags == nil {
		d.SkillTags = []string{}
	}
	return d, nil
}

func (a *Assembler) changed(ctx context.Context, userID uuid.UUID) {
	if a.onChange != nil {
		a.onChange(ctx, userID)
	}
}

func build(userID uuid.UUID, date string, d Draft, now time.Time) *types.DailyMission {
	m := &types.DailyMission{
		UserID:               userID,
		MissionDate:          date,
		ObjectiveTitle:       d.ObjectiveTitle,
		ObjectiveDescription: d.ObjectiveDescription,
		ObjectiveSkillTags:   types.EncodeStrings(d.SkillTags),
		BalanceExplanation:   d.BalanceExplanation,
		PacingStatus:         d.PacingStatus,
		PacingNote:           d.PacingNote,
		GenerationSource:     d.Source,
		GeneratedAt:          now,
	}
	for i, p := range d.Problems {
		m.Problems = append(m.Problems, types.MissionProblem{
			Position:            i,
			ProblemID:           p.ProblemID,
			Title:               p.Title,
			Source:              p.Source,
			Reasoning:           p.Reasoning,
			Priority:            p.Priority,
			Skills:              types.EncodeStrings(p.Skills),
			EstimatedDifficulty: p.EstimatedDifficulty,
		})
	}
	return m
}
