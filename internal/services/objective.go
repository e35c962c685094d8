package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/facebookgo/clock"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/leetcoach-backend/internal/data/repos"
	types "github.com/yungbote/leetcoach-backend/internal/domain"
	"github.com/yungbote/leetcoach-backend/internal/modules/coach/pacing"
	coreerrs "github.com/yungbote/leetcoach-backend/internal/pkg/errors"
	"github.com/yungbote/leetcoach-backend/internal/platform/dbctx"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
)

const (
	defaultWeeklyProblemTarget = 25
	defaultDailyProblemMinimum = 4
)

var objectiveValidate = validator.New()

type ObjectiveService interface {
	ListTemplates(ctx context.Context, company string) ([]*types.ObjectiveTemplate, error)
	GetTemplate(ctx context.Context, id uuid.UUID) (*types.ObjectiveTemplate, error)
	Create(ctx context.Context, userID uuid.UUID, in CreateObjectiveInput) (*types.Goal, error)
	Get(ctx context.Context, userID uuid.UUID) (*ObjectiveOverview, error)
	Update(ctx context.Context, userID uuid.UUID, in UpdateObjectiveInput) (*types.Goal, error)
	Delete(ctx context.Context, userID uuid.UUID) error
	Pace(ctx context.Context, userID uuid.UUID) (*pacing.Status, error)
}

type CreateObjectiveInput struct {
	Title               string                 `json:"title" validate:"required,max=200"`
	TargetCompany       string                 `json:"target_company" validate:"max=100"`
	TargetRole          string                 `json:"target_role" validate:"max=100"`
	TargetLevel         string                 `json:"target_level" validate:"max=50"`
	TargetDeadline      time.Time              `json:"target_deadline" validate:"required"`
	WeeklyProblemTarget int                    `json:"weekly_problem_target" validate:"omitempty,min=1,max=200"`
	DailyProblemMinimum int                    `json:"daily_problem_minimum" validate:"omitempty,min=1,max=50"`
	RequiredSkills      []pacing.RequiredSkill `json:"-"`
	PathIDs             []uuid.UUID            `json:"path_ids"`
	TemplateID          *uuid.UUID             `json:"template_id"`
}

// UpdateObjectiveInput changes only the non-nil fields.
type UpdateObjectiveInput struct {
	Title               *string                `validate:"omitempty,min=1,max=200"`
	TargetDeadline      *time.Time             `validate:"omitempty"`
	WeeklyProblemTarget *int                   `validate:"omitempty,min=1,max=200"`
	DailyProblemMinimum *int                   `validate:"omitempty,min=1,max=50"`
	RequiredSkills      []pacing.RequiredSkill `validate:"-"`
	PathIDs             []uuid.UUID            `validate:"-"`
	Status              *string                `validate:"omitempty,oneof=active paused completed"`
}

type ObjectiveOverview struct {
	Objective           *types.Goal       `json:"objective"`
	PaceStatus          pacing.Status     `json:"pace_status"`
	SkillGaps           []pacing.SkillGap `json:"skill_gaps"`
	DaysRemaining       int               `json:"days_remaining"`
	TotalDays           int               `json:"total_days"`
	ProblemsSolved      int               `json:"problems_solved"`
	TotalProblemsTarget int               `json:"total_problems_target"`
	ReadinessPercentage float64           `json:"readiness_percentage"`
}

type objectiveService struct {
	log         *logger.Logger
	goals       repos.GoalRepo
	templates   repos.ObjectiveTemplateRepo
	skills      repos.SkillScoreRepo
	submissions repos.SubmissionRepo
	dashboard   *DashboardCache
	clock       clock.Clock
}

func NewObjectiveService(
	log *logger.Logger,
	goals repos.GoalRepo,
	templates repos.ObjectiveTemplateRepo,
	skills repos.SkillScoreRepo,
	submissions repos.SubmissionRepo,
	dashboard *DashboardCache,
	c clock.Clock,
) ObjectiveService {
	if c == nil {
		c = clock.New()
	}
	return &objectiveService{
		log:         log.With("service", "ObjectiveService"),
		goals:       goals,
		templates:   templates,
		skills:      skills,
		submissions: submissions,
		dashboard:   dashboard,
		clock:       c,
	}
}

func (s *objectiveService) ListTemplates(ctx context.Context, company string) ([]*types.ObjectiveTemplate, error) {
	out, err := s.templates.List(dbctx.Context{Ctx: ctx}, company)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return out, nil
}

func (s *objectiveService) GetTemplate(ctx context.Context, id uuid.UUID) (*types.ObjectiveTemplate, error) {
	t, err := s.templates.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, fmt.Errorf("load template: %w", err)
	}
	if t == nil {
		return nil, fmt.Errorf("template %s: %w", id, coreerrs.ErrNotFound)
	}
	return t, nil
}

// Create starts a new active goal and pauses the previous one. A template
// fills in required skills and paths the caller left empty.
func (s *objectiveService) Create(ctx context.Context, userID uuid.UUID, in CreateObjectiveInput) (*types.Goal, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if err := validateSkills(in.RequiredSkills); err != nil {
		return nil, err
	}
	now := s.clock.Now().UTC()
	if !types.StartOfDay(in.TargetDeadline).After(types.StartOfDay(now)) {
		return nil, fmt.Errorf("target deadline must be in the future: %w", coreerrs.ErrInvalidArgument)
	}

	skills := in.RequiredSkills
	pathIDs := uuidStrings(in.PathIDs)
	if in.TemplateID != nil {
		t, err := s.GetTemplate(ctx, *in.TemplateID)
		if err != nil {
			return nil, err
		}
		if len(skills) == 0 {
			skills, err = pacing.DecodeRequiredSkills(t.RequiredSkills)
			if err != nil {
				return nil, fmt.Errorf("template %s skills: %w", t.ID, err)
			}
		}
		if len(pathIDs) == 0 {
			pathIDs = types.DecodeStrings(t.RecommendedPathIDs)
		}
		if in.TargetCompany == "" {
			in.TargetCompany = t.Company
		}
		if in.TargetRole == "" {
			in.TargetRole = t.Role
		}
		if in.TargetLevel == "" {
			in.TargetLevel = t.Level
		}
	}

	g := &types.Goal{
		UserID:              userID,
		Title:               in.Title,
		TargetCompany:       in.TargetCompany,
		TargetRole:          in.TargetRole,
		TargetLevel:         in.TargetLevel,
		StartedAt:           now,
		TargetDeadline:      in.TargetDeadline.UTC(),
		WeeklyProblemTarget: orDefault(in.WeeklyProblemTarget, defaultWeeklyProblemTarget),
		DailyProblemMinimum: orDefault(in.DailyProblemMinimum, defaultDailyProblemMinimum),
		RequiredSkills:      datatypes.JSON(pacing.EncodeRequiredSkills(skills)),
		PathIDs:             types.EncodeStrings(pathIDs),
		TemplateID:          in.TemplateID,
	}
	if err := s.goals.CreateActive(dbctx.Context{Ctx: ctx}, g); err != nil {
		return nil, fmt.Errorf("create goal: %w", err)
	}
	s.dashboard.Invalidate(ctx, userID)
	s.log.Info("goal created", "user_id", userID, "goal_id", g.ID)
	return g, nil
}

func (s *objectiveService) Get(ctx context.Context, userID uuid.UUID) (*ObjectiveOverview, error) {
	dbc := dbctx.Context{Ctx: ctx}
	g, err := s.active(dbc, userID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now().UTC()
	pace, solved, err := goalPace(dbc, s.submissions, g, now)
	if err != nil {
		return nil, err
	}
	scores, err := s.skills.ListByUser(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("load skill scores: %w", err)
	}
	required, err := pacing.DecodeRequiredSkills(g.RequiredSkills)
	if err != nil {
		s.log.Warn("goal required skills unreadable", "goal_id", g.ID, "error", err)
		required = nil
	}
	current := scoreMap(scores)
	gaps := pacing.SkillGaps(required, current)
	if gaps == nil {
		gaps = []pacing.SkillGap{}
	}
	return &ObjectiveOverview{
		Objective:           g,
		PaceStatus:          pace,
		SkillGaps:           gaps,
		DaysRemaining:       pace.Window.DaysRemaining,
		TotalDays:           pace.Window.DaysTotal,
		ProblemsSolved:      solved,
		TotalProblemsTarget: pace.Window.TotalProblemsTarget,
		ReadinessPercentage: pacing.Readiness(required, current),
	}, nil
}

func (s *objectiveService) Update(ctx context.Context, userID uuid.UUID, in UpdateObjectiveInput) (*types.Goal, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if err := validateSkills(in.RequiredSkills); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{"updated_at": s.clock.Now().UTC()}
	if in.Title != nil {
		updates["title"] = strings.TrimSpace(*in.Title)
	}
	if in.TargetDeadline != nil {
		updates["target_deadline"] = in.TargetDeadline.UTC()
	}
	if in.WeeklyProblemTarget != nil {
		updates["weekly_problem_target"] = *in.WeeklyProblemTarget
	}
	if in.DailyProblemMinimum != nil {
		updates["daily_problem_minimum"] = *in.DailyProblemMinimum
	}
	if in.RequiredSkills != nil {
		updates["required_skills"] = datatypes.JSON(pacing.EncodeRequiredSkills(in.RequiredSkills))
	}
	if in.PathIDs != nil {
		updates["path_ids"] = types.EncodeStrings(uuidStrings(in.PathIDs))
	}
	if in.Status != nil {
		updates["status"] = *in.Status
	}

	dbc := dbctx.Context{Ctx: ctx}
	current, err := s.active(dbc, userID)
	if err != nil {
		return nil, err
	}
	ok, err := s.goals.UpdateActive(dbc, userID, updates)
	if err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("no active objective: %w", coreerrs.ErrNotFound)
	}
	s.dashboard.Invalidate(ctx, userID)

	list, err := s.goals.ListByUser(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("reload goal: %w", err)
	}
	for _, g := range list {
		if g.ID == current.ID {
			return g, nil
		}
	}
	return nil, fmt.Errorf("goal %s: %w", current.ID, coreerrs.ErrNotFound)
}

func (s *objectiveService) Delete(ctx context.Context, userID uuid.UUID) error {
	ok, err := s.goals.DeleteActive(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	if !ok {
		return fmt.Errorf("no active objective: %w", coreerrs.ErrNotFound)
	}
	s.dashboard.Invalidate(ctx, userID)
	return nil
}

func (s *objectiveService) Pace(ctx context.Context, userID uuid.UUID) (*pacing.Status, error) {
	dbc := dbctx.Context{Ctx: ctx}
	g, err := s.active(dbc, userID)
	if err != nil {
		return nil, err
	}
	pace, _, err := goalPace(dbc, s.submissions, g, s.clock.Now().UTC())
	if err != nil {
		return nil, err
	}
	return &pace, nil
}

func (s *objectiveService) active(dbc dbctx.Context, userID uuid.UUID) (*types.Goal, error) {
	g, err := s.goals.GetActive(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("load goal: %w", err)
	}
	if g == nil {
		return nil, fmt.Errorf("no active objective: %w", coreerrs.ErrNotFound)
	}
	return g, nil
}

func validateInput(v any) error {
	if err := objectiveValidate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s failed %q: %w", strings.ToLower(fe.Field()), fe.Tag(), coreerrs.ErrInvalidArgument)
		}
		return fmt.Errorf("%v: %w", err, coreerrs.ErrInvalidArgument)
	}
	return nil
}

func validateSkills(skills []pacing.RequiredSkill) error {
	seen := map[string]bool{}
	for _, sk := range skills {
		d := strings.TrimSpace(sk.Domain)
		if d == "" || sk.Target < 0 || sk.Target > 100 {
			return fmt.Errorf("required skill %q: target must be 0..100: %w", sk.Domain, coreerrs.ErrInvalidArgument)
		}
		if seen[d] {
			return fmt.Errorf("required skill %q listed twice: %w", d, coreerrs.ErrInvalidArgument)
		}
		seen[d] = true
	}
	return nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
