package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/leetcoach-backend/internal/http/response"
	"github.com/yungbote/leetcoach-backend/internal/modules/coach/pacing"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
	"github.com/yungbote/leetcoach-backend/internal/services"
)

type ObjectiveHandler struct {
	log        *logger.Logger
	objectives services.ObjectiveService
}

func NewObjectiveHandler(log *logger.Logger, objectives services.ObjectiveService) *ObjectiveHandler {
	return &ObjectiveHandler{log: log.With("handler", "ObjectiveHandler"), objectives: objectives}
}

// GET /api/objectives/templates?company=
func (h *ObjectiveHandler) ListTemplates(c *gin.Context) {
	out, err := h.objectives.ListTemplates(c.Request.Context(), c.Query("company"))
	if err != nil {
		h.log.Error("ListTemplates failed", "error", err)
		response.RespondServiceError(c, err, "list_templates_failed")
		return
	}
	response.RespondOK(c, gin.H{"templates": out})
}

// GET /api/objectives/templates/:id
func (h *ObjectiveHandler) GetTemplate(c *gin.Context) {
	id, ok := idParam(c, "id", "invalid_template_id")
	if !ok {
		return
	}
	t, err := h.objectives.GetTemplate(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err, "get_template_failed")
		return
	}
	response.RespondOK(c, t)
}

// POST /api/objectives
// body: { "title", "target_deadline", "required_skills": {domain: target}, "template_id", ... }
func (h *ObjectiveHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req struct {
		Title               string          `json:"title"`
		TargetCompany       string          `json:"target_company"`
		TargetRole          string          `json:"target_role"`
		TargetLevel         string          `json:"target_level"`
		TargetDeadline      string          `json:"target_deadline"`
		WeeklyProblemTarget int             `json:"weekly_problem_target"`
		DailyProblemMinimum int             `json:"daily_problem_minimum"`
		RequiredSkills      json.RawMessage `json:"required_skills"`
		PathIDs             []uuid.UUID     `json:"path_ids"`
		TemplateID          *uuid.UUID      `json:"template_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	deadline, err := parseDeadline(req.TargetDeadline)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_deadline", err)
		return
	}
	skills, err := pacing.DecodeRequiredSkills(req.RequiredSkills)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_required_skills", err)
		return
	}
	g, err := h.objectives.Create(c.Request.Context(), userID, services.CreateObjectiveInput{
		Title:               req.Title,
		TargetCompany:       req.TargetCompany,
		TargetRole:          req.TargetRole,
		TargetLevel:         req.TargetLevel,
		TargetDeadline:      deadline,
		WeeklyProblemTarget: req.WeeklyProblemTarget,
		DailyProblemMinimum: req.DailyProblemMinimum,
		RequiredSkills:      skills,
		PathIDs:             req.PathIDs,
		TemplateID:          req.TemplateID,
	})
	if err != nil {
		h.log.Warn("Create objective failed", "error", err, "user_id", userID)
		response.RespondServiceError(c, err, "create_objective_failed")
		return
	}
	response.RespondCreated(c, gin.H{"objective": g})
}

// GET /api/objectives
func (h *ObjectiveHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	ov, err := h.objectives.Get(c.Request.Context(), userID)
	if err != nil {
		response.RespondServiceError(c, err, "get_objective_failed")
		return
	}
	response.RespondOK(c, ov)
}

// PUT /api/objectives
// body: any subset of { "title", "target_deadline", "weekly_problem_target",
// "daily_problem_minimum", "required_skills", "path_ids", "status" }
func (h *ObjectiveHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req struct {
		Title               *string         `json:"title"`
		TargetDeadline      *string         `json:"target_deadline"`
		WeeklyProblemTarget *int            `json:"weekly_problem_target"`
		DailyProblemMinimum *int            `json:"daily_problem_minimum"`
		RequiredSkills      json.RawMessage `json:"required_skills"`
		PathIDs             []uuid.UUID     `json:"path_ids"`
		Status              *string         `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	in := services.UpdateObjectiveInput{
		Title:               req.Title,
		WeeklyProblemTarget: req.WeeklyProblemTarget,
		DailyProblemMinimum: req.DailyProblemMinimum,
		PathIDs:             req.PathIDs,
		Status:              req.Status,
	}
	if req.TargetDeadline != nil {
		d, err := parseDeadline(*req.TargetDeadline)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_deadline", err)
			return
		}
		in.TargetDeadline = &d
	}
	if len(req.RequiredSkills) > 0 && string(req.RequiredSkills) != "null" {
		skills, err := pacing.DecodeRequiredSkills(req.RequiredSkills)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_required_skills", err)
			return
		}
		if skills == nil {
			skills = []pacing.RequiredSkill{}
		}
		in.RequiredSkills = skills
	}
	g, err := h.objectives.Update(c.Request.Context(), userID, in)
	if err != nil {
		response.RespondServiceError(c, err, "update_objective_failed")
		return
	}
	response.RespondOK(c, gin.H{"objective": g})
}

// DELETE /api/objectives
func (h *ObjectiveHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.objectives.Delete(c.Request.Context(), userID); err != nil {
		response.RespondServiceError(c, err, "delete_objective_failed")
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// GET /api/objectives/pace
func (h *ObjectiveHandler) Pace(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	pace, err := h.objectives.Pace(c.Request.Context(), userID)
	if err != nil {
		response.RespondServiceError(c, err, "get_pace_failed")
		return
	}
	response.RespondOK(c, pace)
}

// parseDeadline accepts RFC 3339 timestamps or plain dates.
func parseDeadline(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("target_deadline is required")
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("target_deadline %q is not a date", raw)
}
