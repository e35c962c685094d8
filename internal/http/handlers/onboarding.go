package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/leetcoach-backend/internal/http/response"
	"github.com/yungbote/leetcoach-backend/internal/modules/coach/onboarding"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
	"github.com/yungbote/leetcoach-backend/internal/services"
)

type OnboardingHandler struct {
	log        *logger.Logger
	onboarding services.OnboardingService
}

func NewOnboardingHandler(log *logger.Logger, svc services.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{log: log.With("handler", "OnboardingHandler"), onboarding: svc}
}

type stepRequest struct {
	Step      string `json:"step" binding:"required"`
	Completed *bool  `json:"completed"`
	Metadata  struct {
		ProblemsImportedCount *int `json:"problems_imported_count"`
	} `json:"metadata"`
}

// GET /api/onboarding
func (h *OnboardingHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	out, err := h.onboarding.Get(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("Get onboarding failed", "error", err, "user_id", userID)
		response.RespondServiceError(c, err, "get_onboarding_failed")
		return
	}
	response.RespondOK(c, out)
}

// POST /api/onboarding/step
// body: { "step": "objective|extension|history|path", "completed": true, "metadata": { "problems_imported_count": 0 } }
// completed defaults to true.
func (h *OnboardingHandler) UpdateStep(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req stepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	step, err := onboarding.ParseStep(req.Step)
	if err != nil {
		response.RespondServiceError(c, err, "invalid_step")
		return
	}
	completed := true
	if req.Completed != nil {
		completed = *req.Completed
	}
	out, err := h.onboarding.UpdateStep(c.Request.Context(), userID, onboarding.StepUpdate{
		Step:          step,
		Completed:     completed,
		ImportedCount: req.Metadata.ProblemsImportedCount,
	})
	if err != nil {
		h.log.Error("Update onboarding step failed", "error", err, "user_id", userID, "step", step)
		response.RespondServiceError(c, err, "update_onboarding_failed")
		return
	}
	response.RespondOK(c, out)
}

// POST /api/onboarding/skip-step
// body: { "step": "extension|history" }
func (h *OnboardingHandler) Skip(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req stepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	step, err := onboarding.ParseStep(req.Step)
	if err != nil {
		response.RespondServiceError(c, err, "invalid_step")
		return
	}
	out, err := h.onboarding.Skip(c.Request.Context(), userID, step)
	if err != nil {
		response.RespondServiceError(c, err, "skip_onboarding_step_failed")
		return
	}
	response.RespondOK(c, out)
}

// POST /api/onboarding/verify-extension
// Called by the browser extension once it is signed in.
func (h *OnboardingHandler) VerifyExtension(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	out, err := h.onboarding.VerifyExtension(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("Verify extension failed", "error", err, "user_id", userID)
		response.RespondServiceError(c, err, "verify_extension_failed")
		return
	}
	response.RespondOK(c, out)
}

// POST /api/onboarding/import-history
func (h *OnboardingHandler) ImportHistory(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	out, err := h.onboarding.ImportHistory(c.Request.Context(), userID)
	if err != nil {
		response.RespondServiceError(c, err, "import_history_failed")
		return
	}
	response.RespondOK(c, out)
}

// POST /api/onboarding/complete
func (h *OnboardingHandler) Complete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	out, err := h.onboarding.Complete(c.Request.Context(), userID)
	if err != nil {
		response.RespondServiceError(c, err, "complete_onboarding_failed")
		return
	}
	response.RespondOK(c, out)
}

// DELETE /api/onboarding
func (h *OnboardingHandler) Reset(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	out, err := h.onboarding.Reset(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("Reset onboarding failed", "error", err, "user_id", userID)
		response.RespondServiceError(c, err, "reset_onboarding_failed")
		return
	}
	response.RespondOK(c, out)
}
