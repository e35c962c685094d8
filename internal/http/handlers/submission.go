package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/leetcoach-backend/internal/http/response"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
	"github.com/yungbote/leetcoach-backend/internal/services"
)

type SubmissionHandler struct {
	log         *logger.Logger
	submissions services.SubmissionService
}

func NewSubmissionHandler(log *logger.Logger, submissions services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{log: log.With("handler", "SubmissionHandler"), submissions: submissions}
}

// POST /api/submissions
func (h *SubmissionHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req services.SubmissionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.submissions.Ingest(c.Request.Context(), userID, req)
	if err != nil {
		h.log.Warn("Ingest submission failed", "error", err, "user_id", userID, "problem_slug", req.ProblemSlug)
		response.RespondServiceError(c, err, "ingest_submission_failed")
		return
	}
	response.RespondOK(c, res)
}

// POST /api/submissions/batch
// body: { "submissions": [ ... ] }
func (h *SubmissionHandler) CreateBatch(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req struct {
		Submissions []services.SubmissionInput `json:"submissions" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	results, err := h.submissions.IngestBatch(c.Request.Context(), userID, req.Submissions)
	if err != nil {
		h.log.Error("Ingest batch failed", "error", err, "user_id", userID, "count", len(req.Submissions))
		response.RespondServiceError(c, err, "ingest_batch_failed")
		return
	}
	succeeded := 0
	for _, r := range results {
		if r.Success {
			succeeded++
		}
	}
	response.RespondOK(c, gin.H{"results": results, "succeeded": succeeded, "failed": len(results) - succeeded})
}
