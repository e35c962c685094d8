package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/leetcoach-backend/internal/data/repos"
	"github.com/yungbote/leetcoach-backend/internal/http/response"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
	"github.com/yungbote/leetcoach-backend/internal/services"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

type ProgressHandler struct {
	log   *logger.Logger
	stats services.StatsService
}

func NewProgressHandler(log *logger.Logger, stats services.StatsService) *ProgressHandler {
	return &ProgressHandler{log: log.With("handler", "ProgressHandler"), stats: stats}
}

// GET /api/progress?days=
func (h *ProgressHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	days := queryInt(c, "days", services.DefaultTrendDays, services.MaxTrendDays)
	out, err := h.stats.Progress(c.Request.Context(), userID, days)
	if err != nil {
		h.log.Error("Get progress failed", "error", err, "user_id", userID)
		response.RespondServiceError(c, err, "get_progress_failed")
		return
	}
	response.RespondOK(c, out)
}

// GET /api/progress/stats
func (h *ProgressHandler) Stats(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	out, err := h.stats.Stats(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("Get stats failed", "error", err, "user_id", userID)
		response.RespondServiceError(c, err, "get_stats_failed")
		return
	}
	response.RespondOK(c, out)
}

// GET /api/progress/skills
func (h *ProgressHandler) Skills(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	out, err := h.stats.Skills(c.Request.Context(), userID)
	if err != nil {
		response.RespondServiceError(c, err, "get_skills_failed")
		return
	}
	response.RespondOK(c, gin.H{"skill_scores": out})
}

// GET /api/submissions?limit=&offset=&status=&difficulty=&tag=
func (h *ProgressHandler) History(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	f := repos.SubmissionFilter{
		Status:     strings.TrimSpace(c.Query("status")),
		Difficulty: strings.TrimSpace(c.Query("difficulty")),
		Tag:        strings.TrimSpace(c.Query("tag")),
		Limit:      queryInt(c, "limit", defaultHistoryLimit, maxHistoryLimit),
		Offset:     queryInt(c, "offset", 0, 0),
	}
	out, err := h.stats.History(c.Request.Context(), userID, f)
	if err != nil {
		h.log.Error("List submissions failed", "error", err, "user_id", userID)
		response.RespondServiceError(c, err, "list_submissions_failed")
		return
	}
	response.RespondOK(c, gin.H{"submissions": out, "count": len(out)})
}
