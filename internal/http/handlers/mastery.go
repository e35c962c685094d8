package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/leetcoach-backend/internal/http/response"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
	"github.com/yungbote/leetcoach-backend/internal/services"
)

type MasteryHandler struct {
	log     *logger.Logger
	mastery services.MasteryService
}

func NewMasteryHandler(log *logger.Logger, mastery services.MasteryService) *MasteryHandler {
	return &MasteryHandler{log: log.With("handler", "MasteryHandler"), mastery: mastery}
}

// GET /api/mastery
func (h *MasteryHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	out, err := h.mastery.Report(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("Mastery report failed", "error", err, "user_id", userID)
		response.RespondServiceError(c, err, "get_mastery_failed")
		return
	}
	response.RespondOK(c, out)
}

// GET /api/mastery/:domain
// domain is the slug, e.g. "heap-priority-queue".
func (h *MasteryHandler) Domain(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	out, err := h.mastery.Domain(c.Request.Context(), userID, c.Param("domain"))
	if err != nil {
		response.RespondServiceError(c, err, "get_mastery_domain_failed")
		return
	}
	response.RespondOK(c, out)
}
