package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/leetcoach-backend/internal/http/response"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
	"github.com/yungbote/leetcoach-backend/internal/services"
)

type TodayHandler struct {
	log   *logger.Logger
	today services.TodayService
}

func NewTodayHandler(log *logger.Logger, today services.TodayService) *TodayHandler {
	return &TodayHandler{log: log.With("handler", "TodayHandler"), today: today}
}

// GET /api/today
func (h *TodayHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	v, err := h.today.Get(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("Get today failed", "error", err, "user_id", userID)
		response.RespondServiceError(c, err, "get_today_failed")
		return
	}
	response.RespondOK(c, v)
}
