package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/leetcoach-backend/internal/http/response"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
	"github.com/yungbote/leetcoach-backend/internal/services"
)

type MissionHandler struct {
	log      *logger.Logger
	missions services.MissionService
}

func NewMissionHandler(log *logger.Logger, missions services.MissionService) *MissionHandler {
	return &MissionHandler{log: log.With("handler", "MissionHandler"), missions: missions}
}

// GET /api/mission
func (h *MissionHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	v, err := h.missions.Today(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("Get mission failed", "error", err, "user_id", userID)
		response.RespondServiceError(c, err, "get_mission_failed")
		return
	}
	response.RespondOK(c, v)
}

// POST /api/mission/regenerate
func (h *MissionHandler) Regenerate(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	v, err := h.missions.Regenerate(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("Regenerate mission failed", "error", err, "user_id", userID)
		response.RespondServiceError(c, err, "regenerate_mission_failed")
		return
	}
	response.RespondOK(c, v)
}

// POST /api/internal/missions/generate-all
func (h *MissionHandler) GenerateAll(c *gin.Context) {
	res, err := h.missions.GenerateAll(c.Request.Context())
	if err != nil {
		h.log.Error("GenerateAll failed", "error", err, "result", res)
		response.RespondServiceError(c, err, "generate_all_failed")
		return
	}
	h.log.Info("daily missions generated", "generated", res.Generated, "skipped", res.Skipped, "failed", res.Failed, "total", res.Total)
	response.RespondOK(c, res)
}
