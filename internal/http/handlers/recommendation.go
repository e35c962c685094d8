package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/leetcoach-backend/internal/http/response"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
	"github.com/yungbote/leetcoach-backend/internal/services"
)

const (
	defaultRecommendationLimit = 10
	maxRecommendationLimit     = 50
)

type RecommendationHandler struct {
	log             *logger.Logger
	recommendations services.RecommendationService
}

func NewRecommendationHandler(log *logger.Logger, recommendations services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{log: log.With("handler", "RecommendationHandler"), recommendations: recommendations}
}

// GET /api/recommendations?limit=
func (h *RecommendationHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	limit := queryInt(c, "limit", defaultRecommendationLimit, maxRecommendationLimit)
	out, err := h.recommendations.List(c.Request.Context(), userID, limit)
	if err != nil {
		h.log.Error("List recommendations failed", "error", err, "user_id", userID)
		response.RespondServiceError(c, err, "list_recommendations_failed")
		return
	}
	response.RespondOK(c, out)
}

// GET /api/recommendations/next
func (h *RecommendationHandler) Next(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	rec, err := h.recommendations.Next(c.Request.Context(), userID)
	if err != nil {
		response.RespondServiceError(c, err, "next_recommendation_failed")
		return
	}
	response.RespondOK(c, rec)
}
