package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/leetcoach-backend/internal/http/response"
	"github.com/yungbote/leetcoach-backend/internal/modules/coach/reviews"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
	"github.com/yungbote/leetcoach-backend/internal/services"
)

const maxReviewLimit = 100

type ReviewHandler struct {
	log     *logger.Logger
	reviews services.ReviewService
}

func NewReviewHandler(log *logger.Logger, reviews services.ReviewService) *ReviewHandler {
	return &ReviewHandler{log: log.With("handler", "ReviewHandler"), reviews: reviews}
}

// GET /api/reviews?limit=&include_future=
func (h *ReviewHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	limit := queryInt(c, "limit", reviews.DefaultLimit, maxReviewLimit)
	items, err := h.reviews.List(c.Request.Context(), userID, limit, queryBool(c, "include_future"))
	if err != nil {
		h.log.Error("List reviews failed", "error", err, "user_id", userID)
		response.RespondServiceError(c, err, "list_reviews_failed")
		return
	}
	response.RespondOK(c, gin.H{"reviews": items, "count": len(items)})
}

// GET /api/reviews/count
func (h *ReviewHandler) Count(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	n, err := h.reviews.CountDue(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("Count reviews failed", "error", err, "user_id", userID)
		response.RespondServiceError(c, err, "count_reviews_failed")
		return
	}
	response.RespondOK(c, gin.H{"due_count": n})
}

// POST /api/reviews
// body: { "problem_slug": "...", "problem_title": "...", "reason": "...", "priority": 0 }
func (h *ReviewHandler) Add(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req struct {
		ProblemSlug  string `json:"problem_slug" binding:"required"`
		ProblemTitle string `json:"problem_title"`
		Reason       string `json:"reason"`
		Priority     int    `json:"priority"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	item, err := h.reviews.Add(c.Request.Context(), userID, services.AddReviewInput{
		ProblemSlug:  req.ProblemSlug,
		ProblemTitle: req.ProblemTitle,
		Reason:       req.Reason,
		Priority:     req.Priority,
	})
	if err != nil {
		h.log.Error("Add review failed", "error", err, "user_id", userID)
		response.RespondServiceError(c, err, "add_review_failed")
		return
	}
	response.RespondOK(c, gin.H{"review": item})
}

// POST /api/reviews/grade
// body: { "kind": "language|system_design", "topic": "...", "score": 0..100 }
func (h *ReviewHandler) Grade(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req struct {
		Kind  string `json:"kind" binding:"required"`
		Topic string `json:"topic" binding:"required"`
		Score *int   `json:"score" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	item, err := h.reviews.Grade(c.Request.Context(), userID, services.GradeInput{Kind: req.Kind, Topic: req.Topic, Score: *req.Score})
	if err != nil {
		h.log.Error("Grade failed", "error", err, "user_id", userID)
		response.RespondServiceError(c, err, "grade_failed")
		return
	}
	response.RespondOK(c, gin.H{"queued": item != nil, "review": item})
}

// POST /api/reviews/:id/complete
// body: { "success": true }
func (h *ReviewHandler) Complete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	itemID, ok := idParam(c, "id", "invalid_review_id")
	if !ok {
		return
	}
	var req struct {
		Success *bool `json:"success" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	item, err := h.reviews.Complete(c.Request.Context(), userID, itemID, *req.Success)
	if err != nil {
		h.log.Warn("Complete review failed", "error", err, "user_id", userID, "review_id", itemID)
		response.RespondServiceError(c, err, "complete_review_failed")
		return
	}
	response.RespondOK(c, gin.H{"review": item})
}

// DELETE /api/reviews/:id
func (h *ReviewHandler) Remove(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	itemID, ok := idParam(c, "id", "invalid_review_id")
	if !ok {
		return
	}
	if err := h.reviews.Remove(c.Request.Context(), userID, itemID); err != nil {
		h.log.Error("Remove review failed", "error", err, "user_id", userID, "review_id", itemID)
		response.RespondServiceError(c, err, "remove_review_failed")
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
