package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/leetcoach-backend/internal/http/response"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
	"github.com/yungbote/leetcoach-backend/internal/services"
)

type PathHandler struct {
	log   *logger.Logger
	paths services.PathService
}

func NewPathHandler(log *logger.Logger, paths services.PathService) *PathHandler {
	return &PathHandler{log: log.With("handler", "PathHandler"), paths: paths}
}

// GET /api/paths
func (h *PathHandler) List(c *gin.Context) {
	out, err := h.paths.List(c.Request.Context())
	if err != nil {
		h.log.Error("List paths failed", "error", err)
		response.RespondServiceError(c, err, "list_paths_failed")
		return
	}
	response.RespondOK(c, gin.H{"paths": out})
}

// GET /api/paths/:id
// "current" resolves to the user's active path.
func (h *PathHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var (
		v   *services.PathProgressView
		err error
	)
	if c.Param("id") == "current" {
		v, err = h.paths.Current(c.Request.Context(), userID)
	} else {
		pathID, ok := idParam(c, "id", "invalid_path_id")
		if !ok {
			return
		}
		v, err = h.paths.Get(c.Request.Context(), userID, pathID)
	}
	if err != nil {
		response.RespondServiceError(c, err, "get_path_failed")
		return
	}
	response.RespondOK(c, v)
}

// PUT /api/paths/current
// body: { "path_id": "..." }
func (h *PathHandler) SetCurrent(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req struct {
		PathID uuid.UUID `json:"path_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.paths.SetCurrent(c.Request.Context(), userID, req.PathID)
	if err != nil {
		response.RespondServiceError(c, err, "set_current_path_failed")
		return
	}
	response.RespondOK(c, res)
}

// POST /api/paths/:id/complete
// body: { "problem_slug": "..." }
func (h *PathHandler) CompleteProblem(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	pathID, ok := idParam(c, "id", "invalid_path_id")
	if !ok {
		return
	}
	var req struct {
		ProblemSlug string `json:"problem_slug" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.paths.CompleteProblem(c.Request.Context(), userID, pathID, req.ProblemSlug)
	if err != nil {
		response.RespondServiceError(c, err, "complete_problem_failed")
		return
	}
	response.RespondOK(c, res)
}
