package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/careerpath/internal/middleware"
	"github.com/stemsi/careerpath/internal/response"
	"github.com/stemsi/careerpath/internal/service"
)

// ProgressHandler reports completion counters.
type ProgressHandler struct {
	progressService *service.ProgressService
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(progressService *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// GetProgress godoc
// GET /api/v1/progress
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	response.Success(c, http.StatusOK, h.progressService.Summary(c.Request.Context(), middleware.UserID(c)))
}
