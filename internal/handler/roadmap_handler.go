package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/careerpath/internal/middleware"
	"github.com/stemsi/careerpath/internal/model"
	"github.com/stemsi/careerpath/internal/response"
	"github.com/stemsi/careerpath/internal/service"
	"github.com/stemsi/careerpath/internal/validator"
)

// RoadmapHandler handles education profiles and career roadmaps.
type RoadmapHandler struct {
	roadmapService *service.RoadmapService
}

// NewRoadmapHandler creates a new RoadmapHandler.
func NewRoadmapHandler(roadmapService *service.RoadmapService) *RoadmapHandler {
	return &RoadmapHandler{roadmapService: roadmapService}
}

type profileResponse struct {
	Profile       model.StudentProfile `json:"profile"`
	AcademicTests []string             `json:"academic_tests"`
}

// GetProfile godoc
// GET /api/v1/profile
func (h *RoadmapHandler) GetProfile(c *gin.Context) {
	response.Success(c, http.StatusOK, h.roadmapService.Profile(c.Request.Context(), middleware.UserID(c)))
}

// UpdateProfile godoc
// PUT /api/v1/profile
// Stores the profile and returns the academic tests it selects.
func (h *RoadmapHandler) UpdateProfile(c *gin.Context) {
	var req model.UpdateProfileRequest
	if fields := validator.Bind(c, &req); fields != nil {
		failBind(c, fields)
		return
	}

	profile := req.Profile()
	tests, err := h.roadmapService.SaveProfile(c.Request.Context(), middleware.UserID(c), profile)
	if err != nil {
		failService(c, err)
		return
	}

	response.Success(c, http.StatusOK, profileResponse{Profile: profile, AcademicTests: tests})
}

// GetRoadmap godoc
// GET /api/v1/roadmap
func (h *RoadmapHandler) GetRoadmap(c *gin.Context) {
	response.Success(c, http.StatusOK, h.roadmapService.Analyze(c.Request.Context(), middleware.UserID(c)))
}
