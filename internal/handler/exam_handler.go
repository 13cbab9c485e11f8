package handler

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/careerpath/internal/middleware"
	"github.com/stemsi/careerpath/internal/model"
	"github.com/stemsi/careerpath/internal/progress"
	"github.com/stemsi/careerpath/internal/response"
	"github.com/stemsi/careerpath/internal/service"
	"github.com/stemsi/careerpath/internal/validator"
)

var testIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ExamHandler serves randomized papers and accepts submissions.
type ExamHandler struct {
	examService     *service.ExamService
	progressService *service.ProgressService
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(examService *service.ExamService, progressService *service.ProgressService) *ExamHandler {
	return &ExamHandler{
		examService:     examService,
		progressService: progressService,
	}
}

type paperResponse struct {
	TestID        string                `json:"test_id"`
	Deterministic bool                  `json:"deterministic"`
	Questions     []model.QuestionPaper `json:"questions"`
}

type submitResponse struct {
	Result   model.CompletedTest `json:"result"`
	Progress progress.Summary    `json:"progress"`
}

// GetPaper godoc
// GET /api/v1/tests/:test_id/paper
// Returns the caller's randomized paper without correct answers.
func (h *ExamHandler) GetPaper(c *gin.Context) {
	testID, ok := testIDParam(c)
	if !ok {
		return
	}

	sess, err := h.examService.Session(c.Request.Context(), middleware.UserID(c), testID)
	if err != nil {
		failService(c, err)
		return
	}

	response.Success(c, http.StatusOK, paperResponse{
		TestID:        sess.TestID,
		Deterministic: sess.Deterministic,
		Questions:     sess.Papers(),
	})
}

// Submit godoc
// POST /api/v1/tests/:test_id/submit
// Grades the caller's answers against their own paper and records the result.
func (h *ExamHandler) Submit(c *gin.Context) {
	testID, ok := testIDParam(c)
	if !ok {
		return
	}

	var req model.SubmitAnswersRequest
	if fields := validator.Bind(c, &req); fields != nil {
		failBind(c, fields)
		return
	}

	userID := middleware.UserID(c)
	result, err := h.examService.Submit(c.Request.Context(), userID, testID, req)
	if err != nil {
		failService(c, err)
		return
	}

	response.Success(c, http.StatusCreated, submitResponse{
		Result:   result,
		Progress: h.progressService.Summary(c.Request.Context(), userID),
	})
}

func testIDParam(c *gin.Context) (string, bool) {
	testID := c.Param("test_id")
	if !testIDPattern.MatchString(testID) {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return "", false
	}
	return testID, true
}

// failBind reports a body that failed to decode or validate.
func failBind(c *gin.Context, fields map[string]string) {
	code := response.ErrValidation
	if validator.IsPayloadError(fields) {
		code = response.ErrInvalidPayload
	}
	response.FailWithFields(c, http.StatusBadRequest, code, fields)
}

// failService maps service errors onto response codes.
func failService(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoQuestions):
		response.Fail(c, http.StatusNotFound, response.ErrNoQuestions)
	case errors.Is(err, service.ErrIdentityRequired):
		response.Fail(c, http.StatusUnauthorized, response.ErrIdentityRequired)
	default:
		_ = c.Error(err)
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
