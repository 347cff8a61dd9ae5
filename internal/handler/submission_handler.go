package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-course-gateway/internal/models"
	appErrors "github.com/noah-isme/sma-course-gateway/pkg/errors"
	"github.com/noah-isme/sma-course-gateway/pkg/response"
)

type submissionService interface {
	List(ctx context.Context, filter models.SubmissionFilter) ([]models.Submission, *models.Pagination, error)
}

// SubmissionHandler exposes the course submission log.
type SubmissionHandler struct {
	submissions submissionService
}

// NewSubmissionHandler constructs SubmissionHandler.
func NewSubmissionHandler(submissions submissionService) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

// List godoc
// @Summary List course submissions
// @Tags Submissions
// @Produce json
// @Param studentId query int false "Filter by student"
// @Param status query string false "accepted, blocked or rejected"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /submissions [get]
func (h *SubmissionHandler) List(c *gin.Context) {
	var filter models.SubmissionFilter
	if raw := c.Query("studentId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "studentId must be an integer"))
			return
		}
		filter.StudentID = &id
	}
	switch status := models.SubmissionStatus(c.Query("status")); status {
	case "", models.SubmissionAccepted, models.SubmissionBlocked, models.SubmissionRejected:
		filter.Status = status
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown status"))
		return
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	subs, pagination, err := h.submissions.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subs, pagination)
}
