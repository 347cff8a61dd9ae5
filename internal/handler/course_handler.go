package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-course-gateway/internal/models"
	appErrors "github.com/noah-isme/sma-course-gateway/pkg/errors"
	"github.com/noah-isme/sma-course-gateway/pkg/response"
)

type courseService interface {
	Courses(ctx context.Context) ([]models.Course, error)
	Course(ctx context.Context, id int) (models.Course, error)
	Invalidate(ctx context.Context) error
}

// CourseHandler exposes the upstream course catalog.
type CourseHandler struct {
	courses courseService
}

// NewCourseHandler constructs CourseHandler.
func NewCourseHandler(courses courseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// List godoc
// @Summary List courses
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.courses.Courses(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil, map[string]interface{}{"count": len(courses)})
}

// Get godoc
// @Summary Get course
// @Tags Courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	course, err := h.courses.Course(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Refresh godoc
// @Summary Drop the cached course catalog
// @Tags Courses
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} response.Envelope
// @Router /courses/refresh [post]
func (h *CourseHandler) Refresh(c *gin.Context) {
	if err := h.courses.Invalidate(c.Request.Context()); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to invalidate catalog cache"))
		return
	}
	response.NoContent(c)
}
