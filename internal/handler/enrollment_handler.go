package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-course-gateway/internal/dto"
	appErrors "github.com/noah-isme/sma-course-gateway/pkg/errors"
	"github.com/noah-isme/sma-course-gateway/pkg/response"
)

const maxParseBody = 1 << 20

type enrollmentService interface {
	Preview(ctx context.Context, req dto.ResolveRequest) dto.ResolveResponse
	Parse(ctx context.Context, body []byte) (*dto.ParseResponse, error)
}

// EnrollmentHandler exposes the resolver and parser as dry-run endpoints.
type EnrollmentHandler struct {
	service enrollmentService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(service enrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{service: service}
}

// Resolve godoc
// @Summary Preview course resolution
// @Tags Enrollment
// @Accept json
// @Produce json
// @Param payload body dto.ResolveRequest true "Free-text courses"
// @Success 200 {object} response.Envelope
// @Router /enrollment/resolve [post]
func (h *EnrollmentHandler) Resolve(c *gin.Context) {
	var req dto.ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	response.JSON(c, http.StatusOK, h.service.Preview(c.Request.Context(), req), nil)
}

// Parse godoc
// @Summary Parse raw student JSON
// @Description Accepts one student object or an array and reports dropped fields
// @Tags Enrollment
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /enrollment/parse [post]
func (h *EnrollmentHandler) Parse(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxParseBody))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unable to read body"))
		return
	}
	out, err := h.service.Parse(c.Request.Context(), body)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, out, nil)
}
