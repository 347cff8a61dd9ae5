package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-course-gateway/internal/middleware"
	appErrors "github.com/noah-isme/sma-course-gateway/pkg/errors"
)

// pathID reads a positive integer path parameter.
func pathID(c *gin.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, name+" must be a positive integer")
	}
	return id, nil
}

func actorFromContext(c *gin.Context) string {
	return middleware.Actor(c)
}
