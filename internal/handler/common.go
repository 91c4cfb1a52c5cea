package handler

import (
	"strconv"

	"reviewhub/internal/apperrors"

	"github.com/gin-gonic/gin"
)

// respondError maps a service error onto an HTTP status and JSON body.
func respondError(c *gin.Context, err error) {
	httpErr := apperrors.MapErrorToHTTP(err)
	c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// pagination reads page/page_size query params with sane bounds.
func pagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

// pathID parses a numeric path parameter.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
