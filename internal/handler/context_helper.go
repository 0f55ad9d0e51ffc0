package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/member-portal-api/internal/middleware"
	"github.com/noah-isme/member-portal-api/internal/models"
	appErrors "github.com/noah-isme/member-portal-api/pkg/errors"
	"github.com/noah-isme/member-portal-api/pkg/response"
)

func identityFromContext(c *gin.Context) *models.Identity {
	return middleware.Identity(c)
}

func requestMeta(c *gin.Context) models.RequestMeta {
	return models.RequestMeta{IP: c.ClientIP(), UserAgent: c.GetHeader("User-Agent")}
}

// limitFromQuery reads ?limit=. Absent means the feed default.
func limitFromQuery(c *gin.Context) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, "limit must be an integer")
	}
	return limit, nil
}

func bindJSON(c *gin.Context, dest interface{}, message string) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message))
		return false
	}
	return true
}
