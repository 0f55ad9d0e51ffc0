package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/member-portal-api/internal/models"
	"github.com/noah-isme/member-portal-api/pkg/response"
	"github.com/noah-isme/member-portal-api/pkg/storage"
)

type uploadService interface {
	GenerateUploadURL(ctx context.Context, identity *models.Identity) (*storage.UploadTicket, error)
}

// UploadHandler issues upload URLs.
type UploadHandler struct {
	service uploadService
}

// NewUploadHandler creates a new handler.
func NewUploadHandler(svc uploadService) *UploadHandler {
	return &UploadHandler{service: svc}
}

// GenerateUploadURL godoc
// @Summary Generate upload URL
// @Description Returns a URL accepting one file and the storage id to reference it by
// @Tags Storage
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /uploads [post]
func (h *UploadHandler) GenerateUploadURL(c *gin.Context) {
	ticket, err := h.service.GenerateUploadURL(c.Request.Context(), identityFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, ticket)
}
