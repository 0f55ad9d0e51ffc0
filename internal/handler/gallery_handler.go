package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/member-portal-api/internal/dto"
	"github.com/noah-isme/member-portal-api/internal/models"
	"github.com/noah-isme/member-portal-api/pkg/response"
)

type galleryService interface {
	List(ctx context.Context, limit int) ([]dto.GalleryImageResponse, error)
	Upload(ctx context.Context, identity *models.Identity, req models.UploadGalleryImageRequest) (string, error)
}

// GalleryHandler exposes gallery endpoints.
type GalleryHandler struct {
	service galleryService
}

// NewGalleryHandler creates a new handler.
func NewGalleryHandler(svc galleryService) *GalleryHandler {
	return &GalleryHandler{service: svc}
}

// List godoc
// @Summary List gallery images
// @Tags Gallery
// @Produce json
// @Param limit query int false "Maximum items (default 20, max 100)"
// @Success 200 {object} response.Envelope
// @Router /gallery [get]
func (h *GalleryHandler) List(c *gin.Context) {
	limit, err := limitFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	items, err := h.service.List(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items, map[string]interface{}{"count": len(items)})
}

// Upload godoc
// @Summary Add gallery image
// @Description Records an image previously uploaded through an upload URL
// @Tags Gallery
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.UploadGalleryImageRequest true "Gallery payload"
// @Success 201 {object} response.Envelope
// @Router /gallery [post]
func (h *GalleryHandler) Upload(c *gin.Context) {
	var req models.UploadGalleryImageRequest
	if !bindJSON(c, &req, "invalid gallery payload") {
		return
	}
	id, err := h.service.Upload(c.Request.Context(), identityFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.CreatedResponse{ID: id})
}
