package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/member-portal-api/internal/dto"
	"github.com/noah-isme/member-portal-api/internal/models"
	"github.com/noah-isme/member-portal-api/pkg/response"
)

type magazineService interface {
	List(ctx context.Context, limit int) ([]dto.MagazineResponse, error)
	Create(ctx context.Context, identity *models.Identity, req models.CreateMagazineRequest) (string, error)
}

// MagazineHandler exposes magazine endpoints.
type MagazineHandler struct {
	service magazineService
}

// NewMagazineHandler creates a new handler.
func NewMagazineHandler(svc magazineService) *MagazineHandler {
	return &MagazineHandler{service: svc}
}

// List godoc
// @Summary List magazine issues
// @Tags Magazines
// @Produce json
// @Param limit query int false "Maximum items (default 10, max 100)"
// @Success 200 {object} response.Envelope
// @Router /magazines [get]
func (h *MagazineHandler) List(c *gin.Context) {
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

// Create godoc
// @Summary Publish magazine issue
// @Tags Magazines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateMagazineRequest true "Magazine payload"
// @Success 201 {object} response.Envelope
// @Router /magazines [post]
func (h *MagazineHandler) Create(c *gin.Context) {
	var req models.CreateMagazineRequest
	if !bindJSON(c, &req, "invalid magazine payload") {
		return
	}
	id, err := h.service.Create(c.Request.Context(), identityFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.CreatedResponse{ID: id})
}
