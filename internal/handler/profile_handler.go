package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/member-portal-api/internal/models"
	"github.com/noah-isme/member-portal-api/pkg/response"
)

type profileService interface {
	GetCurrent(ctx context.Context, identity *models.Identity) (*models.UserProfile, error)
	CreateDefault(ctx context.Context, identity *models.Identity) (*models.UserProfile, error)
	Update(ctx context.Context, identity *models.Identity, req models.UpdateProfileRequest) (*models.UserProfile, error)
	Promote(ctx context.Context, identity *models.Identity, req models.PromoteRequest, meta models.RequestMeta) (*models.UserProfile, error)
	ListExecutives(ctx context.Context) ([]models.Executive, error)
	IsExecutive(ctx context.Context, identity *models.Identity) (bool, error)
}

// ProfileHandler exposes member profile endpoints.
type ProfileHandler struct {
	service profileService
}

// NewProfileHandler creates a new handler.
func NewProfileHandler(svc profileService) *ProfileHandler {
	return &ProfileHandler{service: svc}
}

// GetCurrent godoc
// @Summary Current profile
// @Description Returns the caller's profile, or null when unauthenticated
// @Tags Profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /profiles/me [get]
func (h *ProfileHandler) GetCurrent(c *gin.Context) {
	profile, err := h.service.GetCurrent(c.Request.Context(), identityFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, profile)
}

// CreateDefault godoc
// @Summary Create default profile
// @Tags Profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /profiles/me [post]
func (h *ProfileHandler) CreateDefault(c *gin.Context) {
	profile, err := h.service.CreateDefault(c.Request.Context(), identityFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, profile)
}

// Update godoc
// @Summary Update own profile
// @Tags Profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} response.Envelope
// @Router /profiles/me [patch]
func (h *ProfileHandler) Update(c *gin.Context) {
	var req models.UpdateProfileRequest
	if !bindJSON(c, &req, "invalid profile payload") {
		return
	}
	profile, err := h.service.Update(c.Request.Context(), identityFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, profile)
}

// Promote godoc
// @Summary Promote to executive
// @Description Admin only
// @Tags Profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.PromoteRequest true "Promotion"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /profiles/promotions [post]
func (h *ProfileHandler) Promote(c *gin.Context) {
	var req models.PromoteRequest
	if !bindJSON(c, &req, "invalid promotion payload") {
		return
	}
	profile, err := h.service.Promote(c.Request.Context(), identityFromContext(c), req, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, profile)
}

// ListExecutives godoc
// @Summary List executives
// @Tags Profiles
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /profiles/executives [get]
func (h *ProfileHandler) ListExecutives(c *gin.Context) {
	executives, err := h.service.ListExecutives(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, executives, map[string]interface{}{"count": len(executives)})
}

// IsExecutive godoc
// @Summary Check executive role
// @Tags Profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /profiles/me/is-executive [get]
func (h *ProfileHandler) IsExecutive(c *gin.Context) {
	ok, err := h.service.IsExecutive(c.Request.Context(), identityFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, ok)
}
