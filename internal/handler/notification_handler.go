package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/member-portal-api/internal/dto"
	"github.com/noah-isme/member-portal-api/internal/models"
	"github.com/noah-isme/member-portal-api/pkg/response"
)

type notificationService interface {
	List(ctx context.Context, limit int) ([]models.Notification, error)
	Create(ctx context.Context, identity *models.Identity, req models.CreateNotificationRequest) (string, error)
}

// NotificationHandler exposes notification endpoints.
type NotificationHandler struct {
	service notificationService
}

// NewNotificationHandler creates a new handler.
func NewNotificationHandler(svc notificationService) *NotificationHandler {
	return &NotificationHandler{service: svc}
}

// List godoc
// @Summary List notifications
// @Tags Notifications
// @Produce json
// @Param limit query int false "Maximum items (default 10, max 100)"
// @Success 200 {object} response.Envelope
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
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
// @Summary Create notification
// @Tags Notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateNotificationRequest true "Notification payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /notifications [post]
func (h *NotificationHandler) Create(c *gin.Context) {
	var req models.CreateNotificationRequest
	if !bindJSON(c, &req, "invalid notification payload") {
		return
	}
	id, err := h.service.Create(c.Request.Context(), identityFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.CreatedResponse{ID: id})
}
