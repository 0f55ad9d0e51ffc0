package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/member-portal-api/internal/dto"
	"github.com/noah-isme/member-portal-api/internal/models"
	"github.com/noah-isme/member-portal-api/pkg/response"
)

type eventService interface {
	List(ctx context.Context, limit int) ([]dto.EventResponse, error)
	GetByID(ctx context.Context, id string) (*dto.EventResponse, error)
	Create(ctx context.Context, identity *models.Identity, req models.CreateEventRequest) (string, error)
}

// EventHandler exposes event endpoints.
type EventHandler struct {
	service eventService
}

// NewEventHandler creates a new handler.
func NewEventHandler(svc eventService) *EventHandler {
	return &EventHandler{service: svc}
}

// List godoc
// @Summary List events
// @Tags Events
// @Produce json
// @Param limit query int false "Maximum items (default 10, max 100)"
// @Success 200 {object} response.Envelope
// @Router /events [get]
func (h *EventHandler) List(c *gin.Context) {
	limit, err := limitFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	events, err := h.service.List(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, events, map[string]interface{}{"count": len(events)})
}

// Get godoc
// @Summary Get event
// @Description Returns the event or null when it does not exist
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /events/{id} [get]
func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, event)
}

// Create godoc
// @Summary Create event
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateEventRequest true "Event payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /events [post]
func (h *EventHandler) Create(c *gin.Context) {
	var req models.CreateEventRequest
	if !bindJSON(c, &req, "invalid event payload") {
		return
	}
	id, err := h.service.Create(c.Request.Context(), identityFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.CreatedResponse{ID: id})
}
