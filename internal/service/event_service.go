package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/member-portal-api/internal/dto"
	"github.com/noah-isme/member-portal-api/internal/models"
	appErrors "github.com/noah-isme/member-portal-api/pkg/errors"
	"github.com/noah-isme/member-portal-api/pkg/storage"
)

type eventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, id string) (*models.Event, error)
	ListActive(ctx context.Context, limit int) ([]models.Event, error)
}

// EventService publishes and lists association events.
type EventService struct {
	repo      eventRepository
	store     storage.ObjectStore
	cache     *CacheService
	authz     *Authorizer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEventService constructs an EventService.
func NewEventService(repo eventRepository, store storage.ObjectStore, cache *CacheService, authz *Authorizer, validate *validator.Validate, logger *zap.Logger) *EventService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{repo: repo, store: store, cache: cache, authz: authz, validator: validate, logger: logger}
}

// List returns active events newest first with image URLs resolved.
func (s *EventService) List(ctx context.Context, limit int) ([]dto.EventResponse, error) {
	limit = normalizeLimit(limit, defaultContentLimit)
	events, err := cachedList(ctx, s.cache, CacheEntityEvents, limit, func() ([]models.Event, error) {
		return s.repo.ListActive(ctx, limit)
	})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list events")
	}

	out := make([]dto.EventResponse, 0, len(events))
	for _, event := range events {
		out = append(out, s.toResponse(ctx, event))
	}
	return out, nil
}

// GetByID returns the event or nil when it does not exist.
func (s *EventService) GetByID(ctx context.Context, id string) (*dto.EventResponse, error) {
	event, err := s.repo.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, appErrors.Internal(err, "failed to load event")
	}
	resp := s.toResponse(ctx, *event)
	return &resp, nil
}

// Create stores a new active event attributed to the caller.
func (s *EventService) Create(ctx context.Context, identity *models.Identity, req models.CreateEventRequest) (string, error) {
	if _, err := s.authz.Authorize(ctx, identity, ActionCreateEvent); err != nil {
		return "", err
	}
	if err := s.validator.Struct(req); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}

	event := &models.Event{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
		Location:    req.Location,
		Type:        req.Type,
		ImageRef:    req.ImageRef,
		IsActive:    true,
		CreatedBy:   identity.UserID,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return "", appErrors.Internal(err, "failed to create event")
	}
	s.cache.InvalidateEntity(ctx, CacheEntityEvents)
	return event.ID, nil
}

func (s *EventService) toResponse(ctx context.Context, event models.Event) dto.EventResponse {
	return dto.EventResponse{Event: event, ImageURL: resolveRef(ctx, s.store, s.logger, event.ImageRef)}
}
