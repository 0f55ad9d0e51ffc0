package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/member-portal-api/internal/models"
	appErrors "github.com/noah-isme/member-portal-api/pkg/errors"
)

type notificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListActive(ctx context.Context, limit int) ([]models.Notification, error)
}

// NotificationService publishes member notices.
type NotificationService struct {
	repo      notificationRepository
	cache     *CacheService
	authz     *Authorizer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(repo notificationRepository, cache *CacheService, authz *Authorizer, validate *validator.Validate, logger *zap.Logger) *NotificationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{repo: repo, cache: cache, authz: authz, validator: validate, logger: logger}
}

// List returns active notifications newest first.
func (s *NotificationService) List(ctx context.Context, limit int) ([]models.Notification, error) {
	limit = normalizeLimit(limit, defaultContentLimit)
	items, err := cachedList(ctx, s.cache, CacheEntityNotifications, limit, func() ([]models.Notification, error) {
		return s.repo.ListActive(ctx, limit)
	})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list notifications")
	}
	return items, nil
}

// Create stores an active notification attributed to the caller.
func (s *NotificationService) Create(ctx context.Context, identity *models.Identity, req models.CreateNotificationRequest) (string, error) {
	if _, err := s.authz.Authorize(ctx, identity, ActionCreateNotification); err != nil {
		return "", err
	}
	if err := s.validator.Struct(req); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid notification payload")
	}

	notification := &models.Notification{
		Title:     strings.TrimSpace(req.Title),
		Content:   req.Content,
		Priority:  req.Priority,
		IsActive:  true,
		CreatedBy: identity.UserID,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return "", appErrors.Internal(err, "failed to create notification")
	}
	s.cache.InvalidateEntity(ctx, CacheEntityNotifications)
	return notification.ID, nil
}
