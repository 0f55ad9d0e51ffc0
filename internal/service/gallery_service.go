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

type galleryRepository interface {
	Create(ctx context.Context, image *models.GalleryImage) error
	List(ctx context.Context, limit int) ([]models.GalleryImage, error)
}

type eventFinder interface {
	FindByID(ctx context.Context, id string) (*models.Event, error)
}

// GalleryService manages the photo gallery.
type GalleryService struct {
	repo      galleryRepository
	events    eventFinder
	store     storage.ObjectStore
	cache     *CacheService
	authz     *Authorizer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGalleryService constructs a GalleryService.
func NewGalleryService(repo galleryRepository, events eventFinder, store storage.ObjectStore, cache *CacheService, authz *Authorizer, validate *validator.Validate, logger *zap.Logger) *GalleryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GalleryService{repo: repo, events: events, store: store, cache: cache, authz: authz, validator: validate, logger: logger}
}

// List returns gallery images newest first with URLs resolved.
func (s *GalleryService) List(ctx context.Context, limit int) ([]dto.GalleryImageResponse, error) {
	limit = normalizeLimit(limit, defaultGalleryLimit)
	images, err := cachedList(ctx, s.cache, CacheEntityGallery, limit, func() ([]models.GalleryImage, error) {
		return s.repo.List(ctx, limit)
	})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list gallery images")
	}

	out := make([]dto.GalleryImageResponse, 0, len(images))
	for _, image := range images {
		ref := image.ImageRef
		out = append(out, dto.GalleryImageResponse{GalleryImage: image, ImageURL: resolveRef(ctx, s.store, s.logger, &ref)})
	}
	return out, nil
}

// Upload records an already stored image in the gallery.
func (s *GalleryService) Upload(ctx context.Context, identity *models.Identity, req models.UploadGalleryImageRequest) (string, error) {
	if _, err := s.authz.Authorize(ctx, identity, ActionUploadGalleryImage); err != nil {
		return "", err
	}
	if err := s.validator.Struct(req); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid gallery payload")
	}
	if req.EventRef != nil && *req.EventRef != "" {
		if _, err := s.events.FindByID(ctx, *req.EventRef); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return "", appErrors.Clone(appErrors.ErrValidation, "eventRef does not reference an event")
			}
			return "", appErrors.Internal(err, "failed to load event")
		}
	} else {
		req.EventRef = nil
	}

	image := &models.GalleryImage{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		ImageRef:    req.ImageRef,
		EventRef:    req.EventRef,
		UploadedBy:  identity.UserID,
	}
	if err := s.repo.Create(ctx, image); err != nil {
		return "", appErrors.Internal(err, "failed to store gallery image")
	}
	s.cache.InvalidateEntity(ctx, CacheEntityGallery)
	return image.ID, nil
}
