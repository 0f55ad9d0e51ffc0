package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/member-portal-api/internal/dto"
	"github.com/noah-isme/member-portal-api/internal/models"
	appErrors "github.com/noah-isme/member-portal-api/pkg/errors"
	"github.com/noah-isme/member-portal-api/pkg/storage"
)

type magazineRepository interface {
	Create(ctx context.Context, magazine *models.Magazine) error
	ListPublished(ctx context.Context, limit int) ([]models.Magazine, error)
}

// MagazineService publishes magazine issues.
type MagazineService struct {
	repo      magazineRepository
	store     storage.ObjectStore
	cache     *CacheService
	authz     *Authorizer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMagazineService constructs a MagazineService.
func NewMagazineService(repo magazineRepository, store storage.ObjectStore, cache *CacheService, authz *Authorizer, validate *validator.Validate, logger *zap.Logger) *MagazineService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MagazineService{repo: repo, store: store, cache: cache, authz: authz, validator: validate, logger: logger}
}

// List returns published issues newest first with cover and PDF URLs resolved.
func (s *MagazineService) List(ctx context.Context, limit int) ([]dto.MagazineResponse, error) {
	limit = normalizeLimit(limit, defaultContentLimit)
	magazines, err := cachedList(ctx, s.cache, CacheEntityMagazines, limit, func() ([]models.Magazine, error) {
		return s.repo.ListPublished(ctx, limit)
	})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list magazines")
	}

	out := make([]dto.MagazineResponse, 0, len(magazines))
	for _, magazine := range magazines {
		out = append(out, dto.MagazineResponse{
			Magazine:      magazine,
			CoverImageURL: resolveRef(ctx, s.store, s.logger, magazine.CoverImageRef),
			PDFURL:        resolveRef(ctx, s.store, s.logger, magazine.PDFRef),
		})
	}
	return out, nil
}

// Create stores a published issue attributed to the caller.
func (s *MagazineService) Create(ctx context.Context, identity *models.Identity, req models.CreateMagazineRequest) (string, error) {
	if _, err := s.authz.Authorize(ctx, identity, ActionCreateMagazine); err != nil {
		return "", err
	}
	if err := s.validator.Struct(req); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid magazine payload")
	}

	magazine := &models.Magazine{
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		Issue:         req.Issue,
		PublishDate:   req.PublishDate,
		CoverImageRef: req.CoverImageRef,
		PDFRef:        req.PDFRef,
		IsPublished:   true,
		CreatedBy:     identity.UserID,
	}
	if err := s.repo.Create(ctx, magazine); err != nil {
		return "", appErrors.Internal(err, "failed to create magazine")
	}
	s.cache.InvalidateEntity(ctx, CacheEntityMagazines)
	return magazine.ID, nil
}
