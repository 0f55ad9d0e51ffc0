package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/member-portal-api/internal/models"
	appErrors "github.com/noah-isme/member-portal-api/pkg/errors"
)

type profileRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.UserProfile, error)
	Ensure(ctx context.Context, userID string) (*models.UserProfile, error)
	UpsertOwn(ctx context.Context, userID string, patch models.UpdateProfileRequest) (*models.UserProfile, error)
	Promote(ctx context.Context, userID, position, appointedBy string, appointedAt time.Time) (*models.UserProfile, error)
	ListExecutives(ctx context.Context) ([]models.Executive, error)
}

type userLookup interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// ProfileService manages member profiles and executive appointments.
type ProfileService struct {
	profiles  profileRepository
	users     userLookup
	audit     auditRecorder
	authz     *Authorizer
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewProfileService constructs a ProfileService.
func NewProfileService(profiles profileRepository, users userLookup, audit auditRecorder, authz *Authorizer, validate *validator.Validate, logger *zap.Logger) *ProfileService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{profiles: profiles, users: users, audit: audit, authz: authz, validator: validate, logger: logger, now: time.Now}
}

// GetCurrent returns the caller's profile, creating the default one on first access. Unauthenticated
// callers get nil.
func (s *ProfileService) GetCurrent(ctx context.Context, identity *models.Identity) (*models.UserProfile, error) {
	if identity == nil {
		return nil, nil
	}
	profile, err := s.profiles.Ensure(ctx, identity.UserID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load profile")
	}
	return profile, nil
}

// CreateDefault returns the caller's profile, inserting the student default if absent.
func (s *ProfileService) CreateDefault(ctx context.Context, identity *models.Identity) (*models.UserProfile, error) {
	if _, err := s.authz.Authorize(ctx, identity, ActionCreateDefaultProfile); err != nil {
		return nil, err
	}
	profile, err := s.profiles.Ensure(ctx, identity.UserID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to create profile")
	}
	return profile, nil
}

// Update patches department, year and student id on the caller's own profile.
func (s *ProfileService) Update(ctx context.Context, identity *models.Identity, req models.UpdateProfileRequest) (*models.UserProfile, error) {
	if _, err := s.authz.Authorize(ctx, identity, ActionUpdateOwnProfile); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}
	profile, err := s.profiles.UpsertOwn(ctx, identity.UserID, req)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to update profile")
	}
	return profile, nil
}

// Promote appoints a user to an executive position. Admins keep their role.
func (s *ProfileService) Promote(ctx context.Context, identity *models.Identity, req models.PromoteRequest, meta models.RequestMeta) (*models.UserProfile, error) {
	if _, err := s.authz.Authorize(ctx, identity, ActionPromoteExecutive); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid promotion payload")
	}
	if _, err := s.users.FindByID(ctx, req.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Internal(err, "failed to load user")
	}

	profile, err := s.profiles.Promote(ctx, req.UserID, req.Position, identity.UserID, s.now().UTC())
	if err != nil {
		return nil, appErrors.Internal(err, "failed to promote user")
	}

	recordAudit(ctx, s.audit, s.logger, identity.UserID, models.AuditActionPromoteExecutive, "user_profiles", profile.ID,
		map[string]string{"userId": req.UserID, "position": req.Position, "role": string(profile.Role)}, meta)
	s.logger.Info("executive appointed", zap.String("user_id", req.UserID), zap.String("position", req.Position), zap.String("by", identity.UserID))
	return profile, nil
}

// ListExecutives returns all profiles with role executive joined with their users.
func (s *ProfileService) ListExecutives(ctx context.Context) ([]models.Executive, error) {
	executives, err := s.profiles.ListExecutives(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list executives")
	}
	return executives, nil
}

// IsExecutive reports whether the caller holds the executive or admin role.
func (s *ProfileService) IsExecutive(ctx context.Context, identity *models.Identity) (bool, error) {
	if identity == nil {
		return false, nil
	}
	profile, err := s.profiles.FindByUserID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, appErrors.Internal(err, "failed to load profile")
	}
	return profile.Role.CanReview(), nil
}
