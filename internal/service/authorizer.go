package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/noah-isme/member-portal-api/internal/models"
	"github.com/noah-isme/member-portal-api/pkg/config"
	appErrors "github.com/noah-isme/member-portal-api/pkg/errors"
)

// Action names an operation guarded by the Authorizer.
type Action string

const (
	ActionCreateEvent          Action = "events.create"
	ActionCreateNotification   Action = "notifications.create"
	ActionCreateMagazine       Action = "magazines.create"
	ActionUploadGalleryImage   Action = "gallery.upload"
	ActionGenerateUploadURL    Action = "storage.generateUploadUrl"
	ActionRequestCertificate   Action = "certificates.request"
	ActionListOwnCertificates  Action = "certificates.listMyRequests"
	ActionViewPendingQueue     Action = "certificates.listPending"
	ActionReviewCertificate    Action = "certificates.updateStatus"
	ActionCreateDefaultProfile Action = "userProfiles.createDefaultProfile"
	ActionUpdateOwnProfile     Action = "userProfiles.updateProfile"
	ActionPromoteExecutive     Action = "userProfiles.promoteToExecutive"
)

type accessLevel int

const (
	levelAuthenticated accessLevel = iota
	levelExecutive
	levelAdmin
)

type profileReader interface {
	FindByUserID(ctx context.Context, userID string) (*models.UserProfile, error)
}

// Authorizer decides whether an identity may perform an action. The role always comes from the
// stored profile at the time of the call.
type Authorizer struct {
	profiles profileReader
	policy   config.PolicyConfig
}

// NewAuthorizer constructs an Authorizer with the given policy switches.
func NewAuthorizer(profiles profileReader, policy config.PolicyConfig) *Authorizer {
	return &Authorizer{profiles: profiles, policy: policy}
}

// Authorize returns the caller's profile when the action is allowed. A caller without a stored
// profile is treated as a student and gets an unsaved default profile back.
func (a *Authorizer) Authorize(ctx context.Context, identity *models.Identity, action Action) (*models.UserProfile, error) {
	if identity == nil || identity.UserID == "" {
		return nil, appErrors.ErrUnauthorized
	}

	profile, err := a.profiles.FindByUserID(ctx, identity.UserID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Internal(err, "failed to resolve profile")
		}
		profile = &models.UserProfile{UserID: identity.UserID, Role: models.RoleStudent, IsActive: true}
	}

	switch a.levelFor(action) {
	case levelAdmin:
		if profile.Role != models.RoleAdmin {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "only admins can perform this action")
		}
	case levelExecutive:
		if !profile.Role.CanReview() {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "only executives can perform this action")
		}
	}
	return profile, nil
}

func (a *Authorizer) levelFor(action Action) accessLevel {
	switch action {
	case ActionPromoteExecutive:
		return levelAdmin
	case ActionReviewCertificate:
		return levelExecutive
	case ActionCreateEvent, ActionCreateNotification, ActionCreateMagazine:
		if a.policy.ContentRequiresExecutive {
			return levelExecutive
		}
	case ActionViewPendingQueue:
		if a.policy.PendingQueueRequiresExecutive {
			return levelExecutive
		}
	}
	return levelAuthenticated
}
