package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/member-portal-api/internal/models"
	"github.com/noah-isme/member-portal-api/pkg/config"
	appErrors "github.com/noah-isme/member-portal-api/pkg/errors"
)

func TestAuthorizerRejectsMissingIdentity(t *testing.T) {
	auth := NewAuthorizer(newFakeProfileRepo(), config.PolicyConfig{})
	_, err := auth.Authorize(context.Background(), nil, ActionCreateEvent)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestAuthorizerRoleMatrix(t *testing.T) {
	profiles := newFakeProfileRepo()
	profiles.put("student", models.RoleStudent)
	profiles.put("exec", models.RoleExecutive)
	profiles.put("admin", models.RoleAdmin)
	auth := NewAuthorizer(profiles, config.PolicyConfig{})

	cases := []struct {
		user   string
		action Action
		want   error
	}{
		{"student", ActionCreateEvent, nil},
		{"student", ActionViewPendingQueue, nil},
		{"student", ActionReviewCertificate, appErrors.ErrForbidden},
		{"student", ActionPromoteExecutive, appErrors.ErrForbidden},
		{"no-profile", ActionReviewCertificate, appErrors.ErrForbidden},
		{"no-profile", ActionRequestCertificate, nil},
		{"exec", ActionReviewCertificate, nil},
		{"exec", ActionPromoteExecutive, appErrors.ErrForbidden},
		{"admin", ActionReviewCertificate, nil},
		{"admin", ActionPromoteExecutive, nil},
	}
	for _, tc := range cases {
		t.Run(tc.user+"/"+string(tc.action), func(t *testing.T) {
			_, err := auth.Authorize(context.Background(), &models.Identity{UserID: tc.user}, tc.action)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestAuthorizerPolicyTightening(t *testing.T) {
	profiles := newFakeProfileRepo()
	profiles.put("student", models.RoleStudent)
	profiles.put("exec", models.RoleExecutive)
	auth := NewAuthorizer(profiles, config.PolicyConfig{ContentRequiresExecutive: true, PendingQueueRequiresExecutive: true})

	student := &models.Identity{UserID: "student"}
	for _, action := range []Action{ActionCreateEvent, ActionCreateNotification, ActionCreateMagazine, ActionViewPendingQueue} {
		_, err := auth.Authorize(context.Background(), student, action)
		assert.ErrorIs(t, err, appErrors.ErrForbidden, action)
	}
	_, err := auth.Authorize(context.Background(), student, ActionUploadGalleryImage)
	assert.NoError(t, err)

	_, err = auth.Authorize(context.Background(), &models.Identity{UserID: "exec"}, ActionCreateEvent)
	assert.NoError(t, err)
}

func TestAuthorizerSurfacesStoreErrors(t *testing.T) {
	profiles := newFakeProfileRepo()
	profiles.findErr = errors.New("connection reset")
	auth := NewAuthorizer(profiles, config.PolicyConfig{})

	_, err := auth.Authorize(context.Background(), &models.Identity{UserID: "u1"}, ActionCreateEvent)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}
