package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/member-portal-api/internal/models"
	appErrors "github.com/noah-isme/member-portal-api/pkg/errors"
)

func newTestAuthService(users *fakeUserRepo, profiles *fakeProfileRepo) *AuthService {
	return NewAuthService(users, profiles, validator.New(), zap.NewNop(), AuthConfig{
		AccessTokenSecret: "secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "member-portal",
	})
}

func TestAuthServiceRegisterCreatesStudentProfile(t *testing.T) {
	users := newFakeUserRepo()
	profiles := newFakeProfileRepo()
	svc := newTestAuthService(users, profiles)

	resp, err := svc.Register(context.Background(), models.RegisterRequest{Email: " A.Lee@Example.edu ", Password: "password123", Name: "A. Lee"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	require.NotNil(t, resp.User.Email)
	assert.Equal(t, "a.lee@example.edu", *resp.User.Email)

	profile, err := profiles.FindByUserID(context.Background(), resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, profile.Role)
	assert.True(t, profile.IsActive)
}

func TestAuthServiceRegisterDuplicateEmail(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo(), newFakeProfileRepo())
	req := models.RegisterRequest{Email: "dup@example.edu", Password: "password123"}

	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, appErrors.ErrConflict)
}

func TestAuthServiceRegisterValidation(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo(), newFakeProfileRepo())
	_, err := svc.Register(context.Background(), models.RegisterRequest{Email: "not-an-email", Password: "short"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	users := newFakeUserRepo()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	email := "exec@example.edu"
	require.NoError(t, users.Create(context.Background(), &models.User{ID: "user-1", Email: &email, Name: "Exec", PasswordHash: string(hash)}))

	svc := newTestAuthService(users, newFakeProfileRepo())
	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: email, Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "user-1", resp.User.ID)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, email, claims.Email)
	assert.Equal(t, "member-portal", claims.Issuer)
}

func TestAuthServiceLoginInvalidPassword(t *testing.T) {
	users := newFakeUserRepo()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	email := "exec@example.edu"
	require.NoError(t, users.Create(context.Background(), &models.User{ID: "user-1", Email: &email, PasswordHash: string(hash)}))

	svc := newTestAuthService(users, newFakeProfileRepo())
	_, err := svc.Login(context.Background(), models.LoginRequest{Email: email, Password: "wrong-password"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "missing@example.edu", Password: "password123"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestAuthServiceAnonymous(t *testing.T) {
	profiles := newFakeProfileRepo()
	svc := newTestAuthService(newFakeUserRepo(), profiles)

	resp, err := svc.Anonymous(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.User.IsAnonymous)
	assert.Nil(t, resp.User.Email)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.True(t, claims.IsAnonymous)
	require.NotNil(t, claims.Identity())

	_, err = profiles.FindByUserID(context.Background(), resp.User.ID)
	assert.NoError(t, err)
}

func TestAuthServiceMe(t *testing.T) {
	users := newFakeUserRepo()
	require.NoError(t, users.Create(context.Background(), &models.User{ID: "user-1", Name: "A. Lee"}))
	svc := newTestAuthService(users, newFakeProfileRepo())

	user, err := svc.Me(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = svc.Me(context.Background(), &models.Identity{UserID: "ghost"})
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = svc.Me(context.Background(), &models.Identity{UserID: "user-1"})
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "A. Lee", user.Name)
}

func TestAuthServiceValidateTokenRejectsForeignSecret(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo(), newFakeProfileRepo())
	resp, err := svc.Anonymous(context.Background())
	require.NoError(t, err)

	other := NewAuthService(newFakeUserRepo(), newFakeProfileRepo(), nil, nil, AuthConfig{AccessTokenSecret: "other", Issuer: "member-portal"})
	_, err = other.ValidateToken(resp.AccessToken)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	_, err = svc.ValidateToken("garbage")
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}
