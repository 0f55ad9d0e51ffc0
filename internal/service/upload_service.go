package service

import (
	"context"

	"github.com/noah-isme/member-portal-api/internal/models"
	appErrors "github.com/noah-isme/member-portal-api/pkg/errors"
	"github.com/noah-isme/member-portal-api/pkg/storage"
)

// UploadService hands out upload URLs to signed-in members.
type UploadService struct {
	store storage.ObjectStore
	authz *Authorizer
}

// NewUploadService constructs an UploadService.
func NewUploadService(store storage.ObjectStore, authz *Authorizer) *UploadService {
	return &UploadService{store: store, authz: authz}
}

// GenerateUploadURL returns a single-object upload URL and the storage id to reference afterwards.
func (s *UploadService) GenerateUploadURL(ctx context.Context, identity *models.Identity) (*storage.UploadTicket, error) {
	if _, err := s.authz.Authorize(ctx, identity, ActionGenerateUploadURL); err != nil {
		return nil, err
	}
	ticket, err := s.store.GenerateUploadURL(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to generate upload url")
	}
	return ticket, nil
}
