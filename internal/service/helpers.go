package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/noah-isme/member-portal-api/internal/models"
	"github.com/noah-isme/member-portal-api/pkg/storage"
)

const maxListLimit = 100

// Default feed sizes.
const (
	defaultContentLimit = 10
	defaultGalleryLimit = 20
)

// normalizeLimit applies the feed default to non-positive limits and caps the rest.
func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

// resolveRef turns a stored reference into a URL. Lookup failures are logged and reported as no URL.
func resolveRef(ctx context.Context, store storage.ObjectStore, logger *zap.Logger, ref *string) *string {
	if store == nil || ref == nil || *ref == "" {
		return nil
	}
	url, err := store.ResolveURL(ctx, *ref)
	if err != nil {
		logger.Warn("resolve storage ref failed", zap.String("ref", *ref), zap.Error(err))
		return nil
	}
	return url
}

type auditRecorder interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// recordAudit writes an audit entry. Failures are logged and never surface to the caller.
func recordAudit(ctx context.Context, repo auditRecorder, logger *zap.Logger, actor, action, resource, resourceID string, values interface{}, meta models.RequestMeta) {
	if repo == nil {
		return
	}
	entry := &models.AuditLog{
		UserID:     &actor,
		Action:     action,
		Resource:   resource,
		ResourceID: &resourceID,
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
	}
	if values != nil {
		payload, err := json.Marshal(values)
		if err == nil {
			entry.NewValues = payload
		}
	}
	if err := repo.CreateAuditLog(ctx, entry); err != nil {
		logger.Warn("failed to write audit log", zap.String("action", action), zap.String("resource_id", resourceID), zap.Error(err))
	}
}
