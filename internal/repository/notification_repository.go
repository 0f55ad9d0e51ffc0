package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/member-portal-api/internal/models"
)

// NotificationRepository manages persistence for notifications.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository constructs the repository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a notification.
func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	const query = `INSERT INTO notifications (id, title, content, priority, is_active, created_by)
VALUES (:id, :title, :content, :priority, :is_active, :created_by)
RETURNING created_at`
	if err := namedInsertReturning(ctx, r.db, query, notification, &notification.CreatedAt); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// ListActive returns up to limit active notifications, newest first.
func (r *NotificationRepository) ListActive(ctx context.Context, limit int) ([]models.Notification, error) {
	const query = `SELECT id, title, content, priority, is_active, created_by, created_at FROM notifications WHERE is_active = TRUE ORDER BY created_at DESC, seq DESC LIMIT $1`
	notifications := []models.Notification{}
	if err := r.db.SelectContext(ctx, &notifications, query, limit); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}
