package models

import "time"

// NotificationPriority orders notices by urgency.
type NotificationPriority string

const (
	NotificationPriorityLow    NotificationPriority = "low"
	NotificationPriorityMedium NotificationPriority = "medium"
	NotificationPriorityHigh   NotificationPriority = "high"
)

// Notification is a notice shown to all members.
type Notification struct {
	ID        string               `db:"id" json:"id"`
	Title     string               `db:"title" json:"title"`
	Content   string               `db:"content" json:"content"`
	Priority  NotificationPriority `db:"priority" json:"priority"`
	IsActive  bool                 `db:"is_active" json:"isActive"`
	CreatedBy string               `db:"created_by" json:"createdBy"`
	CreatedAt time.Time            `db:"created_at" json:"createdAt"`
}

// CreateNotificationRequest is the payload accepted by notifications.create.
type CreateNotificationRequest struct {
	Title    string               `json:"title" validate:"required,max=200"`
	Content  string               `json:"content" validate:"required,max=5000"`
	Priority NotificationPriority `json:"priority" validate:"required,oneof=low medium high"`
}
