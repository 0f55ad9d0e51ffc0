package models

import "time"

// EventType classifies association events.
type EventType string

const (
	EventTypeWorkshop    EventType = "workshop"
	EventTypeSeminar     EventType = "seminar"
	EventTypeCompetition EventType = "competition"
	EventTypeMeeting     EventType = "meeting"
)

// Event is a scheduled association activity.
type Event struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Date        string    `db:"date" json:"date"`
	Time        string    `db:"time" json:"time"`
	Location    string    `db:"location" json:"location"`
	Type        EventType `db:"type" json:"type"`
	ImageRef    *string   `db:"image_ref" json:"imageRef,omitempty"`
	IsActive    bool      `db:"is_active" json:"isActive"`
	CreatedBy   string    `db:"created_by" json:"createdBy"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// CreateEventRequest is the payload accepted by events.create.
type CreateEventRequest struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"required,max=5000"`
	Date        string    `json:"date" validate:"required,max=40"`
	Time        string    `json:"time" validate:"required,max=40"`
	Location    string    `json:"location" validate:"required,max=200"`
	Type        EventType `json:"type" validate:"required,oneof=workshop seminar competition meeting"`
	ImageRef    *string   `json:"imageRef" validate:"omitempty,uuid"`
}
