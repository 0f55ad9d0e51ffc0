package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/member-portal-api/internal/models"
)

const eventColumns = `id, title, description, date, time, location, type, image_ref, is_active, created_by, created_at`

// EventRepository manages persistence for events.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository constructs the repository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts an event, filling id when empty. created_at is assigned by the database.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	const query = `INSERT INTO events (id, title, description, date, time, location, type, image_ref, is_active, created_by)
VALUES (:id, :title, :description, :date, :time, :location, :type, :image_ref, :is_active, :created_by)
RETURNING created_at`
	if err := namedInsertReturning(ctx, r.db, query, event, &event.CreatedAt); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// FindByID returns an event regardless of its active flag, or sql.ErrNoRows.
func (r *EventRepository) FindByID(ctx context.Context, id string) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	var event models.Event
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return &event, nil
}

// ListActive returns up to limit active events, newest first.
func (r *EventRepository) ListActive(ctx context.Context, limit int) ([]models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE is_active = TRUE ORDER BY created_at DESC, seq DESC LIMIT $1`
	events := []models.Event{}
	if err := r.db.SelectContext(ctx, &events, query, limit); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}
