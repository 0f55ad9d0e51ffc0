package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/member-portal-api/internal/models"
)

// MagazineRepository manages persistence for magazine issues.
type MagazineRepository struct {
	db *sqlx.DB
}

// NewMagazineRepository constructs the repository.
func NewMagazineRepository(db *sqlx.DB) *MagazineRepository {
	return &MagazineRepository{db: db}
}

// Create inserts a magazine issue.
func (r *MagazineRepository) Create(ctx context.Context, magazine *models.Magazine) error {
	if magazine.ID == "" {
		magazine.ID = uuid.NewString()
	}
	const query = `INSERT INTO magazines (id, title, description, issue, publish_date, cover_image_ref, pdf_ref, is_published, created_by)
VALUES (:id, :title, :description, :issue, :publish_date, :cover_image_ref, :pdf_ref, :is_published, :created_by)
RETURNING created_at`
	if err := namedInsertReturning(ctx, r.db, query, magazine, &magazine.CreatedAt); err != nil {
		return fmt.Errorf("create magazine: %w", err)
	}
	return nil
}

// ListPublished returns up to limit published issues, newest first.
func (r *MagazineRepository) ListPublished(ctx context.Context, limit int) ([]models.Magazine, error) {
	const query = `SELECT id, title, description, issue, publish_date, cover_image_ref, pdf_ref, is_published, created_by, created_at
FROM magazines WHERE is_published = TRUE ORDER BY created_at DESC, seq DESC LIMIT $1`
	magazines := []models.Magazine{}
	if err := r.db.SelectContext(ctx, &magazines, query, limit); err != nil {
		return nil, fmt.Errorf("list magazines: %w", err)
	}
	return magazines, nil
}
