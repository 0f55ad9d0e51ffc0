package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/member-portal-api/internal/models"
)

// GalleryRepository manages persistence for gallery images.
type GalleryRepository struct {
	db *sqlx.DB
}

// NewGalleryRepository constructs the repository.
func NewGalleryRepository(db *sqlx.DB) *GalleryRepository {
	return &GalleryRepository{db: db}
}

// Create inserts a gallery image.
func (r *GalleryRepository) Create(ctx context.Context, image *models.GalleryImage) error {
	if image.ID == "" {
		image.ID = uuid.NewString()
	}
	const query = `INSERT INTO gallery_images (id, title, description, image_ref, event_id, uploaded_by)
VALUES (:id, :title, :description, :image_ref, :event_id, :uploaded_by)
RETURNING created_at`
	if err := namedInsertReturning(ctx, r.db, query, image, &image.CreatedAt); err != nil {
		return fmt.Errorf("create gallery image: %w", err)
	}
	return nil
}

// List returns up to limit images, newest first.
func (r *GalleryRepository) List(ctx context.Context, limit int) ([]models.GalleryImage, error) {
	const query = `SELECT id, title, description, image_ref, event_id, uploaded_by, created_at FROM gallery_images ORDER BY created_at DESC, seq DESC LIMIT $1`
	images := []models.GalleryImage{}
	if err := r.db.SelectContext(ctx, &images, query, limit); err != nil {
		return nil, fmt.Errorf("list gallery images: %w", err)
	}
	return images, nil
}
