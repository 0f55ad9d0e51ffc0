package models

import "time"

// Magazine is a published issue of the association magazine.
type Magazine struct {
	ID            string    `db:"id" json:"id"`
	Title         string    `db:"title" json:"title"`
	Description   string    `db:"description" json:"description"`
	Issue         string    `db:"issue" json:"issue"`
	PublishDate   string    `db:"publish_date" json:"publishDate"`
	CoverImageRef *string   `db:"cover_image_ref" json:"coverImageRef,omitempty"`
	PDFRef        *string   `db:"pdf_ref" json:"pdfRef,omitempty"`
	IsPublished   bool      `db:"is_published" json:"isPublished"`
	CreatedBy     string    `db:"created_by" json:"createdBy"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// CreateMagazineRequest is the payload accepted by magazines.create.
type CreateMagazineRequest struct {
	Title         string  `json:"title" validate:"required,max=200"`
	Description   string  `json:"description" validate:"required,max=5000"`
	Issue         string  `json:"issue" validate:"required,max=60"`
	PublishDate   string  `json:"publishDate" validate:"required,max=40"`
	CoverImageRef *string `json:"coverImageRef" validate:"omitempty,uuid"`
	PDFRef        *string `json:"pdfRef" validate:"omitempty,uuid"`
}
