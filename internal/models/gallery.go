package models

import "time"

// GalleryImage is a photo uploaded to the gallery, optionally tied to an event.
type GalleryImage struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description,omitempty"`
	ImageRef    string    `db:"image_ref" json:"imageRef"`
	EventRef    *string   `db:"event_id" json:"eventRef,omitempty"`
	UploadedBy  string    `db:"uploaded_by" json:"uploadedBy"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// UploadGalleryImageRequest is the payload accepted by gallery.upload.
type UploadGalleryImageRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	ImageRef    string  `json:"imageRef" validate:"required,uuid"`
	EventRef    *string `json:"eventRef" validate:"omitempty,max=64"`
}
