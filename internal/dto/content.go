package dto

import "github.com/noah-isme/member-portal-api/internal/models"

// EventResponse enriches an event with its resolved image URL.
type EventResponse struct {
	models.Event
	ImageURL *string `json:"imageUrl"`
}

// MagazineResponse enriches a magazine with resolved cover and PDF URLs.
type MagazineResponse struct {
	models.Magazine
	CoverImageURL *string `json:"coverImageUrl"`
	PDFURL        *string `json:"pdfUrl"`
}

// GalleryImageResponse enriches a gallery image with its resolved URL.
type GalleryImageResponse struct {
	models.GalleryImage
	ImageURL *string `json:"imageUrl"`
}

// CreatedResponse reports the id of a newly inserted record.
type CreatedResponse struct {
	ID string `json:"id"`
}
