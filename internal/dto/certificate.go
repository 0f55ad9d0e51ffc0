package dto

import "github.com/noah-isme/member-portal-api/internal/models"

// CertificateResponse enriches a request with the download URL of its issued PDF, once available.
type CertificateResponse struct {
	models.CertificateRequest
	CertificateURL *string `json:"certificateUrl"`
}

// StoredObjectResponse is returned by the local upload endpoint.
type StoredObjectResponse struct {
	StorageID string `json:"storageId"`
	Size      int64  `json:"size"`
}
