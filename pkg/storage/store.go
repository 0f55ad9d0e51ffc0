package storage

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// UploadTicket is handed to clients so they can push bytes straight to the object store.
type UploadTicket struct {
	UploadURL string    `json:"uploadUrl"`
	StorageID string    `json:"storageId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ObjectStore is the collaborator that turns storage references into reachable URLs.
type ObjectStore interface {
	GenerateUploadURL(ctx context.Context) (*UploadTicket, error)
	// ResolveURL returns nil when the reference does not point at a stored object.
	ResolveURL(ctx context.Context, ref string) (*string, error)
	Put(ctx context.Context, ref string, body io.Reader, contentType string) error
}

// NewObjectID returns a fresh storage reference.
func NewObjectID() string {
	return uuid.NewString()
}

// ValidObjectID reports whether ref has the shape of a reference minted by NewObjectID.
func ValidObjectID(ref string) bool {
	_, err := uuid.Parse(ref)
	return err == nil && len(ref) == 36
}
