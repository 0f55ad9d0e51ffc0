package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
)

// LocalObjectStore serves objects from disk through signed upload and download URLs.
type LocalObjectStore struct {
	files   *LocalStorage
	signer  *SignedURLSigner
	baseURL string
}

// NewLocalObjectStore builds the local driver. baseURL is the public URL of the API prefix.
func NewLocalObjectStore(files *LocalStorage, signer *SignedURLSigner, baseURL string) *LocalObjectStore {
	return &LocalObjectStore{files: files, signer: signer, baseURL: strings.TrimRight(baseURL, "/")}
}

// GenerateUploadURL mints a storage id and a token allowing a single upload of it.
func (s *LocalObjectStore) GenerateUploadURL(ctx context.Context) (*UploadTicket, error) {
	id := NewObjectID()
	token, expiresAt, err := s.signer.Generate(PurposeUpload, id)
	if err != nil {
		return nil, fmt.Errorf("sign upload token: %w", err)
	}
	return &UploadTicket{
		UploadURL: fmt.Sprintf("%s/storage/upload?token=%s", s.baseURL, url.QueryEscape(token)),
		StorageID: id,
		ExpiresAt: expiresAt,
	}, nil
}

// ResolveURL returns a signed download URL for a stored object.
func (s *LocalObjectStore) ResolveURL(ctx context.Context, ref string) (*string, error) {
	if !ValidObjectID(ref) {
		return nil, nil
	}
	exists, err := s.files.Exists(ref)
	if err != nil || !exists {
		return nil, err
	}
	token, _, err := s.signer.Generate(PurposeDownload, ref)
	if err != nil {
		return nil, fmt.Errorf("sign download token: %w", err)
	}
	resolved := fmt.Sprintf("%s/storage/files/%s?token=%s", s.baseURL, ref, url.QueryEscape(token))
	return &resolved, nil
}

// Put stores body under ref.
func (s *LocalObjectStore) Put(ctx context.Context, ref string, body io.Reader, contentType string) error {
	if !ValidObjectID(ref) {
		return fmt.Errorf("invalid object reference %q", ref)
	}
	_, err := s.files.SaveStream(ref, body)
	return err
}

// Accept stores an upload authorised by an upload token and returns the storage id.
func (s *LocalObjectStore) Accept(ctx context.Context, token string, body io.Reader) (string, int64, error) {
	id, _, err := s.signer.Parse(token, PurposeUpload)
	if err != nil {
		return "", 0, err
	}
	if !ValidObjectID(id) {
		return "", 0, ErrInvalidToken
	}
	written, err := s.files.SaveStream(id, body)
	if err != nil {
		return "", 0, err
	}
	return id, written, nil
}

// Open returns the object named by the path id when the download token grants it.
func (s *LocalObjectStore) Open(ctx context.Context, id, token string) (*os.File, error) {
	granted, _, err := s.signer.Parse(token, PurposeDownload)
	if err != nil {
		return nil, err
	}
	if granted != id || !ValidObjectID(id) {
		return nil, ErrInvalidToken
	}
	return s.files.Open(id)
}
