package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/member-portal-api/pkg/config"
)

func newS3Store(t *testing.T, handler http.HandlerFunc) (*S3Store, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store, err := NewS3Store(context.Background(), config.StorageConfig{
		S3Bucket:       "portal",
		S3Region:       "us-east-1",
		S3Endpoint:     server.URL,
		S3AccessKey:    "minio",
		S3SecretKey:    "minio-secret",
		S3UsePathStyle: true,
		SignedURLTTL:   15 * time.Minute,
	})
	require.NoError(t, err)
	return store, server
}

func TestS3StoreGenerateUploadURL(t *testing.T) {
	store, server := newS3Store(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("presigning must not call the server: %s %s", r.Method, r.URL.Path)
	})

	ticket, err := store.GenerateUploadURL(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ticket.UploadURL, server.URL+"/portal/"+ticket.StorageID))
	assert.Contains(t, ticket.UploadURL, "X-Amz-Signature=")
}

func TestS3StoreResolveURL(t *testing.T) {
	present := NewObjectID()
	store, server := newS3Store(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead && r.URL.Path == "/portal/"+present {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	resolved, err := store.ResolveURL(context.Background(), present)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.True(t, strings.HasPrefix(*resolved, server.URL+"/portal/"+present))

	missing, err := store.ResolveURL(context.Background(), NewObjectID())
	require.NoError(t, err)
	assert.Nil(t, missing)

	foreign, err := store.ResolveURL(context.Background(), "not-a-ref")
	require.NoError(t, err)
	assert.Nil(t, foreign)
}
