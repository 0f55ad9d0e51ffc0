package storage

import (
	"context"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocalStore(t *testing.T) *LocalObjectStore {
	t.Helper()
	files, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return NewLocalObjectStore(files, NewSignedURLSigner("secret", time.Hour), "https://portal.example.edu/api/v1/")
}

func tokenFrom(t *testing.T, raw string) string {
	t.Helper()
	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	return parsed.Query().Get("token")
}

func TestLocalObjectStoreUploadAndResolve(t *testing.T) {
	store := newLocalStore(t)
	ctx := context.Background()

	ticket, err := store.GenerateUploadURL(ctx)
	require.NoError(t, err)
	require.True(t, ValidObjectID(ticket.StorageID))
	assert.True(t, strings.HasPrefix(ticket.UploadURL, "https://portal.example.edu/api/v1/storage/upload?token="))

	resolved, err := store.ResolveURL(ctx, ticket.StorageID)
	require.NoError(t, err)
	assert.Nil(t, resolved, "nothing uploaded yet")

	id, written, err := store.Accept(ctx, tokenFrom(t, ticket.UploadURL), strings.NewReader("poster"))
	require.NoError(t, err)
	assert.Equal(t, ticket.StorageID, id)
	assert.EqualValues(t, 6, written)

	resolved, err = store.ResolveURL(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Contains(t, *resolved, "/storage/files/"+id+"?token=")

	file, err := store.Open(ctx, id, tokenFrom(t, *resolved))
	require.NoError(t, err)
	defer file.Close()
	body, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, "poster", string(body))
}

func TestLocalObjectStoreRejectsReusedAndMisusedTokens(t *testing.T) {
	store := newLocalStore(t)
	ctx := context.Background()

	ticket, err := store.GenerateUploadURL(ctx)
	require.NoError(t, err)
	token := tokenFrom(t, ticket.UploadURL)

	_, _, err = store.Accept(ctx, token, strings.NewReader("first"))
	require.NoError(t, err)
	_, _, err = store.Accept(ctx, token, strings.NewReader("second"))
	require.ErrorIs(t, err, ErrObjectExists)

	_, err = store.Open(ctx, ticket.StorageID, token)
	require.ErrorIs(t, err, ErrInvalidToken)

	other := NewObjectID()
	resolved, err := store.ResolveURL(ctx, ticket.StorageID)
	require.NoError(t, err)
	_, err = store.Open(ctx, other, tokenFrom(t, *resolved))
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestLocalObjectStoreResolveIgnoresForeignRefs(t *testing.T) {
	store := newLocalStore(t)
	for _, ref := range []string{"", "../etc/passwd", "kg2abc"} {
		resolved, err := store.ResolveURL(context.Background(), ref)
		require.NoError(t, err)
		assert.Nil(t, resolved, ref)
	}
}

func TestLocalObjectStorePut(t *testing.T) {
	store := newLocalStore(t)
	ref := NewObjectID()
	require.NoError(t, store.Put(context.Background(), ref, strings.NewReader("%PDF"), "application/pdf"))

	exists, err := store.files.Exists(ref)
	require.NoError(t, err)
	assert.True(t, exists)

	require.Error(t, store.Put(context.Background(), "../x", strings.NewReader("x"), ""))
}
