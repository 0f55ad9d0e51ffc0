package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignedURLSignerGenerateAndParse(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, expiresAt, err := signer.Generate(PurposeDownload, "obj-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.False(t, expiresAt.IsZero())

	id, parsedExpiry, err := signer.Parse(token, PurposeDownload)
	require.NoError(t, err)
	require.Equal(t, "obj-1", id)
	require.WithinDuration(t, expiresAt, parsedExpiry, time.Second)
}

func TestSignedURLSignerRejectsWrongPurpose(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, _, err := signer.Generate(PurposeDownload, "obj-1")
	require.NoError(t, err)

	_, _, err = signer.Parse(token, PurposeUpload)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestSignedURLSignerRejectsTamperedToken(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, _, err := signer.Generate(PurposeUpload, "obj-1")
	require.NoError(t, err)

	other := NewSignedURLSigner("other-secret", time.Hour)
	_, _, err = other.Parse(token, PurposeUpload)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, _, err = signer.Parse("not-a-token", PurposeUpload)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestSignedURLSignerExpired(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)
	now := time.Now()
	signer.now = func() time.Time { return now }
	token, _, err := signer.Generate(PurposeUpload, "obj-1")
	require.NoError(t, err)

	signer.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, _, err = signer.Parse(token, PurposeUpload)
	require.ErrorIs(t, err, ErrInvalidToken)
}
