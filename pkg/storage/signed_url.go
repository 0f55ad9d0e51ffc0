package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Token purposes. A token minted for one purpose is rejected for the other.
const (
	PurposeUpload   = "up"
	PurposeDownload = "dl"
)

// ErrInvalidToken is returned for malformed, tampered, expired or misused tokens.
var ErrInvalidToken = errors.New("invalid storage token")

// SignedURLSigner creates and validates HMAC tokens that grant access to a single object.
type SignedURLSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSignedURLSigner constructs a signer with the provided secret and TTL.
func NewSignedURLSigner(secret string, ttl time.Duration) *SignedURLSigner {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SignedURLSigner{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Generate returns a token binding the purpose to the object id.
func (s *SignedURLSigner) Generate(purpose, objectID string) (string, time.Time, error) {
	if purpose == "" || objectID == "" {
		return "", time.Time{}, fmt.Errorf("purpose and object id required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := s.now().Add(s.ttl)
	ts := strconv.FormatInt(expiresAt.Unix(), 10)
	signature := s.sign(purpose, objectID, ts)
	return strings.Join([]string{purpose, objectID, ts, signature}, "."), expiresAt, nil
}

// Parse validates a token for the expected purpose and returns the object id it grants.
func (s *SignedURLSigner) Parse(token, purpose string) (string, time.Time, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 {
		return "", time.Time{}, ErrInvalidToken
	}
	tokenPurpose, objectID, ts, signature := parts[0], parts[1], parts[2], parts[3]

	expUnix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return "", time.Time{}, ErrInvalidToken
	}
	if !hmac.Equal([]byte(s.sign(tokenPurpose, objectID, ts)), []byte(signature)) {
		return "", time.Time{}, ErrInvalidToken
	}
	if tokenPurpose != purpose {
		return "", time.Time{}, ErrInvalidToken
	}
	expiresAt := time.Unix(expUnix, 0)
	if s.now().After(expiresAt) {
		return "", time.Time{}, ErrInvalidToken
	}
	return objectID, expiresAt, nil
}

func (s *SignedURLSigner) sign(purpose, objectID, ts string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(purpose + "|" + objectID + "|" + ts))
	return hex.EncodeToString(mac.Sum(nil))
}
