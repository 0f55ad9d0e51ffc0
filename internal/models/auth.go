package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RegisterRequest creates a password identity.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"omitempty,max=120"`
}

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and the identity it belongs to.
type LoginResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresIn   int64     `json:"expiresIn"`
	User        User      `json:"user"`
	IssuedAt    time.Time `json:"issuedAt"`
}

// JWTClaims is the access token payload. It carries no role; roles are read from the profile on
// every request.
type JWTClaims struct {
	UserID      string `json:"uid"`
	Email       string `json:"email,omitempty"`
	Name        string `json:"name,omitempty"`
	IsAnonymous bool   `json:"anon,omitempty"`
	jwt.RegisteredClaims
}

// Identity is the authenticated caller of an operation. A nil *Identity means unauthenticated.
type Identity struct {
	UserID      string
	Email       string
	Name        string
	IsAnonymous bool
}

// Identity extracts the caller identity from validated claims.
func (c *JWTClaims) Identity() *Identity {
	if c == nil || c.UserID == "" {
		return nil
	}
	return &Identity{UserID: c.UserID, Email: c.Email, Name: c.Name, IsAnonymous: c.IsAnonymous}
}

// RequestMeta carries client details recorded in the audit trail.
type RequestMeta struct {
	IP        string
	UserAgent string
}
