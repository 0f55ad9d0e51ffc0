package models

import "time"

// UserRole is the authorization level stored on a member profile.
type UserRole string

const (
	RoleStudent   UserRole = "student"
	RoleExecutive UserRole = "executive"
	RoleAdmin     UserRole = "admin"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleExecutive, RoleAdmin:
		return true
	}
	return false
}

// CanReview reports whether the role may act on executive-only operations. Admin is a superset of executive.
func (r UserRole) CanReview() bool {
	return r == RoleExecutive || r == RoleAdmin
}

// User is the identity record an access token is issued for.
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        *string   `db:"email" json:"email,omitempty"`
	Name         string    `db:"name" json:"name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	IsAnonymous  bool      `db:"is_anonymous" json:"isAnonymous"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}
