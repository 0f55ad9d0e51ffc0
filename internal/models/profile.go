package models

import "time"

// UserProfile holds the portal role of an identity. There is at most one per user.
type UserProfile struct {
	ID         string    `db:"id" json:"id"`
	UserID     string    `db:"user_id" json:"userId"`
	Role       UserRole  `db:"role" json:"role"`
	Department *string   `db:"department" json:"department,omitempty"`
	Year       *string   `db:"year" json:"year,omitempty"`
	StudentID  *string   `db:"student_id" json:"studentId,omitempty"`
	Position   *string   `db:"position" json:"position,omitempty"`
	IsActive   bool      `db:"is_active" json:"isActive"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// UpdateProfileRequest patches the caller's own profile. Nil fields are left unchanged.
type UpdateProfileRequest struct {
	Department *string `json:"department" validate:"omitempty,max=120"`
	Year       *string `json:"year" validate:"omitempty,max=20"`
	StudentID  *string `json:"studentId" validate:"omitempty,max=40"`
}

// PromoteRequest appoints a user to an executive position.
type PromoteRequest struct {
	UserID   string `json:"userId" validate:"required"`
	Position string `json:"position" validate:"required,max=120"`
}

// ExecutivePosition is the append-only history of appointments.
type ExecutivePosition struct {
	ID            string    `db:"id" json:"id"`
	Position      string    `db:"position" json:"position"`
	UserID        string    `db:"user_id" json:"userId"`
	IsActive      bool      `db:"is_active" json:"isActive"`
	AppointedDate time.Time `db:"appointed_date" json:"appointedDate"`
	AppointedBy   string    `db:"appointed_by" json:"appointedBy"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// ExecutiveUser is the identity joined onto an executive listing.
type ExecutiveUser struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email *string `json:"email,omitempty"`
}

// Executive is a profile with role executive and its owning user.
type Executive struct {
	UserProfile
	User *ExecutiveUser `json:"user"`
}
