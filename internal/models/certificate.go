package models

import "time"

// CertificateType is the kind of certificate requested.
type CertificateType string

const (
	CertificateTypeParticipation CertificateType = "participation"
	CertificateTypeCompletion    CertificateType = "completion"
	CertificateTypeAchievement   CertificateType = "achievement"
)

// CertificateStatus is the review state of a request. Pending is the only non-terminal state.
type CertificateStatus string

const (
	CertificateStatusPending  CertificateStatus = "pending"
	CertificateStatusApproved CertificateStatus = "approved"
	CertificateStatusRejected CertificateStatus = "rejected"
)

// CertificateRequest is a member's request for a certificate and its review outcome.
type CertificateRequest struct {
	ID              string            `db:"id" json:"id"`
	StudentName     string            `db:"student_name" json:"studentName"`
	StudentEmail    string            `db:"student_email" json:"studentEmail"`
	StudentID       string            `db:"student_id" json:"studentId"`
	EventTitle      string            `db:"event_title" json:"eventTitle"`
	EventDate       string            `db:"event_date" json:"eventDate"`
	CertificateType CertificateType   `db:"certificate_type" json:"certificateType"`
	Status          CertificateStatus `db:"status" json:"status"`
	RequestedBy     string            `db:"requested_by" json:"requestedBy"`
	ReviewedBy      *string           `db:"reviewed_by" json:"reviewedBy,omitempty"`
	ReviewNotes     *string           `db:"review_notes" json:"reviewNotes,omitempty"`
	ReviewedAt      *time.Time        `db:"reviewed_at" json:"reviewedAt,omitempty"`
	CertificateRef  *string           `db:"certificate_ref" json:"certificateRef,omitempty"`
	CreatedAt       time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time         `db:"updated_at" json:"updatedAt"`
}

// CreateCertificateRequest is the payload accepted by certificates.request.
type CreateCertificateRequest struct {
	StudentName     string          `json:"studentName" validate:"required,max=120"`
	StudentEmail    string          `json:"studentEmail" validate:"required,email,max=254"`
	StudentID       string          `json:"studentId" validate:"required,max=40"`
	EventTitle      string          `json:"eventTitle" validate:"required,max=200"`
	EventDate       string          `json:"eventDate" validate:"required,max=40"`
	CertificateType CertificateType `json:"certificateType" validate:"required,oneof=participation completion achievement"`
}

// UpdateCertificateStatusRequest reviews a pending request.
type UpdateCertificateStatusRequest struct {
	Status      CertificateStatus `json:"status" validate:"required,oneof=approved rejected"`
	ReviewNotes *string           `json:"reviewNotes" validate:"omitempty,max=2000"`
}
