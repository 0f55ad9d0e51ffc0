package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/member-portal-api/internal/models"
)

const certificateColumns = `id, student_name, student_email, student_id, event_title, event_date, certificate_type, status,
	requested_by, reviewed_by, review_notes, reviewed_at, certificate_ref, created_at, updated_at`

// CertificateRepository persists certificate requests and their review outcome.
type CertificateRepository struct {
	db *sqlx.DB
}

// NewCertificateRepository constructs the repository.
func NewCertificateRepository(db *sqlx.DB) *CertificateRepository {
	return &CertificateRepository{db: db}
}

// Create inserts a request in the pending state.
func (r *CertificateRepository) Create(ctx context.Context, req *models.CertificateRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	req.Status = models.CertificateStatusPending
	req.ReviewedBy, req.ReviewNotes, req.ReviewedAt, req.CertificateRef = nil, nil, nil, nil

	const query = `INSERT INTO certificate_requests (id, student_name, student_email, student_id, event_title, event_date, certificate_type, status, requested_by)
VALUES (:id, :student_name, :student_email, :student_id, :event_title, :event_date, :certificate_type, :status, :requested_by)
RETURNING created_at, updated_at`
	if err := namedInsertReturning(ctx, r.db, query, req, &req.CreatedAt, &req.UpdatedAt); err != nil {
		return fmt.Errorf("create certificate request: %w", err)
	}
	return nil
}

// FindByID returns a request or sql.ErrNoRows.
func (r *CertificateRepository) FindByID(ctx context.Context, id string) (*models.CertificateRequest, error) {
	query := `SELECT ` + certificateColumns + ` FROM certificate_requests WHERE id = $1`
	var req models.CertificateRequest
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find certificate request: %w", err)
	}
	return &req, nil
}

// ListByRequester returns every request made by userID, newest first.
func (r *CertificateRepository) ListByRequester(ctx context.Context, userID string) ([]models.CertificateRequest, error) {
	query := `SELECT ` + certificateColumns + ` FROM certificate_requests WHERE requested_by = $1 ORDER BY created_at DESC, seq DESC`
	items := []models.CertificateRequest{}
	if err := r.db.SelectContext(ctx, &items, query, userID); err != nil {
		return nil, fmt.Errorf("list certificate requests by requester: %w", err)
	}
	return items, nil
}

// ListByStatus returns every request in status, newest first.
func (r *CertificateRepository) ListByStatus(ctx context.Context, status models.CertificateStatus) ([]models.CertificateRequest, error) {
	query := `SELECT ` + certificateColumns + ` FROM certificate_requests WHERE status = $1 ORDER BY created_at DESC, seq DESC`
	items := []models.CertificateRequest{}
	if err := r.db.SelectContext(ctx, &items, query, status); err != nil {
		return nil, fmt.Errorf("list certificate requests by status: %w", err)
	}
	return items, nil
}

// ListUnissued returns approved requests still waiting for their document, oldest first.
func (r *CertificateRepository) ListUnissued(ctx context.Context, limit int) ([]models.CertificateRequest, error) {
	query := `SELECT ` + certificateColumns + ` FROM certificate_requests
WHERE status = 'approved' AND certificate_ref IS NULL ORDER BY created_at, seq LIMIT $1`
	items := []models.CertificateRequest{}
	if err := r.db.SelectContext(ctx, &items, query, limit); err != nil {
		return nil, fmt.Errorf("list unissued certificate requests: %w", err)
	}
	return items, nil
}

// Review moves a pending request to status. It reports false when no pending request with that id
// exists, in which case nothing was written.
func (r *CertificateRepository) Review(ctx context.Context, id string, status models.CertificateStatus, reviewer string, notes *string, at time.Time) (bool, error) {
	const query = `UPDATE certificate_requests
SET status = $2, reviewed_by = $3, review_notes = $4, reviewed_at = $5, updated_at = $5
WHERE id = $1 AND status = 'pending'`
	res, err := r.db.ExecContext(ctx, query, id, status, reviewer, notes, at)
	if err != nil {
		return false, fmt.Errorf("review certificate request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("review certificate request rows: %w", err)
	}
	return affected == 1, nil
}

// SetCertificateRef records the issued document of an approved request. It only writes once.
func (r *CertificateRepository) SetCertificateRef(ctx context.Context, id, ref string) error {
	const query = `UPDATE certificate_requests SET certificate_ref = $2, updated_at = $3
WHERE id = $1 AND status = 'approved' AND certificate_ref IS NULL`
	if _, err := r.db.ExecContext(ctx, query, id, ref, time.Now().UTC()); err != nil {
		return fmt.Errorf("set certificate ref: %w", err)
	}
	return nil
}
