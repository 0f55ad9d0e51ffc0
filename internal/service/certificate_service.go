package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/member-portal-api/internal/dto"
	"github.com/noah-isme/member-portal-api/internal/models"
	appErrors "github.com/noah-isme/member-portal-api/pkg/errors"
	"github.com/noah-isme/member-portal-api/pkg/export"
	"github.com/noah-isme/member-portal-api/pkg/jobs"
	"github.com/noah-isme/member-portal-api/pkg/storage"
)

type certificateRepository interface {
	Create(ctx context.Context, req *models.CertificateRequest) error
	FindByID(ctx context.Context, id string) (*models.CertificateRequest, error)
	ListByRequester(ctx context.Context, userID string) ([]models.CertificateRequest, error)
	ListByStatus(ctx context.Context, status models.CertificateStatus) ([]models.CertificateRequest, error)
	Review(ctx context.Context, id string, status models.CertificateStatus, reviewer string, notes *string, at time.Time) (bool, error)
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

var pendingExportColumns = []export.Column[models.CertificateRequest]{
	{Header: "id", Value: func(r models.CertificateRequest) string { return r.ID }},
	{Header: "createdAt", Value: func(r models.CertificateRequest) string { return r.CreatedAt.UTC().Format(time.RFC3339) }},
	{Header: "studentName", Value: func(r models.CertificateRequest) string { return r.StudentName }},
	{Header: "studentEmail", Value: func(r models.CertificateRequest) string { return r.StudentEmail }},
	{Header: "studentId", Value: func(r models.CertificateRequest) string { return r.StudentID }},
	{Header: "eventTitle", Value: func(r models.CertificateRequest) string { return r.EventTitle }},
	{Header: "eventDate", Value: func(r models.CertificateRequest) string { return r.EventDate }},
	{Header: "certificateType", Value: func(r models.CertificateRequest) string { return string(r.CertificateType) }},
}

// CertificateService runs the certificate request and review workflow.
type CertificateService struct {
	repo      certificateRepository
	store     storage.ObjectStore
	audit     auditRecorder
	issuer    jobEnqueuer
	authz     *Authorizer
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	now       func() time.Time
}

// CertificateServiceDeps groups the collaborators of CertificateService. Issuer may be nil when
// PDF issuance is disabled.
type CertificateServiceDeps struct {
	Repo       certificateRepository
	Store      storage.ObjectStore
	Audit      auditRecorder
	Issuer     jobEnqueuer
	Authorizer *Authorizer
	Validator  *validator.Validate
	Metrics    *MetricsService
	Logger     *zap.Logger
}

// NewCertificateService constructs a CertificateService.
func NewCertificateService(deps CertificateServiceDeps) *CertificateService {
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &CertificateService{
		repo:      deps.Repo,
		store:     deps.Store,
		audit:     deps.Audit,
		issuer:    deps.Issuer,
		authz:     deps.Authorizer,
		validator: deps.Validator,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
		now:       time.Now,
	}
}

// Request files a pending certificate request for the caller.
func (s *CertificateService) Request(ctx context.Context, identity *models.Identity, req models.CreateCertificateRequest) (string, error) {
	if _, err := s.authz.Authorize(ctx, identity, ActionRequestCertificate); err != nil {
		return "", err
	}
	if err := s.validator.Struct(req); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid certificate request")
	}

	record := &models.CertificateRequest{
		StudentName:     strings.TrimSpace(req.StudentName),
		StudentEmail:    strings.ToLower(strings.TrimSpace(req.StudentEmail)),
		StudentID:       strings.TrimSpace(req.StudentID),
		EventTitle:      strings.TrimSpace(req.EventTitle),
		EventDate:       req.EventDate,
		CertificateType: req.CertificateType,
		RequestedBy:     identity.UserID,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return "", appErrors.Internal(err, "failed to create certificate request")
	}
	return record.ID, nil
}

// ListMine returns the caller's requests newest first, with the issued PDF URL when available.
func (s *CertificateService) ListMine(ctx context.Context, identity *models.Identity) ([]dto.CertificateResponse, error) {
	if _, err := s.authz.Authorize(ctx, identity, ActionListOwnCertificates); err != nil {
		return nil, err
	}
	items, err := s.repo.ListByRequester(ctx, identity.UserID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list certificate requests")
	}
	out := make([]dto.CertificateResponse, 0, len(items))
	for _, item := range items {
		out = append(out, dto.CertificateResponse{
			CertificateRequest: item,
			CertificateURL:     resolveRef(ctx, s.store, s.logger, item.CertificateRef),
		})
	}
	return out, nil
}

// ListPending returns the review queue newest first.
func (s *CertificateService) ListPending(ctx context.Context, identity *models.Identity) ([]models.CertificateRequest, error) {
	if _, err := s.authz.Authorize(ctx, identity, ActionViewPendingQueue); err != nil {
		return nil, err
	}
	items, err := s.repo.ListByStatus(ctx, models.CertificateStatusPending)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list pending certificates")
	}
	return items, nil
}

// ExportPending renders the review queue as CSV.
func (s *CertificateService) ExportPending(ctx context.Context, identity *models.Identity) ([]byte, error) {
	items, err := s.ListPending(ctx, identity)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, pendingExportColumns, items); err != nil {
		return nil, appErrors.Internal(err, "failed to render export")
	}
	return buf.Bytes(), nil
}

// UpdateStatus approves or rejects a pending request. Reviewed requests are terminal.
func (s *CertificateService) UpdateStatus(ctx context.Context, identity *models.Identity, id string, req models.UpdateCertificateStatusRequest, meta models.RequestMeta) (*models.CertificateRequest, error) {
	if _, err := s.authz.Authorize(ctx, identity, ActionReviewCertificate); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload")
	}

	id = strings.TrimSpace(id)
	updated, err := s.repo.Review(ctx, id, req.Status, identity.UserID, req.ReviewNotes, s.now().UTC())
	if err != nil {
		return nil, appErrors.Internal(err, "failed to review certificate request")
	}

	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "certificate request not found")
		}
		return nil, appErrors.Internal(err, "failed to load certificate request")
	}
	if !updated {
		return nil, appErrors.Clone(appErrors.ErrConflict, "certificate request already "+string(record.Status))
	}

	s.metrics.RecordCertificateReview(string(record.Status))
	recordAudit(ctx, s.audit, s.logger, identity.UserID, models.AuditActionCertificateReview, "certificate_requests", record.ID,
		map[string]interface{}{"status": record.Status, "reviewNotes": record.ReviewNotes}, meta)

	if record.Status == models.CertificateStatusApproved && s.issuer != nil {
		job := jobs.Job{ID: record.ID, Type: CertificateIssueJobType, Payload: record.ID}
		if err := s.issuer.Enqueue(job); err != nil {
			s.logger.Warn("failed to enqueue certificate issuance", zap.String("certificate_id", record.ID), zap.Error(err))
		}
	}
	return record, nil
}
