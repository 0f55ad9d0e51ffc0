package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/member-portal-api/internal/models"
	"github.com/noah-isme/member-portal-api/pkg/export"
	"github.com/noah-isme/member-portal-api/pkg/jobs"
	"github.com/noah-isme/member-portal-api/pkg/storage"
)

// CertificateIssueJobType identifies issuance jobs on the worker queue.
const CertificateIssueJobType = "certificate.issue"

type certificateIssueRepository interface {
	FindByID(ctx context.Context, id string) (*models.CertificateRequest, error)
	SetCertificateRef(ctx context.Context, id, ref string) error
	ListUnissued(ctx context.Context, limit int) ([]models.CertificateRequest, error)
}

// CertificateIssuer renders approved certificates and stores the PDF.
type CertificateIssuer struct {
	repo       certificateIssueRepository
	store      storage.ObjectStore
	renderer   *export.CertificateRenderer
	issuerName string
	metrics    *MetricsService
	logger     *zap.Logger
	now        func() time.Time
}

// NewCertificateIssuer constructs a CertificateIssuer.
func NewCertificateIssuer(repo certificateIssueRepository, store storage.ObjectStore, issuerName string, metrics *MetricsService, logger *zap.Logger) *CertificateIssuer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CertificateIssuer{
		repo:       repo,
		store:      store,
		renderer:   export.NewCertificateRenderer(),
		issuerName: issuerName,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// Handle processes an issuance job. Requests that are not approved or already carry a
// certificate are skipped.
func (i *CertificateIssuer) Handle(ctx context.Context, job jobs.Job) error {
	id, ok := job.Payload.(string)
	if !ok || id == "" {
		return fmt.Errorf("unexpected issuance payload %T", job.Payload)
	}

	record, err := i.repo.FindByID(ctx, id)
	if err != nil {
		i.metrics.RecordCertificateIssuance(false)
		return fmt.Errorf("load certificate request %s: %w", id, err)
	}
	if record.Status != models.CertificateStatusApproved || record.CertificateRef != nil {
		return nil
	}

	pdf, err := i.renderer.Render(export.CertificateData{
		Reference:       record.ID,
		StudentName:     record.StudentName,
		StudentID:       record.StudentID,
		EventTitle:      record.EventTitle,
		EventDate:       record.EventDate,
		CertificateType: string(record.CertificateType),
		IssuerName:      i.issuerName,
		IssuedAt:        i.now().UTC(),
	})
	if err != nil {
		i.metrics.RecordCertificateIssuance(false)
		return fmt.Errorf("render certificate %s: %w", id, err)
	}

	ref := storage.NewObjectID()
	if err := i.store.Put(ctx, ref, bytes.NewReader(pdf), "application/pdf"); err != nil {
		i.metrics.RecordCertificateIssuance(false)
		return fmt.Errorf("store certificate %s: %w", id, err)
	}
	if err := i.repo.SetCertificateRef(ctx, id, ref); err != nil {
		i.metrics.RecordCertificateIssuance(false)
		return fmt.Errorf("attach certificate %s: %w", id, err)
	}

	i.metrics.RecordCertificateIssuance(true)
	i.logger.Info("certificate issued", zap.String("certificate_id", id), zap.String("ref", ref))
	return nil
}

// Backfill enqueues up to limit approved requests that have no certificate yet. It recovers
// jobs lost when the process stopped between approval and issuance. A full queue ends the
// sweep early; the remainder is picked up on the next start.
func (i *CertificateIssuer) Backfill(ctx context.Context, queue jobEnqueuer, limit int) (int, error) {
	pending, err := i.repo.ListUnissued(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("list unissued certificates: %w", err)
	}
	enqueued := 0
	for _, record := range pending {
		job := jobs.Job{ID: record.ID, Type: CertificateIssueJobType, Payload: record.ID}
		if err := queue.Enqueue(job); err != nil {
			i.logger.Warn("certificate backfill stopped", zap.Int("enqueued", enqueued), zap.Int("remaining", len(pending)-enqueued), zap.Error(err))
			return enqueued, nil
		}
		enqueued++
	}
	if enqueued > 0 {
		i.logger.Info("certificate backfill enqueued", zap.Int("count", enqueued))
	}
	return enqueued, nil
}

// OnExhausted logs a job that ran out of retries.
func (i *CertificateIssuer) OnExhausted(job jobs.Job, err error) {
	i.logger.Error("certificate issuance abandoned", zap.String("certificate_id", job.ID), zap.Int("attempts", job.Attempt), zap.Error(err))
}
