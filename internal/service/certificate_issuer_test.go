package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/member-portal-api/internal/models"
	"github.com/noah-isme/member-portal-api/pkg/jobs"
)

func approvedRequest(t *testing.T, repo *fakeCertificateRepo) string {
	t.Helper()
	record := &models.CertificateRequest{
		StudentName: "A. Lee", StudentEmail: "a.lee@example.edu", StudentID: "S-1024",
		EventTitle: "Bridge Building Workshop", EventDate: "2024-04-12",
		CertificateType: models.CertificateTypeCompletion, RequestedBy: "student",
	}
	require.NoError(t, repo.Create(context.Background(), record))
	ok, err := repo.Review(context.Background(), record.ID, models.CertificateStatusApproved, "exec", nil, repo.clock)
	require.NoError(t, err)
	require.True(t, ok)
	return record.ID
}

func TestCertificateIssuerStoresPDF(t *testing.T) {
	repo := newFakeCertificateRepo()
	store := newFakeObjectStore()
	issuer := NewCertificateIssuer(repo, store, "Engineering Students' Association", NewMetricsService(), zap.NewNop())
	id := approvedRequest(t, repo)

	require.NoError(t, issuer.Handle(context.Background(), jobs.Job{ID: id, Type: CertificateIssueJobType, Payload: id}))

	record, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, record.CertificateRef)
	data := store.objects[*record.CertificateRef]
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))

	ref := *record.CertificateRef
	require.NoError(t, issuer.Handle(context.Background(), jobs.Job{ID: id, Payload: id}))
	record, _ = repo.FindByID(context.Background(), id)
	assert.Equal(t, ref, *record.CertificateRef)
	assert.Len(t, store.objects, 1)
}

func TestCertificateIssuerSkipsUnapproved(t *testing.T) {
	repo := newFakeCertificateRepo()
	store := newFakeObjectStore()
	issuer := NewCertificateIssuer(repo, store, "", nil, nil)
	record := &models.CertificateRequest{StudentName: "A. Lee", EventTitle: "Expo", RequestedBy: "student"}
	require.NoError(t, repo.Create(context.Background(), record))

	require.NoError(t, issuer.Handle(context.Background(), jobs.Job{Payload: record.ID}))
	assert.Empty(t, store.objects)
}

func TestCertificateIssuerPropagatesStoreErrors(t *testing.T) {
	repo := newFakeCertificateRepo()
	store := newFakeObjectStore()
	store.putErr = errors.New("bucket unavailable")
	issuer := NewCertificateIssuer(repo, store, "", nil, nil)
	id := approvedRequest(t, repo)

	err := issuer.Handle(context.Background(), jobs.Job{Payload: id})
	require.Error(t, err)

	record, _ := repo.FindByID(context.Background(), id)
	assert.Nil(t, record.CertificateRef)
	assert.Error(t, issuer.Handle(context.Background(), jobs.Job{Payload: 42}))
}

func TestCertificateIssuerBackfillEnqueuesApprovedWithoutDocument(t *testing.T) {
	repo := newFakeCertificateRepo()
	store := newFakeObjectStore()
	issuer := NewCertificateIssuer(repo, store, "", nil, nil)

	waiting := approvedRequest(t, repo)
	issued := approvedRequest(t, repo)
	require.NoError(t, issuer.Handle(context.Background(), jobs.Job{Payload: issued}))
	pending := &models.CertificateRequest{StudentName: "B. Kim", EventTitle: "Expo", RequestedBy: "student"}
	require.NoError(t, repo.Create(context.Background(), pending))

	queue := &fakeEnqueuer{}
	count, err := issuer.Backfill(context.Background(), queue, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, waiting, queue.jobs[0].Payload)
	assert.Equal(t, CertificateIssueJobType, queue.jobs[0].Type)
}

func TestCertificateIssuerBackfillStopsWhenQueueRejects(t *testing.T) {
	repo := newFakeCertificateRepo()
	issuer := NewCertificateIssuer(repo, newFakeObjectStore(), "", nil, nil)
	approvedRequest(t, repo)
	approvedRequest(t, repo)

	count, err := issuer.Backfill(context.Background(), &fakeEnqueuer{err: jobs.ErrQueueFull}, 100)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCertificateIssuerBackfillRecoversJobLostAtShutdown(t *testing.T) {
	repo := newFakeCertificateRepo()
	store := newFakeObjectStore()
	issuer := NewCertificateIssuer(repo, store, "", nil, nil)
	id := approvedRequest(t, repo)

	stopped := jobs.NewQueue("certificates", issuer.Handle, jobs.QueueConfig{Workers: 1})
	stopped.Start(context.Background())
	stopped.Stop()
	require.ErrorIs(t, stopped.Enqueue(jobs.Job{ID: id, Payload: id}), jobs.ErrQueueStopped)

	restarted := jobs.NewQueue("certificates", issuer.Handle, jobs.QueueConfig{Workers: 1})
	restarted.Start(context.Background())
	defer restarted.Stop()
	count, err := issuer.Backfill(context.Background(), restarted, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.Eventually(t, func() bool {
		record, err := repo.FindByID(context.Background(), id)
		return err == nil && record.CertificateRef != nil
	}, 2*time.Second, 10*time.Millisecond)
	assert.Len(t, store.objects, 1)
}
