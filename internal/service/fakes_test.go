package service

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/noah-isme/member-portal-api/internal/models"
	"github.com/noah-isme/member-portal-api/internal/repository"
	"github.com/noah-isme/member-portal-api/pkg/jobs"
	"github.com/noah-isme/member-portal-api/pkg/storage"
)

// fakeProfileRepo mimics the unique user_id constraint of user_profiles.
type fakeProfileRepo struct {
	mu        sync.Mutex
	byUser    map[string]*models.UserProfile
	positions []models.ExecutivePosition
	names     map[string]string
	seq       int
	findErr   error
	inserts   int
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{byUser: map[string]*models.UserProfile{}, names: map[string]string{}}
}

func (f *fakeProfileRepo) put(userID string, role models.UserRole) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	f.byUser[userID] = &models.UserProfile{ID: fmt.Sprintf("p%d", f.seq), UserID: userID, Role: role, IsActive: true}
}

func (f *fakeProfileRepo) FindByUserID(ctx context.Context, userID string) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	p, ok := f.byUser[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfileRepo) Ensure(ctx context.Context, userID string) (*models.UserProfile, error) {
	f.mu.Lock()
	if _, ok := f.byUser[userID]; !ok {
		f.seq++
		f.inserts++
		f.byUser[userID] = &models.UserProfile{ID: fmt.Sprintf("p%d", f.seq), UserID: userID, Role: models.RoleStudent, IsActive: true}
	}
	f.mu.Unlock()
	return f.FindByUserID(ctx, userID)
}

func (f *fakeProfileRepo) UpsertOwn(ctx context.Context, userID string, patch models.UpdateProfileRequest) (*models.UserProfile, error) {
	if _, err := f.Ensure(ctx, userID); err != nil {
		return nil, err
	}
	f.mu.Lock()
	p := f.byUser[userID]
	if patch.Department != nil {
		p.Department = patch.Department
	}
	if patch.Year != nil {
		p.Year = patch.Year
	}
	if patch.StudentID != nil {
		p.StudentID = patch.StudentID
	}
	f.mu.Unlock()
	return f.FindByUserID(ctx, userID)
}

func (f *fakeProfileRepo) Promote(ctx context.Context, userID, position, appointedBy string, appointedAt time.Time) (*models.UserProfile, error) {
	if _, err := f.Ensure(ctx, userID); err != nil {
		return nil, err
	}
	f.mu.Lock()
	p := f.byUser[userID]
	if p.Role != models.RoleAdmin {
		p.Role = models.RoleExecutive
	}
	p.Position = &position
	f.positions = append(f.positions, models.ExecutivePosition{Position: position, UserID: userID, IsActive: true, AppointedDate: appointedAt, AppointedBy: appointedBy})
	f.mu.Unlock()
	return f.FindByUserID(ctx, userID)
}

func (f *fakeProfileRepo) ListExecutives(ctx context.Context) ([]models.Executive, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Executive{}
	for _, p := range f.byUser {
		if p.Role == models.RoleExecutive {
			out = append(out, models.Executive{UserProfile: *p, User: &models.ExecutiveUser{ID: p.UserID, Name: f.names[p.UserID]}})
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[string]*models.User
	audits []*models.AuditLog
	seq    int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email != nil && *u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email != nil && user.Email != nil && *u.Email == *user.Email {
			return repository.ErrDuplicate
		}
	}
	if user.ID == "" {
		f.seq++
		user.ID = fmt.Sprintf("u%d", f.seq)
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.audits = append(f.audits, log)
	return nil
}

type fakeCertificateRepo struct {
	mu    sync.Mutex
	items map[string]*models.CertificateRequest
	seq   int
	clock time.Time
}

func newFakeCertificateRepo() *fakeCertificateRepo {
	return &fakeCertificateRepo{items: map[string]*models.CertificateRequest{}, clock: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeCertificateRepo) Create(ctx context.Context, req *models.CertificateRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	f.clock = f.clock.Add(time.Minute)
	req.ID = fmt.Sprintf("c%d", f.seq)
	req.Status = models.CertificateStatusPending
	req.CreatedAt = f.clock
	cp := *req
	f.items[req.ID] = &cp
	return nil
}

func (f *fakeCertificateRepo) FindByID(ctx context.Context, id string) (*models.CertificateRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *item
	return &cp, nil
}

func (f *fakeCertificateRepo) list(match func(*models.CertificateRequest) bool) []models.CertificateRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.CertificateRequest{}
	for _, item := range f.items {
		if match(item) {
			out = append(out, *item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeCertificateRepo) ListByRequester(ctx context.Context, userID string) ([]models.CertificateRequest, error) {
	return f.list(func(c *models.CertificateRequest) bool { return c.RequestedBy == userID }), nil
}

func (f *fakeCertificateRepo) ListByStatus(ctx context.Context, status models.CertificateStatus) ([]models.CertificateRequest, error) {
	return f.list(func(c *models.CertificateRequest) bool { return c.Status == status }), nil
}

func (f *fakeCertificateRepo) ListUnissued(ctx context.Context, limit int) ([]models.CertificateRequest, error) {
	out := f.list(func(c *models.CertificateRequest) bool {
		return c.Status == models.CertificateStatusApproved && c.CertificateRef == nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeCertificateRepo) Review(ctx context.Context, id string, status models.CertificateStatus, reviewer string, notes *string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[id]
	if !ok || item.Status != models.CertificateStatusPending {
		return false, nil
	}
	item.Status = status
	item.ReviewedBy = &reviewer
	item.ReviewNotes = notes
	item.ReviewedAt = &at
	return true, nil
}

func (f *fakeCertificateRepo) SetCertificateRef(ctx context.Context, id, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if item, ok := f.items[id]; ok && item.Status == models.CertificateStatusApproved && item.CertificateRef == nil {
		item.CertificateRef = &ref
	}
	return nil
}

type fakeObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newFakeObjectStore(refs ...string) *fakeObjectStore {
	store := &fakeObjectStore{objects: map[string][]byte{}}
	for _, ref := range refs {
		store.objects[ref] = []byte("x")
	}
	return store
}

func (f *fakeObjectStore) GenerateUploadURL(ctx context.Context) (*storage.UploadTicket, error) {
	id := storage.NewObjectID()
	return &storage.UploadTicket{UploadURL: "https://files.example/upload/" + id, StorageID: id}, nil
}

func (f *fakeObjectStore) ResolveURL(ctx context.Context, ref string) (*string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[ref]; !ok {
		return nil, nil
	}
	u := "https://files.example/" + ref
	return &u, nil
}

func (f *fakeObjectStore) Put(ctx context.Context, ref string, body io.Reader, contentType string) error {
	if f.putErr != nil {
		return f.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[ref] = data
	return nil
}

type fakeEnqueuer struct {
	mu   sync.Mutex
	jobs []jobs.Job
	err  error
}

func (f *fakeEnqueuer) Enqueue(job jobs.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, job)
	return nil
}

func ptr(s string) *string { return &s }
