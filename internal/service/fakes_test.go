package service

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/dom/cv-builder-api/internal/cache"
	"github.com/dom/cv-builder-api/internal/config"
	"github.com/dom/cv-builder-api/internal/domain"
	"github.com/dom/cv-builder-api/internal/repository"
	"github.com/dom/cv-builder-api/internal/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// memDB is an in-process record store with the same cascade and
// not-found behaviour as the postgres repositories.
type memDB struct {
	mu          sync.Mutex
	nextID      uint
	users       map[uuid.UUID]domain.User
	experiences map[uint]domain.Experience
	projects    map[uint]domain.Project
	feedbacks   map[uint]domain.Feedback
}

func newMemDB() *memDB {
	return &memDB{
		users:       make(map[uuid.UUID]domain.User),
		experiences: make(map[uint]domain.Experience),
		projects:    make(map[uint]domain.Project),
		feedbacks:   make(map[uint]domain.Feedback),
	}
}

func (m *memDB) repositories() *repository.Repositories {
	return &repository.Repositories{
		User:       &fakeUsers{m},
		Experience: &fakeExperiences{m},
		Project:    &fakeProjects{m},
		Feedback:   &fakeFeedbacks{m},
	}
}

func (m *memDB) id() uint {
	m.nextID++
	return m.nextID
}

func window[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	end := offset + limit
	if limit <= 0 || end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

type fakeUsers struct{ m *memDB }

func (r *fakeUsers) Create(ctx context.Context, user *domain.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	r.m.users[user.ID] = *user
	return nil
}

func (r *fakeUsers) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *fakeUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUsers) List(ctx context.Context, limit, offset int) ([]*domain.User, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	rows := make([]*domain.User, 0, len(r.m.users))
	for _, u := range r.m.users {
		rows = append(rows, &u)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Email < rows[j].Email })
	return window(rows, limit, offset), int64(len(rows)), nil
}

func (r *fakeUsers) Update(ctx context.Context, user *domain.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.Email == user.Email && u.ID != user.ID {
			return gorm.ErrDuplicatedKey
		}
	}
	r.m.users[user.ID] = *user
	return nil
}

func (r *fakeUsers) Delete(ctx context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.m.users, id)
	for k, e := range r.m.experiences {
		if e.UserID == id {
			delete(r.m.experiences, k)
		}
	}
	for k, p := range r.m.projects {
		if p.UserID == id {
			delete(r.m.projects, k)
		}
	}
	for k, f := range r.m.feedbacks {
		if f.FromUser == id || f.ToUser == id {
			delete(r.m.feedbacks, k)
		}
	}
	return nil
}

type fakeExperiences struct{ m *memDB }

func (r *fakeExperiences) Create(ctx context.Context, e *domain.Experience) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	e.ID = r.m.id()
	r.m.experiences[e.ID] = *e
	return nil
}

func (r *fakeExperiences) GetByID(ctx context.Context, id uint) (*domain.Experience, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	e, ok := r.m.experiences[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &e, nil
}

func (r *fakeExperiences) all(match func(domain.Experience) bool) []*domain.Experience {
	rows := make([]*domain.Experience, 0)
	for _, e := range r.m.experiences {
		if match(e) {
			rows = append(rows, &e)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows
}

func (r *fakeExperiences) List(ctx context.Context, limit, offset int) ([]*domain.Experience, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	rows := r.all(func(domain.Experience) bool { return true })
	return window(rows, limit, offset), int64(len(rows)), nil
}

func (r *fakeExperiences) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Experience, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.all(func(e domain.Experience) bool { return e.UserID == userID }), nil
}

func sameEndDate(a, b *domain.Experience) bool {
	if a.EndDate == nil || b.EndDate == nil {
		return a.EndDate == nil && b.EndDate == nil
	}
	return domain.FormatDate(*a.EndDate) == domain.FormatDate(*b.EndDate)
}

func (r *fakeExperiences) HasDuplicate(ctx context.Context, x *domain.Experience) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, e := range r.m.experiences {
		if e.ID != x.ID && e.UserID == x.UserID && e.CompanyName == x.CompanyName && e.Role == x.Role &&
			domain.FormatDate(e.StartDate) == domain.FormatDate(x.StartDate) && sameEndDate(&e, x) &&
			e.Description == x.Description {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeExperiences) Update(ctx context.Context, e *domain.Experience) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.experiences[e.ID] = *e
	return nil
}

func (r *fakeExperiences) Delete(ctx context.Context, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.experiences[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.m.experiences, id)
	return nil
}

type fakeProjects struct{ m *memDB }

func (r *fakeProjects) Create(ctx context.Context, p *domain.Project) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p.ID = r.m.id()
	r.m.projects[p.ID] = *p
	return nil
}

func (r *fakeProjects) GetByID(ctx context.Context, id uint) (*domain.Project, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.projects[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r *fakeProjects) all(match func(domain.Project) bool) []*domain.Project {
	rows := make([]*domain.Project, 0)
	for _, p := range r.m.projects {
		if match(p) {
			rows = append(rows, &p)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows
}

func (r *fakeProjects) List(ctx context.Context, limit, offset int) ([]*domain.Project, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	rows := r.all(func(domain.Project) bool { return true })
	return window(rows, limit, offset), int64(len(rows)), nil
}

func (r *fakeProjects) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.all(func(p domain.Project) bool { return p.UserID == userID }), nil
}

func (r *fakeProjects) HasDuplicate(ctx context.Context, x *domain.Project) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, p := range r.m.projects {
		if p.ID != x.ID && p.UserID == x.UserID && p.Description == x.Description {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeProjects) Update(ctx context.Context, p *domain.Project) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.projects[p.ID] = *p
	return nil
}

func (r *fakeProjects) Delete(ctx context.Context, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.projects[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.m.projects, id)
	return nil
}

type fakeFeedbacks struct{ m *memDB }

func (r *fakeFeedbacks) Create(ctx context.Context, f *domain.Feedback) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	f.ID = r.m.id()
	r.m.feedbacks[f.ID] = *f
	return nil
}

func (r *fakeFeedbacks) GetByID(ctx context.Context, id uint) (*domain.Feedback, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	f, ok := r.m.feedbacks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &f, nil
}

func (r *fakeFeedbacks) all(match func(domain.Feedback) bool) []*domain.Feedback {
	rows := make([]*domain.Feedback, 0)
	for _, f := range r.m.feedbacks {
		if match(f) {
			rows = append(rows, &f)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows
}

func (r *fakeFeedbacks) List(ctx context.Context, limit, offset int) ([]*domain.Feedback, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	rows := r.all(func(domain.Feedback) bool { return true })
	return window(rows, limit, offset), int64(len(rows)), nil
}

func (r *fakeFeedbacks) ListByRecipient(ctx context.Context, toUser uuid.UUID) ([]*domain.Feedback, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.all(func(f domain.Feedback) bool { return f.ToUser == toUser }), nil
}

func (r *fakeFeedbacks) RecipientsOf(ctx context.Context, fromUser uuid.UUID) ([]uuid.UUID, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	seen := make(map[uuid.UUID]bool)
	var out []uuid.UUID
	for _, f := range r.m.feedbacks {
		if f.FromUser == fromUser && !seen[f.ToUser] {
			seen[f.ToUser] = true
			out = append(out, f.ToUser)
		}
	}
	return out, nil
}

func (r *fakeFeedbacks) HasDuplicate(ctx context.Context, x *domain.Feedback) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, f := range r.m.feedbacks {
		if f.ID != x.ID && f.FromUser == x.FromUser && f.ToUser == x.ToUser &&
			f.CompanyName == x.CompanyName && f.Content == x.Content {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeFeedbacks) Update(ctx context.Context, f *domain.Feedback) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.feedbacks[f.ID] = *f
	return nil
}

func (r *fakeFeedbacks) Delete(ctx context.Context, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.feedbacks[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.m.feedbacks, id)
	return nil
}

// env bundles services wired to in-memory dependencies.
type env struct {
	db       *memDB
	cache    *cache.MemoryCache
	store    *storage.DiskStore
	services *Services
	cfg      *config.Config
}

func testConfig() *config.Config {
	return &config.Config{
		Environment:        "test",
		JWTSecret:          "test-jwt-secret-key-for-testing-only",
		JWTExpirationHours: 1,
		BcryptCost:         bcrypt.MinCost,
		MaxUploadBytes:     5 << 20,
	}
}

func newEnv(t *testing.T) *env {
	t.Helper()

	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	db := newMemDB()
	c := cache.NewMemoryCache(0)
	cfg := testConfig()

	return &env{
		db:       db,
		cache:    c,
		store:    store,
		services: NewServices(db.repositories(), c, store, cfg),
		cfg:      cfg,
	}
}

// user registers an account and returns the actor for it.
func (e *env) user(t *testing.T, email string) domain.Actor {
	t.Helper()
	u, err := e.services.User.Register(context.Background(), CreateUserInput{
		FirstName: "Test",
		LastName:  "User",
		Title:     "Engineer",
		Summary:   "Writes code",
		Email:     email,
		Password:  "pw12345",
	})
	require.NoError(t, err)
	return domain.Actor{ID: u.ID, Role: u.Role}
}

func (e *env) admin(t *testing.T) domain.Actor {
	t.Helper()
	u, err := e.services.User.Create(context.Background(), CreateUserInput{
		FirstName: "Root",
		LastName:  "Admin",
		Title:     "Administrator",
		Summary:   "Runs things",
		Email:     "admin@example.com",
		Password:  "admin1",
		Role:      "admin",
	})
	require.NoError(t, err)
	return domain.Actor{ID: u.ID, Role: u.Role}
}

func strPtr(s string) *string { return &s }
