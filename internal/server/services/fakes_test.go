package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/projectgate/internal/common"
	"github.com/dmitrijs2005/projectgate/internal/dbx"
	"github.com/dmitrijs2005/projectgate/internal/logging"
	"github.com/dmitrijs2005/projectgate/internal/server/auth"
	"github.com/dmitrijs2005/projectgate/internal/server/models"
	"github.com/dmitrijs2005/projectgate/internal/server/repositories/projects"
	"github.com/dmitrijs2005/projectgate/internal/server/repositories/users"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// --- in-memory users ---

type memUsers struct {
	mu     sync.Mutex
	byName map[string]*models.Account

	getErr        error
	createErr     error
	updateHashErr error
	hashUpdates   int
	calls         int
}

func newMemUsers() *memUsers {
	return &memUsers{byName: map[string]*models.Account{}}
}

func (m *memUsers) Create(_ context.Context, a *models.Account) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.createErr != nil {
		return nil, m.createErr
	}
	if _, ok := m.byName[a.UserName]; ok {
		return nil, common.ErrDuplicateUsername
	}
	a.ID = uuid.NewString()
	a.CreatedAt = time.Now()
	cp := *a
	m.byName[a.UserName] = &cp
	return a, nil
}

func (m *memUsers) GetUserByLogin(_ context.Context, login string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.getErr != nil {
		return nil, m.getErr
	}
	a, ok := m.byName[login]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memUsers) UpdatePasswordHash(_ context.Context, id string, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.updateHashErr != nil {
		return m.updateHashErr
	}
	for _, a := range m.byName {
		if a.ID == id {
			a.PasswordHash = hash
			m.hashUpdates++
			return nil
		}
	}
	return common.ErrorNotFound
}

func (m *memUsers) UpdateRole(_ context.Context, login string, role models.Role) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	a, ok := m.byName[login]
	if !ok {
		return nil, common.ErrorNotFound
	}
	a.Role = role
	cp := *a
	return &cp, nil
}

func (m *memUsers) Delete(_ context.Context, login string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if _, ok := m.byName[login]; !ok {
		return common.ErrorNotFound
	}
	delete(m.byName, login)
	return nil
}

func (m *memUsers) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *memUsers) stored(t *testing.T, login string) *models.Account {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byName[login]
	require.True(t, ok, "account %q not stored", login)
	cp := *a
	return &cp
}

// --- in-memory projects ---

type memProjects struct {
	mu    sync.Mutex
	items []*models.Project

	listErr   error
	createErr error
	deleteErr error
}

func (m *memProjects) Create(_ context.Context, p *models.Project) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now()
	cp := *p
	m.items = append(m.items, &cp)
	return p, nil
}

func (m *memProjects) List(context.Context) ([]*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]*models.Project, 0, len(m.items))
	for _, p := range m.items {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memProjects) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for i, p := range m.items {
		if p.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

type fakeRepoManager struct {
	u *memUsers
	p *memProjects
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository           { return m.u }
func (m *fakeRepoManager) Projects(db dbx.DBTX) projects.Repository     { return m.p }

// --- fixture ---

var fixedNow = time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)

type fixture struct {
	db       *sql.DB
	mock     sqlmock.Sqlmock
	users    *memUsers
	projects *memProjects
	hasher   *auth.Hasher
	codec    *auth.TokenCodec
	resolver *auth.Resolver
	gate     *auth.Gate
	now      time.Time

	userSvc    *UserService
	projectSvc *ProjectService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	hasher, err := auth.NewHasher(auth.AlgorithmBcrypt, bcrypt.MinCost)
	require.NoError(t, err)
	codec, err := auth.NewTokenCodec(auth.TokenConfig{Key: []byte("test-key"), TTL: 30 * time.Minute, Issuer: "projectgate"})
	require.NoError(t, err)

	f := &fixture{
		db:       db,
		mock:     mock,
		users:    newMemUsers(),
		projects: &memProjects{},
		hasher:   hasher,
		codec:    codec,
		gate:     auth.NewGate(nil),
		now:      fixedNow,
	}
	clock := auth.ClockFunc(func() time.Time { return f.now })
	rm := &fakeRepoManager{u: f.users, p: f.projects}

	f.resolver = auth.NewResolver(codec, f.users, clock)
	f.userSvc = NewUserService(db, rm, AuthDeps{Hasher: hasher, Codec: codec, Gate: f.gate, Clock: clock}, logging.Nop{})
	f.projectSvc = NewProjectService(db, rm, f.gate, logging.Nop{})
	return f
}

// register runs Register and expects it to open and commit a transaction.
func (f *fixture) register(t *testing.T, name, password string, role models.Role) *models.PublicAccount {
	t.Helper()
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	acc, err := f.userSvc.Register(context.Background(), name, password, role)
	require.NoError(t, err)
	return acc
}

// principal logs in and resolves the token the way a request would.
func (f *fixture) principal(t *testing.T, name, password string) *auth.Principal {
	t.Helper()
	tok, err := f.userSvc.Login(context.Background(), name, password)
	require.NoError(t, err)
	p, err := f.resolver.Resolve(context.Background(), tok)
	require.NoError(t, err)
	return p
}
