package grpc

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/projectgate/internal/common"
	"github.com/dmitrijs2005/projectgate/internal/server/auth"
	"github.com/dmitrijs2005/projectgate/internal/server/models"
)

// fakeBackend plays every service the server depends on, with tokens of
// the form "tok-<username>".
type fakeBackend struct {
	mu       sync.Mutex
	accounts map[string]*models.Account
	passwds  map[string]string
	projects []*models.Project
	gate     *auth.Gate
	fail     error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		accounts: map[string]*models.Account{},
		passwds:  map[string]string{},
		gate:     auth.NewGate(nil),
	}
}

func (b *fakeBackend) Register(_ context.Context, userName, password string, role models.Role) (*models.PublicAccount, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail != nil {
		return nil, b.fail
	}
	if role == "" {
		role = models.RoleUser
	}
	if userName == "" || password == "" || !role.Valid() {
		return nil, common.ErrorValidation
	}
	if _, ok := b.accounts[userName]; ok {
		return nil, common.ErrDuplicateUsername
	}
	a := &models.Account{ID: "id-" + userName, UserName: userName, Role: role}
	b.accounts[userName] = a
	b.passwds[userName] = password
	return a.Public(), nil
}

func (b *fakeBackend) Login(_ context.Context, userName, password string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if pw, ok := b.passwds[userName]; !ok || pw != password {
		return "", common.ErrInvalidCredentials
	}
	return "tok-" + userName, nil
}

func (b *fakeBackend) SetRole(_ context.Context, p *auth.Principal, userName string, role models.Role) (*models.PublicAccount, error) {
	if err := b.gate.Authorize(p, models.RoleAdmin); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.accounts[userName]
	if !ok {
		return nil, common.ErrorNotFound
	}
	a.Role = role
	return a.Public(), nil
}

func (b *fakeBackend) DeleteAccount(_ context.Context, p *auth.Principal, userName string) error {
	if err := b.gate.Authorize(p, models.RoleAdmin); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.accounts[userName]; !ok {
		return common.ErrorNotFound
	}
	delete(b.accounts, userName)
	delete(b.passwds, userName)
	return nil
}

func (b *fakeBackend) TokenTTL() time.Duration { return 30 * time.Minute }

func (b *fakeBackend) List(_ context.Context, p *auth.Principal) ([]*models.Project, error) {
	if p == nil {
		return nil, common.ErrUnauthenticated
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*models.Project(nil), b.projects...), nil
}

func (b *fakeBackend) Create(_ context.Context, p *auth.Principal, name, description string) (*models.Project, error) {
	if err := b.gate.Authorize(p, models.RoleAdmin); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	pr := &models.Project{
		ID:          "p-" + name,
		Name:        name,
		Description: description,
		CreatedBy:   p.AccountID,
		CreatedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	b.projects = append(b.projects, pr)
	return pr, nil
}

func (b *fakeBackend) Delete(_ context.Context, p *auth.Principal, id string) error {
	if err := b.gate.Authorize(p, models.RoleAdmin); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, pr := range b.projects {
		if pr.ID == id {
			b.projects = append(b.projects[:i], b.projects[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (b *fakeBackend) Resolve(_ context.Context, token string) (*auth.Principal, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail != nil {
		return nil, b.fail
	}
	const prefix = "tok-"
	if len(token) <= len(prefix) || token[:len(prefix)] != prefix {
		return nil, common.ErrUnauthenticated
	}
	a, ok := b.accounts[token[len(prefix):]]
	if !ok {
		return nil, common.ErrUnauthenticated
	}
	return &auth.Principal{AccountID: a.ID, UserName: a.UserName, Role: a.Role}, nil
}
