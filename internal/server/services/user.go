// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login and admin account
// management on top of the auth primitives.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/dmitrijs2005/projectgate/internal/common"
	"github.com/dmitrijs2005/projectgate/internal/dbx"
	"github.com/dmitrijs2005/projectgate/internal/logging"
	"github.com/dmitrijs2005/projectgate/internal/server/auth"
	"github.com/dmitrijs2005/projectgate/internal/server/models"
	"github.com/dmitrijs2005/projectgate/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/projectgate/internal/server/repositories/users"
)

var userNamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,64}$`)

// AuthDeps bundles the auth primitives the services are built from.
type AuthDeps struct {
	Hasher *auth.Hasher
	Codec  *auth.TokenCodec
	Gate   *auth.Gate
	Clock  auth.Clock
}

// UserService provides account operations:
// - Register: create an account with a hashed password
// - Login: verify credentials and issue an access token
// - SetRole / DeleteAccount: admin-only account management
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *auth.Hasher
	codec       *auth.TokenCodec
	gate        *auth.Gate
	clock       auth.Clock
	log         logging.Logger
}

// NewUserService constructs a UserService using repositories and auth primitives.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, deps AuthDeps, log logging.Logger) *UserService {
	if deps.Clock == nil {
		deps.Clock = auth.SystemClock{}
	}
	if log == nil {
		log = logging.Nop{}
	}
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      deps.Hasher,
		codec:       deps.Codec,
		gate:        deps.Gate,
		clock:       deps.Clock,
		log:         log.With("module", "users"),
	}
}

// Register validates the input, hashes the password and stores a new
// account. An empty role defaults to models.RoleUser. A taken username
// yields common.ErrDuplicateUsername.
func (s *UserService) Register(ctx context.Context, userName, password string, role models.Role) (*models.PublicAccount, error) {
	if role == "" {
		role = models.RoleUser
	}
	if err := validateUserName(userName); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", common.ErrorValidation, role)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	var account *models.Account
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		_, err := repo.GetUserByLogin(ctx, userName)
		switch {
		case err == nil:
			return common.ErrDuplicateUsername
		case !errors.Is(err, common.ErrorNotFound):
			return err
		}

		account, err = repo.Create(ctx, &models.Account{UserName: userName, PasswordHash: hash, Role: role})
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateUsername) {
			return nil, common.ErrDuplicateUsername
		}
		s.log.Error(ctx, "register failed", "username", userName, "error", err)
		return nil, fmt.Errorf("%w: error creating user: %v", common.ErrorInternal, err)
	}

	s.log.Info(ctx, "account registered", "username", account.UserName, "role", account.Role)
	return account.Public(), nil
}

// Login checks the credentials and returns a signed access token carrying
// the account's current id and role. An unknown user and a wrong password
// both yield common.ErrInvalidCredentials after the same amount of hashing
// work. Empty input is rejected with the same error before any lookup.
// Hashes made with weaker settings are upgraded in place.
func (s *UserService) Login(ctx context.Context, userName, password string) (string, error) {
	if userName == "" || password == "" {
		return "", common.ErrInvalidCredentials
	}

	repo := s.repomanager.Users(s.db)

	account, err := repo.GetUserByLogin(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(password, s.hasher.DummyHash())
			return "", common.ErrInvalidCredentials
		}
		s.log.Error(ctx, "account lookup failed", "error", err)
		return "", common.ErrorInternal
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		s.log.Debug(ctx, "login rejected", "username", userName)
		return "", common.ErrInvalidCredentials
	}

	token, err := s.codec.Issue(auth.Identity{
		Subject:   account.UserName,
		AccountID: account.ID,
		Role:      account.Role,
	}, s.clock.Now())
	if err != nil {
		s.log.Error(ctx, "token issue failed", "error", err)
		return "", common.ErrorInternal
	}

	if s.hasher.NeedsRehash(account.PasswordHash) {
		s.upgradeHash(ctx, repo, account, password)
	}

	return token, nil
}

// TokenTTL is the lifetime of tokens returned by Login.
func (s *UserService) TokenTTL() time.Duration {
	return s.codec.TTL()
}

// SetRole changes the role of userName. Only admins may call it; the new
// role applies from the target's next request.
func (s *UserService) SetRole(ctx context.Context, p *auth.Principal, userName string, role models.Role) (*models.PublicAccount, error) {
	if err := s.gate.Authorize(p, models.RoleAdmin); err != nil {
		return nil, err
	}
	if err := validateUserName(userName); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", common.ErrorValidation, role)
	}

	account, err := s.repomanager.Users(s.db).UpdateRole(ctx, userName, role)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	s.log.Info(ctx, "role changed", "by", p.UserName, "username", userName, "role", role)
	return account.Public(), nil
}

// DeleteAccount removes userName. Only admins may call it. Tokens already
// issued to the account stop resolving immediately.
func (s *UserService) DeleteAccount(ctx context.Context, p *auth.Principal, userName string) error {
	if err := s.gate.Authorize(p, models.RoleAdmin); err != nil {
		return err
	}
	if err := validateUserName(userName); err != nil {
		return err
	}

	if err := s.repomanager.Users(s.db).Delete(ctx, userName); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	s.log.Info(ctx, "account deleted", "by", p.UserName, "username", userName)
	return nil
}

func (s *UserService) upgradeHash(ctx context.Context, repo users.Repository, account *models.Account, password string) {
	hash, err := s.hasher.Hash(password)
	if err == nil {
		err = repo.UpdatePasswordHash(ctx, account.ID, hash)
	}
	if err != nil {
		s.log.Warn(ctx, "password hash upgrade failed", "username", account.UserName, "error", err)
		return
	}
	s.log.Info(ctx, "password hash upgraded", "username", account.UserName)
}

func validateUserName(userName string) error {
	if !userNamePattern.MatchString(userName) {
		return fmt.Errorf("%w: username must be 1-64 characters of letters, digits, '.', '_' or '-'", common.ErrorValidation)
	}
	return nil
}
