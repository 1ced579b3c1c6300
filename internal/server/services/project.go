package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/projectgate/internal/common"
	"github.com/dmitrijs2005/projectgate/internal/logging"
	"github.com/dmitrijs2005/projectgate/internal/server/auth"
	"github.com/dmitrijs2005/projectgate/internal/server/models"
	"github.com/dmitrijs2005/projectgate/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const maxProjectNameLen = 200

// ProjectService exposes the protected project resource. Reading needs any
// authenticated principal; creating and deleting need the admin role.
type ProjectService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	gate        *auth.Gate
	log         logging.Logger
}

func NewProjectService(db *sql.DB, m repomanager.RepositoryManager, gate *auth.Gate, log logging.Logger) *ProjectService {
	if log == nil {
		log = logging.Nop{}
	}
	return &ProjectService{db: db, repomanager: m, gate: gate, log: log.With("module", "projects")}
}

// List returns all projects.
func (s *ProjectService) List(ctx context.Context, p *auth.Principal) ([]*models.Project, error) {
	if p == nil {
		return nil, common.ErrUnauthenticated
	}

	items, err := s.repomanager.Projects(s.db).List(ctx)
	if err != nil {
		s.log.Error(ctx, "list projects failed", "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return items, nil
}

// Create stores a new project owned by p.
func (s *ProjectService) Create(ctx context.Context, p *auth.Principal, name, description string) (*models.Project, error) {
	if err := s.gate.Authorize(p, models.RoleAdmin); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxProjectNameLen {
		return nil, fmt.Errorf("%w: project name must be 1-%d characters", common.ErrorValidation, maxProjectNameLen)
	}

	project, err := s.repomanager.Projects(s.db).Create(ctx, &models.Project{
		Name:        name,
		Description: description,
		CreatedBy:   p.AccountID,
	})
	if err != nil {
		s.log.Error(ctx, "create project failed", "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	s.log.Info(ctx, "project created", "id", project.ID, "by", p.UserName)
	return project, nil
}

// Delete removes the project with id. An id that cannot name a project
// is reported as common.ErrorNotFound.
func (s *ProjectService) Delete(ctx context.Context, p *auth.Principal, id string) error {
	if err := s.gate.Authorize(p, models.RoleAdmin); err != nil {
		return err
	}
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}

	if err := s.repomanager.Projects(s.db).Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		s.log.Error(ctx, "delete project failed", "id", id, "error", err)
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	s.log.Info(ctx, "project deleted", "id", id, "by", p.UserName)
	return nil
}
