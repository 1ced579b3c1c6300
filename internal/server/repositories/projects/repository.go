package projects

import (
	"context"

	"github.com/dmitrijs2005/projectgate/internal/server/models"
)

// Repository stores projects. Delete of an unknown ID returns
// common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, project *models.Project) (*models.Project, error)
	List(ctx context.Context) ([]*models.Project, error)
	Delete(ctx context.Context, id string) error
}
