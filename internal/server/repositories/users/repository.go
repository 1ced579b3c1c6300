package users

import (
	"context"

	"github.com/dmitrijs2005/projectgate/internal/server/models"
)

// Repository is the account store. Usernames are unique and compared
// case-sensitively; lookups for unknown accounts return common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetUserByLogin(ctx context.Context, login string) (*models.Account, error)
	UpdatePasswordHash(ctx context.Context, id string, hash string) error
	UpdateRole(ctx context.Context, login string, role models.Role) (*models.Account, error)
	Delete(ctx context.Context, login string) error
}
