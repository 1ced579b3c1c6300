package auth

import (
	"context"

	"github.com/dmitrijs2005/projectgate/internal/server/models"
)

// Principal is the trusted identity of the current request. It is built by
// Resolver from a verified token and a fresh account read, and lives only
// as long as the request context it is stored in.
type Principal struct {
	AccountID string
	UserName  string
	Role      models.Role
}

type principalKey struct{}

// WithPrincipal returns a child context carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal stored by WithPrincipal.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}
