package auth

import (
	"github.com/dmitrijs2005/projectgate/internal/common"
	"github.com/dmitrijs2005/projectgate/internal/server/models"
)

// Policy decides whether a held role satisfies a required one. It is the
// extension point for role hierarchies; none is built in.
type Policy interface {
	Satisfies(have, required models.Role) bool
}

// ExactMatch is the default policy: a role satisfies only itself.
type ExactMatch struct{}

func (ExactMatch) Satisfies(have, required models.Role) bool {
	switch required {
	case models.RoleUser, models.RoleAdmin:
		return have == required
	default:
		return false
	}
}

// Gate is the authorization decision point for protected operations.
type Gate struct {
	policy Policy
}

// NewGate returns a Gate using policy, or ExactMatch when policy is nil.
func NewGate(policy Policy) *Gate {
	if policy == nil {
		policy = ExactMatch{}
	}
	return &Gate{policy: policy}
}

// Authorize returns nil when p holds required, common.ErrForbidden when it
// does not, and common.ErrUnauthenticated when there is no principal.
func (g *Gate) Authorize(p *Principal, required models.Role) error {
	if p == nil {
		return common.ErrUnauthenticated
	}
	if !g.policy.Satisfies(p.Role, required) {
		return common.ErrForbidden
	}
	return nil
}
