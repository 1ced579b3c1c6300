package models

import (
	"fmt"

	"github.com/dmitrijs2005/projectgate/internal/common"
)

// Role is a closed set of authorization tags. Matching against a
// requirement is done by auth.Gate, not by comparing strings ad hoc.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Roles lists every known role.
var Roles = []Role{RoleUser, RoleAdmin}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

func (r Role) String() string { return string(r) }

// ParseRole converts a wire value into a Role. Role tags are
// case-sensitive, like usernames.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", common.ErrorValidation, s)
	}
	return r, nil
}
