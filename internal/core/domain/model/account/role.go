package account

import (
	"errors"
	"fmt"

	"mealdelivery/internal/pkg/errs"
)

// ErrRoleIsUnknown is the cause when a role name is outside RoleAdmin,
// RoleClient and RoleAgent.
var ErrRoleIsUnknown = errors.New("role is not recognized")

// Role is the kind of identity acting on the system.
type Role string

// Roles carried in the bearer token's role claim.
const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
	RoleAgent  Role = "agent"
)

// ParseRole accepts the lowercase role names only.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if err := r.Validate(); err != nil {
		return "", err
	}
	return r, nil
}

// Validate rejects any role other than the three known ones.
func (r Role) Validate() error {
	switch r {
	case RoleAdmin, RoleClient, RoleAgent:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%w: %q", ErrRoleIsUnknown, string(r)))
	}
}

// String returns the role name as it appears in tokens.
func (r Role) String() string {
	return string(r)
}
