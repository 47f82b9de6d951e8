package account

import (
	"errors"

	"mealdelivery/internal/core/domain/model/kernel"
)

// Actor is the authenticated caller of an operation. The zero value is the
// anonymous caller.
type Actor struct {
	id   kernel.UUID
	role Role
}

// NewActor builds an authenticated caller. Both the identity and the role
// must be valid; use Anonymous for callers without credentials.
//
// Example:
//
//	actor, err := account.NewActor(subjectID, account.RoleClient)
//	if err != nil {
//	    // the token named an unknown role or an empty subject
//	}
func NewActor(id kernel.UUID, role Role) (Actor, error) {
	if err := errors.Join(id.Validate(), role.Validate()); err != nil {
		return Actor{}, err
	}
	return Actor{id: id, role: role}, nil
}

// Anonymous returns the caller that presented no credentials.
func Anonymous() Actor {
	return Actor{}
}

// ID returns the caller's account identity. It is the zero UUID for the
// anonymous caller.
func (a Actor) ID() kernel.UUID { return a.id }

// Role returns the caller's role, or the empty role when anonymous.
func (a Actor) Role() Role { return a.role }

// IsAnonymous reports whether the caller presented no credentials.
func (a Actor) IsAnonymous() bool {
	return a.role == ""
}

// IsAdmin reports whether the caller is an administrator.
func (a Actor) IsAdmin() bool {
	return a.role == RoleAdmin
}

// Is reports whether the actor holds role and identity id.
func (a Actor) Is(role Role, id kernel.UUID) bool {
	return a.role == role && a.id.IsEqual(id)
}
