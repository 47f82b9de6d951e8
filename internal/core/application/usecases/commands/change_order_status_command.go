package commands

import (
	"errors"

	"mealdelivery/internal/core/domain/model/account"
	"mealdelivery/internal/core/domain/model/kernel"
	"mealdelivery/internal/core/domain/model/order"
	"mealdelivery/internal/pkg/guard"
)

// ErrChangeOrderStatusCommandIsNotConstructed is returned by Validate for a zero-value ChangeOrderStatusCommand.
var ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
	"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
)

// ChangeOrderStatusCommand moves an order to a new status on behalf of actor.
type ChangeOrderStatusCommand struct {
	orderID kernel.UUID
	target  order.Status
	actor   account.Actor

	guard guard.ConstructorGuard
}

// NewChangeOrderStatusCommand rejects unknown status names before any
// lookup happens.
//
// Example:
//
//	cmd, err := NewChangeOrderStatusCommand(orderID, "ready", actor)
//	if err != nil {
//	    // status is not one of the lifecycle names
//	}
func NewChangeOrderStatusCommand(orderID kernel.UUID, status string, actor account.Actor) (ChangeOrderStatusCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	target, err := order.ParseStatus(status)
	if err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	return ChangeOrderStatusCommand{
		orderID: orderID,
		target:  target,
		actor:   actor,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate reports whether the command came from NewChangeOrderStatusCommand.
func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

// OrderID returns the order to move.
func (c ChangeOrderStatusCommand) OrderID() kernel.UUID { return c.orderID }

// Target returns the requested status.
func (c ChangeOrderStatusCommand) Target() order.Status { return c.target }

// Actor returns the caller requesting the change.
func (c ChangeOrderStatusCommand) Actor() account.Actor { return c.actor }
