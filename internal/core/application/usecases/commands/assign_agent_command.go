package commands

import (
	"errors"

	"mealdelivery/internal/core/domain/model/account"
	"mealdelivery/internal/core/domain/model/kernel"
	"mealdelivery/internal/pkg/guard"
)

// ErrAssignAgentCommandIsNotConstructed is returned by Validate for a zero-value AssignAgentCommand.
var ErrAssignAgentCommandIsNotConstructed = errors.New(
	"AssignAgentCommand must be created via NewAssignAgentCommand constructor",
)

// AssignAgentCommand is an administrator's manual choice of delivery agent.
// It replaces any agent already attached to the order.
type AssignAgentCommand struct {
	orderID kernel.UUID
	agentID kernel.UUID
	actor   account.Actor

	guard guard.ConstructorGuard
}

// NewAssignAgentCommand checks both identities. Whether actor may override
// the assignment is decided by the handler.
//
// Example:
//
//	cmd, err := NewAssignAgentCommand(orderID, agentID, actor)
//	if err != nil {
//	    return err
//	}
//	update, err := handler.Handle(ctx, cmd)
func NewAssignAgentCommand(orderID, agentID kernel.UUID, actor account.Actor) (AssignAgentCommand, error) {
	if err := errors.Join(orderID.Validate(), agentID.Validate()); err != nil {
		return AssignAgentCommand{}, err
	}
	return AssignAgentCommand{
		orderID: orderID,
		agentID: agentID,
		actor:   actor,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate reports whether the command came from NewAssignAgentCommand.
func (c AssignAgentCommand) Validate() error {
	return c.guard.Validate(ErrAssignAgentCommandIsNotConstructed)
}

// OrderID returns the order to reassign.
func (c AssignAgentCommand) OrderID() kernel.UUID { return c.orderID }

// AgentID returns the chosen delivery agent.
func (c AssignAgentCommand) AgentID() kernel.UUID { return c.agentID }

// Actor returns the caller requesting the override.
func (c AssignAgentCommand) Actor() account.Actor { return c.actor }
