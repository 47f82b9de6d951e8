package commands

import (
	"context"

	"mealdelivery/internal/pkg/errs"
)

// AssignAgentCommandHandler applies an administrator's agent override.
type AssignAgentCommandHandler struct {
	uowFactory UoWFactory
	notifier   OrderNotifier
}

// NewAssignAgentCommandHandler wires the handler to a unit-of-work factory
// and the notifier told about committed overrides.
func NewAssignAgentCommandHandler(uowFactory UoWFactory, notifier OrderNotifier) AssignAgentCommandHandler {
	return AssignAgentCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle replaces the order's agent when the caller is an administrator.
//
// The order row is locked first, then the workload lock is taken so the
// override cannot interleave with automatic assignment. Delivered and
// cancelled orders are rejected.
//
// Returns:
//   - the updated order and the attached agent
//   - an AccessDeniedError for non-administrators
//   - an ObjectNotFoundError when the order or the agent does not exist
func (h AssignAgentCommandHandler) Handle(ctx context.Context, cmd AssignAgentCommand) (OrderUpdate, error) {
	if err := cmd.Validate(); err != nil {
		return OrderUpdate{}, err
	}
	if !cmd.Actor().IsAdmin() {
		return OrderUpdate{}, errs.NewAccessDeniedError("assign delivery agent")
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return OrderUpdate{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	accountRepo := uow.AccountRepository()

	o, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return OrderUpdate{}, err
	}

	// Overrides change agent load, so they queue behind automatic assignment.
	if err = accountRepo.LockWorkloads(ctx); err != nil {
		return OrderUpdate{}, err
	}

	agent, err := accountRepo.GetAgent(ctx, cmd.AgentID())
	if err != nil {
		return OrderUpdate{}, err
	}

	if err = o.Reassign(agent.ID()); err != nil {
		return OrderUpdate{}, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return OrderUpdate{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return OrderUpdate{}, err
	}

	h.notifier.OrderAssigned(ctx, o, agent)
	return OrderUpdate{Order: o, AssignedAgent: agent}, nil
}
