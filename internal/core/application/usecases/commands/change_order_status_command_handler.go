package commands

import (
	"context"
	"errors"
	"time"

	"mealdelivery/internal/core/domain/model/account"
	"mealdelivery/internal/core/domain/model/order"
	"mealdelivery/internal/pkg/errs"
)

var (
	// ErrOnlyOwnerMayCancel is the cause when a client asks for anything but
	// cancelling their own pending order.
	ErrOnlyOwnerMayCancel = errors.New("only the client who placed a pending order may cancel it")

	// ErrStatusChangeForbidden is the cause for agents and anonymous callers.
	ErrStatusChangeForbidden = errors.New("caller may not change order status")
)

// ChangeOrderStatusCommandHandler applies one status transition. An order
// that becomes ready without an agent is assigned in the same transaction.
type ChangeOrderStatusCommandHandler struct {
	uowFactory UoWFactory
	engine     AssignmentEngine
	notifier   OrderNotifier
	now        func() time.Time
}

// NewChangeOrderStatusCommandHandler wires the handler to a unit-of-work
// factory and the notifier told about committed transitions.
func NewChangeOrderStatusCommandHandler(uowFactory UoWFactory, notifier OrderNotifier) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory: uowFactory,
		engine:     NewAssignmentEngine(),
		notifier:   notifier,
		now:        time.Now,
	}
}

// Handle locks the order, checks the caller, applies the transition and
// stores it. Reaching ready without an agent runs the assignment engine
// inside the same transaction; finding no agent leaves the order
// unassigned without failing the call.
//
// Returns:
//   - the updated order, plus the agent when this call assigned one
//   - a validation error when the transition edge does not exist
//   - an AccessDeniedError when the caller may not request it
//   - an ObjectNotFoundError for an unknown order
//
// The status-change event is published after commit, followed by the
// assignment event when an agent was attached.
func (h ChangeOrderStatusCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStatusCommand) (OrderUpdate, error) {
	if err := cmd.Validate(); err != nil {
		return OrderUpdate{}, err
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

	if err = authorizeStatusChange(cmd.Actor(), o, cmd.Target()); err != nil {
		return OrderUpdate{}, err
	}

	previous := o.Status()
	if err = o.ChangeStatus(cmd.Target(), h.now()); err != nil {
		return OrderUpdate{}, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return OrderUpdate{}, err
	}

	var assigned *account.Agent
	if o.Status() == order.Ready && !o.HasAgent() {
		assigned, err = h.engine.Assign(ctx, orderRepo, accountRepo, o)
		if err != nil && !IsAssignmentSkipped(err) {
			return OrderUpdate{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return OrderUpdate{}, err
	}

	h.notifier.OrderStatusChanged(ctx, o, previous)
	if assigned != nil {
		h.notifier.OrderAssigned(ctx, o, assigned)
	}

	return OrderUpdate{Order: o, AssignedAgent: assigned}, nil
}

// authorizeStatusChange lets administrators request any transition and
// clients cancel their own pending orders. Agents use the delivery command.
func authorizeStatusChange(actor account.Actor, o *order.Order, target order.Status) error {
	switch {
	case actor.IsAdmin():
		return nil
	case actor.Role() == account.RoleClient:
		if target == order.Cancelled && o.Status() == order.Pending && o.IsPlacedBy(actor.ID()) {
			return nil
		}
		return errs.NewAccessDeniedErrorWithCause("change order status", ErrOnlyOwnerMayCancel)
	default:
		return errs.NewAccessDeniedErrorWithCause("change order status", ErrStatusChangeForbidden)
	}
}
