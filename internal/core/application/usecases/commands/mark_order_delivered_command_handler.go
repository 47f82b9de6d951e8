package commands

import (
	"context"
	"errors"
	"time"

	"mealdelivery/internal/core/domain/model/account"
	"mealdelivery/internal/core/domain/model/order"
	"mealdelivery/internal/pkg/errs"
)

// ErrNotAssignedAgent is the cause when anyone but the assigned agent or an
// administrator reports a delivery.
var ErrNotAssignedAgent = errors.New("only the assigned agent may mark the order delivered")

// MarkOrderDeliveredCommandHandler lets the assigned agent, or an
// administrator, close a ready or preparing order as delivered.
type MarkOrderDeliveredCommandHandler struct {
	uowFactory UoWFactory
	notifier   OrderNotifier
	now        func() time.Time
}

// NewMarkOrderDeliveredCommandHandler wires the handler to a unit-of-work
// factory and the notifier told about deliveries.
func NewMarkOrderDeliveredCommandHandler(uowFactory UoWFactory, notifier OrderNotifier) MarkOrderDeliveredCommandHandler {
	return MarkOrderDeliveredCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		now:        time.Now,
	}
}

// Handle moves the order to delivered and stamps the delivery time.
//
// Returns:
//   - the delivered order
//   - an AccessDeniedError when the caller is neither the assigned agent nor an administrator
//   - a validation error when the order is not ready or preparing
//   - an ObjectNotFoundError for an unknown order
func (h MarkOrderDeliveredCommandHandler) Handle(ctx context.Context, cmd MarkOrderDeliveredCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	o, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	actor := cmd.Actor()
	if !actor.IsAdmin() && !(actor.Role() == account.RoleAgent && o.IsAssignedTo(actor.ID())) {
		return nil, errs.NewAccessDeniedErrorWithCause("mark order delivered", ErrNotAssignedAgent)
	}

	if err = o.ChangeStatus(order.Delivered, h.now()); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.notifier.OrderDelivered(ctx, o)
	return o, nil
}
