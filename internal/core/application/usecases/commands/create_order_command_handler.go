package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mealdelivery/internal/core/domain/model/kernel"
	"mealdelivery/internal/core/domain/model/order"
	"mealdelivery/internal/core/ports"
	"mealdelivery/internal/pkg/errs"
)

// CreateOrderCommandHandler prices the requested dishes from the catalog and
// stores the order with all its lines in one transaction.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   OrderNotifier
	now        func() time.Time
}

// NewCreateOrderCommandHandler creates a handler for order placement.
// Requires an OrderUoWFactory for the catalog reads and the atomic write,
// and the notifier told about committed orders.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, notifier)
//	cmd, _ := NewCreateOrderCommand(restaurantID, items, &clientID, contact)
//
//	placed, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("order placement failed: %w", err)
//	}
//	// placed.Total() is the sum of the snapshot subtotals
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, notifier OrderNotifier) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		now:        time.Now,
	}
}

// Handle validates every item before writing anything. Subscribers hear
// about the order only after it is committed.
//
// Items are checked in request order and the first failure is returned as
// a validation error naming the item, e.g. "items[1]". The header and all
// lines are written in one transaction.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
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

	lines, err := h.priceItems(ctx, uow.DishCatalog(), cmd)
	if err != nil {
		return nil, err
	}

	placed, err := order.NewOrder(kernel.NewUUID(), cmd.RestaurantID(), cmd.ClientID(), lines, cmd.Contact(), h.now())
	if err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Add(ctx, placed); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.notifier.OrderCreated(ctx, placed)
	return placed, nil
}

// priceItems checks each item in request order: the dish exists, is
// available, belongs to the restaurant, and the quantity is positive.
func (h CreateOrderCommandHandler) priceItems(
	ctx context.Context,
	dishes ports.DishCatalog,
	cmd CreateOrderCommand,
) ([]order.Line, error) {
	items := cmd.Items()
	lines := make([]order.Line, 0, len(items))

	for i, item := range items {
		param := fmt.Sprintf("items[%d]", i)

		dish, err := dishes.Get(ctx, item.DishID)
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil, errs.NewValueIsInvalidErrorWithCause(param, fmt.Errorf("%w: %s", ErrDishNotFound, item.DishID))
		}
		if err != nil {
			return nil, err
		}

		if err = dish.CheckOrderable(cmd.RestaurantID()); err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause(param, err)
		}

		line, err := order.NewLine(kernel.NewUUID(), dish.ID(), item.Quantity, dish.Price())
		if err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause(param, err)
		}
		lines = append(lines, line)
	}

	return lines, nil
}
