package commands

import (
	"context"
	"errors"

	"mealdelivery/internal/core/domain/model/account"
	"mealdelivery/internal/core/domain/model/kernel"
	"mealdelivery/internal/core/domain/model/order"
)

// ErrNoOrderFound is returned by Handle when no ready order waits for an agent.
var ErrNoOrderFound = errors.New("no ready unassigned order found")

// AssignReadyOrdersCommandHandler sweeps ready orders that are still
// waiting for an agent, typically because none existed when they became
// ready. Each order is assigned in its own transaction.
type AssignReadyOrdersCommandHandler struct {
	uowFactory UoWFactory
	engine     AssignmentEngine
	notifier   OrderNotifier
}

// NewAssignReadyOrdersCommandHandler wires the sweeper to a unit-of-work
// factory and the notifier told about each assignment.
func NewAssignReadyOrdersCommandHandler(uowFactory UoWFactory, notifier OrderNotifier) AssignReadyOrdersCommandHandler {
	return AssignReadyOrdersCommandHandler{
		uowFactory: uowFactory,
		engine:     NewAssignmentEngine(),
		notifier:   notifier,
	}
}

// Handle returns the number of orders it assigned. It reports
// ErrNoOrderFound when nothing waits and ErrNoFreeAgentsFound when orders
// wait but no agent exists.
//
// Orders assigned concurrently by another caller are skipped. Every
// successful assignment is announced after its own commit.
//
// Example:
//
//	cmd, _ := NewAssignReadyOrdersCommand(DefaultSweepBatchSize)
//	n, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, ErrNoOrderFound) {
//	    // nothing to do this round
//	}
func (h AssignReadyOrdersCommandHandler) Handle(ctx context.Context, cmd AssignReadyOrdersCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	waiting, err := h.uowFactory.Create().OrderRepository().GetReadyUnassigned(ctx, cmd.BatchSize())
	if err != nil {
		return 0, err
	}
	if len(waiting) == 0 {
		return 0, ErrNoOrderFound
	}

	assigned := 0
	for _, candidate := range waiting {
		o, agent, err := h.assignOne(ctx, candidate.ID())
		if errors.Is(err, ErrNoFreeAgentsFound) {
			if assigned == 0 {
				return 0, err
			}
			break
		}
		if IsAssignmentSkipped(err) {
			continue
		}
		if err != nil {
			return assigned, err
		}

		h.notifier.OrderAssigned(ctx, o, agent)
		assigned++
	}

	return assigned, nil
}

func (h AssignReadyOrdersCommandHandler) assignOne(ctx context.Context, orderID kernel.UUID) (*order.Order, *account.Agent, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	o, err := orderRepo.GetForUpdate(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if o.Status() != order.Ready || o.HasAgent() {
		return nil, nil, ErrOrderAlreadyAssigned
	}

	agent, err := h.engine.Assign(ctx, orderRepo, uow.AccountRepository(), o)
	if err != nil {
		return nil, nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return o, agent, nil
}
