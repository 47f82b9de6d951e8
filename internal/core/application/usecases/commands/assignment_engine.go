package commands

import (
	"context"
	"errors"

	"mealdelivery/internal/core/domain/model/account"
	"mealdelivery/internal/core/domain/model/order"
	"mealdelivery/internal/core/domain/services"
	"mealdelivery/internal/core/ports"
)

var (
	// ErrNoFreeAgentsFound is returned by Assign when no agent account exists.
	ErrNoFreeAgentsFound = errors.New("no free agents found")

	// ErrOrderAlreadyAssigned is returned by Assign when another caller
	// attached an agent first.
	ErrOrderAlreadyAssigned = errors.New("order was assigned concurrently")
)

// AssignmentEngine attaches the least loaded agent to a ready order.
//
// Decisions are serialized by the workload lock, so two orders becoming
// ready at the same time see each other's assignment when counting load.
// The final write only succeeds if the order is still unassigned.
type AssignmentEngine struct {
	dispatcher services.AgentDispatcher
}

// NewAssignmentEngine creates an engine backed by the least-loaded dispatcher.
func NewAssignmentEngine() AssignmentEngine {
	return AssignmentEngine{dispatcher: services.NewAgentDispatcher()}
}

// Assign must run inside a transaction holding the order's row lock.
// It returns ErrNoFreeAgentsFound or ErrOrderAlreadyAssigned when the
// order is left as it was.
//
// The steps are:
//  1. take the workload lock
//  2. read every agent's ready-order count
//  3. pick the least loaded agent, lowest identifier on ties
//  4. write the agent only if the order still has none
//
// On success o carries the agent as well.
func (e AssignmentEngine) Assign(
	ctx context.Context,
	orders ports.OrderRepository,
	accounts ports.AccountRepository,
	o *order.Order,
) (*account.Agent, error) {
	if err := accounts.LockWorkloads(ctx); err != nil {
		return nil, err
	}

	workloads, err := accounts.GetAgentWorkloads(ctx)
	if err != nil {
		return nil, err
	}

	agent, err := e.dispatcher.Dispatch(o, workloads)
	if errors.Is(err, services.ErrNoAgentAvailable) {
		return nil, ErrNoFreeAgentsFound
	}
	if err != nil {
		return nil, err
	}

	assigned, err := orders.AssignIfUnassigned(ctx, o.ID(), agent.ID())
	if err != nil {
		return nil, err
	}
	if !assigned {
		return nil, ErrOrderAlreadyAssigned
	}

	if err = o.Assign(agent.ID()); err != nil {
		return nil, err
	}
	return agent, nil
}

// IsAssignmentSkipped reports errors that leave an order unassigned
// without failing the surrounding command.
func IsAssignmentSkipped(err error) bool {
	return errors.Is(err, ErrNoFreeAgentsFound) || errors.Is(err, ErrOrderAlreadyAssigned)
}
