package services

import (
	"errors"
	"fmt"

	"mealdelivery/internal/core/domain/model/account"
	"mealdelivery/internal/core/domain/model/order"
	"mealdelivery/internal/pkg/errs"
)

// ErrNoAgentAvailable is returned by Dispatch when there are no agents at all.
var ErrNoAgentAvailable = errors.New("no delivery agent available")

// AgentDispatcher picks the delivery agent for a ready order.
type AgentDispatcher struct{}

// NewAgentDispatcher creates a stateless dispatcher.
func NewAgentDispatcher() AgentDispatcher {
	return AgentDispatcher{}
}

// Dispatch returns the agent with the fewest ready orders. Ties go to the
// agent with the lowest identifier so repeated runs agree. The order itself
// is not modified; callers attach the agent once the choice is persisted.
//
// Parameters:
//   - o: a ready order without an agent
//   - workloads: every candidate agent with its current ready-order count
//
// Returns:
//   - the chosen agent
//   - ErrNoAgentAvailable when workloads is empty
//   - a validation error when o is not ready, already has an agent, or a
//     workload entry is malformed
//
// Example:
//
//	workloads, _ := accounts.GetAgentWorkloads(ctx)
//	agent, err := services.NewAgentDispatcher().Dispatch(o, workloads)
//	if errors.Is(err, services.ErrNoAgentAvailable) {
//	    // leave the order unassigned
//	}
func (d AgentDispatcher) Dispatch(o *order.Order, workloads []account.Workload) (*account.Agent, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if o.Status() != order.Ready {
		return nil, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%w: status is %s", order.ErrOrderIsNotReady, o.Status()))
	}
	if o.HasAgent() {
		return nil, errs.NewValueIsInvalidErrorWithCause("agent", order.ErrAgentAlreadyAssigned)
	}

	return d.leastLoaded(workloads)
}

func (d AgentDispatcher) leastLoaded(workloads []account.Workload) (*account.Agent, error) {
	var best *account.Workload

	for i := range workloads {
		w := &workloads[i]
		if err := w.Validate(); err != nil {
			return nil, err
		}

		if best == nil ||
			w.ReadyOrders < best.ReadyOrders ||
			(w.ReadyOrders == best.ReadyOrders && w.Agent.ID().Compare(best.Agent.ID()) < 0) {
			best = w
		}
	}

	if best == nil {
		return nil, ErrNoAgentAvailable
	}
	return best.Agent, nil
}
