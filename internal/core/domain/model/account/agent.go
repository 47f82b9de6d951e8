package account

import (
	"errors"
	"strings"

	"mealdelivery/internal/core/domain/model/kernel"
	"mealdelivery/internal/pkg/errs"
)

// ErrAgentNameIsRequired rejects an agent with a blank name.
var ErrAgentNameIsRequired = errs.NewValueIsRequiredError("agent name")

// Agent is an account with the agent role as seen by order assignment.
type Agent struct {
	id   kernel.UUID
	name string
}

// NewAgent trims name and rejects it when blank.
func NewAgent(id kernel.UUID, name string) (*Agent, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrAgentNameIsRequired
	}
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return &Agent{id: id, name: name}, nil
}

// ID returns the agent's account identity.
func (a *Agent) ID() kernel.UUID { return a.id }

// Name returns the display name shown to clients and administrators.
func (a *Agent) Name() string { return a.name }

// IsEqual compares agents by identity.
func (a *Agent) IsEqual(other *Agent) bool {
	return other != nil && a.id.IsEqual(other.id)
}

// Workload pairs an agent with the number of ready orders currently
// assigned to it.
type Workload struct {
	Agent       *Agent
	ReadyOrders int
}

// ErrWorkloadIsInvalid is returned by Workload.Validate.
var ErrWorkloadIsInvalid = errors.New("workload must reference an agent and have a non-negative count")

// Validate requires an agent and a non-negative count.
func (w Workload) Validate() error {
	if w.Agent == nil || w.ReadyOrders < 0 {
		return ErrWorkloadIsInvalid
	}
	return nil
}
