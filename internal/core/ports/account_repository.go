package ports

import (
	"context"

	"mealdelivery/internal/core/domain/model/account"
	"mealdelivery/internal/core/domain/model/kernel"
)

// AccountRepository reads the account records the ordering flow depends on.
type AccountRepository interface {
	// GetAgent returns the agent with the given id or an object-not-found error
	// when no account with the agent role matches.
	GetAgent(ctx context.Context, id kernel.UUID) (*account.Agent, error)

	// GetAgentWorkloads lists every agent with its count of ready orders,
	// computed in one consistent read.
	GetAgentWorkloads(ctx context.Context) ([]account.Workload, error)

	// LockWorkloads serializes assignment decisions until the surrounding
	// transaction ends.
	LockWorkloads(ctx context.Context) error
}
