package commands

import (
	"errors"

	"mealdelivery/internal/pkg/errs"
	"mealdelivery/internal/pkg/guard"
)

// DefaultSweepBatchSize is how many waiting orders one scheduled sweep handles.
const DefaultSweepBatchSize = 50

// ErrAssignReadyOrdersCommandIsNotConstructed is returned by Validate for a zero-value AssignReadyOrdersCommand.
var ErrAssignReadyOrdersCommandIsNotConstructed = errors.New(
	"AssignReadyOrdersCommand must be created via NewAssignReadyOrdersCommand constructor",
)

// AssignReadyOrdersCommand retries assignment for ready orders that were
// left without an agent, at most batchSize per run.
type AssignReadyOrdersCommand struct {
	batchSize int

	guard guard.ConstructorGuard
}

// NewAssignReadyOrdersCommand requires a positive batch size.
func NewAssignReadyOrdersCommand(batchSize int) (AssignReadyOrdersCommand, error) {
	if batchSize <= 0 {
		return AssignReadyOrdersCommand{}, errs.NewValueIsInvalidError("batch size")
	}
	return AssignReadyOrdersCommand{batchSize: batchSize, guard: guard.NewConstructorGuard()}, nil
}

// Validate reports whether the command came from NewAssignReadyOrdersCommand.
func (c AssignReadyOrdersCommand) Validate() error {
	return c.guard.Validate(ErrAssignReadyOrdersCommandIsNotConstructed)
}

// BatchSize returns the maximum number of orders to attempt.
func (c AssignReadyOrdersCommand) BatchSize() int { return c.batchSize }
