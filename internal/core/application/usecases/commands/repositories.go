// Package commands contains the operations that change order state.
// Every handler follows the same shape: validate, open a unit of work,
// mutate aggregates, commit, then notify subscribers.
package commands

import (
	"context"

	"mealdelivery/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory exposes the order store of a unit of work.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// AccountRepoFactory exposes the agent read side of a unit of work.
	AccountRepoFactory interface {
		AccountRepository() ports.AccountRepository
	}

	// DishCatalogFactory exposes the menu lookup of a unit of work.
	DishCatalogFactory interface {
		DishCatalog() ports.DishCatalog
	}

	// OrderUoW covers order placement: catalog reads and order writes.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		DishCatalogFactory
	}

	// OrderUoWFactory creates one OrderUoW per order placement.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// UoW covers lifecycle changes that may involve agent assignment.
	UoW interface {
		TxManager
		OrderRepoFactory
		AccountRepoFactory
	}

	// UoWFactory creates one UoW per lifecycle command or assigned order.
	UoWFactory interface {
		Create() UoW
	}
)
