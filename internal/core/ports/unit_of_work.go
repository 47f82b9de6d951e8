package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork per command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// Repositories obtained from it share the transaction started by Begin;
// before Begin they run on the plain connection pool.
type UnitOfWork interface {
	// Begin starts a database transaction. Once started, the transaction is
	// not aborted by cancellation of ctx; it ends only by Commit or Rollback.
	Begin(ctx context.Context) error

	// Commit returns an error if no transaction is active.
	Commit(ctx context.Context) error

	// Rollback returns an error if no transaction is active.
	Rollback(ctx context.Context) error

	// OrderRepository returns the order store bound to this unit of work.
	OrderRepository() OrderRepository

	// AccountRepository returns the agent read side bound to this unit of work.
	AccountRepository() AccountRepository

	// DishCatalog returns the menu lookup bound to this unit of work.
	DishCatalog() DishCatalog
}
