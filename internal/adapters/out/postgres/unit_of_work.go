// Package postgres implements the unit of work over GORM. Repositories
// handed out by a GormUnitOfWork share its transaction once Begin has been
// called and use the connection pool before that.
//
// Typical use inside a command handler:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if err := uow.OrderRepository().Add(ctx, o); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
//
// Rollback after a successful Commit returns gorm.ErrInvalidTransaction and
// changes nothing, which makes the deferred call safe.
package postgres

import (
	"context"

	"mealdelivery/internal/adapters/out/postgres/accountrepo"
	"mealdelivery/internal/adapters/out/postgres/dishrepo"
	"mealdelivery/internal/adapters/out/postgres/orderrepo"
	"mealdelivery/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory hands out units of work sharing one connection pool.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory over db.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create returns a unit of work with no transaction started.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

// GormUnitOfWork is not safe for concurrent use; create one per operation.
type GormUnitOfWork struct {
	db *gorm.DB
	tx *gorm.DB
}

// Begin is idempotent. The transaction is detached from ctx cancellation:
// once started it ends only through Commit or Rollback.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tx := uow.db.WithContext(context.WithoutCancel(ctx)).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	uow.tx = tx
	return nil
}

// Commit ends the transaction. Without an active transaction it returns
// gorm.ErrInvalidTransaction.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards the transaction. Without an active transaction it
// returns gorm.ErrInvalidTransaction and does nothing.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// OrderRepository returns an order store on the current transaction, or on
// the pool before Begin.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn())
}

// AccountRepository returns the agent read side on the current connection.
func (uow *GormUnitOfWork) AccountRepository() ports.AccountRepository {
	return accountrepo.NewGormAccountRepository(uow.conn())
}

// DishCatalog returns the menu lookup on the current connection.
func (uow *GormUnitOfWork) DishCatalog() ports.DishCatalog {
	return dishrepo.NewGormDishCatalog(uow.conn())
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
