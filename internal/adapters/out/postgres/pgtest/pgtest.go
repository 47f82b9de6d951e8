// Package pgtest starts a disposable PostgreSQL with the service schema
// applied, for integration tests of the persistence adapters.
package pgtest

import (
	"context"
	"fmt"
	"time"

	"mealdelivery/internal/adapters/out/postgres/accountrepo"
	"mealdelivery/internal/adapters/out/postgres/dishrepo"
	"mealdelivery/internal/adapters/out/postgres/migrations"
	"mealdelivery/internal/core/domain/model/account"
	"mealdelivery/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database is a running container with an open gorm handle.
type Database struct {
	Container *postgres.PostgresContainer
	DB        *gorm.DB
	DSN       string
}

// Start runs postgres:15-alpine and migrates it to the latest schema.
func Start(ctx context.Context) (*Database, error) {
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start postgres container: %w", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	if err = migrations.Up(dsn); err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	return &Database{Container: container, DB: db, DSN: dsn}, nil
}

// Terminate closes the connection pool and removes the container.
func (d *Database) Terminate(ctx context.Context) error {
	if sqlDB, err := d.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return d.Container.Terminate(ctx)
}

// Reset empties every table.
func (d *Database) Reset() error {
	return d.DB.Exec("TRUNCATE TABLE order_lines, orders, dishes, accounts").Error
}

// SeedAccount inserts an account with a fresh identity.
func (d *Database) SeedAccount(name string, role account.Role) (kernel.UUID, error) {
	id := kernel.NewUUID()
	err := d.DB.Create(&accountrepo.AccountDTO{ID: id.Bytes(), Name: name, Role: role.String()}).Error
	return id, err
}

// SeedDish inserts a dish priced from a decimal string.
func (d *Database) SeedDish(restaurantID kernel.UUID, name, price string, available bool) (kernel.UUID, error) {
	id := kernel.NewUUID()
	err := d.DB.Create(&dishrepo.DishDTO{
		ID:           id.Bytes(),
		RestaurantID: restaurantID.Bytes(),
		Name:         name,
		Price:        decimal.RequireFromString(price),
		Available:    available,
	}).Error
	return id, err
}
