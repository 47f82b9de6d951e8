package dishrepo

import (
	"context"
	"errors"

	"mealdelivery/internal/core/domain/model/catalog"
	"mealdelivery/internal/core/domain/model/kernel"
	"mealdelivery/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDishCatalog implements ports.DishCatalog. Inside a transaction the
// dish row is share-locked so its price and availability cannot change
// before the order commits.
type GormDishCatalog struct {
	db *gorm.DB
}

// NewGormDishCatalog reads through db, which may be a transaction.
func NewGormDishCatalog(db *gorm.DB) *GormDishCatalog {
	return &GormDishCatalog{db: db}
}

// Get returns an ObjectNotFoundError for unknown dishes.
func (c *GormDishCatalog) Get(ctx context.Context, id kernel.UUID) (*catalog.Dish, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DishDTO
	err := c.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "SHARE"}).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("dish", id.String())
		}
		return nil, err
	}
	return toDomain(dto)
}
