// Package dishrepo reads the menu catalog maintained by the restaurant side.
package dishrepo

import (
	"mealdelivery/internal/core/domain/model/catalog"
	"mealdelivery/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DishDTO maps a row of the dishes table.
type DishDTO struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	RestaurantID uuid.UUID       `gorm:"type:uuid;not null"`
	Name         string          `gorm:"not null"`
	Price        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Available    bool            `gorm:"not null"`
}

// TableName binds DishDTO to the dishes table.
func (DishDTO) TableName() string {
	return "dishes"
}

func toDomain(dto DishDTO) (*catalog.Dish, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	restaurantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return nil, err
	}
	return catalog.NewDish(id, restaurantID, dto.Name, dto.Price, dto.Available)
}
