// Package orderrepo persists order aggregates: one header row in "orders"
// and one row per line item in "order_lines".
package orderrepo

import (
	"errors"
	"time"

	"mealdelivery/internal/core/domain/model/kernel"
	"mealdelivery/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO maps the order header. Lines are loaded and written separately.
type OrderDTO struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ClientID     *uuid.UUID      `gorm:"type:uuid"`
	RestaurantID uuid.UUID       `gorm:"type:uuid;not null"`
	Total        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Status       string          `gorm:"type:varchar(16);not null"`
	Address      string
	Phone        string
	Notes        string
	AgentID      *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time  `gorm:"not null"`
	DeliveredAt  *time.Time
	Lines        []OrderLineDTO `gorm:"foreignKey:OrderID"`
}

// TableName binds OrderDTO to the orders table.
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderLineDTO keeps the line position so lines come back in placement order.
type OrderLineDTO struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null"`
	Position  int             `gorm:"not null"`
	DishID    uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Subtotal  decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

// TableName binds OrderLineDTO to the order_lines table.
func (OrderLineDTO) TableName() string {
	return "order_lines"
}

func fromDomain(o *order.Order) OrderDTO {
	lines := o.Lines()
	dto := OrderDTO{
		ID:           o.ID().Bytes(),
		ClientID:     uuidPtr(o.ClientID()),
		RestaurantID: o.RestaurantID().Bytes(),
		Total:        o.Total(),
		Status:       o.Status().String(),
		Address:      o.Contact().Address(),
		Phone:        o.Contact().Phone(),
		Notes:        o.Contact().Notes(),
		AgentID:      uuidPtr(o.AgentID()),
		CreatedAt:    o.CreatedAt(),
		DeliveredAt:  o.DeliveredAt(),
		Lines:        make([]OrderLineDTO, 0, len(lines)),
	}

	for i, l := range lines {
		dto.Lines = append(dto.Lines, OrderLineDTO{
			ID:        l.ID().Bytes(),
			OrderID:   dto.ID,
			Position:  i,
			DishID:    l.DishID().Bytes(),
			Quantity:  l.Quantity(),
			UnitPrice: l.UnitPrice(),
			Subtotal:  l.Subtotal(),
		})
	}
	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	restaurantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return nil, err
	}
	clientID, err := kernelPtr(dto.ClientID)
	if err != nil {
		return nil, err
	}
	agentID, err := kernelPtr(dto.AgentID)
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	lines := make([]order.Line, 0, len(dto.Lines))
	for _, l := range dto.Lines {
		line, lineErr := lineToDomain(l)
		if lineErr != nil {
			return nil, lineErr
		}
		lines = append(lines, line)
	}

	return order.RestoreOrder(
		id,
		restaurantID,
		clientID,
		lines,
		order.NewContact(dto.Address, dto.Phone, dto.Notes),
		dto.Total,
		status,
		agentID,
		dto.CreatedAt,
		dto.DeliveredAt,
	)
}

func lineToDomain(dto OrderLineDTO) (order.Line, error) {
	id, idErr := kernel.UUIDFromBytes(dto.ID[:])
	dishID, dishErr := kernel.UUIDFromBytes(dto.DishID[:])
	if err := errors.Join(idErr, dishErr); err != nil {
		return order.Line{}, err
	}
	return order.RestoreLine(id, dishID, dto.Quantity, dto.UnitPrice, dto.Subtotal)
}

func uuidPtr(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func kernelPtr(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
