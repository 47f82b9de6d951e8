package order

import (
	"errors"
	"fmt"
	"math"

	"mealdelivery/internal/core/domain/model/kernel"
	"mealdelivery/internal/pkg/errs"
	"mealdelivery/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// MaxQuantity is the largest quantity the order store can hold.
const MaxQuantity = math.MaxInt32

// MaxAmount is the largest price, subtotal or total the order store can hold.
var MaxAmount = decimal.RequireFromString("9999999999.99")

var (
	// ErrLineIsNotConstructed is returned by Validate for a zero-value Line.
	ErrLineIsNotConstructed = errors.New("Line must be created via NewLine or RestoreLine")

	// ErrQuantityIsInvalid is the cause for a zero or negative quantity.
	ErrQuantityIsInvalid = errors.New("quantity must be positive")

	// ErrPriceIsNegative is the cause for a negative unit price.
	ErrPriceIsNegative = errors.New("unit price must not be negative")

	// ErrSubtotalMismatch flags a stored subtotal that disagrees with price times quantity.
	ErrSubtotalMismatch = errors.New("subtotal does not match unit price times quantity")
)

// Line is one dish within an order. The unit price is captured at ordering
// time and never follows later catalog changes.
type Line struct {
	id        kernel.UUID
	dishID    kernel.UUID
	quantity  int
	unitPrice decimal.Decimal
	subtotal  decimal.Decimal
	guard     guard.ConstructorGuard
}

// NewLine prices quantity units of a dish at unitPrice. The quantity must lie
// in [1, MaxQuantity] and the resulting subtotal must not exceed MaxAmount.
func NewLine(id, dishID kernel.UUID, quantity int, unitPrice decimal.Decimal) (Line, error) {
	if err := errors.Join(id.Validate(), dishID.Validate()); err != nil {
		return Line{}, err
	}
	if quantity <= 0 {
		return Line{}, errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%w: got %d", ErrQuantityIsInvalid, quantity))
	}
	if quantity > MaxQuantity {
		return Line{}, errs.NewValueIsOutOfRangeError("quantity", quantity, 1, MaxQuantity)
	}
	if unitPrice.IsNegative() {
		return Line{}, errs.NewValueIsInvalidErrorWithCause("unit price", fmt.Errorf("%w: got %s", ErrPriceIsNegative, unitPrice))
	}

	subtotal := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	if subtotal.GreaterThan(MaxAmount) {
		return Line{}, errs.NewValueIsOutOfRangeError("subtotal", subtotal, decimal.Zero, MaxAmount)
	}

	return Line{
		id:        id,
		dishID:    dishID,
		quantity:  quantity,
		unitPrice: unitPrice,
		subtotal:  subtotal,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// RestoreLine rebuilds a persisted line and checks the stored subtotal.
func RestoreLine(id, dishID kernel.UUID, quantity int, unitPrice, subtotal decimal.Decimal) (Line, error) {
	line, err := NewLine(id, dishID, quantity, unitPrice)
	if err != nil {
		return Line{}, err
	}
	if !line.subtotal.Equal(subtotal) {
		return Line{}, errs.NewValueIsInvalidErrorWithCause(
			"subtotal",
			fmt.Errorf("%w: stored %s, computed %s", ErrSubtotalMismatch, subtotal, line.subtotal),
		)
	}
	return line, nil
}

// Validate reports whether the line was built by NewLine or RestoreLine.
func (l Line) Validate() error {
	return l.guard.Validate(ErrLineIsNotConstructed)
}

// ID returns the line's identifier.
func (l Line) ID() kernel.UUID { return l.id }

// DishID returns the ordered dish.
func (l Line) DishID() kernel.UUID { return l.dishID }

// Quantity returns how many units were ordered.
func (l Line) Quantity() int { return l.quantity }

// UnitPrice returns the dish price captured when the order was placed.
func (l Line) UnitPrice() decimal.Decimal { return l.unitPrice }

// Subtotal returns UnitPrice times Quantity.
func (l Line) Subtotal() decimal.Decimal { return l.subtotal }
