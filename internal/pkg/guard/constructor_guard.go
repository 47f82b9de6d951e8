// Package guard detects domain values that bypassed their constructors.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the guarded object
// supplies no error of its own.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded into value objects. Its zero value marks an
// object that was declared rather than constructed.
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
//
// Example:
//
//	type Money struct {
//		guard.ConstructorGuard
//		amount decimal.Decimal
//	}
//
//	func NewMoney(amount decimal.Decimal) Money {
//		return Money{ConstructorGuard: guard.NewConstructorGuard(), amount: amount}
//	}
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns err (or ErrDefaultConstructorGuard when err is nil) for
// an unconstructed guard.
func (g ConstructorGuard) Validate(err error) error {
	if g.isConstructed {
		return nil
	}
	if err == nil {
		return ErrDefaultConstructorGuard
	}
	return err
}
