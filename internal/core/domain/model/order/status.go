package order

import (
	"errors"
	"fmt"

	"mealdelivery/internal/pkg/errs"
)

var (
	// ErrStatusIsUnknown is the cause when a status name or value is outside
	// the lifecycle.
	ErrStatusIsUnknown = errors.New("status is not recognized")

	// ErrTransitionNotAllowed is the cause when no edge leads to the requested status.
	ErrTransitionNotAllowed = errors.New("status transition is not allowed")
)

// Status is the lifecycle state of an order.
//
//	pending ──> confirmed ──> preparing ──> ready ──> delivered
//	   │  └──────────┴───────────┴──────────┘            ▲
//	   │            (forward skips allowed)              │
//	   │                          preparing ─────────────┘
//	   └──> cancelled (from any non-terminal status)
//
// Delivered and cancelled are terminal.
type Status int

// Lifecycle states. Unknown is the zero value and never stored.
const (
	Unknown Status = iota
	Pending
	Confirmed
	Preparing
	Ready
	Delivered
	Cancelled
)

var statusNames = map[Status]string{
	Pending:   "pending",
	Confirmed: "confirmed",
	Preparing: "preparing",
	Ready:     "ready",
	Delivered: "delivered",
	Cancelled: "cancelled",
}

//nolint:exhaustive // terminal statuses have no outgoing edges
var transitions = map[Status][]Status{
	Pending:   {Confirmed, Preparing, Ready, Cancelled},
	Confirmed: {Preparing, Ready, Cancelled},
	Preparing: {Ready, Delivered, Cancelled},
	Ready:     {Delivered, Cancelled},
}

// ParseStatus accepts the lowercase wire names only.
func ParseStatus(name string) (Status, error) {
	for s, n := range statusNames {
		if n == name {
			return s, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%w: %q", ErrStatusIsUnknown, name))
}

// Validate rejects Unknown and any value outside the lifecycle.
func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%w: %d", ErrStatusIsUnknown, s))
	}
	return nil
}

// String returns the wire name, or "unknown".
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// CanTransitionTo reports whether the edge s -> target exists.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// TransitionTo returns target when the edge s -> target exists.
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return Unknown, err
	}
	if !s.CanTransitionTo(target) {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%w: %s -> %s", ErrTransitionNotAllowed, s, target),
		)
	}
	return target, nil
}
