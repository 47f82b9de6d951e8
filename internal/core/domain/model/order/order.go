package order

import (
	"errors"
	"fmt"
	"time"

	"mealdelivery/internal/core/domain/model/kernel"
	"mealdelivery/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderIsNotConstructed is returned by Validate for an Order that did
	// not come from NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	// ErrLinesAreRequired rejects an order without a single line.
	ErrLinesAreRequired = errs.NewValueIsRequiredError("lines")

	// ErrAgentAlreadyAssigned is the cause when Assign finds an agent already attached.
	ErrAgentAlreadyAssigned = errors.New("order already has a delivery agent")

	// ErrOrderIsNotReady is the cause when an agent is attached before the order is ready.
	ErrOrderIsNotReady = errors.New("order is not ready for pickup")

	// ErrOrderIsClosed is the cause when a terminal order is reassigned.
	ErrOrderIsClosed = errors.New("order is delivered or cancelled")

	// ErrTotalMismatch flags a stored row whose total disagrees with its lines.
	ErrTotalMismatch = errors.New("total does not match the sum of line subtotals")

	// ErrDeliveredAtInconsistent flags a stored row whose delivery timestamp
	// disagrees with its status.
	ErrDeliveredAtInconsistent = errors.New("delivery timestamp must be set exactly when the order is delivered")
)

// Order is the aggregate root of the ordering flow. Its lines and total are
// fixed at creation; afterwards only the status, the assigned agent and the
// delivery timestamp change.
type Order struct {
	id           kernel.UUID
	restaurantID kernel.UUID
	clientID     *kernel.UUID
	lines        []Line
	total        decimal.Decimal
	contact      Contact
	status       Status
	agentID      *kernel.UUID
	createdAt    time.Time
	deliveredAt  *time.Time

	isConstructed bool
}

// NewOrder places a pending order. A nil clientID marks a guest order.
//
// Parameters:
//   - id: identifier of the new order
//   - restaurantID: the single restaurant every line belongs to
//   - clientID: the ordering client, or nil for a guest
//   - lines: at least one priced line; the total is their sum
//   - contact: optional delivery details
//   - createdAt: placement time, stored in UTC
//
// Example:
//
//	line, _ := NewLine(kernel.NewUUID(), dishID, 2, decimal.RequireFromString("12.50"))
//	o, err := NewOrder(kernel.NewUUID(), restaurantID, &clientID, []Line{line}, NewContact("1 Main St", "", ""), time.Now())
//	if err != nil {
//	    // missing lines, invalid identifiers or a total the store cannot hold
//	}
//
// The order starts in Pending with no agent and no delivery time.
func NewOrder(
	id, restaurantID kernel.UUID,
	clientID *kernel.UUID,
	lines []Line,
	contact Contact,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		contact:       contact,
		status:        Pending,
		createdAt:     createdAt.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setRestaurant(restaurantID),
		o.setClient(clientID),
		o.setLines(lines),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an order loaded from storage and re-checks the
// invariants the store is expected to hold.
func RestoreOrder(
	id, restaurantID kernel.UUID,
	clientID *kernel.UUID,
	lines []Line,
	contact Contact,
	total decimal.Decimal,
	status Status,
	agentID *kernel.UUID,
	createdAt time.Time,
	deliveredAt *time.Time,
) (*Order, error) {
	o, err := NewOrder(id, restaurantID, clientID, lines, contact, createdAt)
	if err != nil {
		return nil, err
	}
	if err = status.Validate(); err != nil {
		return nil, err
	}
	if !o.total.Equal(total) {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"total",
			fmt.Errorf("%w: stored %s, computed %s", ErrTotalMismatch, total, o.total),
		)
	}
	if (status == Delivered) != (deliveredAt != nil) {
		return nil, errs.NewValueIsInvalidErrorWithCause("delivered at", ErrDeliveredAtInconsistent)
	}
	if agentID != nil {
		if err = agentID.Validate(); err != nil {
			return nil, err
		}
		agent := *agentID
		o.agentID = &agent
	}

	o.status = status
	if deliveredAt != nil {
		at := deliveredAt.UTC()
		o.deliveredAt = &at
	}
	return o, nil
}

// Validate reports ErrOrderIsNotConstructed for a nil or zero-value Order.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// RestaurantID returns the restaurant the order was placed with.
func (o *Order) RestaurantID() kernel.UUID {
	return o.restaurantID
}

// ClientID returns the ordering client, or nil for a guest order.
func (o *Order) ClientID() *kernel.UUID {
	return o.clientID
}

// Total returns the sum of all line subtotals.
func (o *Order) Total() decimal.Decimal {
	return o.total
}

// Contact returns the delivery details left with the order.
func (o *Order) Contact() Contact {
	return o.contact
}

// Status returns the current lifecycle state.
func (o *Order) Status() Status {
	return o.status
}

// AgentID returns the assigned delivery agent, or nil while unassigned.
func (o *Order) AgentID() *kernel.UUID {
	return o.agentID
}

// CreatedAt returns the placement time in UTC.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// DeliveredAt returns when the order reached Delivered, or nil before that.
func (o *Order) DeliveredAt() *time.Time {
	return o.deliveredAt
}

// Lines returns a copy in ordering sequence.
func (o *Order) Lines() []Line {
	lines := make([]Line, len(o.lines))
	copy(lines, o.lines)
	return lines
}

// IsGuest reports whether the order was placed without a client account.
func (o *Order) IsGuest() bool {
	return o.clientID == nil
}

// HasAgent reports whether a delivery agent is attached.
func (o *Order) HasAgent() bool {
	return o.agentID != nil
}

// IsPlacedBy reports whether clientID placed the order. Guest orders belong
// to nobody.
func (o *Order) IsPlacedBy(clientID kernel.UUID) bool {
	return o.clientID != nil && o.clientID.IsEqual(clientID)
}

// IsAssignedTo reports whether agentID is the attached delivery agent.
func (o *Order) IsAssignedTo(agentID kernel.UUID) bool {
	return o.agentID != nil && o.agentID.IsEqual(agentID)
}

// ChangeStatus follows one edge of the transition graph. Reaching delivered
// stamps the delivery time.
//
// Returns:
//   - nil when the edge exists and the status was applied
//   - a ValueIsInvalidError wrapping ErrTransitionNotAllowed for a missing
//     edge, or ErrStatusIsUnknown for an unrecognized target
//
// Example:
//
//	if err := o.ChangeStatus(order.Ready, time.Now()); err != nil {
//	    // pending orders may skip ahead, closed orders never move
//	}
func (o *Order) ChangeStatus(target Status, now time.Time) error {
	next, err := o.status.TransitionTo(target)
	if err != nil {
		return err
	}

	o.status = next
	if next == Delivered {
		at := now.UTC()
		o.deliveredAt = &at
	}
	return nil
}

// Assign attaches the first agent to a ready order.
//
// This method enforces the following business rules:
//   - The agent ID must be valid
//   - The order must not already have an agent
//   - The order must be in Ready status
//
// Use Reassign for an administrator's override.
func (o *Order) Assign(agentID kernel.UUID) error {
	if err := agentID.Validate(); err != nil {
		return err
	}
	if o.agentID != nil {
		return errs.NewValueIsInvalidErrorWithCause("agent", ErrAgentAlreadyAssigned)
	}
	if o.status != Ready {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%w: status is %s", ErrOrderIsNotReady, o.status))
	}

	o.agentID = &agentID
	return nil
}

// Reassign replaces the agent of any open order, assigned or not. Delivered
// and cancelled orders keep the agent they had.
func (o *Order) Reassign(agentID kernel.UUID) error {
	if err := agentID.Validate(); err != nil {
		return err
	}
	if o.status.IsTerminal() {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%w: status is %s", ErrOrderIsClosed, o.status))
	}

	o.agentID = &agentID
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setRestaurant(restaurantID kernel.UUID) error {
	if err := restaurantID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("restaurant", err)
	}
	o.restaurantID = restaurantID
	return nil
}

func (o *Order) setClient(clientID *kernel.UUID) error {
	if clientID == nil {
		return nil
	}
	if err := clientID.Validate(); err != nil {
		return err
	}
	client := *clientID
	o.clientID = &client
	return nil
}

func (o *Order) setLines(lines []Line) error {
	if len(lines) == 0 {
		return ErrLinesAreRequired
	}

	total := decimal.Zero
	for i, line := range lines {
		if err := line.Validate(); err != nil {
			return fmt.Errorf("line %d: %w", i, err)
		}
		total = total.Add(line.Subtotal())
	}
	if total.GreaterThan(MaxAmount) {
		return errs.NewValueIsOutOfRangeError("total", total, decimal.Zero, MaxAmount)
	}

	o.lines = make([]Line, len(lines))
	copy(o.lines, lines)
	o.total = total
	return nil
}
