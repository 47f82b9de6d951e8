package notification

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind names what happened to an order.
type Kind string

// Event kinds, one per order lifecycle change that subscribers hear about.
const (
	OrderCreated       Kind = "order-created"
	OrderStatusChanged Kind = "order-status-changed"
	OrderAssigned      Kind = "order-assigned"
	OrderDelivered     Kind = "order-delivered"
)

// Event is the payload delivered to subscribers. It is also the wire format
// of every broker backend.
//
// ID is unique per logical event; the same event sent to several channels
// keeps its ID. Agent fields are set only once an agent is known.
type Event struct {
	ID         string          `json:"id"`
	Kind       Kind            `json:"kind"`
	OrderID    string          `json:"orderId"`
	Status     string          `json:"status"`
	Total      decimal.Decimal `json:"total"`
	AgentID    string          `json:"agentId,omitempty"`
	AgentName  string          `json:"agentName,omitempty"`
	Message    string          `json:"message"`
	OccurredAt time.Time       `json:"occurredAt"`
}
