package notification

import (
	"mealdelivery/internal/core/domain/model/account"
	"mealdelivery/internal/core/domain/model/kernel"
	"mealdelivery/internal/pkg/errs"
)

// Channel is a named fan-out destination.
type Channel string

// AdminChannel is shared by every administrator session.
const AdminChannel Channel = "admin"

// ClientChannel returns the private channel of one client, "client-<id>".
func ClientChannel(clientID kernel.UUID) Channel {
	return Channel("client-" + clientID.String())
}

// AgentChannel returns the private channel of one delivery agent, "agent-<id>".
func AgentChannel(agentID kernel.UUID) Channel {
	return Channel("agent-" + agentID.String())
}

// ChannelFor is the single channel an actor may listen on. Anonymous callers
// get an AccessDeniedError.
func ChannelFor(actor account.Actor) (Channel, error) {
	switch actor.Role() {
	case account.RoleAdmin:
		return AdminChannel, nil
	case account.RoleClient:
		return ClientChannel(actor.ID()), nil
	case account.RoleAgent:
		return AgentChannel(actor.ID()), nil
	default:
		return "", errs.NewAccessDeniedError("subscribe to notifications")
	}
}

// String returns the channel name used as the broker topic.
func (c Channel) String() string {
	return string(c)
}
