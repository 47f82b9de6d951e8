// Package notification defines the order events pushed to live subscribers
// and the channels they travel on: one shared admin channel plus one
// channel per client and per delivery agent.
package notification
