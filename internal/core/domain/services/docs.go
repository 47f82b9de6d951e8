// Package services provides domain services whose rules span more than one
// aggregate.
//
// The package includes:
//   - AgentDispatcher: chooses the delivery agent for a ready order from the
//     current agent workloads, least loaded first, ties by lowest identifier.
//
// Services are pure: they neither load nor persist aggregates. The
// application layer feeds them data read inside a unit of work.
package services
