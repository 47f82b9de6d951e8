// Package order contains the Order aggregate and its lifecycle.
//
// An order is placed by a client (or a guest) against a single restaurant.
// It snapshots dish prices into immutable lines, then moves along a fixed
// transition graph (see Status) until it is delivered or cancelled. A
// delivery agent is attached once the order is ready, either automatically
// or by an administrator.
//
// Cross-aggregate rules, such as which dishes an order may contain or who
// may move it, live in the application layer.
package order
