// Package account models the identities that act on orders: administrators,
// clients and delivery agents. Account records are owned by another
// subsystem; this package only carries what ordering needs from them.
package account
