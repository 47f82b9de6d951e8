// Package kernel holds the primitives shared by every aggregate of the
// meal delivery domain. Currently that is the UUID value object used for
// order, account, restaurant and dish identities.
package kernel
