package order

import "strings"

// Contact carries the optional delivery details a client leaves with an order.
type Contact struct {
	address string
	phone   string
	notes   string
}

// NewContact trims surrounding whitespace from every field. Empty fields are
// allowed.
func NewContact(address, phone, notes string) Contact {
	return Contact{
		address: strings.TrimSpace(address),
		phone:   strings.TrimSpace(phone),
		notes:   strings.TrimSpace(notes),
	}
}

// Address returns the delivery address.
func (c Contact) Address() string { return c.address }

// Phone returns the contact phone number.
func (c Contact) Phone() string { return c.phone }

// Notes returns free-text instructions for the restaurant or the agent.
func (c Contact) Notes() string { return c.notes }
