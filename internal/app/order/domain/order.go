package domain

import (
	"strings"
	"time"
)

// Order is the order aggregate. Unlike most aggregates it is immutable:
// every field is fixed at creation time and the store never updates it.
type Order struct {
	id         string
	customerID string
	createdAt  time.Time
}

// NewOrder creates a new order with the given identity and creation time.
// The caller owns id generation; createdAt is set once and never changes.
func NewOrder(id, customerID string, createdAt time.Time) (*Order, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, ErrEmptyCustomerID
	}

	return &Order{
		id:         id,
		customerID: customerID,
		createdAt:  createdAt,
	}, nil
}

// ReconstructOrder rebuilds an order from persisted state.
// It bypasses validation; rows in the store were validated on the way in.
func ReconstructOrder(id, customerID string, createdAt time.Time) *Order {
	return &Order{
		id:         id,
		customerID: customerID,
		createdAt:  createdAt,
	}
}

// ID returns the order identifier.
func (o *Order) ID() string {
	return o.id
}

// CustomerID returns the customer identifier.
func (o *Order) CustomerID() string {
	return o.customerID
}

// CreatedAt returns the creation timestamp.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// CreatedEvent returns the domain event emitted by the order's creation.
func (o *Order) CreatedEvent() *OrderCreatedEvent {
	return &OrderCreatedEvent{
		OrderID:    o.id,
		CustomerID: o.customerID,
		CreatedAt:  o.createdAt,
	}
}
