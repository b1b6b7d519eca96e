package domain

import "time"

// DomainEvent is the base interface for all domain events.
type DomainEvent interface {
	EventType() string
	AggregateID() string
}

// OrderCreatedEvent is emitted when an order is created.
// The payload carries the order id so downstream consumers can
// deduplicate redelivered events.
type OrderCreatedEvent struct {
	OrderID    string    `json:"order_id"`
	CustomerID string    `json:"customer_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (e *OrderCreatedEvent) EventType() string {
	return "order.created"
}

func (e *OrderCreatedEvent) AggregateID() string {
	return e.OrderID
}
