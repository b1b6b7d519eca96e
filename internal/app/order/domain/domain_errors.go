package domain

import "errors"

// Domain errors as sentinel values
var (
	// Order errors
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderAlreadyExists = errors.New("order id already exists")
	ErrEmptyCustomerID    = errors.New("customer id cannot be empty")

	// Outbox errors
	ErrOutboxEntryNotFound = errors.New("outbox entry not found")
)
