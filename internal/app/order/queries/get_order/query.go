package get_order

import (
	"context"
	"time"

	"github.com/light-bringer/order-service/internal/app/order/contracts"
)

// Request contains the order ID to retrieve.
type Request struct {
	OrderID string
}

// Response is the read-side view of an order.
type Response struct {
	OrderID    string
	CustomerID string
	CreatedAt  time.Time
}

// Query handles the get order query use case.
type Query struct {
	repo contracts.OrderRepository
}

// NewQuery creates a new get order query.
func NewQuery(repo contracts.OrderRepository) *Query {
	return &Query{
		repo: repo,
	}
}

// Execute retrieves an order by ID.
func (q *Query) Execute(ctx context.Context, req *Request) (*Response, error) {
	order, err := q.repo.GetByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	return &Response{
		OrderID:    order.ID(),
		CustomerID: order.CustomerID(),
		CreatedAt:  order.CreatedAt(),
	}, nil
}
