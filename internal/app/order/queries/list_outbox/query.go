package list_outbox

import (
	"context"

	"github.com/light-bringer/order-service/internal/app/order/contracts"
)

// Request contains filters for listing outbox entries.
type Request struct {
	OrderID *string
	Status  *string
	Limit   int64
}

// Query handles the list outbox entries query use case.
type Query struct {
	readModel contracts.OutboxReadModel
}

// NewQuery creates a new list outbox query.
func NewQuery(readModel contracts.OutboxReadModel) *Query {
	return &Query{
		readModel: readModel,
	}
}

// Execute retrieves outbox entries matching the request filters.
func (q *Query) Execute(ctx context.Context, req *Request) ([]*contracts.OutboxEntry, int64, error) {
	return q.readModel.ListEntries(ctx, &contracts.OutboxListFilter{
		OrderID: req.OrderID,
		Status:  req.Status,
		Limit:   req.Limit,
	})
}
