package contracts

import (
	"context"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/order-service/internal/app/order/domain"
)

// OrderRepository defines the interface for order persistence.
// Repositories return mutations, they don't apply them; the usecase
// composes the order write with its outbox write in one commit.
type OrderRepository interface {
	// InsertMut creates a mutation for inserting a new order.
	// The underlying insert fails the commit with AlreadyExists if the
	// order id is already taken.
	InsertMut(order *domain.Order) *spanner.Mutation

	// GetByID retrieves an order by ID, reconstructing the domain aggregate.
	// Returns domain.ErrOrderNotFound if no such order exists.
	GetByID(ctx context.Context, orderID string) (*domain.Order, error)

	// Exists checks if an order exists.
	Exists(ctx context.Context, orderID string) (bool, error)
}
