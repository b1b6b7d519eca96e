package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/order-service/internal/app/order/contracts"
	"github.com/light-bringer/order-service/internal/app/order/domain"
	"github.com/light-bringer/order-service/internal/models/m_order"
)

// OrderRepo implements OrderRepository for Spanner.
type OrderRepo struct {
	client *spanner.Client
	model  *m_order.Model
}

// NewOrderRepo creates a new OrderRepo.
func NewOrderRepo(client *spanner.Client) contracts.OrderRepository {
	return &OrderRepo{
		client: client,
		model:  m_order.NewModel(),
	}
}

// InsertMut creates a mutation for inserting a new order.
func (r *OrderRepo) InsertMut(order *domain.Order) *spanner.Mutation {
	data := &m_order.Data{
		OrderID:    order.ID(),
		CustomerID: order.CustomerID(),
		CreatedAt:  order.CreatedAt().UTC(),
	}
	return r.model.InsertMut(data)
}

// GetByID retrieves an order by ID, reconstructing the domain aggregate.
func (r *OrderRepo) GetByID(ctx context.Context, orderID string) (*domain.Order, error) {
	row, err := r.client.Single().ReadRow(ctx, m_order.TableName, spanner.Key{orderID}, []string{
		m_order.OrderID,
		m_order.CustomerID,
		m_order.CreatedAt,
	})
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to read order: %w", err)
	}

	var data m_order.Data
	if err := row.Columns(&data.OrderID, &data.CustomerID, &data.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse order: %w", err)
	}

	return domain.ReconstructOrder(data.OrderID, data.CustomerID, data.CreatedAt), nil
}

// Exists checks if an order exists.
func (r *OrderRepo) Exists(ctx context.Context, orderID string) (bool, error) {
	_, err := r.client.Single().ReadRow(ctx, m_order.TableName, spanner.Key{orderID}, []string{m_order.OrderID})
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to check order existence: %w", err)
	}
	return true, nil
}
