package testutil

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/order-service/internal/models/m_order"
)

// CreateTestOrder creates a test order directly in the database.
func CreateTestOrder(t *testing.T, client *spanner.Client, customerID string) string {
	t.Helper()

	ctx := context.Background()
	orderID := uuid.New().String()

	model := m_order.NewModel()
	data := &m_order.Data{
		OrderID:    orderID,
		CustomerID: customerID,
		CreatedAt:  time.Now().UTC(),
	}

	mutation := model.InsertMut(data)
	_, err := client.Apply(ctx, []*spanner.Mutation{mutation})
	require.NoError(t, err, "failed to create test order")

	return orderID
}
