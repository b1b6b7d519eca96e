//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/order-service/internal/app/order/domain"
	"github.com/light-bringer/order-service/internal/app/order/repo"
	"github.com/light-bringer/order-service/tests/testutil"
)

func TestOrderRepository_InsertAndGet(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	repository := repo.NewOrderRepo(client)

	createdAt := time.Now().UTC().Truncate(time.Microsecond)
	order, err := domain.NewOrder("order-1", "customer-1", createdAt)
	require.NoError(t, err)

	_, err = client.Apply(ctx, []*spanner.Mutation{repository.InsertMut(order)})
	require.NoError(t, err)

	got, err := repository.GetByID(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, "order-1", got.ID())
	assert.Equal(t, "customer-1", got.CustomerID())
	assert.True(t, got.CreatedAt().Equal(createdAt))
}

func TestOrderRepository_GetByID_NotFound(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	repository := repo.NewOrderRepo(client)

	_, err := repository.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestOrderRepository_DuplicateInsertFails(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	repository := repo.NewOrderRepo(client)

	order, err := domain.NewOrder("order-1", "customer-1", time.Now().UTC())
	require.NoError(t, err)

	_, err = client.Apply(ctx, []*spanner.Mutation{repository.InsertMut(order)})
	require.NoError(t, err)

	// Same key again must fail the whole commit
	_, err = client.Apply(ctx, []*spanner.Mutation{repository.InsertMut(order)})
	require.Error(t, err)
	assert.Equal(t, codes.AlreadyExists, spanner.ErrCode(err))

	testutil.AssertRowCount(t, client, "orders", 1)
}

func TestOrderRepository_Exists(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	repository := repo.NewOrderRepo(client)

	orderID := testutil.CreateTestOrder(t, client, "customer-1")

	exists, err := repository.Exists(ctx, orderID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repository.Exists(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, exists)
}
