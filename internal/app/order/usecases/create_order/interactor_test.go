package create_order

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/light-bringer/order-service/internal/app/order/contracts"
	"github.com/light-bringer/order-service/internal/app/order/domain"
	"github.com/light-bringer/order-service/internal/pkg/clock"
	"github.com/light-bringer/order-service/internal/pkg/committer"
)

type fakeOrderRepo struct {
	inserted []*domain.Order
}

func (f *fakeOrderRepo) InsertMut(order *domain.Order) *spanner.Mutation {
	f.inserted = append(f.inserted, order)
	return spanner.Insert("orders",
		[]string{"order_id", "customer_id", "created_at"},
		[]interface{}{order.ID(), order.CustomerID(), order.CreatedAt()})
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, orderID string) (*domain.Order, error) {
	return nil, domain.ErrOrderNotFound
}

func (f *fakeOrderRepo) Exists(ctx context.Context, orderID string) (bool, error) {
	return false, nil
}

type fakeOutboxRepo struct {
	entries []*contracts.OutboxEntry
}

func (f *fakeOutboxRepo) NewEntry(order *domain.Order, payload string) *contracts.OutboxEntry {
	entry := &contracts.OutboxEntry{
		EntryID:     uuid.New().String(),
		OrderID:     order.ID(),
		Payload:     payload,
		Status:      "pending",
		ScheduledAt: order.CreatedAt(),
	}
	f.entries = append(f.entries, entry)
	return entry
}

func (f *fakeOutboxRepo) InsertMut(entry *contracts.OutboxEntry) *spanner.Mutation {
	return spanner.Insert("outbox_entries",
		[]string{"entry_id", "order_id", "status"},
		[]interface{}{entry.EntryID, entry.OrderID, entry.Status})
}

func (f *fakeOutboxRepo) ClaimPending(ctx context.Context, limit int) ([]*contracts.OutboxEntry, error) {
	return nil, nil
}

func (f *fakeOutboxRepo) MarkPublished(ctx context.Context, entry *contracts.OutboxEntry) error {
	return nil
}

func (f *fakeOutboxRepo) MarkFailed(ctx context.Context, entry *contracts.OutboxEntry, cause error) (bool, error) {
	return false, nil
}

type fakeApplier struct {
	plans []*committer.CommitPlan
	err   error
}

func (f *fakeApplier) Apply(ctx context.Context, plan *committer.CommitPlan) error {
	f.plans = append(f.plans, plan)
	return f.err
}

type fakeWaker struct {
	calls int
}

func (f *fakeWaker) Wake() {
	f.calls++
}

func newTestInteractor(applier *fakeApplier) (*Interactor, *fakeOrderRepo, *fakeOutboxRepo, *fakeWaker) {
	orderRepo := &fakeOrderRepo{}
	outboxRepo := &fakeOutboxRepo{}
	waker := &fakeWaker{}
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	return NewInteractor(orderRepo, outboxRepo, applier, clk, waker, 0), orderRepo, outboxRepo, waker
}

func TestInteractor_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("creates order and outbox entry in one plan", func(t *testing.T) {
		applier := &fakeApplier{}
		interactor, orderRepo, outboxRepo, waker := newTestInteractor(applier)

		resp, err := interactor.Execute(ctx, &Request{CustomerID: "customer-1"})
		require.NoError(t, err)
		require.NotNil(t, resp)
		assert.NotEmpty(t, resp.OrderID)
		assert.Equal(t, "customer-1", resp.CustomerID)

		// Both writes land in a single commit plan
		require.Len(t, applier.plans, 1)
		assert.Equal(t, 2, applier.plans[0].Count())

		require.Len(t, orderRepo.inserted, 1)
		assert.Equal(t, resp.OrderID, orderRepo.inserted[0].ID())

		require.Len(t, outboxRepo.entries, 1)
		assert.Equal(t, resp.OrderID, outboxRepo.entries[0].OrderID)
		assert.Equal(t, 1, waker.calls)
	})

	t.Run("outbox payload carries the creation event", func(t *testing.T) {
		applier := &fakeApplier{}
		interactor, _, outboxRepo, _ := newTestInteractor(applier)

		resp, err := interactor.Execute(ctx, &Request{CustomerID: "customer-1"})
		require.NoError(t, err)

		var event map[string]any
		require.NoError(t, json.Unmarshal([]byte(outboxRepo.entries[0].Payload), &event))
		assert.Equal(t, resp.OrderID, event["order_id"])
		assert.Equal(t, "customer-1", event["customer_id"])
		assert.Equal(t, "2025-06-01T12:00:00Z", event["created_at"])
	})

	t.Run("empty customer is rejected before any write", func(t *testing.T) {
		applier := &fakeApplier{}
		interactor, orderRepo, outboxRepo, waker := newTestInteractor(applier)

		_, err := interactor.Execute(ctx, &Request{CustomerID: "   "})
		assert.ErrorIs(t, err, domain.ErrEmptyCustomerID)
		assert.Empty(t, applier.plans)
		assert.Empty(t, orderRepo.inserted)
		assert.Empty(t, outboxRepo.entries)
		assert.Zero(t, waker.calls)
	})

	t.Run("duplicate id maps to ErrOrderAlreadyExists", func(t *testing.T) {
		applier := &fakeApplier{err: status.Error(codes.AlreadyExists, "row exists")}
		interactor, _, _, waker := newTestInteractor(applier)

		_, err := interactor.Execute(ctx, &Request{CustomerID: "customer-1"})
		assert.ErrorIs(t, err, domain.ErrOrderAlreadyExists)
		assert.Zero(t, waker.calls)
	})

	t.Run("commit failure surfaces and skips the wake", func(t *testing.T) {
		applier := &fakeApplier{err: errors.New("spanner unavailable")}
		interactor, _, _, waker := newTestInteractor(applier)

		_, err := interactor.Execute(ctx, &Request{CustomerID: "customer-1"})
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrOrderAlreadyExists)
		assert.Zero(t, waker.calls)
	})

	t.Run("nil waker is tolerated", func(t *testing.T) {
		applier := &fakeApplier{}
		orderRepo := &fakeOrderRepo{}
		outboxRepo := &fakeOutboxRepo{}
		clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
		interactor := NewInteractor(orderRepo, outboxRepo, applier, clk, nil, 0)

		_, err := interactor.Execute(ctx, &Request{CustomerID: "customer-1"})
		require.NoError(t, err)
	})
}

func TestInteractor_Execute_UniqueOrderIDs(t *testing.T) {
	applier := &fakeApplier{}
	interactor, _, _, _ := newTestInteractor(applier)

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		resp, err := interactor.Execute(context.Background(), &Request{CustomerID: "customer-1"})
		require.NoError(t, err)
		assert.False(t, seen[resp.OrderID])
		seen[resp.OrderID] = true
	}
}
