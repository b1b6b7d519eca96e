package create_order

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/order-service/internal/app/order/contracts"
	"github.com/light-bringer/order-service/internal/app/order/domain"
	"github.com/light-bringer/order-service/internal/pkg/clock"
	"github.com/light-bringer/order-service/internal/pkg/committer"
)

const defaultPersistTimeout = 5 * time.Second

// Request contains the data needed to create an order.
type Request struct {
	CustomerID string
}

// Response is returned to the caller once the order is durable.
// Event publication happens asynchronously and is not waited for.
type Response struct {
	OrderID    string
	CustomerID string
}

// Waker is notified after a successful commit so the outbox publisher
// can drain the new entry without waiting for its next poll tick.
type Waker interface {
	Wake()
}

// Interactor handles the create order use case.
type Interactor struct {
	repo           contracts.OrderRepository
	outboxRepo     contracts.OutboxRepository
	committer      committer.Applier
	clock          clock.Clock
	waker          Waker
	persistTimeout time.Duration
}

// NewInteractor creates a new create order interactor.
// waker may be nil when no publisher runs in-process.
func NewInteractor(
	repo contracts.OrderRepository,
	outboxRepo contracts.OutboxRepository,
	comm committer.Applier,
	clk clock.Clock,
	waker Waker,
	persistTimeout time.Duration,
) *Interactor {
	if persistTimeout <= 0 {
		persistTimeout = defaultPersistTimeout
	}
	return &Interactor{
		repo:           repo,
		outboxRepo:     outboxRepo,
		committer:      comm,
		clock:          clk,
		waker:          waker,
		persistTimeout: persistTimeout,
	}
}

// Execute creates a new order and its outbox entry in one atomic commit.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Validate request (terminal, no side effects)
	if err := i.validate(req); err != nil {
		return nil, err
	}

	// 2. Create the domain aggregate
	orderID := uuid.New().String()
	now := i.clock.Now()

	order, err := domain.NewOrder(orderID, req.CustomerID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// 3. Serialize the creation event for the outbox payload
	payload, err := i.serializeEvent(order.CreatedEvent())
	if err != nil {
		return nil, fmt.Errorf("failed to serialize event: %w", err)
	}

	// 4. Compose both writes into a single commit plan
	plan := committer.NewPlan()
	plan.Add(i.repo.InsertMut(order))

	entry := i.outboxRepo.NewEntry(order, payload)
	plan.Add(i.outboxRepo.InsertMut(entry))

	// 5. Apply atomically. The commit runs on a context detached from the
	// caller: once persistence starts, a client disconnect must not leave
	// the operation half-cancelled.
	applyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), i.persistTimeout)
	defer cancel()

	if err := i.committer.Apply(applyCtx, plan); err != nil {
		if spanner.ErrCode(err) == codes.AlreadyExists {
			return nil, domain.ErrOrderAlreadyExists
		}
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	// 6. Nudge the publisher; delivery itself stays asynchronous
	if i.waker != nil {
		i.waker.Wake()
	}

	return &Response{
		OrderID:    order.ID(),
		CustomerID: order.CustomerID(),
	}, nil
}

// validate validates the request.
func (i *Interactor) validate(req *Request) error {
	if strings.TrimSpace(req.CustomerID) == "" {
		return domain.ErrEmptyCustomerID
	}
	return nil
}

// serializeEvent converts a domain event to a JSON payload.
// Struct marshaling emits fields in declaration order, so the same event
// always serializes to the same bytes.
func (i *Interactor) serializeEvent(event domain.DomainEvent) (string, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
