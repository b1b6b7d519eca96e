package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/order-service/internal/app/order/queries/get_order"
	"github.com/light-bringer/order-service/internal/app/order/queries/list_outbox"
	"github.com/light-bringer/order-service/internal/app/order/repo"
	"github.com/light-bringer/order-service/internal/app/order/usecases/create_order"
	"github.com/light-bringer/order-service/internal/pkg/backoff"
	"github.com/light-bringer/order-service/internal/pkg/clock"
	"github.com/light-bringer/order-service/internal/pkg/committer"
	"github.com/light-bringer/order-service/internal/publisher"
	httphandler "github.com/light-bringer/order-service/internal/transport/http"
	"github.com/light-bringer/order-service/internal/transport/messaging"
)

// Config holds the wiring knobs for the application.
type Config struct {
	SpannerDB string

	KafkaBrokers []string
	KafkaTopic   string

	PollInterval   time.Duration
	BatchSize      int
	MaxAttempts    int64
	BackoffBase    time.Duration
	BackoffCap     time.Duration
	ClaimTTL       time.Duration
	StorageTimeout time.Duration
}

// ServiceOptions holds all dependencies for the application.
type ServiceOptions struct {
	SpannerClient *spanner.Client

	OrdersHandler *httphandler.OrdersHandler
	OutboxHandler *httphandler.OutboxHandler
	Publisher     *publisher.Publisher

	kafkaPublisher *messaging.KafkaPublisher
}

// NewServiceOptions creates and wires up all application dependencies.
// The workflow receives concrete store and outbox handles here, at
// process start, rather than through any runtime container.
func NewServiceOptions(ctx context.Context, cfg Config, logger *slog.Logger) (*ServiceOptions, error) {
	// 1. Initialize Spanner client
	spannerClient, err := spanner.NewClient(ctx, cfg.SpannerDB)
	if err != nil {
		return nil, fmt.Errorf("failed to create Spanner client: %w", err)
	}

	// 2. Create infrastructure components
	clk := clock.NewRealClock()
	comm := committer.NewCommitter(spannerClient)

	retryPolicy := repo.DefaultRetryPolicy()
	if cfg.MaxAttempts > 0 {
		retryPolicy.MaxAttempts = cfg.MaxAttempts
	}
	if cfg.BackoffBase > 0 && cfg.BackoffCap > 0 {
		retryPolicy.Delay = backoff.Exponential(cfg.BackoffBase, cfg.BackoffCap)
	}
	if cfg.ClaimTTL > 0 {
		retryPolicy.ClaimTTL = cfg.ClaimTTL
	}

	// 3. Create repositories
	orderRepo := repo.NewOrderRepo(spannerClient)
	outboxRepo := repo.NewOutboxRepo(spannerClient, clk, retryPolicy)
	outboxReadModel := repo.NewOutboxReadModel(spannerClient)

	// 4. Create the message channel adapter; without brokers the events
	// are logged in-process and the outbox still records every delivery
	var channel publisher.MessagePublisher
	var kafkaPublisher *messaging.KafkaPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher = messaging.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		channel = kafkaPublisher
	} else {
		logger.Warn("no kafka brokers configured, publishing to log only")
		channel = messaging.NewLogPublisher(logger)
	}

	// 5. Create the outbox publisher
	pub := publisher.New(outboxRepo, channel, logger, publisher.Config{
		PollInterval:   cfg.PollInterval,
		BatchSize:      cfg.BatchSize,
		PublishTimeout: cfg.StorageTimeout,
	})

	// 6. Create use cases and queries
	createOrderUseCase := create_order.NewInteractor(orderRepo, outboxRepo, comm, clk, pub, cfg.StorageTimeout)
	getOrderQuery := get_order.NewQuery(orderRepo)
	listOutboxQuery := list_outbox.NewQuery(outboxReadModel)

	// 7. Create HTTP handlers
	ordersHandler := httphandler.NewOrdersHandler(createOrderUseCase, getOrderQuery, logger)
	outboxHandler := httphandler.NewOutboxHandler(listOutboxQuery)

	return &ServiceOptions{
		SpannerClient:  spannerClient,
		OrdersHandler:  ordersHandler,
		OutboxHandler:  outboxHandler,
		Publisher:      pub,
		kafkaPublisher: kafkaPublisher,
	}, nil
}

// Close closes all resources.
func (s *ServiceOptions) Close() {
	if s.kafkaPublisher != nil {
		_ = s.kafkaPublisher.Close()
	}
	if s.SpannerClient != nil {
		s.SpannerClient.Close()
	}
}
