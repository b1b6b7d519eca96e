package messaging

import (
	"context"
	"log/slog"

	"github.com/light-bringer/order-service/internal/app/order/contracts"
)

// LogPublisher is a broker-less message channel for local development:
// it writes every event to the log and reports success. Outbox entries
// still go through the full claim/publish/mark cycle, so swapping in a
// real broker changes nothing else.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a log-only publisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the entry and acknowledges it.
func (p *LogPublisher) Publish(ctx context.Context, entry *contracts.OutboxEntry) error {
	p.logger.Info("order event published (log only)",
		"entry_id", entry.EntryID,
		"order_id", entry.OrderID,
		"payload", entry.Payload,
	)
	return nil
}
