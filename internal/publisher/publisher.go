// Package publisher drains the outbox and pushes order events to the
// message channel. Delivery is at-least-once: a crash between a
// successful publish and the status update causes a redelivery on the
// next cycle, which is why event payloads carry the order id for
// consumer-side deduplication.
package publisher

import (
	"context"
	"log/slog"
	"time"

	"github.com/light-bringer/order-service/internal/app/order/contracts"
)

// MessagePublisher is the outbound port to the message channel.
type MessagePublisher interface {
	// Publish delivers one outbox entry to the external channel.
	// It may be called more than once for the same entry; returning nil
	// means the channel acknowledged the delivery.
	Publish(ctx context.Context, entry *contracts.OutboxEntry) error
}

// Config holds publisher tuning knobs.
type Config struct {
	// PollInterval is the time between drain cycles. Default 1s.
	PollInterval time.Duration

	// BatchSize is the maximum entries claimed per cycle. Default 50.
	BatchSize int

	// PublishTimeout bounds each individual publish call. Default 5s.
	PublishTimeout time.Duration
}

// Publisher is the single background drain task of a process.
// Multiple process replicas may run concurrently; the outbox repository's
// claim transaction keeps them from double-publishing the same entry
// within a claim window.
type Publisher struct {
	outbox  contracts.OutboxRepository
	channel MessagePublisher
	logger  *slog.Logger

	pollInterval   time.Duration
	batchSize      int
	publishTimeout time.Duration

	wakeCh      chan struct{}
	discardedCh chan contracts.OutboxEntry
}

// New creates a publisher draining outbox into channel.
func New(outbox contracts.OutboxRepository, channel MessagePublisher, logger *slog.Logger, cfg Config) *Publisher {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 5 * time.Second
	}

	return &Publisher{
		outbox:         outbox,
		channel:        channel,
		logger:         logger,
		pollInterval:   cfg.PollInterval,
		batchSize:      cfg.BatchSize,
		publishTimeout: cfg.PublishTimeout,
		wakeCh:         make(chan struct{}, 1),
		discardedCh:    make(chan contracts.OutboxEntry, 128),
	}
}

// Wake nudges the publisher to drain immediately instead of waiting for
// the next poll tick. Non-blocking; a pending nudge is enough.
func (p *Publisher) Wake() {
	select {
	case p.wakeCh <- struct{}{}:
	default:
	}
}

// Discarded returns a channel receiving entries that exhausted their
// retry limit. Operators drain it for manual remediation; entries are
// also kept in the outbox table under the terminal failed status.
func (p *Publisher) Discarded() <-chan contracts.OutboxEntry {
	return p.discardedCh
}

// Run drains the outbox until ctx is cancelled.
func (p *Publisher) Run(ctx context.Context) {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()
	defer close(p.discardedCh)

	p.logger.Info("outbox publisher started",
		"poll_interval", p.pollInterval,
		"batch_size", p.batchSize,
	)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("outbox publisher stopped")
			return
		case <-ticker.C:
			p.drainOnce(ctx)
		case <-p.wakeCh:
			p.drainOnce(ctx)
		}
	}
}

// drainOnce claims one batch of due entries and attempts to publish each.
// Entries whose backoff delay has not elapsed are not returned by the
// claim and are simply skipped this cycle; nothing here sleeps per entry.
func (p *Publisher) drainOnce(ctx context.Context) {
	entries, err := p.outbox.ClaimPending(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Error("failed to claim outbox entries", "err", err)
		}
		return
	}

	for _, entry := range entries {
		p.handleEntry(ctx, entry)
	}
}

func (p *Publisher) handleEntry(ctx context.Context, entry *contracts.OutboxEntry) {
	pubCtx, cancel := context.WithTimeout(ctx, p.publishTimeout)
	err := p.channel.Publish(pubCtx, entry)
	cancel()

	if err == nil {
		if err := p.outbox.MarkPublished(ctx, entry); err != nil {
			// The publish went through; the entry stays claimed and will
			// be redelivered after the claim TTL. At-least-once holds.
			p.logger.Error("failed to mark entry published",
				"entry_id", entry.EntryID,
				"order_id", entry.OrderID,
				"err", err,
			)
		}
		return
	}

	p.logger.Warn("publish attempt failed",
		"entry_id", entry.EntryID,
		"order_id", entry.OrderID,
		"attempts", entry.Attempts+1,
		"err", err,
	)

	terminal, markErr := p.outbox.MarkFailed(ctx, entry, err)
	if markErr != nil {
		p.logger.Error("failed to mark entry failed",
			"entry_id", entry.EntryID,
			"order_id", entry.OrderID,
			"err", markErr,
		)
		return
	}

	if terminal {
		p.logger.Error("outbox entry exhausted retries",
			"entry_id", entry.EntryID,
			"order_id", entry.OrderID,
			"attempts", entry.Attempts+1,
		)
		p.sendDiscarded(entry)
	}
}

func (p *Publisher) sendDiscarded(entry *contracts.OutboxEntry) {
	select {
	case p.discardedCh <- *entry:
	default:
		// Buffer full; the failed row remains in the table regardless
	}
}
