package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/order-service/internal/app/order/contracts"
	"github.com/light-bringer/order-service/internal/models/m_outbox"
	"github.com/light-bringer/order-service/internal/pkg/query"
)

// OutboxReadModel implements the operator-facing outbox listing for Spanner.
type OutboxReadModel struct {
	client *spanner.Client
}

// NewOutboxReadModel creates a new OutboxReadModel.
func NewOutboxReadModel(client *spanner.Client) contracts.OutboxReadModel {
	return &OutboxReadModel{
		client: client,
	}
}

// ListEntries retrieves outbox entries with filtering, newest first.
func (rm *OutboxReadModel) ListEntries(ctx context.Context, filter *contracts.OutboxListFilter) ([]*contracts.OutboxEntry, int64, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	base := query.From(m_outbox.TableName)
	if filter.OrderID != nil {
		base = base.Where(query.Eq(m_outbox.OrderID, *filter.OrderID))
	}
	if filter.Status != nil {
		base = base.Where(query.Eq(m_outbox.Status, *filter.Status))
	}

	stmt := base.
		Select(
			m_outbox.EntryID,
			m_outbox.OrderID,
			m_outbox.Payload,
			m_outbox.Status,
			m_outbox.Attempts,
			m_outbox.CreatedAt,
			m_outbox.ScheduledAt,
			m_outbox.ClaimedAt,
			m_outbox.LastAttemptAt,
			m_outbox.PublishedAt,
			m_outbox.ErrorMessage,
		).
		OrderBy(m_outbox.CreatedAt, query.Desc).
		Limit(limit).
		Build()

	iter := rm.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var entries []*contracts.OutboxEntry
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("failed to iterate outbox entries: %w", err)
		}

		entry, err := scanEntry(row)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, entry)
	}

	total, err := rm.countEntries(ctx, base.Count().Build())
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (rm *OutboxReadModel) countEntries(ctx context.Context, stmt spanner.Statement) (int64, error) {
	iter := rm.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		return 0, fmt.Errorf("failed to count outbox entries: %w", err)
	}

	var total int64
	if err := row.Column(0, &total); err != nil {
		return 0, fmt.Errorf("failed to parse outbox count: %w", err)
	}
	return total, nil
}
