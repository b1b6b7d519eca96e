package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/order-service/internal/app/order/contracts"
	"github.com/light-bringer/order-service/internal/app/order/domain"
	"github.com/light-bringer/order-service/internal/models/m_outbox"
	"github.com/light-bringer/order-service/internal/pkg/backoff"
	"github.com/light-bringer/order-service/internal/pkg/clock"
)

// RetryPolicy governs outbox status transitions after publish failures.
type RetryPolicy struct {
	// MaxAttempts is the number of publish attempts before an entry
	// becomes terminal failed.
	MaxAttempts int64

	// Delay computes the advisory wait before the next attempt.
	Delay backoff.DelayFunc

	// ClaimTTL is how long a processing claim is honored before other
	// publisher instances may reclaim the entry.
	ClaimTTL time.Duration
}

// DefaultRetryPolicy returns the production retry policy:
// 5 attempts, exponential backoff from 200ms capped at 30s,
// claims reclaimed after 30s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 5,
		Delay:       backoff.Exponential(200*time.Millisecond, 30*time.Second),
		ClaimTTL:    30 * time.Second,
	}
}

// OutboxRepo implements OutboxRepository for Spanner.
type OutboxRepo struct {
	client *spanner.Client
	model  *m_outbox.Model
	clock  clock.Clock
	policy RetryPolicy
}

// NewOutboxRepo creates a new OutboxRepo.
func NewOutboxRepo(client *spanner.Client, clk clock.Clock, policy RetryPolicy) contracts.OutboxRepository {
	return &OutboxRepo{
		client: client,
		model:  m_outbox.NewModel(),
		clock:  clk,
		policy: policy,
	}
}

// NewEntry builds a pending outbox entry for a freshly created order.
func (r *OutboxRepo) NewEntry(order *domain.Order, payload string) *contracts.OutboxEntry {
	now := r.clock.Now().UTC()
	return &contracts.OutboxEntry{
		EntryID:     uuid.New().String(),
		OrderID:     order.ID(),
		Payload:     payload,
		Status:      m_outbox.StatusPending,
		Attempts:    0,
		ScheduledAt: now,
	}
}

// InsertMut creates a mutation for inserting an outbox entry.
func (r *OutboxRepo) InsertMut(entry *contracts.OutboxEntry) *spanner.Mutation {
	// Wrap the already-serialized payload as a raw JSON column value
	payload := spanner.NullJSON{Value: json.RawMessage(entry.Payload), Valid: entry.Payload != ""}

	data := &m_outbox.Data{
		EntryID:     entry.EntryID,
		OrderID:     entry.OrderID,
		Payload:     payload,
		Status:      entry.Status,
		Attempts:    entry.Attempts,
		ScheduledAt: entry.ScheduledAt.UTC(),
	}

	return r.model.InsertMut(data)
}

// ClaimPending atomically claims up to limit due entries, oldest first.
// The select and the status flip to processing happen in one read-write
// transaction, so concurrent publisher instances never claim the same
// entry. Processing rows whose claim is older than the claim TTL are
// treated as abandoned and reclaimed.
func (r *OutboxRepo) ClaimPending(ctx context.Context, limit int) ([]*contracts.OutboxEntry, error) {
	now := r.clock.Now().UTC()
	staleBefore := now.Add(-r.policy.ClaimTTL)

	var claimed []*contracts.OutboxEntry
	_, err := r.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		claimed = nil

		stmt := spanner.Statement{
			SQL: `SELECT entry_id, order_id, payload, status, attempts, created_at, scheduled_at, claimed_at, last_attempt_at, published_at, error_message
				FROM outbox_entries
				WHERE scheduled_at <= @now
				AND (status = @pending OR (status = @processing AND claimed_at <= @staleBefore))
				ORDER BY created_at ASC
				LIMIT @limit`,
			Params: map[string]interface{}{
				"now":         now,
				"pending":     m_outbox.StatusPending,
				"processing":  m_outbox.StatusProcessing,
				"staleBefore": staleBefore,
				"limit":       int64(limit),
			},
		}

		iter := txn.Query(ctx, stmt)
		defer iter.Stop()

		var muts []*spanner.Mutation
		for {
			row, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return fmt.Errorf("failed to iterate outbox entries: %w", err)
			}

			entry, err := scanEntry(row)
			if err != nil {
				return err
			}

			claimed = append(claimed, entry)
			muts = append(muts, r.model.UpdateMut(entry.EntryID, map[string]interface{}{
				m_outbox.Status:    m_outbox.StatusProcessing,
				m_outbox.ClaimedAt: now,
			}))
		}

		if len(muts) == 0 {
			return nil
		}
		return txn.BufferWrite(muts)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to claim outbox entries: %w", err)
	}

	return claimed, nil
}

// MarkPublished records a confirmed delivery. The successful attempt is
// counted, so an entry that failed once and then succeeded ends with
// attempts = 2.
func (r *OutboxRepo) MarkPublished(ctx context.Context, entry *contracts.OutboxEntry) error {
	now := r.clock.Now().UTC()
	updates := map[string]interface{}{
		m_outbox.Status:        m_outbox.StatusPublished,
		m_outbox.Attempts:      entry.Attempts + 1,
		m_outbox.LastAttemptAt: now,
		m_outbox.PublishedAt:   now,
		m_outbox.ClaimedAt:     spanner.NullTime{},
	}

	if err := r.applyUpdate(ctx, entry.EntryID, updates); err != nil {
		return fmt.Errorf("failed to mark entry published: %w", err)
	}
	return nil
}

// MarkFailed records a failed publish attempt and either re-queues the
// entry with backoff or, past the retry limit, parks it as terminal failed.
func (r *OutboxRepo) MarkFailed(ctx context.Context, entry *contracts.OutboxEntry, cause error) (bool, error) {
	now := r.clock.Now().UTC()
	updates, terminal := failureUpdates(entry, cause, now, r.policy)

	if err := r.applyUpdate(ctx, entry.EntryID, updates); err != nil {
		return false, fmt.Errorf("failed to mark entry failed: %w", err)
	}
	return terminal, nil
}

func (r *OutboxRepo) applyUpdate(ctx context.Context, entryID string, updates map[string]interface{}) error {
	_, err := r.client.Apply(ctx, []*spanner.Mutation{r.model.UpdateMut(entryID, updates)})
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return domain.ErrOutboxEntryNotFound
		}
		return err
	}
	return nil
}

// failureUpdates computes the column updates for a failed publish attempt.
// Kept free of Spanner I/O so the transition rules are unit-testable.
func failureUpdates(entry *contracts.OutboxEntry, cause error, now time.Time, policy RetryPolicy) (map[string]interface{}, bool) {
	attempts := entry.Attempts + 1

	updates := map[string]interface{}{
		m_outbox.Attempts:      attempts,
		m_outbox.LastAttemptAt: now,
		m_outbox.ErrorMessage:  cause.Error(),
		m_outbox.ClaimedAt:     spanner.NullTime{},
	}

	if attempts > policy.MaxAttempts {
		updates[m_outbox.Status] = m_outbox.StatusFailed
		return updates, true
	}

	updates[m_outbox.Status] = m_outbox.StatusPending
	updates[m_outbox.ScheduledAt] = now.Add(policy.Delay(int(attempts)))
	return updates, false
}

// scanEntry converts an outbox row into the application representation.
func scanEntry(row *spanner.Row) (*contracts.OutboxEntry, error) {
	var data m_outbox.Data
	if err := row.Columns(
		&data.EntryID,
		&data.OrderID,
		&data.Payload,
		&data.Status,
		&data.Attempts,
		&data.CreatedAt,
		&data.ScheduledAt,
		&data.ClaimedAt,
		&data.LastAttemptAt,
		&data.PublishedAt,
		&data.ErrorMessage,
	); err != nil {
		return nil, fmt.Errorf("failed to scan outbox entry: %w", err)
	}

	entry := &contracts.OutboxEntry{
		EntryID:     data.EntryID,
		OrderID:     data.OrderID,
		Status:      data.Status,
		Attempts:    data.Attempts,
		CreatedAt:   data.CreatedAt,
		ScheduledAt: data.ScheduledAt,
	}
	if data.Payload.Valid {
		entry.Payload = data.Payload.String()
	}
	if data.LastAttemptAt.Valid {
		t := data.LastAttemptAt.Time
		entry.LastAttemptAt = &t
	}
	if data.PublishedAt.Valid {
		t := data.PublishedAt.Time
		entry.PublishedAt = &t
	}
	if data.ErrorMessage.Valid {
		entry.ErrorMessage = data.ErrorMessage.StringVal
	}
	return entry, nil
}
