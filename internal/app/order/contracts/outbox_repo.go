package contracts

import (
	"context"
	"time"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/order-service/internal/app/order/domain"
)

// OutboxEntry is the application-level representation of a publication
// obligation persisted alongside its order.
type OutboxEntry struct {
	EntryID       string
	OrderID       string
	Payload       string // JSON
	Status        string
	Attempts      int64
	CreatedAt     time.Time
	ScheduledAt   time.Time
	LastAttemptAt *time.Time
	PublishedAt   *time.Time
	ErrorMessage  string
}

// OutboxListFilter narrows an outbox listing.
type OutboxListFilter struct {
	OrderID *string
	Status  *string
	Limit   int64
}

// OutboxRepository defines the interface for outbox entry persistence
// and status transitions.
type OutboxRepository interface {
	// NewEntry builds a pending outbox entry for a freshly created order.
	NewEntry(order *domain.Order, payload string) *OutboxEntry

	// InsertMut creates a mutation for inserting an outbox entry.
	// The caller composes it into the same commit as the order insert.
	InsertMut(entry *OutboxEntry) *spanner.Mutation

	// ClaimPending atomically claims up to limit due entries, oldest
	// first. Claimed entries move to the processing status inside one
	// read-write transaction, so two publisher instances never hold the
	// same entry. Stale claims past the claim TTL are reclaimed.
	ClaimPending(ctx context.Context, limit int) ([]*OutboxEntry, error)

	// MarkPublished records a confirmed delivery: the entry becomes
	// terminal published and its attempt that succeeded is counted.
	MarkPublished(ctx context.Context, entry *OutboxEntry) error

	// MarkFailed records a failed publish attempt. Below the retry limit
	// the entry returns to pending with its next attempt scheduled by
	// the backoff policy; past the limit it becomes terminal failed and
	// terminal reports true.
	MarkFailed(ctx context.Context, entry *OutboxEntry, cause error) (terminal bool, err error)
}

// OutboxReadModel is the operator-facing read side of the outbox.
type OutboxReadModel interface {
	// ListEntries returns entries matching the filter, newest first,
	// along with the total count of matching rows.
	ListEntries(ctx context.Context, filter *OutboxListFilter) ([]*OutboxEntry, int64, error)
}
