package m_outbox

// Field name constants for the outbox_entries table.
const (
	TableName = "outbox_entries"

	EntryID       = "entry_id"
	OrderID       = "order_id"
	Payload       = "payload"
	Status        = "status"
	Attempts      = "attempts"
	CreatedAt     = "created_at"
	ScheduledAt   = "scheduled_at"
	ClaimedAt     = "claimed_at"
	LastAttemptAt = "last_attempt_at"
	PublishedAt   = "published_at"
	ErrorMessage  = "error_message"
)

// Entry status constants.
//
// pending    -> eligible for the publisher once scheduled_at has passed
// processing -> claimed by a publisher instance; other instances skip it
// published  -> terminal, delivery acknowledged by the message channel
// failed     -> terminal, retry limit exhausted; kept for inspection
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusPublished  = "published"
	StatusFailed     = "failed"
)
