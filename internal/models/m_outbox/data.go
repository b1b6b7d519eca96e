package m_outbox

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the outbox_entries table.
type Data struct {
	EntryID       string
	OrderID       string
	Payload       spanner.NullJSON // JSON column
	Status        string
	Attempts      int64
	CreatedAt     time.Time
	ScheduledAt   time.Time
	ClaimedAt     spanner.NullTime
	LastAttemptAt spanner.NullTime
	PublishedAt   spanner.NullTime
	ErrorMessage  spanner.NullString
}
