package m_outbox

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the outbox_entries table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting an outbox entry.
// created_at takes the commit timestamp so fetch order matches commit order.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		[]string{
			EntryID,
			OrderID,
			Payload,
			Status,
			Attempts,
			CreatedAt,
			ScheduledAt,
			ClaimedAt,
			LastAttemptAt,
			PublishedAt,
			ErrorMessage,
		},
		[]interface{}{
			data.EntryID,
			data.OrderID,
			data.Payload,
			data.Status,
			data.Attempts,
			spanner.CommitTimestamp,
			data.ScheduledAt,
			data.ClaimedAt,
			data.LastAttemptAt,
			data.PublishedAt,
			data.ErrorMessage,
		},
	)
}

// UpdateMut creates a Spanner mutation for updating an outbox entry.
func (m *Model) UpdateMut(entryID string, updates map[string]interface{}) *spanner.Mutation {
	if len(updates) == 0 {
		return nil
	}

	columns := make([]string, 0, len(updates)+1)
	values := make([]interface{}, 0, len(updates)+1)

	columns = append(columns, EntryID)
	values = append(values, entryID)

	for col, val := range updates {
		columns = append(columns, col)
		values = append(values, val)
	}

	return spanner.Update(TableName, columns, values)
}

// DeleteMut creates a Spanner mutation for deleting an outbox entry.
func (m *Model) DeleteMut(entryID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{entryID})
}
