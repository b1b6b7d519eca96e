package m_order

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the orders table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting an order.
// spanner.Insert (not InsertOrUpdate) so a duplicate key fails the
// commit with AlreadyExists instead of silently overwriting.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		[]string{
			OrderID,
			CustomerID,
			CreatedAt,
		},
		[]interface{}{
			data.OrderID,
			data.CustomerID,
			data.CreatedAt,
		},
	)
}
