package m_order

import "time"

// Data represents the database model for the orders table.
type Data struct {
	OrderID    string
	CustomerID string
	CreatedAt  time.Time
}
