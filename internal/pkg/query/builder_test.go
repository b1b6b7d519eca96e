package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuilder_BasicSelect(t *testing.T) {
	stmt := From("orders").
		Select("order_id", "customer_id", "created_at").
		Build()

	assert.Equal(t, "SELECT order_id, customer_id, created_at FROM orders", stmt.SQL)
	assert.Empty(t, stmt.Params)
}

func TestBuilder_SelectAllColumns(t *testing.T) {
	stmt := From("orders").Build()

	assert.Equal(t, "SELECT * FROM orders", stmt.SQL)
	assert.Empty(t, stmt.Params)
}

func TestBuilder_SingleWhereCondition(t *testing.T) {
	stmt := From("outbox_entries").
		Select("entry_id", "status").
		Where(Eq("status", "pending")).
		Build()

	assert.Equal(t, "SELECT entry_id, status FROM outbox_entries WHERE status = @p0", stmt.SQL)
	assert.Equal(t, map[string]interface{}{
		"p0": "pending",
	}, stmt.Params)
}

func TestBuilder_MultipleWhereConditions(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	stmt := From("outbox_entries").
		Select("entry_id").
		Where(Eq("status", "pending")).
		Where(Lte("scheduled_at", now)).
		Build()

	assert.Equal(t, "SELECT entry_id FROM outbox_entries WHERE status = @p0 AND scheduled_at <= @p1", stmt.SQL)
	assert.Equal(t, map[string]interface{}{
		"p0": "pending",
		"p1": now,
	}, stmt.Params)
}

func TestBuilder_OrderByAsc(t *testing.T) {
	stmt := From("outbox_entries").
		Select("entry_id").
		OrderBy("created_at", Asc).
		Build()

	assert.Equal(t, "SELECT entry_id FROM outbox_entries ORDER BY created_at ASC", stmt.SQL)
}

func TestBuilder_OrderByDesc(t *testing.T) {
	stmt := From("outbox_entries").
		Select("entry_id").
		OrderBy("created_at", Desc).
		Build()

	assert.Equal(t, "SELECT entry_id FROM outbox_entries ORDER BY created_at DESC", stmt.SQL)
}

func TestBuilder_LimitAndOffset(t *testing.T) {
	stmt := From("outbox_entries").
		Select("entry_id").
		Limit(10).
		Offset(20).
		Build()

	assert.Equal(t, "SELECT entry_id FROM outbox_entries LIMIT 10 OFFSET 20", stmt.SQL)
	assert.Empty(t, stmt.Params)
}

func TestBuilder_CompleteQuery(t *testing.T) {
	stmt := From("outbox_entries").
		Select("entry_id", "order_id", "status").
		Where(Eq("order_id", "order-1")).
		Where(Eq("status", "published")).
		OrderBy("created_at", Desc).
		Limit(50).
		Build()

	expectedSQL := "SELECT entry_id, order_id, status FROM outbox_entries WHERE order_id = @p0 AND status = @p1 ORDER BY created_at DESC LIMIT 50"
	assert.Equal(t, expectedSQL, stmt.SQL)
	assert.Equal(t, map[string]interface{}{
		"p0": "order-1",
		"p1": "published",
	}, stmt.Params)
}

func TestBuilder_Count(t *testing.T) {
	builder := From("outbox_entries").
		Select("entry_id", "order_id").
		Where(Eq("status", "pending")).
		OrderBy("created_at", Desc).
		Limit(50)

	// Count query reuses WHERE but not pagination or ordering
	countStmt := builder.Count().Build()
	assert.Equal(t, "SELECT COUNT(*) FROM outbox_entries WHERE status = @p0", countStmt.SQL)
	assert.Equal(t, map[string]interface{}{
		"p0": "pending",
	}, countStmt.Params)

	// Original builder is unchanged
	mainStmt := builder.Build()
	assert.Contains(t, mainStmt.SQL, "SELECT entry_id, order_id FROM outbox_entries")
	assert.Contains(t, mainStmt.SQL, "LIMIT 50")
}

func TestBuilder_Immutability(t *testing.T) {
	base := From("outbox_entries").Select("entry_id")

	stmt1 := base.Where(Eq("status", "pending")).Build()
	stmt2 := base.Where(Eq("order_id", "order-1")).Build()

	assert.Contains(t, stmt1.SQL, "status = @p0")
	assert.NotContains(t, stmt1.SQL, "order_id =")

	assert.Contains(t, stmt2.SQL, "order_id = @p0")
	assert.NotContains(t, stmt2.SQL, "status =")
}

func TestBuilder_MultipleSelectCalls(t *testing.T) {
	stmt := From("outbox_entries").
		Select("entry_id", "order_id").
		Select("status", "attempts").
		Build()

	assert.Equal(t, "SELECT entry_id, order_id, status, attempts FROM outbox_entries", stmt.SQL)
}

func TestCondition_Eq(t *testing.T) {
	sql, params := Eq("status", "pending").SQL(0)

	assert.Equal(t, "status = @p0", sql)
	assert.Equal(t, map[string]interface{}{
		"p0": "pending",
	}, params)
}

func TestCondition_EqWithDifferentParamIndex(t *testing.T) {
	sql, params := Eq("order_id", "order-1").SQL(5)

	assert.Equal(t, "order_id = @p5", sql)
	assert.Equal(t, map[string]interface{}{
		"p5": "order-1",
	}, params)
}

func TestCondition_Lte(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sql, params := Lte("scheduled_at", now).SQL(0)

	assert.Equal(t, "scheduled_at <= @p0", sql)
	assert.Equal(t, map[string]interface{}{
		"p0": now,
	}, params)
}

func TestCondition_IsNull(t *testing.T) {
	sql, params := IsNull("published_at").SQL(0)

	assert.Equal(t, "published_at IS NULL", sql)
	assert.Empty(t, params)
}

func TestCondition_IsNotNull(t *testing.T) {
	sql, params := IsNotNull("published_at").SQL(0)

	assert.Equal(t, "published_at IS NOT NULL", sql)
	assert.Empty(t, params)
}

func TestBuilder_WhereWithIsNull(t *testing.T) {
	stmt := From("outbox_entries").
		Select("entry_id").
		Where(Eq("status", "processing")).
		Where(IsNotNull("claimed_at")).
		Build()

	assert.Equal(t, "SELECT entry_id FROM outbox_entries WHERE status = @p0 AND claimed_at IS NOT NULL", stmt.SQL)
	assert.Equal(t, map[string]interface{}{
		"p0": "processing",
	}, stmt.Params)
}
