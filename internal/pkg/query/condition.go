package query

import "fmt"

// Condition represents a WHERE clause condition.
// Implementations must generate SQL fragments and parameter maps
// using Spanner's named parameter format (@paramName).
type Condition interface {
	// SQL returns the SQL fragment and parameter map for this condition.
	// paramIndex is used to generate unique parameter names (@p0, @p1, etc.)
	SQL(paramIndex int) (string, map[string]interface{})
}

// cmpCondition implements a binary comparison (field <op> value).
type cmpCondition struct {
	field string
	op    string
	value interface{}
}

func (c *cmpCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	paramName := fmt.Sprintf("p%d", paramIndex)
	sql := fmt.Sprintf("%s %s @%s", c.field, c.op, paramName)
	params := map[string]interface{}{
		paramName: c.value,
	}
	return sql, params
}

// Eq creates a WHERE condition for equality comparison.
// Example: Eq("status", "pending") generates "status = @p0"
func Eq(field string, value interface{}) Condition {
	return &cmpCondition{field: field, op: "=", value: value}
}

// Lte creates a WHERE condition for less-than-or-equal comparison.
// Example: Lte("scheduled_at", now) generates "scheduled_at <= @p0"
func Lte(field string, value interface{}) Condition {
	return &cmpCondition{field: field, op: "<=", value: value}
}

// IsNull creates a WHERE condition for NULL checks.
// Example: IsNull("published_at") generates "published_at IS NULL"
func IsNull(field string) Condition {
	return &isNullCondition{field: field}
}

type isNullCondition struct {
	field string
}

func (c *isNullCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	return fmt.Sprintf("%s IS NULL", c.field), map[string]interface{}{}
}

// IsNotNull creates a WHERE condition for NOT NULL checks.
// Example: IsNotNull("published_at") generates "published_at IS NOT NULL"
func IsNotNull(field string) Condition {
	return &isNotNullCondition{field: field}
}

type isNotNullCondition struct {
	field string
}

func (c *isNotNullCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	return fmt.Sprintf("%s IS NOT NULL", c.field), map[string]interface{}{}
}
