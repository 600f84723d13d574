package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildListQuery_Plain(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("orders"))
	assert.Equal(t, `SELECT * FROM "orders"`, query)
	assert.Empty(t, args)
}

func TestBuildListQuery_ColumnsAndConditions(t *testing.T) {
	opts := NewListQueryOptions("orders",
		WithColumns("id", "status"),
		WithCondition(WhereCond("status", Equal, "pending")),
		WithCondition(WhereCond("total_price", GreaterThanOrEqual, 10.0)),
		WithOrderBy("created_at", "desc"),
		WithLimit(20),
		WithOffset(40),
	)

	query, args := BuildListQuery(opts)
	assert.Equal(t,
		`SELECT "id", "status" FROM "orders" WHERE "status" = $1 AND "total_price" >= $2`+
			` ORDER BY "created_at" DESC LIMIT $3 OFFSET $4`,
		query)
	assert.Equal(t, []any{"pending", 10.0, 20, 40}, args)
}

func TestBuildListQuery_CountOnlySkipsPagination(t *testing.T) {
	opts := NewListQueryOptions("orders",
		WithCountOnly(),
		WithCondition(WhereCond("status", Equal, "served")),
		WithOrderBy("created_at", "desc"),
		WithLimit(5),
	)

	query, args := BuildListQuery(opts)
	assert.Equal(t, `SELECT COUNT(*) FROM "orders" WHERE "status" = $1`, query)
	assert.Equal(t, []any{"served"}, args)
}

func TestBuildListQuery_InCondition(t *testing.T) {
	opts := NewListQueryOptions("articles",
		WithCondition(WhereCond("id", In, []string{"a1", "a2", "a3"})),
	)

	query, args := BuildListQuery(opts)
	assert.Equal(t, `SELECT * FROM "articles" WHERE "id" IN ($1, $2, $3)`, query)
	assert.Equal(t, []any{"a1", "a2", "a3"}, args)
}

func TestBuildListQuery_EmptyInConditionDropped(t *testing.T) {
	opts := NewListQueryOptions("articles",
		WithCondition(WhereCond("id", In, []string{})),
		WithCondition(WhereCond("category", Equal, "plats")),
	)

	query, args := BuildListQuery(opts)
	assert.Equal(t, `SELECT * FROM "articles" WHERE "category" = $1`, query)
	assert.Equal(t, []any{"plats"}, args)
}

func TestBuildListQuery_RawConditionRenumbers(t *testing.T) {
	opts := NewListQueryOptions("orders",
		WithCondition(WhereCond("status", Equal, "pending")),
		// The repeated $1 in the fragment maps to a single argument.
		WithCondition(WhereRawCond("(order_number ILIKE $1 OR table_number ILIKE $1)", "%7%")),
		WithCondition(WhereCond("table_number", Equal, "7")),
	)

	query, args := BuildListQuery(opts)
	assert.Equal(t,
		`SELECT * FROM "orders" WHERE "status" = $1`+
			` AND (order_number ILIKE $2 OR table_number ILIKE $2) AND "table_number" = $3`,
		query)
	assert.Equal(t, []any{"pending", "%7%", "7"}, args)
}

func TestBuildListQuery_SanitizesHostileIdentifiers(t *testing.T) {
	opts := NewListQueryOptions(`orders";DROP TABLE orders;--`,
		WithOrderBy(`created_at" DESC;--`, "asc"),
	)

	query, _ := BuildListQuery(opts)
	assert.Contains(t, query, `"orders"";DROP TABLE orders;--"`)
	assert.Contains(t, query, `"created_at"" DESC;--"`)
}

func TestWhereCond_PanicsOnCustomType(t *testing.T) {
	require.Panics(t, func() { WhereCond("field", Custom, "value") })
}

func TestBuildListQuery_InvalidOrderDirDropped(t *testing.T) {
	opts := NewListQueryOptions("orders", WithOrderBy("created_at", "sideways"))
	query, _ := BuildListQuery(opts)
	assert.Equal(t, `SELECT * FROM "orders" ORDER BY "created_at"`, query)
}
