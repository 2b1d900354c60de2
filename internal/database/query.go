package database

import "github.com/jmoiron/sqlx"

// QueryBuilder converts SQL queries with ? placeholders to dialect-specific format.
type QueryBuilder struct {
	bindType int
}

// NewQueryBuilder creates a new QueryBuilder for the given dialect.
func NewQueryBuilder(dialect Dialect) *QueryBuilder {
	return &QueryBuilder{bindType: dialect.BindType()}
}

// Build rewrites ? placeholders for the dialect.
//
// Example:
//
//	input:    "SELECT value FROM content_tables WHERE category = ? AND name = ?"
//	SQLite:   unchanged
//	Postgres: "SELECT value FROM content_tables WHERE category = $1 AND name = $2"
func (qb *QueryBuilder) Build(query string) string {
	return sqlx.Rebind(qb.bindType, query)
}
