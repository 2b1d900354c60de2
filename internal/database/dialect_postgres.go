package database

import (
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresDialect implements Dialect for PostgreSQL through lib/pq.
type PostgresDialect struct{}

func (d *PostgresDialect) DriverName() string {
	return "postgres"
}

func (d *PostgresDialect) BindType() int {
	return sqlx.DOLLAR
}

// InitStatements returns nothing; PostgreSQL needs no per-connection setup.
func (d *PostgresDialect) InitStatements() []string {
	return nil
}

func (d *PostgresDialect) SerialPrimaryKey() string {
	return "BIGSERIAL PRIMARY KEY"
}

// IsDuplicateKeyError returns true if the error is a PostgreSQL unique_violation (23505).
func (d *PostgresDialect) IsDuplicateKeyError(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
