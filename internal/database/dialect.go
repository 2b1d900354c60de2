package database

// Dialect abstracts the SQL differences between SQLite and PostgreSQL that
// the table and hex stores care about.
type Dialect interface {
	// DriverName returns the driver name for sqlx.Open().
	// SQLite: "sqlite", PostgreSQL: "postgres"
	DriverName() string

	// BindType returns the sqlx bind type used to rewrite ? placeholders.
	BindType() int

	// InitStatements returns statements run once after connecting.
	// SQLite: PRAGMA statements, PostgreSQL: none
	InitStatements() []string

	// SerialPrimaryKey returns the column definition of an auto-incrementing id.
	SerialPrimaryKey() string

	// IsDuplicateKeyError returns true if the error is a unique constraint violation.
	IsDuplicateKeyError(err error) bool
}

// DialectType identifies the database dialect.
type DialectType string

const (
	DialectSQLite   DialectType = "sqlite"
	DialectPostgres DialectType = "postgres"
)

// NewDialect creates a new Dialect for the given type.
func NewDialect(dialectType DialectType) Dialect {
	switch dialectType {
	case DialectPostgres:
		return &PostgresDialect{}
	default:
		return &SQLiteDialect{}
	}
}
