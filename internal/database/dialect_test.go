package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

// =============================================================================
// Dialect Tests
// =============================================================================

func TestNewDialect(t *testing.T) {
	tests := []struct {
		input DialectType
		want  string
	}{
		{DialectSQLite, "sqlite"},
		{DialectPostgres, "postgres"},
		{"unknown", "sqlite"}, // Unknown dialects default to SQLite
		{"", "sqlite"},
	}
	for _, tt := range tests {
		if got := NewDialect(tt.input).DriverName(); got != tt.want {
			t.Errorf("NewDialect(%q).DriverName() = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSQLiteDialect_InitStatements(t *testing.T) {
	d := &SQLiteDialect{}
	stmts := d.InitStatements()
	if len(stmts) != 3 {
		t.Fatalf("InitStatements() returned %d statements, want 3", len(stmts))
	}
	if stmts[1] != "PRAGMA journal_mode = WAL" {
		t.Errorf("InitStatements()[1] = %q", stmts[1])
	}
}

func TestSQLiteDialect_IsDuplicateKeyError(t *testing.T) {
	d := &SQLiteDialect{}
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("some random error"), false},
		{errors.New("UNIQUE constraint failed: content_tables.language"), true},
		{fmt.Errorf("insert: %w", errors.New("UNIQUE constraint failed: generated_hexes.code")), true},
		{errors.New("foreign key constraint failed"), false},
	}
	for _, tt := range tests {
		if got := d.IsDuplicateKeyError(tt.err); got != tt.want {
			t.Errorf("IsDuplicateKeyError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestPostgresDialect_IsDuplicateKeyError(t *testing.T) {
	d := &PostgresDialect{}
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("duplicate key value violates unique constraint"), false},
		{"unique violation", &pq.Error{Code: "23505"}, true},
		{"wrapped", fmt.Errorf("import: %w", &pq.Error{Code: "23505"}), true},
		{"foreign key", &pq.Error{Code: "23503"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.IsDuplicateKeyError(tt.err); got != tt.want {
				t.Errorf("IsDuplicateKeyError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSerialPrimaryKey(t *testing.T) {
	if got := (&SQLiteDialect{}).SerialPrimaryKey(); got != "INTEGER PRIMARY KEY AUTOINCREMENT" {
		t.Errorf("SQLite SerialPrimaryKey() = %q", got)
	}
	if got := (&PostgresDialect{}).SerialPrimaryKey(); got != "BIGSERIAL PRIMARY KEY" {
		t.Errorf("Postgres SerialPrimaryKey() = %q", got)
	}
}

// =============================================================================
// QueryBuilder Tests
// =============================================================================

func TestQueryBuilder_Build(t *testing.T) {
	query := "SELECT value FROM content_tables WHERE category = ? AND name = ? AND language = ?"
	tests := []struct {
		dialect Dialect
		want    string
	}{
		{&SQLiteDialect{}, query},
		{&PostgresDialect{}, "SELECT value FROM content_tables WHERE category = $1 AND name = $2 AND language = $3"},
	}
	for _, tt := range tests {
		if got := NewQueryBuilder(tt.dialect).Build(query); got != tt.want {
			t.Errorf("%s Build() = %q, want %q", tt.dialect.DriverName(), got, tt.want)
		}
	}
}

// =============================================================================
// Config Tests
// =============================================================================

func TestPostgresConfig_DSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  PostgresConfig
		want string
	}{
		{
			name: "defaults",
			cfg:  PostgresConfig{Host: "localhost", Port: 5432, Database: "hexforge", SSLMode: "disable"},
			want: "postgres://localhost:5432/hexforge?sslmode=disable",
		},
		{
			name: "credentials are escaped",
			cfg:  PostgresConfig{Host: "db", Port: 6543, User: "gm", Password: "p@ss word", Database: "maps"},
			want: "postgres://gm:p%40ss%20word@db:6543/maps",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.DSN(); got != tt.want {
				t.Errorf("DSN() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("data/hexforge.db")
	if cfg.Driver != "sqlite" || cfg.SQLitePath != "data/hexforge.db" {
		t.Errorf("DefaultConfig() = %+v", cfg)
	}
	if cfg.Postgres.MaxOpenConns != 25 || cfg.Postgres.Port != 5432 {
		t.Errorf("Postgres defaults = %+v", cfg.Postgres)
	}
}
