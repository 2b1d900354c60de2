package database

import (
	"errors"
	"fmt"

	"github.com/lawnchairsociety/hexforge/internal/tables"
)

// ErrDuplicateRow is returned when an import would overwrite an existing
// table row without replace.
var ErrDuplicateRow = errors.New("duplicate table row")

// Table returns the values of a global table in position order. It tries
// the exact language, then its base language. A missing table is an empty
// result. Structured JSON values are rendered to display text.
func (d *Database) Table(category, name, language string) ([]string, error) {
	language = tables.CanonicalLanguage(language)

	values, err := d.tableValues(category, name, language)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		if base := tables.BaseLanguage(language); base != "" {
			if values, err = d.tableValues(category, name, base); err != nil {
				return nil, err
			}
		}
	}

	for i, v := range values {
		values[i] = tables.RenderValue(v)
	}
	return values, nil
}

func (d *Database) tableValues(category, name, language string) ([]string, error) {
	var values []string
	query := d.qb.Build(`SELECT value FROM content_tables
		WHERE category = ? AND name = ? AND language = ?
		ORDER BY position`)
	if err := d.db.Select(&values, query, category, name, language); err != nil {
		return nil, fmt.Errorf("failed to load table %s/%s (%s): %w", category, name, language, err)
	}
	return values, nil
}

// ImportRows writes table rows in one transaction. With replace, every
// table present in rows is cleared first so the import is its new content.
// Languages are stored in canonical form. It returns the number of rows
// written.
func (d *Database) ImportRows(rows []tables.Row, replace bool) (int, error) {
	normalized := make([]tables.Row, len(rows))
	for i, r := range rows {
		r.Language = tables.CanonicalLanguage(r.Language)
		normalized[i] = r
	}
	rows = normalized

	tx, err := d.db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("failed to begin import: %w", err)
	}
	defer tx.Rollback()

	if replace {
		type tableKey struct{ language, category, name string }
		cleared := make(map[tableKey]bool)
		del := d.qb.Build(`DELETE FROM content_tables WHERE language = ? AND category = ? AND name = ?`)
		for _, r := range rows {
			k := tableKey{r.Language, r.Category, r.Name}
			if cleared[k] {
				continue
			}
			if _, err := tx.Exec(del, r.Language, r.Category, r.Name); err != nil {
				return 0, fmt.Errorf("failed to clear table %s/%s: %w", r.Category, r.Name, err)
			}
			cleared[k] = true
		}
	}

	insert := `INSERT INTO content_tables (language, category, name, position, value)
		VALUES (:language, :category, :name, :position, :value)`
	for _, r := range rows {
		if _, err := tx.NamedExec(insert, r); err != nil {
			if d.dialect.IsDuplicateKeyError(err) {
				return 0, fmt.Errorf("%w: %s/%s/%s #%d", ErrDuplicateRow, r.Language, r.Category, r.Name, r.Position)
			}
			return 0, fmt.Errorf("failed to insert %s/%s #%d: %w", r.Category, r.Name, r.Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}
	return len(rows), nil
}

// TableSummary counts the entries of one stored table.
type TableSummary struct {
	Language string `db:"language" json:"language"`
	Category string `db:"category" json:"category"`
	Name     string `db:"name" json:"name"`
	Entries  int    `db:"entries" json:"entries"`
}

// ListTables summarises every stored table.
func (d *Database) ListTables() ([]TableSummary, error) {
	var out []TableSummary
	err := d.db.Select(&out, `SELECT language, category, name, COUNT(*) AS entries
		FROM content_tables
		GROUP BY language, category, name
		ORDER BY language, category, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return out, nil
}

// Rows returns every stored table value unrendered, for copying tables
// between databases.
func (d *Database) Rows() ([]tables.Row, error) {
	var rows []tables.Row
	err := d.db.Select(&rows, `SELECT language, category, name, position, value
		FROM content_tables
		ORDER BY language, category, name, position`)
	if err != nil {
		return nil, fmt.Errorf("failed to export tables: %w", err)
	}
	return rows, nil
}
