package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lawnchairsociety/hexforge/internal/content"
)

// StoredHex is the last content generated for an overland hex.
type StoredHex struct {
	Code      string         `json:"code"`
	RunID     string         `json:"run_id,omitempty"`
	Terrain   string         `json:"terrain,omitempty"`
	Record    content.Record `json:"record"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type hexRow struct {
	Code      string `db:"code"`
	RunID     string `db:"run_id"`
	Type      string `db:"type"`
	Terrain   string `db:"terrain"`
	Record    string `db:"record"`
	UpdatedAt string `db:"updated_at"`
}

// SaveHex stores the content of a hex, replacing any earlier content.
// Concurrent writers race; the last write wins.
func (d *Database) SaveHex(code, runID string, rec content.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode hex %s: %w", code, err)
	}

	row := hexRow{
		Code:      code,
		RunID:     runID,
		Type:      rec.Type.String(),
		Terrain:   rec.Details["terrain"],
		Record:    string(data),
		UpdatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	_, err = d.db.NamedExec(`INSERT INTO generated_hexes (code, run_id, type, terrain, record, updated_at)
		VALUES (:code, :run_id, :type, :terrain, :record, :updated_at)
		ON CONFLICT (code) DO UPDATE SET
			run_id = excluded.run_id,
			type = excluded.type,
			terrain = excluded.terrain,
			record = excluded.record,
			updated_at = excluded.updated_at`, row)
	if err != nil {
		return fmt.Errorf("failed to save hex %s: %w", code, err)
	}
	return nil
}

// SaveHexes stores many hexes in one transaction.
func (d *Database) SaveHexes(runID string, hexes map[string]content.Record) error {
	tx, err := d.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin hex save: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for code, rec := range hexes {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to encode hex %s: %w", code, err)
		}
		_, err = tx.NamedExec(`INSERT INTO generated_hexes (code, run_id, type, terrain, record, updated_at)
			VALUES (:code, :run_id, :type, :terrain, :record, :updated_at)
			ON CONFLICT (code) DO UPDATE SET
				run_id = excluded.run_id,
				type = excluded.type,
				terrain = excluded.terrain,
				record = excluded.record,
				updated_at = excluded.updated_at`, hexRow{
			Code:      code,
			RunID:     runID,
			Type:      rec.Type.String(),
			Terrain:   rec.Details["terrain"],
			Record:    string(data),
			UpdatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("failed to save hex %s: %w", code, err)
		}
	}
	return tx.Commit()
}

// LoadHex returns the stored content of a hex. ok is false when the hex
// has never been saved.
func (d *Database) LoadHex(code string) (hex StoredHex, ok bool, err error) {
	var row hexRow
	err = d.db.Get(&row, d.qb.Build(`SELECT code, run_id, type, terrain, record, updated_at
		FROM generated_hexes WHERE code = ?`), code)
	if errors.Is(err, sql.ErrNoRows) {
		return StoredHex{}, false, nil
	}
	if err != nil {
		return StoredHex{}, false, fmt.Errorf("failed to load hex %s: %w", code, err)
	}

	hex = StoredHex{Code: row.Code, RunID: row.RunID, Terrain: row.Terrain}
	if err := json.Unmarshal([]byte(row.Record), &hex.Record); err != nil {
		return StoredHex{}, false, fmt.Errorf("failed to decode hex %s: %w", code, err)
	}
	hex.Record.Normalize()
	hex.UpdatedAt, _ = time.Parse(time.RFC3339Nano, row.UpdatedAt)
	return hex, true, nil
}

// CountHexes returns the number of stored hexes.
func (d *Database) CountHexes() (int, error) {
	var n int
	if err := d.db.Get(&n, `SELECT COUNT(*) FROM generated_hexes`); err != nil {
		return 0, fmt.Errorf("failed to count hexes: %w", err)
	}
	return n, nil
}
