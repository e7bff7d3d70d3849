package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"bloodstock/pkg/domain/entities"
	"bloodstock/pkg/domain/repositories"
)

// Store persists the inventory in a single SQLite table with the same
// contract as the CSV store: text-typed columns, full-rewrite saves. The
// normalizer stays the only typing boundary, so swapping drivers changes
// deployment, not semantics.
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if needed) a SQLite-backed inventory store
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite store %s: %w", path, err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS units (
		position INTEGER PRIMARY KEY,
		serial TEXT NOT NULL,
		segment TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT '',
		blood_type TEXT NOT NULL DEFAULT '',
		component TEXT NOT NULL DEFAULT '',
		volume TEXT NOT NULL DEFAULT '',
		collected_at TEXT NOT NULL DEFAULT '',
		expiry_at TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		patient TEXT NOT NULL DEFAULT ''
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create units table: %w", err)
	}
	return &Store{db: db}, nil
}

// Verify interface compliance
var _ repositories.UnitStore = (*Store)(nil)

// Close releases the underlying database handle
func (s *Store) Close() error {
	return s.db.Close()
}

// Load reads every stored row in insertion order
func (s *Store) Load() ([]entities.RawUnit, error) {
	rows, err := s.db.Query(`SELECT serial, segment, source, blood_type, component,
		volume, collected_at, expiry_at, status, patient
		FROM units ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to read units: %w", err)
	}
	defer rows.Close()

	var records []entities.RawUnit
	for rows.Next() {
		var r entities.RawUnit
		if err := rows.Scan(&r.Serial, &r.Segment, &r.Source, &r.BloodType, &r.Component,
			&r.Volume, &r.CollectedAt, &r.ExpiryAt, &r.Status, &r.Patient); err != nil {
			return nil, fmt.Errorf("failed to scan unit row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read units: %w", err)
	}
	return records, nil
}

// Save rewrites the entire record set in one transaction
func (s *Store) Save(records []entities.RawUnit) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM units`); err != nil {
		return fmt.Errorf("failed to clear units: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO units (position, serial, segment, source,
		blood_type, component, volume, collected_at, expiry_at, status, patient)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.Exec(i, r.Serial, r.Segment, r.Source, r.BloodType, r.Component,
			r.Volume, r.CollectedAt, r.ExpiryAt, r.Status, r.Patient); err != nil {
			return fmt.Errorf("failed to insert unit %s: %w", r.Serial, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit save: %w", err)
	}
	return nil
}
