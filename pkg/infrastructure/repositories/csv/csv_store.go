package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"bloodstock/pkg/domain/entities"
	"bloodstock/pkg/domain/repositories"
)

// Store reads and writes the inventory as a flat CSV file. Every field is
// text on both sides; typing happens in the normalizer, never here.
type Store struct {
	filename string
}

// NewStore creates a CSV store backed by the given file
func NewStore(filename string) *Store {
	return &Store{filename: filename}
}

// Verify interface compliance
var _ repositories.UnitStore = (*Store)(nil)

// Load reads all rows of the inventory file. A missing or unreadable file is
// an empty inventory, not an error, so first-run bootstrap works.
func (s *Store) Load() ([]entities.RawUnit, error) {
	file, err := os.Open(s.filename)
	if err != nil {
		return nil, nil
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // tolerate ragged rows, they are padded below
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory CSV %s: %w", s.filename, err)
	}

	if len(rows) < 2 {
		// Header only, or empty file.
		return nil, nil
	}

	// Map columns by header name: unknown columns are dropped, missing
	// expected columns default to empty and are filled by the normalizer.
	index := columnIndex(rows[0])

	records := make([]entities.RawUnit, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, entities.RawUnit{
			Serial:      field(row, index, "serial"),
			Segment:     field(row, index, "segment"),
			Source:      field(row, index, "source"),
			BloodType:   field(row, index, "blood_type"),
			Component:   field(row, index, "component"),
			Volume:      field(row, index, "volume"),
			CollectedAt: field(row, index, "collected_at"),
			ExpiryAt:    field(row, index, "expiry_at"),
			Status:      field(row, index, "status"),
			Patient:     field(row, index, "patient"),
		})
	}

	return records, nil
}

// Save rewrites the entire record set. There are no partial updates.
func (s *Store) Save(records []entities.RawUnit) error {
	file, err := os.Create(s.filename)
	if err != nil {
		return fmt.Errorf("failed to create inventory CSV %s: %w", s.filename, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(entities.UnitColumns); err != nil {
		return fmt.Errorf("failed to write inventory CSV header: %w", err)
	}

	for i, record := range records {
		row := []string{
			record.Serial, record.Segment, record.Source,
			record.BloodType, record.Component, record.Volume,
			record.CollectedAt, record.ExpiryAt, record.Status, record.Patient,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write inventory CSV row %d: %w", i+2, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush inventory CSV: %w", err)
	}
	return nil
}

func columnIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return index
}

func field(row []string, index map[string]int, column string) string {
	i, ok := index[column]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}
