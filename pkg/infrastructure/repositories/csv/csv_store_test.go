package csv

import (
	"os"
	"path/filepath"
	"testing"

	"bloodstock/pkg/domain/entities"
)

func tempStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inventory.csv")
	return NewStore(path), path
}

func sampleRecords() []entities.RawUnit {
	return []entities.RawUnit{
		{
			Serial: "S1001", Segment: "A1", Source: "Donor A",
			BloodType: "O+", Component: "PRBC", Volume: "300",
			CollectedAt: "2026-03-01", ExpiryAt: "2026-04-05",
			Status: "Available", Patient: "",
		},
		{
			Serial: "S1002", Segment: "B2", Source: "Donor B",
			BloodType: "AB-", Component: "FFP", Volume: "200.5",
			CollectedAt: "2025-01-15", ExpiryAt: "2032-01-16",
			Status: "Crossmatched", Patient: "John Doe - ICU 5",
		},
	}
}

func TestStore_MissingFileIsEmptyInventory(t *testing.T) {
	store, _ := tempStore(t)

	records, err := store.Load()
	if err != nil {
		t.Fatalf("Load of missing file must not fail: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected empty inventory, got %d records", len(records))
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store, _ := tempStore(t)

	if err := store.Save(sampleRecords()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(loaded))
	}
	for i, record := range sampleRecords() {
		if loaded[i] != record {
			t.Errorf("Record %d changed in round trip:\n  saved:  %+v\n  loaded: %+v", i, record, loaded[i])
		}
	}
}

func TestStore_DateStringsStableAcrossRoundTrip(t *testing.T) {
	store, path := tempStore(t)

	if err := store.Save(sampleRecords()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	// Load and save with no mutation in between.
	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := store.Save(loaded); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	if string(first) != string(second) {
		t.Errorf("Unmutated round trip changed file contents:\n%s\nvs\n%s", first, second)
	}
}

func TestStore_SchemaDrift(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.csv")

	// Columns reordered, one unknown column, patient column missing.
	content := "component,serial,operator_note,blood_type,volume,collected_at,expiry_at,status\n" +
		"PRBC,S2001,ignore me,O+,300,2026-03-01,2026-04-05,Available\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	records, err := NewStore(path).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}

	record := records[0]
	if record.Serial != "S2001" || record.Component != "PRBC" || record.BloodType != "O+" {
		t.Errorf("Reordered columns misread: %+v", record)
	}
	if record.Patient != "" {
		t.Errorf("Missing column should default to empty, got %q", record.Patient)
	}
	if record.Segment != "" {
		t.Errorf("Absent segment should default to empty, got %q", record.Segment)
	}
}

func TestStore_RaggedRowsTolerated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.csv")

	content := "serial,segment,source,blood_type,component,volume,collected_at,expiry_at,status,patient\n" +
		"S3001,A1,Donor,O+,PRBC,300,2026-03-01,2026-04-05,Available,\n" +
		"S3002,B2\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	records, err := NewStore(path).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[1].Serial != "S3002" {
		t.Errorf("Expected short row to keep its serial, got %q", records[1].Serial)
	}
	if records[1].Status != "" {
		t.Errorf("Expected short row fields to default empty, got %q", records[1].Status)
	}
}

func TestStore_SaveRewritesWholeSet(t *testing.T) {
	store, _ := tempStore(t)

	if err := store.Save(sampleRecords()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(sampleRecords()[:1]); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	records, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("Expected full rewrite to leave 1 record, got %d", len(records))
	}
}
