package memory

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"bloodstock/pkg/domain/entities"
)

func testUnit(serial string) *entities.Unit {
	return &entities.Unit{
		Serial:      entities.Serial(serial),
		Segment:     "A1",
		Source:      "Donor",
		BloodType:   entities.OPositive,
		Component:   entities.PRBC,
		Volume:      decimal.NewFromInt(300),
		CollectedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:      entities.Available,
	}
}

func TestUnitRepository_AddAndGet(t *testing.T) {
	repo := NewUnitRepository()

	unit := testUnit("S1001")
	if err := repo.Add(unit); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	got, err := repo.GetBySerial("S1001")
	if err != nil {
		t.Fatalf("GetBySerial failed: %v", err)
	}
	if got.Serial != "S1001" {
		t.Errorf("Expected serial S1001, got %s", got.Serial)
	}
}

func TestUnitRepository_DuplicateSerial(t *testing.T) {
	repo := NewUnitRepository()

	if err := repo.Add(testUnit("S1001")); err != nil {
		t.Fatalf("First add failed: %v", err)
	}

	err := repo.Add(testUnit("S1001"))
	if !errors.Is(err, entities.ErrDuplicateSerial) {
		t.Fatalf("Expected ErrDuplicateSerial, got %v", err)
	}

	// Record set unchanged after the rejected add.
	units, err := repo.GetAll()
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(units) != 1 {
		t.Errorf("Expected 1 unit after duplicate rejection, got %d", len(units))
	}
}

func TestUnitRepository_GetBySerial_NotFound(t *testing.T) {
	repo := NewUnitRepository()

	_, err := repo.GetBySerial("MISSING")
	if !errors.Is(err, entities.ErrUnitNotFound) {
		t.Fatalf("Expected ErrUnitNotFound, got %v", err)
	}
}

func TestUnitRepository_GetAll_InsertionOrder(t *testing.T) {
	repo := NewUnitRepository()

	serials := []string{"S3", "S1", "S2"}
	for _, serial := range serials {
		if err := repo.Add(testUnit(serial)); err != nil {
			t.Fatalf("Add %s failed: %v", serial, err)
		}
	}

	units, err := repo.GetAll()
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	for i, serial := range serials {
		if string(units[i].Serial) != serial {
			t.Errorf("Position %d: expected %s, got %s", i, serial, units[i].Serial)
		}
	}
}

func TestUnitRepository_Update(t *testing.T) {
	repo := NewUnitRepository()

	if err := repo.Add(testUnit("S1001")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	updated := testUnit("S1001")
	updated.Status = entities.Crossmatched
	updated.Patient = "John Doe - ICU 5"
	if err := repo.Update(updated); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := repo.GetBySerial("S1001")
	if err != nil {
		t.Fatalf("GetBySerial failed: %v", err)
	}
	if got.Status != entities.Crossmatched {
		t.Errorf("Expected Crossmatched after update, got %s", got.Status)
	}

	if err := repo.Update(testUnit("MISSING")); !errors.Is(err, entities.ErrUnitNotFound) {
		t.Errorf("Expected ErrUnitNotFound updating missing unit, got %v", err)
	}
}

func TestUnitRepository_ReplaceAll(t *testing.T) {
	repo := NewUnitRepository()
	if err := repo.Add(testUnit("OLD")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	fresh := []*entities.Unit{testUnit("N1"), testUnit("N2")}
	if err := repo.ReplaceAll(fresh); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	units, err := repo.GetAll()
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(units) != 2 {
		t.Fatalf("Expected 2 units after replace, got %d", len(units))
	}
	if _, err := repo.GetBySerial("OLD"); !errors.Is(err, entities.ErrUnitNotFound) {
		t.Error("Expected old unit to be gone after ReplaceAll")
	}

	dup := []*entities.Unit{testUnit("D1"), testUnit("D1")}
	if err := repo.ReplaceAll(dup); !errors.Is(err, entities.ErrDuplicateSerial) {
		t.Errorf("Expected ErrDuplicateSerial for duplicate incoming set, got %v", err)
	}
}

func TestUnitRepository_SortedBySerial(t *testing.T) {
	repo := NewUnitRepository()
	for _, serial := range []string{"S3", "S1", "S2"} {
		if err := repo.Add(testUnit(serial)); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	sorted := repo.SortedBySerial()
	expected := []string{"S1", "S2", "S3"}
	for i, serial := range expected {
		if string(sorted[i].Serial) != serial {
			t.Errorf("Position %d: expected %s, got %s", i, serial, sorted[i].Serial)
		}
	}
}
