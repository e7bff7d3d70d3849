package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"bloodstock/pkg/domain/entities"
)

func reportUnit(serial string, bloodType entities.BloodType, component entities.Component, status entities.UnitStatus, volume int64) *entities.Unit {
	expiry := date(2026, time.April, 1)
	return &entities.Unit{
		Serial:      entities.Serial(serial),
		Segment:     "A1",
		Source:      "Donor",
		BloodType:   bloodType,
		Component:   component,
		Volume:      decimal.NewFromInt(volume),
		CollectedAt: date(2026, time.March, 1),
		ExpiryAt:    &expiry,
		Status:      status,
		AgeText:     "9d",
	}
}

func TestSummary_AvailableOnly(t *testing.T) {
	reports := NewReportService()
	now := date(2026, time.March, 10)

	units := []*entities.Unit{
		reportUnit("S1", entities.OPositive, entities.PRBC, entities.Available, 300),
		reportUnit("S2", entities.OPositive, entities.PRBC, entities.Available, 250),
		reportUnit("S3", entities.OPositive, entities.PRBC, entities.Crossmatched, 300),
		reportUnit("S4", entities.ABNegative, entities.FFP, entities.Available, 200),
		reportUnit("S5", entities.OPositive, entities.Platelets, entities.Expired, 50),
		reportUnit("S6", entities.BPositive, entities.WholeBlood, entities.Transfused, 450),
	}

	report := reports.Summary(units, now)

	if report.TotalUnits != 3 {
		t.Fatalf("Expected 3 available units, got %d", report.TotalUnits)
	}
	if len(report.Cells) != 2 {
		t.Fatalf("Expected 2 occupied cells, got %d", len(report.Cells))
	}

	first := report.Cells[0]
	if first.BloodType != entities.OPositive || first.Component != entities.PRBC {
		t.Errorf("Expected O+/PRBC cell first, got %s/%s", first.BloodType, first.Component)
	}
	if first.Count != 2 {
		t.Errorf("Expected 2 units in O+/PRBC, got %d", first.Count)
	}
	if !first.TotalVolume.Equal(decimal.NewFromInt(550)) {
		t.Errorf("Expected 550 mL in O+/PRBC, got %s", first.TotalVolume)
	}

	second := report.Cells[1]
	if second.BloodType != entities.ABNegative || second.Component != entities.FFP {
		t.Errorf("Expected AB-/FFP cell second, got %s/%s", second.BloodType, second.Component)
	}
}

func TestDetail_ActiveUnitsGrouped(t *testing.T) {
	reports := NewReportService()
	now := date(2026, time.March, 10)

	unknownExpiry := reportUnit("S7", entities.OPositive, entities.FFP, entities.Available, 200)
	unknownExpiry.ExpiryAt = nil
	unknownExpiry.AgeText = "1y 35d"

	units := []*entities.Unit{
		reportUnit("S1", entities.OPositive, entities.PRBC, entities.Available, 300),
		reportUnit("S2", entities.ANegative, entities.PRBC, entities.Crossmatched, 250),
		reportUnit("S3", entities.OPositive, entities.PRBC, entities.Expired, 300),
		reportUnit("S4", entities.OPositive, entities.WholeBlood, entities.Transfused, 450),
		unknownExpiry,
	}
	units[1].Patient = "John Doe - ICU 5"

	report := reports.Detail(units, now)

	// Expired and transfused units are not display-eligible.
	total := 0
	for _, group := range report.Groups {
		total += len(group.Entries)
	}
	if total != 3 {
		t.Fatalf("Expected 3 active entries, got %d", total)
	}

	// Component-major grouping: Whole Blood < PRBC < Platelets < FFP.
	if len(report.Groups) != 3 {
		t.Fatalf("Expected 3 groups, got %d", len(report.Groups))
	}
	if report.Groups[0].Component != entities.PRBC || report.Groups[0].BloodType != entities.OPositive {
		t.Errorf("Expected PRBC/O+ group first, got %s/%s", report.Groups[0].Component, report.Groups[0].BloodType)
	}

	entry := report.Groups[0].Entries[0]
	if entry.Serial != "S1" {
		t.Errorf("Expected S1 in first group, got %s", entry.Serial)
	}
	if entry.AgeOrExpiry != "2026-04-01" {
		t.Errorf("Expected expiry date for unit with known expiry, got %q", entry.AgeOrExpiry)
	}

	crossmatched := report.Groups[1].Entries[0]
	if crossmatched.Patient != "John Doe - ICU 5" {
		t.Errorf("Expected patient on crossmatched entry, got %q", crossmatched.Patient)
	}

	// Unknown expiry falls back to age text.
	ffpGroup := report.Groups[2]
	if ffpGroup.Component != entities.FFP {
		t.Fatalf("Expected FFP group last, got %s", ffpGroup.Component)
	}
	if ffpGroup.Entries[0].AgeOrExpiry != "1y 35d" {
		t.Errorf("Expected age text fallback, got %q", ffpGroup.Entries[0].AgeOrExpiry)
	}
}
