package services

import (
	"time"

	"github.com/shopspring/decimal"

	"bloodstock/pkg/domain/entities"
)

// SummaryCell is one bloodType x component bucket of available stock
type SummaryCell struct {
	BloodType   entities.BloodType
	Component   entities.Component
	Count       int
	TotalVolume decimal.Decimal
}

// SummaryReport holds grouped counts of Available units
type SummaryReport struct {
	GeneratedAt time.Time
	Cells       []SummaryCell
	TotalUnits  int
}

// DetailEntry is one unit line in a detail report cell
type DetailEntry struct {
	Serial      entities.Serial
	AgeOrExpiry string
	Patient     string
}

// DetailGroup is one component x bloodType grouping of display-eligible units
type DetailGroup struct {
	Component entities.Component
	BloodType entities.BloodType
	Entries   []DetailEntry
}

// DetailReport holds the tabular export of active inventory
type DetailReport struct {
	GeneratedAt time.Time
	Groups      []DetailGroup
}

// ReportService builds summary and detail reports from an already
// status-derived record set. It never mutates the units it is given.
type ReportService struct{}

// NewReportService creates a new report service
func NewReportService() *ReportService {
	return &ReportService{}
}

// Summary groups Available units into bloodType x component counts.
// Buckets follow the fixed display order of the enums; empty buckets are
// omitted.
func (r *ReportService) Summary(units []*entities.Unit, now time.Time) *SummaryReport {
	report := &SummaryReport{GeneratedAt: now}

	counts := make(map[entities.BloodType]map[entities.Component]*SummaryCell)
	for _, unit := range units {
		if unit.Status != entities.Available {
			continue
		}
		byComponent, ok := counts[unit.BloodType]
		if !ok {
			byComponent = make(map[entities.Component]*SummaryCell)
			counts[unit.BloodType] = byComponent
		}
		cell, ok := byComponent[unit.Component]
		if !ok {
			cell = &SummaryCell{BloodType: unit.BloodType, Component: unit.Component}
			byComponent[unit.Component] = cell
		}
		cell.Count++
		cell.TotalVolume = cell.TotalVolume.Add(unit.Volume)
		report.TotalUnits++
	}

	for _, bloodType := range entities.AllBloodTypes() {
		for _, component := range entities.AllComponents() {
			if cell, ok := counts[bloodType][component]; ok {
				report.Cells = append(report.Cells, *cell)
			}
		}
	}
	return report
}

// Detail groups Available and Crossmatched units by component then blood
// type. Each entry shows the unit's expiry date when known, its age text
// otherwise, so units pending review still appear.
func (r *ReportService) Detail(units []*entities.Unit, now time.Time) *DetailReport {
	report := &DetailReport{GeneratedAt: now}

	groups := make(map[entities.Component]map[entities.BloodType][]DetailEntry)
	for _, unit := range units {
		if !unit.Active() {
			continue
		}
		byBlood, ok := groups[unit.Component]
		if !ok {
			byBlood = make(map[entities.BloodType][]DetailEntry)
			groups[unit.Component] = byBlood
		}
		byBlood[unit.BloodType] = append(byBlood[unit.BloodType], DetailEntry{
			Serial:      unit.Serial,
			AgeOrExpiry: ageOrExpiry(unit),
			Patient:     unit.Patient,
		})
	}

	for _, component := range entities.AllComponents() {
		for _, bloodType := range entities.AllBloodTypes() {
			if entries, ok := groups[component][bloodType]; ok {
				report.Groups = append(report.Groups, DetailGroup{
					Component: component,
					BloodType: bloodType,
					Entries:   entries,
				})
			}
		}
	}
	return report
}

func ageOrExpiry(unit *entities.Unit) string {
	if unit.ExpiryAt != nil {
		return unit.ExpiryAt.Format(entities.DateFormat)
	}
	return unit.AgeText
}
