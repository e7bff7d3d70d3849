package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"bloodstock/pkg/clock"
	"bloodstock/pkg/domain/entities"
)

// Normalizer coerces raw persisted rows into typed Units. It runs once per
// load, before the status deriver, and guarantees the typed invariants the
// rest of the core relies on. Malformed rows are retained and flagged, never
// fatal; only a row without a serial is dropped entirely.
type Normalizer struct{}

// NewNormalizer creates a new record normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize converts raw rows into Units plus the integrity warnings found
// along the way. A unit that collected any warning is marked NeedsReview and
// is excluded from automatic expiry promotion when its expiry is unknown.
func (n *Normalizer) Normalize(raws []entities.RawUnit, now time.Time) ([]*entities.Unit, []entities.Warning) {
	units := make([]*entities.Unit, 0, len(raws))
	var warnings []entities.Warning

	for i, raw := range raws {
		serial := entities.Serial(strings.TrimSpace(raw.Serial))
		if serial == "" {
			warnings = append(warnings, entities.Warning{
				Field:   "serial",
				Message: fmt.Sprintf("row %d has no serial, row dropped", i+2),
			})
			continue
		}

		unit := &entities.Unit{Serial: serial}
		flagged := false
		warn := func(field, message string) {
			warnings = append(warnings, entities.Warning{Serial: serial, Field: field, Message: message})
			flagged = true
		}

		unit.Segment = textOrUnset(raw.Segment)
		unit.Source = textOrUnset(raw.Source)
		unit.Patient = strings.TrimSpace(raw.Patient)

		bloodType, err := entities.ParseBloodType(raw.BloodType)
		if err != nil {
			warn("bloodType", err.Error())
		}
		unit.BloodType = bloodType

		component, err := entities.ParseComponent(raw.Component)
		if err != nil {
			warn("component", err.Error())
		}
		unit.Component = component

		unit.Volume = parseVolume(raw.Volume, warn)

		if collected, ok := parseDate(raw.CollectedAt, "collectedAt", true, warn); ok {
			unit.CollectedAt = collected
			if clock.Today(collected).After(clock.Today(now)) {
				// Lenient: a future collection date warns, never rejects.
				warnings = append(warnings, entities.Warning{
					Serial: serial, Field: "collectedAt",
					Message: "collection date is in the future",
				})
			}
		}

		if expiry, ok := parseDate(raw.ExpiryAt, "expiryAt", false, warn); ok {
			unit.ExpiryAt = &expiry
		}

		status, err := entities.ParseUnitStatus(raw.Status)
		if err != nil {
			warn("status", err.Error())
		}
		unit.Status = status

		unit.NeedsReview = flagged
		units = append(units, unit)
	}

	return units, warnings
}

// ToRaw serializes typed units back to the row shape the stores persist.
// Derived fields are never written.
func (n *Normalizer) ToRaw(units []*entities.Unit) []entities.RawUnit {
	raws := make([]entities.RawUnit, 0, len(units))
	for _, unit := range units {
		raw := entities.RawUnit{
			Serial:    string(unit.Serial),
			Segment:   unit.Segment,
			Source:    unit.Source,
			BloodType: unit.BloodType.String(),
			Component: unit.Component.String(),
			Volume:    unit.Volume.String(),
			Status:    unit.Status.String(),
			Patient:   unit.Patient,
		}
		if !unit.CollectedAt.IsZero() {
			raw.CollectedAt = unit.CollectedAt.Format(entities.DateFormat)
		}
		if unit.ExpiryAt != nil {
			raw.ExpiryAt = unit.ExpiryAt.Format(entities.DateFormat)
		}
		raws = append(raws, raw)
	}
	return raws
}

func textOrUnset(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return entities.FieldUnset
	}
	return s
}

func parseVolume(s string, warn func(field, message string)) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		warn("volume", "volume is missing, defaulted to 0")
		return decimal.Zero
	}
	volume, err := decimal.NewFromString(s)
	if err != nil {
		warn("volume", fmt.Sprintf("unparseable volume %q, defaulted to 0", s))
		return decimal.Zero
	}
	if volume.IsNegative() {
		warn("volume", fmt.Sprintf("negative volume %s, defaulted to 0", s))
		return decimal.Zero
	}
	return volume
}

// parseDate coerces a raw date to a value or to "no value", never to today.
func parseDate(s, field string, required bool, warn func(field, message string)) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		if required {
			warn(field, "date is missing")
		} else {
			warn(field, "date is missing, excluded from automatic expiry")
		}
		return time.Time{}, false
	}
	t, err := time.Parse(entities.DateFormat, s)
	if err != nil {
		warn(field, fmt.Sprintf("unparseable date %q (expected %s)", s, entities.DateFormat))
		return time.Time{}, false
	}
	return t, true
}
