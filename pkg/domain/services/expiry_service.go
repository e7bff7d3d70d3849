package services

import (
	"fmt"
	"math"
	"time"

	"bloodstock/pkg/clock"
	"bloodstock/pkg/domain/entities"
)

// Shelf life in days per component. FFP is 7 years plus a one-day
// leap-year buffer so the interval is exact across leap years.
const (
	WholeBloodShelfLifeDays = 35
	PRBCShelfLifeDays       = 35
	PlateletsShelfLifeDays  = 5
	FFPShelfLifeDays        = 7*365 + 1
)

// DefaultShelfLife returns the canonical shelf-life table
func DefaultShelfLife() map[entities.Component]int {
	return map[entities.Component]int{
		entities.WholeBlood: WholeBloodShelfLifeDays,
		entities.PRBC:       PRBCShelfLifeDays,
		entities.Platelets:  PlateletsShelfLifeDays,
		entities.FFP:        FFPShelfLifeDays,
	}
}

// ExpiryCalculator computes expiry dates and human-readable ages from a
// component's shelf-life rule. It is pure: "now" is always a parameter.
type ExpiryCalculator struct {
	shelfLife map[entities.Component]int
}

// NewExpiryCalculator creates a calculator with the canonical shelf-life table
func NewExpiryCalculator() *ExpiryCalculator {
	return &ExpiryCalculator{shelfLife: DefaultShelfLife()}
}

// NewExpiryCalculatorWithShelfLife creates a calculator with policy overrides
// applied on top of the canonical table. Overrides apply uniformly; there is
// no per-unit mixing of policies.
func NewExpiryCalculatorWithShelfLife(overrides map[entities.Component]int) *ExpiryCalculator {
	table := DefaultShelfLife()
	for component, days := range overrides {
		table[component] = days
	}
	return &ExpiryCalculator{shelfLife: table}
}

// ShelfLifeDays returns the shelf life for a component
func (c *ExpiryCalculator) ShelfLifeDays(component entities.Component) (int, error) {
	days, ok := c.shelfLife[component]
	if !ok {
		return 0, &entities.ValidationError{
			Field:   "component",
			Message: fmt.Sprintf("no shelf-life rule for component %s", component),
		}
	}
	return days, nil
}

// ComputeExpiry computes the expiry date from collection date and component
// shelf life. Unrecognized components are rejected, never defaulted.
func (c *ExpiryCalculator) ComputeExpiry(component entities.Component, collectedAt time.Time) (time.Time, error) {
	if collectedAt.IsZero() {
		return time.Time{}, &entities.ValidationError{
			Field:   "collectedAt",
			Message: "collection date is required to compute expiry",
		}
	}
	days, err := c.ShelfLifeDays(component)
	if err != nil {
		return time.Time{}, err
	}
	return clock.Today(collectedAt).AddDate(0, 0, days), nil
}

// ComputeAge returns the unit's age in whole days plus its display string.
// A collection date after today yields (0, "Future") so a not-yet-collected
// unit is distinguishable from one collected today.
func (c *ExpiryCalculator) ComputeAge(collectedAt time.Time, component entities.Component, now time.Time) (int, string) {
	if collectedAt.IsZero() {
		return 0, ""
	}

	today := clock.Today(now)
	collected := clock.Today(collectedAt)
	if collected.After(today) {
		return 0, "Future"
	}

	ageDays := wholeDaysBetween(collected, today)
	if component == entities.FFP {
		return ageDays, fmt.Sprintf("%dy %dd", ageDays/365, ageDays%365)
	}
	return ageDays, fmt.Sprintf("%dd", ageDays)
}

// wholeDaysBetween counts calendar days between two UTC midnights as
// produced by clock.Today. Rounding guards against callers passing
// instants that were not truncated first.
func wholeDaysBetween(from, to time.Time) int {
	return int(math.Round(to.Sub(from).Hours() / 24))
}
