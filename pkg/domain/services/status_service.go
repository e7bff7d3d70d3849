package services

import (
	"time"

	"bloodstock/pkg/clock"
	"bloodstock/pkg/domain/entities"
)

// DefaultNearExpiryWindowDays is the warning window for the near-expiry
// display classification.
const DefaultNearExpiryWindowDays = 3

// StatusDeriver recomputes each unit's lifecycle status and display
// classification. Derivation is idempotent and runs on every read and after
// every mutation; it promotes active units past their expiry date to Expired
// and never moves a unit out of a terminal status.
type StatusDeriver struct {
	calc       *ExpiryCalculator
	warnWindow int
}

// NewStatusDeriver creates a deriver with the default near-expiry window
func NewStatusDeriver(calc *ExpiryCalculator) *StatusDeriver {
	return NewStatusDeriverWithWindow(calc, DefaultNearExpiryWindowDays)
}

// NewStatusDeriverWithWindow creates a deriver with a custom warning window
func NewStatusDeriverWithWindow(calc *ExpiryCalculator, windowDays int) *StatusDeriver {
	if windowDays < 0 {
		windowDays = DefaultNearExpiryWindowDays
	}
	return &StatusDeriver{calc: calc, warnWindow: windowDays}
}

// DeriveStatuses applies the per-unit lifecycle rule to every unit and
// returns the set. Units are mutated in place.
func (d *StatusDeriver) DeriveStatuses(units []*entities.Unit, now time.Time) []*entities.Unit {
	for _, unit := range units {
		d.Derive(unit, now)
	}
	return units
}

// Derive recomputes one unit's derived fields and applies automatic expiry.
func (d *StatusDeriver) Derive(unit *entities.Unit, now time.Time) {
	today := clock.Today(now)

	unit.AgeDays, unit.AgeText = d.calc.ComputeAge(unit.CollectedAt, unit.Component, now)

	if unit.Active() {
		if unit.ExpiryAt == nil {
			// Unknown expiry: do not auto-expire, leave for operator review.
			unit.NeedsReview = true
		} else if !clock.Today(*unit.ExpiryAt).After(today) {
			// Inclusive: a unit expiring today is already expired.
			unit.Status = entities.Expired
		}
	}

	unit.DisplayClass = d.classify(unit, today)
}

func (d *StatusDeriver) classify(unit *entities.Unit, today time.Time) entities.DisplayClass {
	switch unit.Status {
	case entities.Expired:
		return entities.DisplayExpired
	case entities.Transfused:
		return entities.DisplayTransfused
	case entities.Discarded:
		return entities.DisplayDiscarded
	}

	if unit.ExpiryAt == nil {
		return entities.DisplayNormal
	}

	daysLeft := wholeDaysBetween(today, clock.Today(*unit.ExpiryAt))
	switch {
	case daysLeft < 0:
		// Active units past expiry are normally promoted to Expired
		// before classification reaches here.
		return entities.DisplayAlreadyExpired
	case daysLeft <= d.warnWindow:
		return entities.DisplayNearExpiry
	default:
		return entities.DisplayNormal
	}
}
