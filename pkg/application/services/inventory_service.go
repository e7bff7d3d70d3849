package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"bloodstock/pkg/clock"
	"bloodstock/pkg/domain/entities"
	"bloodstock/pkg/domain/repositories"
	domainservices "bloodstock/pkg/domain/services"
)

// InventoryService coordinates the lifecycle core: it loads and normalizes
// the record set, re-derives statuses on every read and after every
// mutation, and persists full-rewrite snapshots through the store. The
// service is synchronous and assumes at-most-one-writer; serializing user
// actions is the caller's responsibility.
type InventoryService struct {
	repo       repositories.UnitRepository
	store      repositories.UnitStore
	clk        clock.Clock
	calc       *domainservices.ExpiryCalculator
	deriver    *domainservices.StatusDeriver
	normalizer *Normalizer
	validate   *validator.Validate
}

// NewInventoryService creates a service with the canonical lifecycle policy
func NewInventoryService(repo repositories.UnitRepository, store repositories.UnitStore, clk clock.Clock) *InventoryService {
	calc := domainservices.NewExpiryCalculator()
	return NewInventoryServiceWithPolicy(repo, store, clk, calc, domainservices.NewStatusDeriver(calc))
}

// NewInventoryServiceWithPolicy creates a service with custom expiry and
// derivation policy (for example a 42-day red-cell shelf life)
func NewInventoryServiceWithPolicy(
	repo repositories.UnitRepository,
	store repositories.UnitStore,
	clk clock.Clock,
	calc *domainservices.ExpiryCalculator,
	deriver *domainservices.StatusDeriver,
) *InventoryService {
	return &InventoryService{
		repo:       repo,
		store:      store,
		clk:        clk,
		calc:       calc,
		deriver:    deriver,
		normalizer: NewNormalizer(),
		validate:   validator.New(),
	}
}

// Now reports the service clock's current instant so callers timestamp
// reports with the same clock that drives derivation.
func (s *InventoryService) Now() time.Time {
	return s.clk.Now()
}

// Load reads the store, normalizes every row, derives statuses and replaces
// the in-memory record set. Integrity warnings are reported, never fatal.
func (s *InventoryService) Load() ([]entities.Warning, error) {
	raws, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}

	units, warnings := s.normalizer.Normalize(raws, s.clk.Now())
	s.deriver.DeriveStatuses(units, s.clk.Now())

	if err := s.repo.ReplaceAll(units); err != nil {
		return warnings, fmt.Errorf("failed to load inventory: %w", err)
	}
	return warnings, nil
}

// Save persists the full record set through the store
func (s *InventoryService) Save() error {
	units, err := s.repo.GetAll()
	if err != nil {
		return fmt.Errorf("failed to save inventory: %w", err)
	}
	if err := s.store.Save(s.normalizer.ToRaw(units)); err != nil {
		return fmt.Errorf("failed to save inventory: %w", err)
	}
	return nil
}

// Filter selects units by equality on the enum fields plus a
// case-insensitive substring search over serial, blood type and patient.
type Filter struct {
	BloodType  *entities.BloodType
	Component  *entities.Component
	Status     *entities.UnitStatus
	SearchText string
}

func (f Filter) matches(unit *entities.Unit) bool {
	if f.BloodType != nil && unit.BloodType != *f.BloodType {
		return false
	}
	if f.Component != nil && unit.Component != *f.Component {
		return false
	}
	if f.Status != nil && unit.Status != *f.Status {
		return false
	}
	if f.SearchText != "" {
		needle := strings.ToLower(f.SearchText)
		if !strings.Contains(strings.ToLower(string(unit.Serial)), needle) &&
			!strings.Contains(strings.ToLower(unit.BloodType.String()), needle) &&
			!strings.Contains(strings.ToLower(unit.Patient), needle) {
			return false
		}
	}
	return true
}

// List re-derives statuses and returns the units matching the filter
func (s *InventoryService) List(filter Filter) ([]*entities.Unit, error) {
	units, err := s.repo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	s.deriver.DeriveStatuses(units, s.clk.Now())

	matched := make([]*entities.Unit, 0, len(units))
	for _, unit := range units {
		if filter.matches(unit) {
			matched = append(matched, unit)
		}
	}
	return matched, nil
}

// RegisterRequest carries the operator-supplied fields for a new unit
type RegisterRequest struct {
	Serial    string `validate:"required"`
	Segment   string
	Source    string
	BloodType entities.BloodType
	Component entities.Component
	Volume    decimal.Decimal
	Collected time.Time
	// Expiry overrides the derived expiry date when set; it is otherwise
	// computed from Collected plus the component shelf life.
	Expiry  *time.Time
	Status  entities.UnitStatus
	Patient string
}

// Register validates and creates a new unit, deriving its expiry date.
// A duplicate serial fails with ErrDuplicateSerial and leaves the record
// set unchanged. A future collection date is reported as a warning.
func (s *InventoryService) Register(req RegisterRequest) (*entities.Unit, []entities.Warning, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, nil, &entities.ValidationError{Field: "serial", Message: "serial is required"}
	}
	if !req.Volume.IsPositive() {
		return nil, nil, &entities.ValidationError{Field: "volume", Message: "volume must be positive"}
	}

	expiry := req.Expiry
	if expiry == nil {
		computed, err := s.calc.ComputeExpiry(req.Component, req.Collected)
		if err != nil {
			return nil, nil, err
		}
		expiry = &computed
	}

	unit, err := entities.NewUnit(
		entities.Serial(req.Serial),
		req.Segment, req.Source,
		req.BloodType, req.Component,
		req.Volume, req.Collected, expiry,
		req.Status, req.Patient,
	)
	if err != nil {
		return nil, nil, err
	}

	var warnings []entities.Warning
	now := s.clk.Now()
	if clock.Today(req.Collected).After(clock.Today(now)) {
		warnings = append(warnings, entities.Warning{
			Serial: unit.Serial, Field: "collectedAt",
			Message: "collection date is in the future",
		})
	}

	if err := s.repo.Add(unit); err != nil {
		return nil, nil, err
	}
	s.deriver.Derive(unit, now)
	return unit, warnings, nil
}

// UpdateStatus applies an explicit operator status change. Transfused and
// Discarded are terminal; an Expired unit may only move to Discarded.
func (s *InventoryService) UpdateStatus(serial entities.Serial, status entities.UnitStatus) (*entities.Unit, error) {
	unit, err := s.repo.GetBySerial(serial)
	if err != nil {
		return nil, err
	}
	s.deriver.Derive(unit, s.clk.Now())

	if unit.Status != status {
		if err := checkTransition(unit.Status, status); err != nil {
			return nil, err
		}
		unit.Status = status
	}

	s.deriver.Derive(unit, s.clk.Now())
	if err := s.repo.Update(unit); err != nil {
		return nil, err
	}
	return unit, nil
}

// Assign reserves an available unit for a patient (crossmatch)
func (s *InventoryService) Assign(serial entities.Serial, patient string) (*entities.Unit, error) {
	unit, err := s.repo.GetBySerial(serial)
	if err != nil {
		return nil, err
	}
	s.deriver.Derive(unit, s.clk.Now())

	switch unit.Status {
	case entities.Available:
		unit.Status = entities.Crossmatched
	case entities.Crossmatched:
		// Reassignment of an already crossmatched unit is allowed.
	default:
		return nil, fmt.Errorf("unit %s is %s: %w", serial, unit.Status, entities.ErrInvalidTransition)
	}
	unit.Patient = patient

	s.deriver.Derive(unit, s.clk.Now())
	if err := s.repo.Update(unit); err != nil {
		return nil, err
	}
	return unit, nil
}

// checkTransition enforces the operator side of the lifecycle state machine
func checkTransition(from, to entities.UnitStatus) error {
	allowed := map[entities.UnitStatus][]entities.UnitStatus{
		entities.Available:    {entities.Crossmatched, entities.Expired, entities.Discarded},
		entities.Crossmatched: {entities.Available, entities.Transfused, entities.Expired, entities.Discarded},
		entities.Expired:      {entities.Discarded},
	}
	for _, status := range allowed[from] {
		if status == to {
			return nil
		}
	}
	return fmt.Errorf("%s to %s: %w", from, to, entities.ErrInvalidTransition)
}
