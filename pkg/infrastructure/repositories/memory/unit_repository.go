package memory

import (
	"fmt"
	"sort"

	"bloodstock/pkg/domain/entities"
	"bloodstock/pkg/domain/repositories"
)

// UnitRepository provides in-memory blood unit storage
type UnitRepository struct {
	units map[entities.Serial]*entities.Unit
	order []entities.Serial
}

// NewUnitRepository creates a new in-memory unit repository
func NewUnitRepository() *UnitRepository {
	return &UnitRepository{
		units: make(map[entities.Serial]*entities.Unit),
	}
}

// Verify interface compliance
var _ repositories.UnitRepository = (*UnitRepository)(nil)

// Add inserts a unit, enforcing serial uniqueness across the record set
func (r *UnitRepository) Add(unit *entities.Unit) error {
	if unit == nil {
		return fmt.Errorf("unit cannot be nil")
	}
	if _, exists := r.units[unit.Serial]; exists {
		return fmt.Errorf("serial %s: %w", unit.Serial, entities.ErrDuplicateSerial)
	}
	r.units[unit.Serial] = unit
	r.order = append(r.order, unit.Serial)
	return nil
}

// GetBySerial returns the unit with the given serial
func (r *UnitRepository) GetBySerial(serial entities.Serial) (*entities.Unit, error) {
	unit, ok := r.units[serial]
	if !ok {
		return nil, fmt.Errorf("serial %s: %w", serial, entities.ErrUnitNotFound)
	}
	return unit, nil
}

// GetAll returns every unit in insertion order
func (r *UnitRepository) GetAll() ([]*entities.Unit, error) {
	units := make([]*entities.Unit, 0, len(r.order))
	for _, serial := range r.order {
		units = append(units, r.units[serial])
	}
	return units, nil
}

// Update replaces the stored unit with the same serial
func (r *UnitRepository) Update(unit *entities.Unit) error {
	if unit == nil {
		return fmt.Errorf("unit cannot be nil")
	}
	if _, ok := r.units[unit.Serial]; !ok {
		return fmt.Errorf("serial %s: %w", unit.Serial, entities.ErrUnitNotFound)
	}
	r.units[unit.Serial] = unit
	return nil
}

// ReplaceAll swaps the whole record set, preserving the given order.
// Duplicate serials within the incoming set are rejected.
func (r *UnitRepository) ReplaceAll(units []*entities.Unit) error {
	fresh := make(map[entities.Serial]*entities.Unit, len(units))
	order := make([]entities.Serial, 0, len(units))
	for _, unit := range units {
		if _, exists := fresh[unit.Serial]; exists {
			return fmt.Errorf("serial %s: %w", unit.Serial, entities.ErrDuplicateSerial)
		}
		fresh[unit.Serial] = unit
		order = append(order, unit.Serial)
	}
	r.units = fresh
	r.order = order
	return nil
}

// SortedBySerial returns all units ordered by serial, for stable report output
func (r *UnitRepository) SortedBySerial() []*entities.Unit {
	units, _ := r.GetAll()
	sort.Slice(units, func(i, j int) bool {
		return units[i].Serial < units[j].Serial
	})
	return units
}
