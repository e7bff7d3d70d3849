package repositories

import "bloodstock/pkg/domain/entities"

// UnitRepository provides access to the normalized in-memory record set.
// The repository is caller-owned; the core holds no global state.
type UnitRepository interface {
	Add(unit *entities.Unit) error
	GetBySerial(serial entities.Serial) (*entities.Unit, error)
	GetAll() ([]*entities.Unit, error)
	Update(unit *entities.Unit) error
	ReplaceAll(units []*entities.Unit) error
}

// UnitStore is the flat tabular storage collaborator. Load reads every field
// as text; Save rewrites the full record set (no partial updates). A missing
// or unreadable backing file loads as an empty inventory so first-run
// bootstrap works.
type UnitStore interface {
	Load() ([]entities.RawUnit, error)
	Save(records []entities.RawUnit) error
}
