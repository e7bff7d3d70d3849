package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"

	"bloodstock/pkg/domain/entities"
)

// Store driver names accepted in policy and environment.
const (
	StoreCSV    = "csv"
	StoreSQLite = "sqlite"
)

// Policy holds the deployment-chosen rules: which store driver backs the
// inventory, where it lives, the near-expiry warning window and any
// shelf-life overrides (for example the 42-day red-cell policy). One policy
// applies uniformly; per-unit mixing is not possible.
type Policy struct {
	Store                string         `yaml:"store"`
	InventoryFile        string         `yaml:"inventory_file"`
	NearExpiryWindowDays int            `yaml:"near_expiry_window_days"`
	ShelfLifeDays        map[string]int `yaml:"shelf_life_days"`
}

// Default returns the canonical policy
func Default() Policy {
	return Policy{
		Store:                StoreCSV,
		InventoryFile:        "inventory.csv",
		NearExpiryWindowDays: 3,
	}
}

// Load reads a YAML policy file, layering it over the defaults. A missing
// file yields the defaults, matching the lenient first-run behavior of the
// storage layer.
func Load(path string) (Policy, error) {
	policy := Default()
	if path == "" {
		return policy, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return policy, nil
		}
		return policy, fmt.Errorf("failed to read policy file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return policy, fmt.Errorf("failed to parse policy file %s: %w", path, err)
	}
	if err := policy.validate(); err != nil {
		return policy, err
	}
	return policy, nil
}

// FromEnv applies BLOODSTOCK_* environment overrides on top of a policy
func FromEnv(policy Policy) Policy {
	if v := os.Getenv("BLOODSTOCK_STORE"); v != "" {
		policy.Store = v
	}
	if v := os.Getenv("BLOODSTOCK_INVENTORY_FILE"); v != "" {
		policy.InventoryFile = v
	}
	if v := os.Getenv("BLOODSTOCK_NEAR_EXPIRY_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days >= 0 {
			policy.NearExpiryWindowDays = days
		}
	}
	return policy
}

// ShelfLifeOverrides converts the component-name keyed overrides into the
// typed table the expiry calculator consumes
func (p Policy) ShelfLifeOverrides() (map[entities.Component]int, error) {
	if len(p.ShelfLifeDays) == 0 {
		return nil, nil
	}
	overrides := make(map[entities.Component]int, len(p.ShelfLifeDays))
	for name, days := range p.ShelfLifeDays {
		component, err := entities.ParseComponent(name)
		if err != nil {
			return nil, fmt.Errorf("shelf_life_days: %w", err)
		}
		if days <= 0 {
			return nil, fmt.Errorf("shelf_life_days: %s must be positive, got %d", name, days)
		}
		overrides[component] = days
	}
	return overrides, nil
}

func (p Policy) validate() error {
	switch p.Store {
	case StoreCSV, StoreSQLite:
	default:
		return fmt.Errorf("invalid store driver %q (expected %s or %s)", p.Store, StoreCSV, StoreSQLite)
	}
	if p.NearExpiryWindowDays < 0 {
		return fmt.Errorf("near_expiry_window_days cannot be negative, got %d", p.NearExpiryWindowDays)
	}
	if _, err := p.ShelfLifeOverrides(); err != nil {
		return err
	}
	return nil
}
