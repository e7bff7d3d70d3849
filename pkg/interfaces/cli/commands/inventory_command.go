package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"bloodstock/pkg/application/services"
	"bloodstock/pkg/clock"
	"bloodstock/pkg/config"
	"bloodstock/pkg/domain/entities"
	"bloodstock/pkg/domain/repositories"
	domainservices "bloodstock/pkg/domain/services"
	csvstore "bloodstock/pkg/infrastructure/repositories/csv"
	"bloodstock/pkg/infrastructure/repositories/memory"
	"bloodstock/pkg/infrastructure/repositories/sqlite"
	"bloodstock/pkg/interfaces/cli/output"
)

// Config holds configuration for the inventory command
type Config struct {
	Action     string
	PolicyFile string
	Format     string

	// Registration fields
	Serial    string
	Segment   string
	Source    string
	BloodType string
	Component string
	Volume    string
	Collected string
	Expiry    string
	Status    string
	Patient   string

	// Listing filters
	FilterBlood     string
	FilterComponent string
	FilterStatus    string
	Search          string

	ExportFile string
	Help       bool
}

// InventoryCommand wires the storage driver, lifecycle policy and
// application services behind the CLI actions
type InventoryCommand struct {
	config Config
}

// NewInventoryCommand creates a new inventory command with the given configuration
func NewInventoryCommand(config Config) *InventoryCommand {
	return &InventoryCommand{config: config}
}

// Execute runs the inventory command
func (c *InventoryCommand) Execute(ctx context.Context) error {
	if c.config.Help || c.config.Action == "" {
		c.showHelp()
		return nil
	}

	policy, err := config.Load(c.config.PolicyFile)
	if err != nil {
		return err
	}
	policy = config.FromEnv(policy)

	store, closeStore, err := openStore(policy)
	if err != nil {
		return err
	}
	defer closeStore()

	overrides, err := policy.ShelfLifeOverrides()
	if err != nil {
		return err
	}
	calc := domainservices.NewExpiryCalculatorWithShelfLife(overrides)
	deriver := domainservices.NewStatusDeriverWithWindow(calc, policy.NearExpiryWindowDays)

	repo := memory.NewUnitRepository()
	svc := services.NewInventoryServiceWithPolicy(repo, store, clock.NewSystem(), calc, deriver)
	reports := services.NewReportService()

	warnings, err := svc.Load()
	if err != nil {
		return err
	}
	output.RenderWarnings(warnings)

	switch c.config.Action {
	case "list":
		return c.list(svc)
	case "register":
		return c.register(svc)
	case "set-status":
		return c.setStatus(svc)
	case "assign":
		return c.assign(svc)
	case "summary":
		return c.summary(svc, reports)
	case "detail":
		return c.detail(svc, reports)
	case "export":
		return c.export(svc)
	case "seed":
		return c.seed(svc)
	default:
		return fmt.Errorf("unknown action: %s (try -help)", c.config.Action)
	}
}

func (c *InventoryCommand) filter() (services.Filter, error) {
	var filter services.Filter
	if c.config.FilterBlood != "" {
		bloodType, err := entities.ParseBloodType(c.config.FilterBlood)
		if err != nil {
			return filter, err
		}
		filter.BloodType = &bloodType
	}
	if c.config.FilterComponent != "" {
		component, err := entities.ParseComponent(c.config.FilterComponent)
		if err != nil {
			return filter, err
		}
		filter.Component = &component
	}
	if c.config.FilterStatus != "" {
		status, err := entities.ParseUnitStatus(c.config.FilterStatus)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}
	filter.SearchText = c.config.Search
	return filter, nil
}

func (c *InventoryCommand) list(svc *services.InventoryService) error {
	filter, err := c.filter()
	if err != nil {
		return err
	}
	units, err := svc.List(filter)
	if err != nil {
		return err
	}
	return output.RenderUnits(units, c.config.Format)
}

func (c *InventoryCommand) register(svc *services.InventoryService) error {
	req, err := c.registerRequest()
	if err != nil {
		return err
	}

	unit, warnings, err := svc.Register(req)
	if err != nil {
		return err
	}
	output.RenderWarnings(warnings)

	if err := svc.Save(); err != nil {
		return err
	}
	fmt.Printf("Unit %s registered (%s %s, expires %s)\n",
		unit.Serial, unit.BloodType, unit.Component, expiryText(unit))
	return nil
}

func (c *InventoryCommand) registerRequest() (services.RegisterRequest, error) {
	var req services.RegisterRequest

	req.Serial = strings.TrimSpace(c.config.Serial)
	req.Segment = c.config.Segment
	req.Source = c.config.Source
	req.Patient = c.config.Patient

	bloodType, err := entities.ParseBloodType(c.config.BloodType)
	if err != nil {
		return req, err
	}
	req.BloodType = bloodType

	component, err := entities.ParseComponent(c.config.Component)
	if err != nil {
		return req, err
	}
	req.Component = component

	volume, err := decimal.NewFromString(c.config.Volume)
	if err != nil {
		return req, fmt.Errorf("invalid volume: %s", c.config.Volume)
	}
	req.Volume = volume

	collected, err := time.Parse(entities.DateFormat, c.config.Collected)
	if err != nil {
		return req, fmt.Errorf("invalid collection date: %s (expected %s)", c.config.Collected, entities.DateFormat)
	}
	req.Collected = collected

	if c.config.Expiry != "" {
		expiry, err := time.Parse(entities.DateFormat, c.config.Expiry)
		if err != nil {
			return req, fmt.Errorf("invalid expiry date: %s (expected %s)", c.config.Expiry, entities.DateFormat)
		}
		req.Expiry = &expiry
	}

	req.Status = entities.Available
	if c.config.Status != "" {
		status, err := entities.ParseUnitStatus(c.config.Status)
		if err != nil {
			return req, err
		}
		req.Status = status
	}

	return req, nil
}

func (c *InventoryCommand) setStatus(svc *services.InventoryService) error {
	status, err := entities.ParseUnitStatus(c.config.Status)
	if err != nil {
		return err
	}
	unit, err := svc.UpdateStatus(entities.Serial(c.config.Serial), status)
	if err != nil {
		return err
	}
	if err := svc.Save(); err != nil {
		return err
	}
	fmt.Printf("Unit %s is now %s\n", unit.Serial, unit.Status)
	return nil
}

func (c *InventoryCommand) assign(svc *services.InventoryService) error {
	if c.config.Patient == "" {
		return &entities.ValidationError{Field: "patient", Message: "patient is required for crossmatch"}
	}
	unit, err := svc.Assign(entities.Serial(c.config.Serial), c.config.Patient)
	if err != nil {
		return err
	}
	if err := svc.Save(); err != nil {
		return err
	}
	fmt.Printf("Unit %s crossmatched for %s\n", unit.Serial, unit.Patient)
	return nil
}

func (c *InventoryCommand) summary(svc *services.InventoryService, reports *services.ReportService) error {
	units, err := svc.List(services.Filter{})
	if err != nil {
		return err
	}
	return output.RenderSummary(reports.Summary(units, svc.Now()), c.config.Format)
}

func (c *InventoryCommand) detail(svc *services.InventoryService, reports *services.ReportService) error {
	units, err := svc.List(services.Filter{})
	if err != nil {
		return err
	}
	return output.RenderDetail(reports.Detail(units, svc.Now()), c.config.Format)
}

func (c *InventoryCommand) export(svc *services.InventoryService) error {
	if c.config.ExportFile == "" {
		return &entities.ValidationError{Field: "export", Message: "export file is required"}
	}
	filter, err := c.filter()
	if err != nil {
		return err
	}
	units, err := svc.List(filter)
	if err != nil {
		return err
	}

	file, err := os.Create(c.config.ExportFile)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	if err := output.WriteUnitsCSV(file, units); err != nil {
		return err
	}
	fmt.Printf("Exported %d units to %s\n", len(units), c.config.ExportFile)
	return nil
}

func (c *InventoryCommand) seed(svc *services.InventoryService) error {
	units, err := svc.SeedDemo()
	if err != nil {
		return err
	}
	if err := svc.Save(); err != nil {
		return err
	}
	fmt.Printf("Seeded %d demo units\n", len(units))
	return nil
}

func openStore(policy config.Policy) (repositories.UnitStore, func(), error) {
	switch policy.Store {
	case config.StoreSQLite:
		store, err := sqlite.NewStore(policy.InventoryFile)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	default:
		return csvstore.NewStore(policy.InventoryFile), func() {}, nil
	}
}

func expiryText(unit *entities.Unit) string {
	if unit.ExpiryAt == nil {
		return "unknown"
	}
	return unit.ExpiryAt.Format(entities.DateFormat)
}

func (c *InventoryCommand) showHelp() {
	fmt.Println(`bloodstock - blood unit inventory tracker

Usage:
  bloodstock -action <action> [flags]

Actions:
  list        List units (filters: -filter-blood, -filter-component, -filter-status, -search)
  register    Register a unit (-serial, -blood, -component, -volume, -collected, [-segment -source -expiry -status -patient])
  set-status  Change a unit's status (-serial, -status)
  assign      Crossmatch a unit for a patient (-serial, -patient)
  summary     Available stock counts by blood type and component
  detail      Active inventory grouped by component and blood type
  export      Write a filtered CSV report (-out, plus list filters)
  seed        Populate an empty inventory with demo data

Flags:
  -config     Policy YAML (store driver, shelf-life overrides, warning window)
  -format     Output format: text, json, csv

Environment (also read from .env):
  BLOODSTOCK_STORE, BLOODSTOCK_INVENTORY_FILE, BLOODSTOCK_NEAR_EXPIRY_DAYS`)
}
