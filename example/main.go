package main

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"bloodstock/pkg/application/services"
	"bloodstock/pkg/clock"
	"bloodstock/pkg/domain/entities"
	csvstore "bloodstock/pkg/infrastructure/repositories/csv"
	"bloodstock/pkg/infrastructure/repositories/memory"
)

func main() {
	store := csvstore.NewStore("example_inventory.csv")
	repo := memory.NewUnitRepository()
	svc := services.NewInventoryService(repo, store, clock.NewSystem())
	reports := services.NewReportService()

	fmt.Println("Registering a fresh platelet unit...")
	unit, warnings, err := svc.Register(services.RegisterRequest{
		Serial:    "S2001",
		Segment:   "A7",
		Source:    "Donor 113",
		BloodType: entities.ONegative,
		Component: entities.Platelets,
		Volume:    decimal.NewFromInt(50),
		Collected: time.Now(),
	})
	if err != nil {
		fmt.Printf("Registration failed: %v\n", err)
		os.Exit(1)
	}
	for _, warning := range warnings {
		fmt.Printf("  warning: %s\n", warning)
	}
	fmt.Printf("  %s expires %s (%s old)\n\n",
		unit.Serial, unit.ExpiryAt.Format(entities.DateFormat), unit.AgeText)

	fmt.Println("Crossmatching for a patient...")
	unit, err = svc.Assign("S2001", "Jane Smith - OR 2")
	if err != nil {
		fmt.Printf("Crossmatch failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("  %s is now %s for %s\n\n", unit.Serial, unit.Status, unit.Patient)

	units, err := svc.List(services.Filter{})
	if err != nil {
		fmt.Printf("List failed: %v\n", err)
		os.Exit(1)
	}

	summary := reports.Summary(units, svc.Now())
	fmt.Printf("Available stock: %d units across %d blood type / component buckets\n",
		summary.TotalUnits, len(summary.Cells))

	if err := svc.Save(); err != nil {
		fmt.Printf("Save failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Inventory written to example_inventory.csv")
}
