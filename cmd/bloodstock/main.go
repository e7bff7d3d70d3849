package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"bloodstock/pkg/interfaces/cli/commands"
)

func main() {
	_ = godotenv.Load()

	// Command line flags
	var (
		action     = flag.String("action", "", "Action: list, register, set-status, assign, summary, detail, export, seed")
		policyFile = flag.String("config", "", "Path to policy YAML file")
		format     = flag.String("format", "text", "Output format: text, json, csv")

		serial    = flag.String("serial", "", "Unit serial number")
		segment   = flag.String("segment", "", "Segment ID")
		source    = flag.String("source", "", "Source/donor ID")
		blood     = flag.String("blood", "", "Blood type (O+, O-, A+, A-, B+, B-, AB+, AB-)")
		component = flag.String("component", "", "Component (Whole Blood, PRBC, Platelets, FFP)")
		volume    = flag.String("volume", "", "Volume in mL")
		collected = flag.String("collected", "", "Collection date (YYYY-MM-DD)")
		expiry    = flag.String("expiry", "", "Expiry date override (YYYY-MM-DD)")
		status    = flag.String("status", "", "Unit status")
		patient   = flag.String("patient", "", "Patient allocation")

		filterBlood     = flag.String("filter-blood", "", "Filter listing by blood type")
		filterComponent = flag.String("filter-component", "", "Filter listing by component")
		filterStatus    = flag.String("filter-status", "", "Filter listing by status")
		search          = flag.String("search", "", "Substring search over serial, blood type and patient")

		exportFile = flag.String("out", "", "Output file for export")
		help       = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	// Create command configuration
	config := commands.Config{
		Action:          *action,
		PolicyFile:      *policyFile,
		Format:          *format,
		Serial:          *serial,
		Segment:         *segment,
		Source:          *source,
		BloodType:       *blood,
		Component:       *component,
		Volume:          *volume,
		Collected:       *collected,
		Expiry:          *expiry,
		Status:          *status,
		Patient:         *patient,
		FilterBlood:     *filterBlood,
		FilterComponent: *filterComponent,
		FilterStatus:    *filterStatus,
		Search:          *search,
		ExportFile:      *exportFile,
		Help:            *help,
	}

	// Create and execute command
	cmd := commands.NewInventoryCommand(config)
	ctx := context.Background()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
