package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"bloodstock/pkg/application/services"
	"bloodstock/pkg/domain/entities"
)

// Supported output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// RenderUnits writes a unit listing to stdout in the requested format
func RenderUnits(units []*entities.Unit, format string) error {
	switch format {
	case FormatText:
		renderUnitsText(units)
		return nil
	case FormatJSON:
		return renderJSON(unitViews(units))
	case FormatCSV:
		return WriteUnitsCSV(os.Stdout, units)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func renderUnitsText(units []*entities.Unit) {
	fmt.Printf("Blood Unit Inventory (%d units)\n", len(units))
	fmt.Printf("===============================\n\n")

	if len(units) == 0 {
		fmt.Println("No units found matching criteria.")
		return
	}

	fmt.Printf("%-10s %-8s %-6s %-12s %-9s %-12s %-12s %-10s %-13s %-15s %s\n",
		"Serial", "Segment", "Blood", "Component", "Vol (mL)", "Collected", "Expiry", "Age", "Status", "Class", "Patient")
	fmt.Printf("%-10s %-8s %-6s %-12s %-9s %-12s %-12s %-10s %-13s %-15s %s\n",
		"----------", "--------", "------", "------------", "---------", "------------", "------------", "----------", "-------------", "---------------", "---------------")

	for _, unit := range units {
		fmt.Printf("%-10s %-8s %-6s %-12s %-9s %-12s %-12s %-10s %-13s %-15s %s\n",
			unit.Serial,
			unit.Segment,
			unit.BloodType,
			unit.Component,
			unit.Volume,
			formatDate(unit.CollectedAt),
			formatExpiry(unit.ExpiryAt),
			unit.AgeText,
			unit.Status,
			unit.DisplayClass,
			unit.Patient)
	}
	fmt.Println()
}

// WriteUnitsCSV exports a (possibly filtered) unit view as CSV, covering the
// report-download use case of the surrounding presentation layer
func WriteUnitsCSV(w io.Writer, units []*entities.Unit) error {
	writer := csv.NewWriter(w)
	header := append([]string{}, entities.UnitColumns...)
	header = append(header, "age_text", "display_class")
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, unit := range units {
		row := []string{
			string(unit.Serial), unit.Segment, unit.Source,
			unit.BloodType.String(), unit.Component.String(), unit.Volume.String(),
			formatDate(unit.CollectedAt), formatExpiry(unit.ExpiryAt),
			unit.Status.String(), unit.Patient,
			unit.AgeText, string(unit.DisplayClass),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", unit.Serial, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// RenderWarnings prints load-time integrity warnings to stderr
func RenderWarnings(warnings []entities.Warning) {
	for _, warning := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
	}
}

// RenderSummary writes the available-stock summary report
func RenderSummary(report *services.SummaryReport, format string) error {
	switch format {
	case FormatText:
		renderSummaryText(report)
		return nil
	case FormatJSON:
		return renderJSON(report)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func renderSummaryText(report *services.SummaryReport) {
	fmt.Printf("Available Stock Summary %s\n", report.GeneratedAt.Format(entities.DateFormat))
	fmt.Printf("====================================\n\n")

	if len(report.Cells) == 0 {
		fmt.Println("No available units.")
		return
	}

	fmt.Printf("%-6s %-12s %-6s %s\n", "Blood", "Component", "Units", "Volume (mL)")
	fmt.Printf("%-6s %-12s %-6s %s\n", "------", "------------", "------", "------------")
	for _, cell := range report.Cells {
		fmt.Printf("%-6s %-12s %-6d %s\n", cell.BloodType, cell.Component, cell.Count, cell.TotalVolume)
	}
	fmt.Printf("\nTotal available units: %d\n", report.TotalUnits)
}

// RenderDetail writes the active-inventory detail report
func RenderDetail(report *services.DetailReport, format string) error {
	switch format {
	case FormatText:
		renderDetailText(report)
		return nil
	case FormatJSON:
		return renderJSON(report)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func renderDetailText(report *services.DetailReport) {
	fmt.Printf("Active Inventory Detail %s\n", report.GeneratedAt.Format(entities.DateFormat))
	fmt.Printf("====================================\n")

	if len(report.Groups) == 0 {
		fmt.Println("\nNo active units.")
		return
	}

	for _, group := range report.Groups {
		fmt.Printf("\n%s / %s\n", group.Component, group.BloodType)
		for _, entry := range group.Entries {
			line := fmt.Sprintf("  %-10s %s", entry.Serial, entry.AgeOrExpiry)
			if entry.Patient != "" {
				line += fmt.Sprintf("  (%s)", entry.Patient)
			}
			fmt.Println(line)
		}
	}
}

// unitView is the JSON projection of a unit
type unitView struct {
	Serial       string `json:"serial"`
	Segment      string `json:"segment"`
	Source       string `json:"source"`
	BloodType    string `json:"blood_type"`
	Component    string `json:"component"`
	Volume       string `json:"volume"`
	CollectedAt  string `json:"collected_at"`
	ExpiryAt     string `json:"expiry_at,omitempty"`
	Status       string `json:"status"`
	Patient      string `json:"patient,omitempty"`
	AgeDays      int    `json:"age_days"`
	AgeText      string `json:"age_text"`
	DisplayClass string `json:"display_class"`
	NeedsReview  bool   `json:"needs_review,omitempty"`
}

func unitViews(units []*entities.Unit) []unitView {
	views := make([]unitView, 0, len(units))
	for _, unit := range units {
		views = append(views, unitView{
			Serial:       string(unit.Serial),
			Segment:      unit.Segment,
			Source:       unit.Source,
			BloodType:    unit.BloodType.String(),
			Component:    unit.Component.String(),
			Volume:       unit.Volume.String(),
			CollectedAt:  formatDate(unit.CollectedAt),
			ExpiryAt:     formatExpiry(unit.ExpiryAt),
			Status:       unit.Status.String(),
			Patient:      unit.Patient,
			AgeDays:      unit.AgeDays,
			AgeText:      unit.AgeText,
			DisplayClass: string(unit.DisplayClass),
			NeedsReview:  unit.NeedsReview,
		})
	}
	return views
}

func renderJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(entities.DateFormat)
}

func formatExpiry(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(entities.DateFormat)
}
