package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"bloodstock/pkg/domain/entities"
)

// SeedDemo populates an empty repository with a small demonstration
// inventory covering the interesting lifecycle cases: fresh stock, a
// crossmatched unit, a transfused unit and one already expired.
func (s *InventoryService) SeedDemo() ([]*entities.Unit, error) {
	existing, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("refusing to seed a non-empty inventory")
	}

	now := s.clk.Now()
	threeDaysAgo := now.AddDate(0, 0, -3)
	longExpired := now.AddDate(0, 0, -40)

	seeds := []RegisterRequest{
		{Serial: "S1001", Segment: "A1", Source: "Donor A", BloodType: entities.OPositive,
			Component: entities.PRBC, Volume: decimal.NewFromInt(300), Collected: threeDaysAgo,
			Status: entities.Available},
		{Serial: "S1002", Segment: "B2", Source: "Donor B", BloodType: entities.ANegative,
			Component: entities.FFP, Volume: decimal.NewFromInt(200), Collected: now,
			Status: entities.Available},
		{Serial: "S1003", Segment: "C3", Source: "Donor C", BloodType: entities.BPositive,
			Component: entities.Platelets, Volume: decimal.NewFromInt(50), Collected: threeDaysAgo,
			Status: entities.Crossmatched, Patient: "John Doe - ICU 5"},
		{Serial: "S1004", Segment: "D4", Source: "Donor D", BloodType: entities.ABPositive,
			Component: entities.WholeBlood, Volume: decimal.NewFromInt(450), Collected: threeDaysAgo,
			Status: entities.Transfused, Patient: "Jane Smith - OR 2"},
		{Serial: "S1005", Segment: "E5", Source: "Donor E", BloodType: entities.ONegative,
			Component: entities.PRBC, Volume: decimal.NewFromInt(250), Collected: longExpired,
			Status: entities.Available},
	}

	units := make([]*entities.Unit, 0, len(seeds))
	for _, req := range seeds {
		unit, _, err := s.Register(req)
		if err != nil {
			return nil, fmt.Errorf("failed to seed unit %s: %w", req.Serial, err)
		}
		units = append(units, unit)
	}
	return units, nil
}
