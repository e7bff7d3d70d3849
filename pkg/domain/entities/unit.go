package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Serial represents a unique blood unit identifier
type Serial string

// BloodType represents the ABO/Rh blood group of a unit
type BloodType int

const (
	OPositive BloodType = iota
	ONegative
	APositive
	ANegative
	BPositive
	BNegative
	ABPositive
	ABNegative
)

// String method for BloodType enum
func (b BloodType) String() string {
	switch b {
	case OPositive:
		return "O+"
	case ONegative:
		return "O-"
	case APositive:
		return "A+"
	case ANegative:
		return "A-"
	case BPositive:
		return "B+"
	case BNegative:
		return "B-"
	case ABPositive:
		return "AB+"
	case ABNegative:
		return "AB-"
	default:
		return "Unknown"
	}
}

// AllBloodTypes lists every blood group in display order
func AllBloodTypes() []BloodType {
	return []BloodType{OPositive, ONegative, APositive, ANegative, BPositive, BNegative, ABPositive, ABNegative}
}

// ParseBloodType parses a blood type string like "O+" or "AB-"
func ParseBloodType(s string) (BloodType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "O+":
		return OPositive, nil
	case "O-":
		return ONegative, nil
	case "A+":
		return APositive, nil
	case "A-":
		return ANegative, nil
	case "B+":
		return BPositive, nil
	case "B-":
		return BNegative, nil
	case "AB+":
		return ABPositive, nil
	case "AB-":
		return ABNegative, nil
	default:
		return OPositive, fmt.Errorf("invalid blood type: %s (expected one of: O+, O-, A+, A-, B+, B-, AB+, AB-)", s)
	}
}

// Component represents the blood component type, which determines shelf life
type Component int

const (
	WholeBlood Component = iota
	PRBC
	Platelets
	FFP
)

// String method for Component enum
func (c Component) String() string {
	switch c {
	case WholeBlood:
		return "Whole Blood"
	case PRBC:
		return "PRBC"
	case Platelets:
		return "Platelets"
	case FFP:
		return "FFP"
	default:
		return "Unknown"
	}
}

// AllComponents lists every component type in display order
func AllComponents() []Component {
	return []Component{WholeBlood, PRBC, Platelets, FFP}
}

// ParseComponent parses a component name like "Whole Blood" or "FFP"
func ParseComponent(s string) (Component, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "whole blood", "wholeblood":
		return WholeBlood, nil
	case "prbc":
		return PRBC, nil
	case "platelets":
		return Platelets, nil
	case "ffp":
		return FFP, nil
	default:
		return WholeBlood, fmt.Errorf("invalid component: %s (expected: Whole Blood, PRBC, Platelets, or FFP)", s)
	}
}

// UnitStatus represents the lifecycle status of a blood unit
type UnitStatus int

const (
	Available UnitStatus = iota
	Crossmatched
	Expired
	Transfused
	Discarded
)

// String method for UnitStatus enum
func (s UnitStatus) String() string {
	switch s {
	case Available:
		return "Available"
	case Crossmatched:
		return "Crossmatched"
	case Expired:
		return "Expired"
	case Transfused:
		return "Transfused"
	case Discarded:
		return "Discarded"
	default:
		return "Unknown"
	}
}

// ParseUnitStatus parses a status name like "Available" or "Crossmatched"
func ParseUnitStatus(s string) (UnitStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "available":
		return Available, nil
	case "crossmatched":
		return Crossmatched, nil
	case "expired":
		return Expired, nil
	case "transfused":
		return Transfused, nil
	case "discarded":
		return Discarded, nil
	default:
		return Available, fmt.Errorf("invalid status: %s (expected: Available, Crossmatched, Expired, Transfused, or Discarded)", s)
	}
}

// Terminal reports whether the status is final with respect to automatic
// transitions. The deriver never moves a unit out of a terminal status.
func (s UnitStatus) Terminal() bool {
	return s == Expired || s == Transfused || s == Discarded
}

// DisplayClass classifies a unit for presentation styling
type DisplayClass string

const (
	DisplayNormal         DisplayClass = "normal"
	DisplayNearExpiry     DisplayClass = "near-expiry"
	DisplayAlreadyExpired DisplayClass = "already-expired"
	DisplayExpired        DisplayClass = "expired"
	DisplayTransfused     DisplayClass = "transfused"
	DisplayDiscarded      DisplayClass = "discarded"
)

// FieldUnset is the sentinel stored for optional text fields that were never
// provided, distinguishing "no value specified" from a cleared empty string.
const FieldUnset = "(unset)"

// Unit represents one physical blood unit in inventory
type Unit struct {
	Serial      Serial
	Segment     string
	Source      string
	BloodType   BloodType
	Component   Component
	Volume      decimal.Decimal // milliliters
	CollectedAt time.Time
	ExpiryAt    *time.Time // nil = unknown, never auto-expired
	Status      UnitStatus
	Patient     string

	// Derived on every status pass; never persisted.
	AgeDays      int
	AgeText      string
	DisplayClass DisplayClass
	NeedsReview  bool
}

// NewUnit creates a validated Unit
func NewUnit(
	serial Serial,
	segment, source string,
	bloodType BloodType,
	component Component,
	volume decimal.Decimal,
	collectedAt time.Time,
	expiryAt *time.Time,
	status UnitStatus,
	patient string,
) (*Unit, error) {
	if string(serial) == "" {
		return nil, &ValidationError{Field: "serial", Message: "serial cannot be empty"}
	}
	if collectedAt.IsZero() {
		return nil, &ValidationError{Field: "collectedAt", Message: "collection date is required"}
	}
	if volume.IsNegative() {
		return nil, &ValidationError{Field: "volume", Message: fmt.Sprintf("volume cannot be negative, got %s", volume)}
	}
	if segment == "" {
		segment = FieldUnset
	}
	if source == "" {
		source = FieldUnset
	}

	return &Unit{
		Serial:      serial,
		Segment:     segment,
		Source:      source,
		BloodType:   bloodType,
		Component:   component,
		Volume:      volume,
		CollectedAt: collectedAt,
		ExpiryAt:    expiryAt,
		Status:      status,
		Patient:     patient,
	}, nil
}

// Active reports whether the unit is still subject to automatic expiry
func (u *Unit) Active() bool {
	return u.Status == Available || u.Status == Crossmatched
}
