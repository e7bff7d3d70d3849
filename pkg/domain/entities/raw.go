package entities

// DateFormat is the one canonical serialization format for calendar dates.
// Read and write sides always agree so date strings are round-trip stable.
const DateFormat = "2006-01-02"

// RawUnit is the pre-normalization row shape produced and consumed by storage
// drivers. Every field is text; the normalizer is the single place raw rows
// are coerced into typed Units.
type RawUnit struct {
	Serial      string
	Segment     string
	Source      string
	BloodType   string
	Component   string
	Volume      string
	CollectedAt string
	ExpiryAt    string
	Status      string
	Patient     string
}

// UnitColumns is the canonical, versioned column set for tabular storage.
// Unknown columns found in a file are dropped; missing ones default to empty.
var UnitColumns = []string{
	"serial", "segment", "source", "blood_type", "component",
	"volume", "collected_at", "expiry_at", "status", "patient",
}
