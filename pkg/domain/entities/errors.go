package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateSerial is returned when registering a serial that already exists.
	ErrDuplicateSerial = errors.New("duplicate serial")
	// ErrUnitNotFound is returned when an operation references an unknown serial.
	ErrUnitNotFound = errors.New("unit not found")
	// ErrInvalidTransition is returned for a status change the lifecycle does not allow.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError reports a rejected field at creation time. The record is
// not created when one of these is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// Warning reports a data integrity problem found on load. The record is
// retained but excluded from automatic status promotion; never fatal.
type Warning struct {
	Serial  Serial
	Field   string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("unit %s: %s: %s", w.Serial, w.Field, w.Message)
}
