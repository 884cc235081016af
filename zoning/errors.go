package zoning

import (
	"errors"
	"fmt"

	"github.com/parcelworks/bylaw/vocabulary/zone"
)

// ErrZoneNotFound indicates a parsed base zone has no registry entry.
// For the supported residential zone list this signals a data-integrity
// gap in the rule dataset, not bad user input.
var ErrZoneNotFound = errors.New("zone not found in registry")

// ParseError indicates a raw designation string contained no recognizable
// base zone token. Parsing failures abort the whole evaluation.
type ParseError struct {
	Designation string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unrecognized zone designation %q", e.Designation)
}

// RangeError indicates a lot geometry value outside its validated range.
// Out-of-range input is rejected before any calculation, never clamped.
type RangeError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s %.2f outside valid range [%.2f, %.2f]", e.Field, e.Value, e.Min, e.Max)
}

// RuleDataError indicates a registry entry exists but is missing a value a
// formula requires. It is fatal for the affected sub-calculation only:
// callers degrade the field to nil and record a warning instead of
// propagating the failure up the stack.
type RuleDataError struct {
	Zone  zone.Code
	Field string
}

func (e *RuleDataError) Error() string {
	return fmt.Sprintf("zone %s rule data missing %s", e.Zone, e.Field)
}
