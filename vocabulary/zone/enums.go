package zone

import "strings"

// Code represents a base residential zone code.
type Code string

const (
	RL1  Code = "RL1"
	RL2  Code = "RL2"
	RL3  Code = "RL3"
	RL4  Code = "RL4"
	RL5  Code = "RL5"
	RL6  Code = "RL6"
	RL7  Code = "RL7"
	RL8  Code = "RL8"
	RL9  Code = "RL9"
	RL10 Code = "RL10"
	RL11 Code = "RL11"
	RUC  Code = "RUC"
	RM1  Code = "RM1"
	RM2  Code = "RM2"
	RM3  Code = "RM3"
	RM4  Code = "RM4"
	RH   Code = "RH"
)

// allCodes is ordered the way the by-law tables are ordered.
var allCodes = []Code{
	RL1, RL2, RL3, RL4, RL5, RL6, RL7, RL8, RL9, RL10, RL11,
	RUC, RM1, RM2, RM3, RM4, RH,
}

// AllCodes returns every recognized base zone code in by-law table order.
// The returned slice is a copy; callers may mutate it freely.
func AllCodes() []Code {
	out := make([]Code, len(allCodes))
	copy(out, allCodes)
	return out
}

// ParseCode returns the base zone code for s, case-insensitively.
// The second return is false when s is not a recognized code.
func ParseCode(s string) (Code, bool) {
	c := Code(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range allCodes {
		if known == c {
			return c, true
		}
	}
	return "", false
}

// Valid reports whether c is a recognized base zone code.
func (c Code) Valid() bool {
	_, ok := ParseCode(string(c))
	return ok
}

// String returns the code as written in the by-law.
func (c Code) String() string { return string(c) }

// Category represents a residential zone category.
type Category string

const (
	// CategoryLow covers the RL1–RL11 detached/semi-detached zones.
	CategoryLow Category = "residential-low"

	// CategoryUptownCore covers the RUC mixed residential zone.
	CategoryUptownCore Category = "residential-uptown-core"

	// CategoryMedium covers the RM1–RM4 townhouse and apartment zones.
	CategoryMedium Category = "residential-medium"

	// CategoryHigh covers the RH apartment zone.
	CategoryHigh Category = "residential-high"
)

// Category returns the category for a base zone code.
// Unrecognized codes return the empty category.
func (c Code) Category() Category {
	switch {
	case strings.HasPrefix(string(c), "RL"):
		if c.Valid() {
			return CategoryLow
		}
	case c == RUC:
		return CategoryUptownCore
	case strings.HasPrefix(string(c), "RM"):
		if c.Valid() {
			return CategoryMedium
		}
	case c == RH:
		return CategoryHigh
	}
	return ""
}

// DwellingType represents a permitted dwelling form.
type DwellingType string

const (
	DwellingDetached     DwellingType = "detached"
	DwellingSemiDetached DwellingType = "semi-detached"
	DwellingDuplex       DwellingType = "duplex"
	DwellingTownhouse    DwellingType = "townhouse"
	DwellingBackToBack   DwellingType = "back-to-back-townhouse"
	DwellingStacked      DwellingType = "stacked-townhouse"
	DwellingApartment    DwellingType = "apartment"
	DwellingLinked       DwellingType = "linked"
)

// Confidence represents how firmly a derived figure is grounded in the
// zone tables.
type Confidence string

const (
	// ConfidenceHigh means every input came from the zone tables.
	ConfidenceHigh Confidence = "high"

	// ConfidenceMedium means a generic default filled a table gap
	// (for example the two-storey residential cap).
	ConfidenceMedium Confidence = "medium"

	// ConfidenceLow means a required figure could not be resolved at all.
	ConfidenceLow Confidence = "low"
)

// Method identifies which formula produced a final buildable figure.
type Method string

const (
	// MethodCoverage derives floor area from lot coverage and storeys.
	// When both coverage and FAR resolve, coverage is authoritative.
	MethodCoverage Method = "coverage"

	// MethodFAR derives floor area from the floor-area-ratio tables.
	MethodFAR Method = "floor-area-ratio"
)
