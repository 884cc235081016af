package zoning

import "github.com/parcelworks/bylaw/vocabulary/zone"

// Setbacks holds the resolved yard requirements for one evaluation. A nil
// field means the dimension could not be determined: either the by-law
// defines no value for that yard, or a required input (such as the
// suffix-zero existing front yard survey) was absent.
type Setbacks struct {
	// Front is the minimum front yard in metres.
	Front *float64 `json:"front_m,omitempty"`

	// FrontMax is the maximum front yard under the suffix-zero rule
	// (Section 6.4.3): the minimum plus 5.5 m. Nil outside -0 zones.
	FrontMax *float64 `json:"front_max_m,omitempty"`

	// InteriorSide is the symmetric interior side yard in metres,
	// applied to both sides.
	InteriorSide *float64 `json:"interior_side_m,omitempty"`

	// Rear is the minimum rear yard in metres, after any corner-lot
	// reduction.
	Rear *float64 `json:"rear_m,omitempty"`

	// Flankage is the side-street yard in metres. Nil on interior lots.
	Flankage *float64 `json:"flankage_m,omitempty"`
}

// CoverageOutcome is the resolved maximum lot coverage.
type CoverageOutcome struct {
	// Percent is the maximum coverage as a percentage of lot area.
	Percent *float64 `json:"percent,omitempty"`

	// AreaM2 is Percent applied to the lot area.
	AreaM2 *float64 `json:"area_m2,omitempty"`

	// NoMaximum is set for zones where the by-law imposes no coverage
	// limit. Distinct from an unresolved (nil) percentage.
	NoMaximum bool `json:"no_maximum,omitempty"`
}

// FAROutcome is the resolved maximum floor area ratio.
type FAROutcome struct {
	// Ratio is floor area permitted as a fraction of lot area.
	Ratio *float64 `json:"ratio,omitempty"`

	// FloorAreaM2 is Ratio applied to the lot area, after any absolute
	// floor area cap for the zone.
	FloorAreaM2 *float64 `json:"floor_area_m2,omitempty"`
}

// Envelope is the buildable footprint after applying setbacks. All fields
// are nil unless every required setback and lot dimension was resolvable.
// Negative usable dimensions are retained as computed; the evaluator
// surfaces them as a violation rather than flooring them to zero.
type Envelope struct {
	UsableFrontageM *float64 `json:"usable_frontage_m,omitempty"`
	UsableDepthM    *float64 `json:"usable_depth_m,omitempty"`
	BuildableAreaM2 *float64 `json:"buildable_area_m2,omitempty"`

	// EfficiencyRatio is buildable area over lot area. Nil when the lot
	// area is nil or zero.
	EfficiencyRatio *float64 `json:"efficiency_ratio,omitempty"`
}

// FinalBuildable is the estimated final buildable floor area analysis.
// The calculation deliberately mirrors the documented estimation method,
// including its fixed imperial deduction and two-storey cap; it is an
// estimate presented alongside the authoritative coverage/FAR figures,
// never a replacement for them.
type FinalBuildable struct {
	Method zone.Method `json:"method"`

	LotCoverageAreaM2  *float64 `json:"lot_coverage_area_m2,omitempty"`
	LotCoverageAreaFt2 *float64 `json:"lot_coverage_area_ft2,omitempty"`

	MaxFloors int `json:"max_floors"`

	GrossFloorAreaM2  *float64 `json:"gross_floor_area_m2,omitempty"`
	GrossFloorAreaFt2 *float64 `json:"gross_floor_area_ft2,omitempty"`

	// DeductionFt2 is the fixed standard deduction in square feet.
	DeductionFt2 float64 `json:"deduction_ft2"`

	FinalBuildableM2  *float64 `json:"final_buildable_m2,omitempty"`
	FinalBuildableFt2 *float64 `json:"final_buildable_ft2,omitempty"`

	Confidence zone.Confidence `json:"confidence"`
	Note       string          `json:"note,omitempty"`
}

// DevelopmentPotential is the full evaluation result for one designation
// and lot. Immutable once returned. Any field whose inputs were
// unavailable is nil, never zero or a guessed default.
type DevelopmentPotential struct {
	// Designation echoes the canonical zone designation.
	Designation string `json:"designation"`

	// Identity is the parsed zone identity the evaluation used.
	Identity Identity `json:"identity"`

	ZoneName string        `json:"zone_name"`
	Category zone.Category `json:"category"`

	// MeetsMinimumRequirements is true iff Violations is empty.
	// Warnings never affect it.
	MeetsMinimumRequirements bool     `json:"meets_minimum_requirements"`
	Violations               []string `json:"violations,omitempty"`
	Warnings                 []string `json:"warnings,omitempty"`

	Setbacks Setbacks `json:"setbacks"`

	MaxCoveragePercent *float64 `json:"max_coverage_percent,omitempty"`
	MaxCoverageAreaM2  *float64 `json:"max_coverage_area_m2,omitempty"`
	CoverageNoMaximum  bool     `json:"coverage_no_maximum,omitempty"`

	MaxFAR         *float64 `json:"max_far,omitempty"`
	MaxFloorAreaM2 *float64 `json:"max_floor_area_m2,omitempty"`

	MaxHeightM *float64 `json:"max_height_m,omitempty"`
	MaxStoreys *int     `json:"max_storeys,omitempty"`

	UsableFrontageM *float64 `json:"usable_frontage_m,omitempty"`
	UsableDepthM    *float64 `json:"usable_depth_m,omitempty"`
	BuildableAreaM2 *float64 `json:"buildable_area_m2,omitempty"`
	EfficiencyRatio *float64 `json:"efficiency_ratio,omitempty"`

	PotentialUnits *int `json:"potential_units,omitempty"`

	PermittedUses []zone.DwellingType `json:"permitted_uses,omitempty"`

	FinalBuildable *FinalBuildable `json:"final_buildable_analysis,omitempty"`
}
