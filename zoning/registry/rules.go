package registry

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/parcelworks/bylaw/vocabulary/zone"
)

// Table identifiers referenced by rule data. Each symbolic reference is
// resolved by a dedicated resolver in the zoning package rather than by
// string dispatch inside calculation code.
const (
	// TableSuffixZeroFAR is the lot-area-banded FAR table for -0 zones
	// (by-law Table 6.4.1).
	TableSuffixZeroFAR = "6.4.1"

	// TableSuffixZeroCoverage is the height-dependent coverage table for
	// -0 zones (by-law Table 6.4.2).
	TableSuffixZeroCoverage = "6.4.2"
)

// SetbackKind discriminates setback rule variants.
type SetbackKind int

const (
	// SetbackUnset means the by-law defines no value ("N/A"); the
	// resolved setback is nil, not zero.
	SetbackUnset SetbackKind = iota

	// SetbackFixed is a fixed metre value.
	SetbackFixed

	// SetbackExistingMinusOne is the suffix-zero front yard rule: the
	// surveyed existing front yard less 1.0 m.
	SetbackExistingMinusOne
)

// Setback is a tagged setback rule: a fixed metre value, the symbolic
// existing-minus-one rule, or unset.
type Setback struct {
	Kind   SetbackKind
	Metres float64
}

// FixedSetback builds a fixed-value setback rule.
func FixedSetback(m float64) Setback {
	return Setback{Kind: SetbackFixed, Metres: m}
}

// UnmarshalYAML accepts a number (fixed metres), the string
// "existing-minus-one", or null (unset).
func (s *Setback) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!null" {
		*s = Setback{}
		return nil
	}
	if node.Tag == "!!str" {
		if node.Value == "existing-minus-one" {
			*s = Setback{Kind: SetbackExistingMinusOne}
			return nil
		}
		return fmt.Errorf("unknown setback rule %q", node.Value)
	}
	var m float64
	if err := node.Decode(&m); err != nil {
		return fmt.Errorf("setback rule: %w", err)
	}
	*s = Setback{Kind: SetbackFixed, Metres: m}
	return nil
}

// CoverageKind discriminates lot coverage rule variants.
type CoverageKind int

const (
	// CoverageUnset means coverage is not defined for the zone; distinct
	// from CoverageNoMaximum.
	CoverageUnset CoverageKind = iota

	// CoverageFixed is a fixed fraction of the lot area.
	CoverageFixed

	// CoverageNoMaximum means the by-law imposes no coverage limit
	// (RL6, RL8, RL9).
	CoverageNoMaximum

	// CoverageTable defers to a lookup table identified by TableID.
	CoverageTable
)

// Coverage is a tagged lot coverage rule.
type Coverage struct {
	Kind     CoverageKind
	Fraction float64
	TableID  string
}

// FixedCoverage builds a fixed-fraction coverage rule.
func FixedCoverage(f float64) Coverage {
	return Coverage{Kind: CoverageFixed, Fraction: f}
}

// UnmarshalYAML accepts a number (fixed fraction), "none" (no maximum),
// "table-<id>" (table lookup), or null (unset).
func (c *Coverage) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!null" {
		*c = Coverage{}
		return nil
	}
	if node.Tag == "!!str" {
		switch {
		case node.Value == "none":
			*c = Coverage{Kind: CoverageNoMaximum}
			return nil
		case len(node.Value) > 6 && node.Value[:6] == "table-":
			*c = Coverage{Kind: CoverageTable, TableID: node.Value[6:]}
			return nil
		}
		return fmt.Errorf("unknown coverage rule %q", node.Value)
	}
	var f float64
	if err := node.Decode(&f); err != nil {
		return fmt.Errorf("coverage rule: %w", err)
	}
	*c = Coverage{Kind: CoverageFixed, Fraction: f}
	return nil
}

// FARKind discriminates floor-area-ratio rule variants.
type FARKind int

const (
	// FARUnset means no FAR is defined for the zone.
	FARUnset FARKind = iota

	// FARFixed is a fixed ratio of floor area to lot area.
	FARFixed

	// FARTable defers to a lookup table identified by TableID.
	FARTable
)

// FAR is a tagged floor-area-ratio rule.
type FAR struct {
	Kind    FARKind
	Ratio   float64
	TableID string
}

// FixedFAR builds a fixed-ratio FAR rule.
func FixedFAR(r float64) FAR {
	return FAR{Kind: FARFixed, Ratio: r}
}

// UnmarshalYAML accepts a number (fixed ratio), "table-<id>", or null.
func (f *FAR) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!null" {
		*f = FAR{}
		return nil
	}
	if node.Tag == "!!str" {
		if len(node.Value) > 6 && node.Value[:6] == "table-" {
			*f = FAR{Kind: FARTable, TableID: node.Value[6:]}
			return nil
		}
		return fmt.Errorf("unknown FAR rule %q", node.Value)
	}
	var r float64
	if err := node.Decode(&r); err != nil {
		return fmt.Errorf("FAR rule: %w", err)
	}
	*f = FAR{Kind: FARFixed, Ratio: r}
	return nil
}

// UnitDensity selects the dwelling-unit-count formula for a zone. The set
// is closed; the zoning package maps each value to a formula once per
// evaluation instead of inspecting zone codes at runtime.
type UnitDensity string

const (
	UnitSingleFamily UnitDensity = "single-family"
	UnitMixed        UnitDensity = "mixed"
	UnitDuplex       UnitDensity = "duplex"
	UnitLinked       UnitDensity = "linked"
	UnitUptownCore   UnitDensity = "uptown-core"
	UnitMedium       UnitDensity = "medium"
	UnitHigh         UnitDensity = "high"
)

// SetbackSet holds the per-yard setback rules for a zone.
type SetbackSet struct {
	Front           Setback `yaml:"front"`
	FrontSuffixZero Setback `yaml:"front_suffix_zero"`
	InteriorSide    Setback `yaml:"interior_side"`
	Rear            Setback `yaml:"rear"`
	Flankage        Setback `yaml:"flankage"`
}

// CornerRule describes the corner-lot rear yard reduction: the rear yard
// may shrink to RearM only when the interior side yard is at least
// MinInteriorSideM.
type CornerRule struct {
	RearM            float64 `yaml:"rear"`
	MinInteriorSideM float64 `yaml:"min_interior_side"`
}

// Rules is the full regulatory record for one base zone. Instances are
// read-only after registry load; Lookup hands out deep copies so no caller
// can mutate the shared table.
type Rules struct {
	Code     zone.Code     `yaml:"-"`
	Name     string        `yaml:"name"`
	Category zone.Category `yaml:"category"`

	MinLotArea     *float64 `yaml:"min_lot_area"`
	MinLotFrontage *float64 `yaml:"min_lot_frontage"`

	Setbacks SetbackSet  `yaml:"setbacks"`
	Corner   *CornerRule `yaml:"corner"`

	MaxHeight            *float64 `yaml:"max_height"`
	MaxHeightSuffixZero  *float64 `yaml:"max_height_suffix_zero"`
	MaxStoreys           *int     `yaml:"max_storeys"`
	MaxStoreysSuffixZero *int     `yaml:"max_storeys_suffix_zero"`
	MaxDwellingDepth     *float64 `yaml:"max_dwelling_depth"`

	MaxLotCoverage           Coverage `yaml:"max_lot_coverage"`
	MaxLotCoverageSuffixZero Coverage `yaml:"max_lot_coverage_suffix_zero"`

	MaxResidentialFAR           FAR `yaml:"max_residential_far"`
	MaxResidentialFARSuffixZero FAR `yaml:"max_residential_far_suffix_zero"`

	// MaxResidentialFloorAreaM2 is an absolute floor area cap applied on
	// top of the FAR figure (RL6: 355 m² or FAR × area, whichever is less).
	MaxResidentialFloorAreaM2 *float64 `yaml:"max_residential_floor_area_m2"`

	UnitDensity   UnitDensity         `yaml:"unit_density"`
	PermittedUses []zone.DwellingType `yaml:"permitted_uses"`
}

// Clone returns a deep copy of r.
func (r Rules) Clone() Rules {
	out := r
	out.MinLotArea = copyFloat(r.MinLotArea)
	out.MinLotFrontage = copyFloat(r.MinLotFrontage)
	out.MaxHeight = copyFloat(r.MaxHeight)
	out.MaxHeightSuffixZero = copyFloat(r.MaxHeightSuffixZero)
	out.MaxStoreys = copyInt(r.MaxStoreys)
	out.MaxStoreysSuffixZero = copyInt(r.MaxStoreysSuffixZero)
	out.MaxDwellingDepth = copyFloat(r.MaxDwellingDepth)
	out.MaxResidentialFloorAreaM2 = copyFloat(r.MaxResidentialFloorAreaM2)
	if r.Corner != nil {
		corner := *r.Corner
		out.Corner = &corner
	}
	if r.PermittedUses != nil {
		out.PermittedUses = make([]zone.DwellingType, len(r.PermittedUses))
		copy(out.PermittedUses, r.PermittedUses)
	}
	return out
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
