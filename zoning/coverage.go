package zoning

import (
	"fmt"

	"github.com/parcelworks/bylaw/vocabulary/zone"
	"github.com/parcelworks/bylaw/zoning/registry"
)

// suffixZeroCoverageHeightSplit is the Table 6.4.2 height threshold: on
// RL1/RL2 parent lots, buildings above it get reduced coverage.
const suffixZeroCoverageHeightSplit = 7.0

// WarnCoverageHeightUnknown is emitted when suffix-zero coverage depends
// on the proposed building height and none was supplied.
const WarnCoverageHeightUnknown = "lot coverage unresolved: suffix-zero coverage requires the proposed building height"

// suffixZeroFARBands is by-law Table 6.4.1: maximum residential floor
// area ratio for -0 lots by lot area. Bands are inclusive on the lower
// bound and exclusive on the upper; each entry carries its lower bound
// and the bands are kept sorted so resolution is an ordered scan, never
// a formula approximation.
var suffixZeroFARBands = []struct {
	lowerM2 float64
	ratio   float64
}{
	{0, 0.43},
	{557.5, 0.42},
	{650, 0.41},
	{743, 0.40},
	{836, 0.39},
	{929, 0.38},
	{1022, 0.37},
	{1115, 0.35},
	{1208, 0.32},
	{1301, 0.29},
}

// SuffixZeroFAR returns the Table 6.4.1 ratio for a lot area.
func SuffixZeroFAR(lotAreaM2 float64) float64 {
	ratio := suffixZeroFARBands[0].ratio
	for _, band := range suffixZeroFARBands {
		if lotAreaM2 >= band.lowerM2 {
			ratio = band.ratio
		}
	}
	return ratio
}

// rl12CoverageGroup and rl3CoverageGroup are the two parent-zone groups
// Table 6.4.2 defines rows for.
var (
	rl12CoverageGroup = map[zone.Code]bool{zone.RL1: true, zone.RL2: true}
	rl3CoverageGroup  = map[zone.Code]bool{
		zone.RL3: true, zone.RL4: true, zone.RL5: true,
		zone.RL7: true, zone.RL8: true, zone.RL10: true,
	}
)

// ResolveCoverage determines the maximum lot coverage for a zone identity
// and lot. Unresolvable coverage yields a nil percentage plus a warning;
// the resolver never guesses a table branch.
func ResolveCoverage(id Identity, geom LotGeometry, rules registry.Rules) (CoverageOutcome, []string) {
	rule := rules.MaxLotCoverage
	if id.SuffixZero && rules.MaxLotCoverageSuffixZero.Kind != registry.CoverageUnset {
		rule = rules.MaxLotCoverageSuffixZero
	}

	var (
		out      CoverageOutcome
		warnings []string
	)

	switch rule.Kind {
	case registry.CoverageFixed:
		out.Percent = Float64(rule.Fraction * 100)

	case registry.CoverageNoMaximum:
		out.NoMaximum = true

	case registry.CoverageTable:
		pct, warn := suffixZeroCoverage(id.Base, geom.ProposedHeightM, rules)
		out.Percent = pct
		if warn != "" {
			warnings = append(warnings, warn)
		}
	}

	if out.Percent != nil && geom.AreaM2 != nil {
		out.AreaM2 = Float64(*geom.AreaM2 * *out.Percent / 100)
	}
	return out, warnings
}

// suffixZeroCoverage resolves Table 6.4.2 for a parent zone and proposed
// building height. The RL1/RL2 row is height-dependent; the RL3 group row
// is a flat 35%; other parent zones have no row at all.
func suffixZeroCoverage(base zone.Code, heightM *float64, rules registry.Rules) (*float64, string) {
	switch {
	case rl12CoverageGroup[base]:
		if heightM == nil {
			return nil, WarnCoverageHeightUnknown
		}
		if *heightM > suffixZeroCoverageHeightSplit {
			return Float64(25), ""
		}
		// At or below the split, the parent zone's own maximum governs.
		if rules.MaxLotCoverage.Kind != registry.CoverageFixed {
			err := &RuleDataError{Zone: base, Field: "parent zone coverage"}
			return nil, err.Error()
		}
		return Float64(rules.MaxLotCoverage.Fraction * 100), ""

	case rl3CoverageGroup[base]:
		return Float64(35), ""

	default:
		err := &RuleDataError{Zone: base, Field: fmt.Sprintf("table %s row", registry.TableSuffixZeroCoverage)}
		return nil, err.Error()
	}
}

// WarnFARLotAreaUnknown is emitted when the suffix-zero FAR table cannot
// be consulted because the lot area is absent.
const WarnFARLotAreaUnknown = "floor area ratio unresolved: suffix-zero FAR requires the lot area"

// ResolveFAR determines the maximum residential floor area ratio and the
// resulting floor area for a zone identity and lot. Zones with an
// absolute floor area cap (RL6) apply it on top of the ratio figure.
func ResolveFAR(id Identity, geom LotGeometry, rules registry.Rules) (FAROutcome, []string) {
	rule := rules.MaxResidentialFAR
	if id.SuffixZero && rules.MaxResidentialFARSuffixZero.Kind != registry.FARUnset {
		rule = rules.MaxResidentialFARSuffixZero
	}

	var (
		out      FAROutcome
		warnings []string
	)

	switch rule.Kind {
	case registry.FARFixed:
		out.Ratio = Float64(rule.Ratio)

	case registry.FARTable:
		if geom.AreaM2 == nil {
			warnings = append(warnings, WarnFARLotAreaUnknown)
			break
		}
		out.Ratio = Float64(SuffixZeroFAR(*geom.AreaM2))
	}

	if out.Ratio != nil && geom.AreaM2 != nil {
		floorArea := *geom.AreaM2 * *out.Ratio
		if rules.MaxResidentialFloorAreaM2 != nil && floorArea > *rules.MaxResidentialFloorAreaM2 {
			floorArea = *rules.MaxResidentialFloorAreaM2
		}
		out.FloorAreaM2 = Float64(floorArea)
	}
	return out, warnings
}
