package zoning

import (
	"fmt"

	"github.com/parcelworks/bylaw/zoning/registry"
)

// Violation and warning messages produced by the evaluator.
const (
	WarnFrontageMissing = "lot frontage not provided: minimum frontage check skipped"
	WarnAreaMissing     = "lot area not provided: minimum area, coverage, and floor area checks skipped"
)

// Overrider supplies per-property rule overrides keyed by the special
// provision numbers on a designation. Implementations return the rules
// unchanged when no override applies.
type Overrider interface {
	Apply(id Identity, rules registry.Rules) registry.Rules
}

// Evaluator computes development potential against an immutable rule
// registry. The zero Overrides field disables special-provision handling.
// An Evaluator is safe for concurrent use.
type Evaluator struct {
	Registry  *registry.Registry
	Overrides Overrider
}

// Evaluate runs the full analysis for one designation and lot. A parse
// failure, lookup failure, or out-of-range dimension aborts with an error;
// everything else degrades field by field with warnings.
func (e *Evaluator) Evaluate(rawDesignation string, geom LotGeometry) (*DevelopmentPotential, error) {
	id, err := ParseDesignation(rawDesignation)
	if err != nil {
		return nil, err
	}
	return e.EvaluateIdentity(id, geom)
}

// EvaluateIdentity is Evaluate for an already-parsed identity.
func (e *Evaluator) EvaluateIdentity(id Identity, geom LotGeometry) (*DevelopmentPotential, error) {
	if err := geom.Validate(); err != nil {
		return nil, err
	}

	rules, ok := e.Registry.Lookup(id.Base)
	if !ok {
		return nil, fmt.Errorf("zone %s: %w", id.Base, ErrZoneNotFound)
	}
	if e.Overrides != nil && len(id.SpecialProvisions) > 0 {
		rules = e.Overrides.Apply(id, rules)
	}

	res := &DevelopmentPotential{
		Designation:   id.Designation(),
		Identity:      id,
		ZoneName:      rules.Name,
		Category:      rules.Category,
		PermittedUses: rules.PermittedUses,
	}

	var violations, warnings []string

	sb, w := ResolveSetbacks(id, geom, rules)
	warnings = append(warnings, w...)
	res.Setbacks = sb

	violations = append(violations, minimumViolations(geom, rules, &warnings)...)

	cov, w := ResolveCoverage(id, geom, rules)
	warnings = append(warnings, w...)
	res.MaxCoveragePercent = cov.Percent
	res.MaxCoverageAreaM2 = cov.AreaM2
	res.CoverageNoMaximum = cov.NoMaximum
	if cov.Percent != nil && *cov.Percent > 100 {
		violations = append(violations, fmt.Sprintf("maximum lot coverage %.1f%% exceeds 100%%", *cov.Percent))
	}

	far, w := ResolveFAR(id, geom, rules)
	warnings = append(warnings, w...)
	res.MaxFAR = far.Ratio
	res.MaxFloorAreaM2 = far.FloorAreaM2
	if far.Ratio != nil && *far.Ratio > 1.0 {
		violations = append(violations, fmt.Sprintf("floor area ratio %.2f exceeds 1.00", *far.Ratio))
	}

	env, v := ComputeEnvelope(geom, sb)
	violations = append(violations, v...)
	res.UsableFrontageM = env.UsableFrontageM
	res.UsableDepthM = env.UsableDepthM
	res.BuildableAreaM2 = env.BuildableAreaM2
	res.EfficiencyRatio = env.EfficiencyRatio

	res.MaxHeightM = copyFloat(rules.MaxHeight)
	res.MaxStoreys = copyInt(rules.MaxStoreys)
	if id.SuffixZero {
		if rules.MaxHeightSuffixZero != nil {
			res.MaxHeightM = copyFloat(rules.MaxHeightSuffixZero)
		}
		if rules.MaxStoreysSuffixZero != nil {
			res.MaxStoreys = copyInt(rules.MaxStoreysSuffixZero)
		}
	}

	res.FinalBuildable = ComputeFinalBuildable(id, geom, rules, cov, far)

	unitFloorArea := far.FloorAreaM2
	if unitFloorArea == nil {
		unitFloorArea = res.FinalBuildable.FinalBuildableM2
	}
	res.PotentialUnits = EstimateUnits(id.Base, rules, geom, unitFloorArea)

	res.Violations = violations
	res.Warnings = warnings
	res.MeetsMinimumRequirements = len(violations) == 0
	return res, nil
}

// minimumViolations checks the lot against the zone's minimum area and
// frontage. Missing dimensions downgrade the check to a warning.
func minimumViolations(geom LotGeometry, rules registry.Rules, warnings *[]string) []string {
	var out []string
	if geom.AreaM2 == nil {
		*warnings = append(*warnings, WarnAreaMissing)
	} else if rules.MinLotArea != nil && *geom.AreaM2 < *rules.MinLotArea {
		out = append(out, fmt.Sprintf("lot area %.1f m² below the %.1f m² minimum for %s", *geom.AreaM2, *rules.MinLotArea, rules.Code))
	}
	if geom.FrontageM == nil {
		*warnings = append(*warnings, WarnFrontageMissing)
	} else if rules.MinLotFrontage != nil && *geom.FrontageM < *rules.MinLotFrontage {
		out = append(out, fmt.Sprintf("lot frontage %.1f m below the %.1f m minimum for %s", *geom.FrontageM, *rules.MinLotFrontage, rules.Code))
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
