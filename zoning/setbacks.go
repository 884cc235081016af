package zoning

import (
	"fmt"

	"github.com/parcelworks/bylaw/zoning/registry"
)

// suffixZeroMaxFrontDelta is the Section 6.4.3 maximum front yard rule:
// the front yard on a -0 lot may not exceed the minimum by more than this.
const suffixZeroMaxFrontDelta = 5.5

// WarnFrontYardSurvey is emitted when a suffix-zero front yard cannot be
// resolved because the existing-condition survey value is absent.
const WarnFrontYardSurvey = "front yard requires existing-condition survey"

// ResolveSetbacks derives the effective yard requirements for a zone
// identity and lot. Missing optional geometry degrades individual yards
// to nil with a warning; it never fails the resolution. The returned
// warnings include any rule-table gaps encountered.
func ResolveSetbacks(id Identity, geom LotGeometry, rules registry.Rules) (Setbacks, []string) {
	var (
		sb       Setbacks
		warnings []string
	)

	// Front yard. The suffix-zero rule replaces the fixed table value
	// with "existing minus 1.0 m" and adds the 6.4.3 ceiling.
	frontRule := rules.Setbacks.Front
	if id.SuffixZero && rules.Setbacks.FrontSuffixZero.Kind != registry.SetbackUnset {
		frontRule = rules.Setbacks.FrontSuffixZero
	}
	switch frontRule.Kind {
	case registry.SetbackFixed:
		sb.Front = Float64(frontRule.Metres)
	case registry.SetbackExistingMinusOne:
		if geom.ExistingFrontYardM == nil {
			warnings = append(warnings, WarnFrontYardSurvey)
		} else {
			front := *geom.ExistingFrontYardM - 1.0
			sb.Front = Float64(front)
			sb.FrontMax = Float64(front + suffixZeroMaxFrontDelta)
		}
	}

	// Interior side yard. One symmetric value applied to both sides.
	if rules.Setbacks.InteriorSide.Kind == registry.SetbackFixed {
		sb.InteriorSide = Float64(rules.Setbacks.InteriorSide.Metres)
	}

	// Rear yard, with the corner-lot reduction gated on the interior
	// side yard meeting the documented minimum.
	if rules.Setbacks.Rear.Kind == registry.SetbackFixed {
		rear := rules.Setbacks.Rear.Metres
		if geom.CornerLot && rules.Corner != nil &&
			sb.InteriorSide != nil && *sb.InteriorSide >= rules.Corner.MinInteriorSideM {
			rear = rules.Corner.RearM
		}
		sb.Rear = Float64(rear)
	}

	// Flankage yard applies only on corner lots.
	if geom.CornerLot {
		switch rules.Setbacks.Flankage.Kind {
		case registry.SetbackFixed:
			sb.Flankage = Float64(rules.Setbacks.Flankage.Metres)
		case registry.SetbackUnset:
			err := &RuleDataError{Zone: rules.Code, Field: "flankage setback"}
			warnings = append(warnings, fmt.Sprintf("corner lot: %s", err))
		}
	}

	return sb, warnings
}
