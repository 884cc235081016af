package zoning

// ViolationNegativeEnvelope is surfaced when required setbacks exceed the
// lot dimensions. The negative computed values are kept in the result;
// they are not floored to zero.
const ViolationNegativeEnvelope = "negative buildable envelope: lot dimensions insufficient for required setbacks"

// ComputeEnvelope derives the buildable footprint from the lot dimensions
// and resolved setbacks.
//
// The calculation is all-or-nothing: interior side, front and rear
// setbacks plus lot frontage and depth must all be present, otherwise
// every envelope field stays nil. There is no partial best-effort result.
func ComputeEnvelope(geom LotGeometry, sb Setbacks) (Envelope, []string) {
	var env Envelope

	if sb.InteriorSide == nil || sb.Front == nil || sb.Rear == nil ||
		geom.FrontageM == nil || geom.DepthM == nil {
		return env, nil
	}

	usableFrontage := *geom.FrontageM - *sb.InteriorSide*2
	usableDepth := *geom.DepthM - *sb.Front - *sb.Rear
	buildable := usableFrontage * usableDepth

	env.UsableFrontageM = Float64(usableFrontage)
	env.UsableDepthM = Float64(usableDepth)
	env.BuildableAreaM2 = Float64(buildable)

	if geom.AreaM2 != nil && *geom.AreaM2 > 0 {
		env.EfficiencyRatio = Float64(buildable / *geom.AreaM2)
	}

	var violations []string
	if usableFrontage < 0 || usableDepth < 0 {
		violations = append(violations, ViolationNegativeEnvelope)
	}
	return env, violations
}
