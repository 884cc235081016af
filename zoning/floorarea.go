package zoning

import (
	"fmt"

	"github.com/parcelworks/bylaw/vocabulary/zone"
	"github.com/parcelworks/bylaw/zoning/registry"
)

const (
	// SqftPerSqm converts square metres to square feet.
	SqftPerSqm = 10.7639

	// standardDeductionFt2 is the fixed allowance subtracted from the
	// gross floor area in the final buildable estimate. The deduction is
	// defined in square feet in the source methodology even though every
	// other figure is metric; that mismatch is preserved as documented.
	standardDeductionFt2 = 750.0

	// residentialFloorCap caps the floor count at two storeys for the
	// estimate regardless of taller zone limits, as the methodology
	// prescribes. A known approximation, kept deliberately.
	residentialFloorCap = 2
)

// ComputeFinalBuildable produces the final buildable floor area estimate.
//
// The coverage method is authoritative whenever a coverage percentage
// resolved; the FAR method is the fallback. When neither input is
// available the analysis is still returned, marked low confidence, so the
// caller can present the reason.
func ComputeFinalBuildable(id Identity, geom LotGeometry, rules registry.Rules,
	coverage CoverageOutcome, far FAROutcome) *FinalBuildable {

	fb := &FinalBuildable{
		Method:       zone.MethodCoverage,
		MaxFloors:    residentialFloorCap,
		DeductionFt2: standardDeductionFt2,
		Confidence:   zone.ConfidenceHigh,
	}

	switch {
	case coverage.Percent != nil && geom.AreaM2 != nil:
		covM2 := *geom.AreaM2 * *coverage.Percent / 100
		covFt2 := covM2 * SqftPerSqm
		fb.LotCoverageAreaM2 = Float64(covM2)
		fb.LotCoverageAreaFt2 = Float64(covFt2)

		storeys := rules.MaxStoreys
		if id.SuffixZero && rules.MaxStoreysSuffixZero != nil {
			storeys = rules.MaxStoreysSuffixZero
		}
		if storeys == nil {
			fb.Confidence = zone.ConfidenceMedium
		} else if *storeys < residentialFloorCap {
			fb.MaxFloors = *storeys
		}

		grossFt2 := covFt2 * float64(fb.MaxFloors)
		finalFt2 := grossFt2 - standardDeductionFt2
		if finalFt2 < 0 {
			finalFt2 = 0
		}
		fb.GrossFloorAreaFt2 = Float64(grossFt2)
		fb.GrossFloorAreaM2 = Float64(grossFt2 / SqftPerSqm)
		fb.FinalBuildableFt2 = Float64(finalFt2)
		fb.FinalBuildableM2 = Float64(finalFt2 / SqftPerSqm)
		fb.Note = fmt.Sprintf("based on %s zoning regulations and %.0f%% lot coverage", id.Designation(), *coverage.Percent)
		if id.SuffixZero {
			fb.Note = "based on suffix-zero zone regulations with the existing-minus-1.0 m front yard rule"
		}

	case far.FloorAreaM2 != nil:
		fb.Method = zone.MethodFAR
		fb.Confidence = zone.ConfidenceLow
		grossFt2 := *far.FloorAreaM2 * SqftPerSqm
		finalFt2 := grossFt2 - standardDeductionFt2
		if finalFt2 < 0 {
			finalFt2 = 0
		}
		fb.GrossFloorAreaM2 = Float64(*far.FloorAreaM2)
		fb.GrossFloorAreaFt2 = Float64(grossFt2)
		fb.FinalBuildableFt2 = Float64(finalFt2)
		fb.FinalBuildableM2 = Float64(finalFt2 / SqftPerSqm)
		fb.Note = fmt.Sprintf("based on floor area ratio calculation for %s", id.Designation())

	default:
		fb.Confidence = zone.ConfidenceLow
		fb.Note = "insufficient data: neither lot coverage nor floor area ratio resolved"
	}

	return fb
}
