package zoning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parcelworks/bylaw/vocabulary/zone"
)

// Worked example: RL2-0 lot of 1898.52 m² at 30% coverage over two floors.
func TestComputeFinalBuildable_CoverageWorkedExample(t *testing.T) {
	rules := mustLookup(t, zone.RL2)
	id := Identity{Base: zone.RL2, SuffixZero: true}
	geom := LotGeometry{
		AreaM2:          Float64(1898.52),
		ProposedHeightM: Float64(6.5),
	}

	cov, warnings := ResolveCoverage(id, geom, rules)
	require.Empty(t, warnings)
	require.NotNil(t, cov.Percent)
	require.Equal(t, 30.0, *cov.Percent)

	far, _ := ResolveFAR(id, geom, rules)
	fb := ComputeFinalBuildable(id, geom, rules, cov, far)

	assert.Equal(t, zone.MethodCoverage, fb.Method)
	require.NotNil(t, fb.LotCoverageAreaM2)
	assert.InDelta(t, 569.556, *fb.LotCoverageAreaM2, 0.001)
	require.NotNil(t, fb.LotCoverageAreaFt2)
	assert.InDelta(t, 6130.65, *fb.LotCoverageAreaFt2, 0.05)
	assert.Equal(t, 2, fb.MaxFloors)
	require.NotNil(t, fb.GrossFloorAreaFt2)
	assert.InDelta(t, 12261.3, *fb.GrossFloorAreaFt2, 0.1)
	assert.Equal(t, 750.0, fb.DeductionFt2)
	require.NotNil(t, fb.FinalBuildableFt2)
	assert.InDelta(t, 11511.3, *fb.FinalBuildableFt2, 0.1)
	assert.Equal(t, zone.ConfidenceHigh, fb.Confidence)
}

func TestComputeFinalBuildable_StoreyDefaultLowersConfidence(t *testing.T) {
	// RL1 parent has no storey limit in its table; the generic two-floor
	// cap fills in and the estimate drops to medium confidence.
	rules := mustLookup(t, zone.RL1)
	id := Identity{Base: zone.RL1}
	geom := LotGeometry{AreaM2: Float64(1500)}

	cov, _ := ResolveCoverage(id, geom, rules)
	far, _ := ResolveFAR(id, geom, rules)
	fb := ComputeFinalBuildable(id, geom, rules, cov, far)

	assert.Equal(t, zone.MethodCoverage, fb.Method)
	assert.Equal(t, 2, fb.MaxFloors)
	assert.Equal(t, zone.ConfidenceMedium, fb.Confidence)
}

func TestComputeFinalBuildable_TallerZoneStillCappedAtTwoFloors(t *testing.T) {
	// RUC allows 3 storeys but the estimate method caps at two floors.
	rules := mustLookup(t, zone.RUC)
	id := Identity{Base: zone.RUC}
	geom := LotGeometry{AreaM2: Float64(300)}

	cov, _ := ResolveCoverage(id, geom, rules)
	far, _ := ResolveFAR(id, geom, rules)
	fb := ComputeFinalBuildable(id, geom, rules, cov, far)

	assert.Equal(t, 2, fb.MaxFloors)
	assert.Equal(t, zone.ConfidenceHigh, fb.Confidence)
}

func TestComputeFinalBuildable_FARFallback(t *testing.T) {
	// RL6 has no coverage maximum, so the FAR figure drives the estimate.
	rules := mustLookup(t, zone.RL6)
	id := Identity{Base: zone.RL6}
	geom := LotGeometry{AreaM2: Float64(400)}

	cov, _ := ResolveCoverage(id, geom, rules)
	require.Nil(t, cov.Percent)
	far, _ := ResolveFAR(id, geom, rules)
	require.NotNil(t, far.FloorAreaM2)

	fb := ComputeFinalBuildable(id, geom, rules, cov, far)
	assert.Equal(t, zone.MethodFAR, fb.Method)
	assert.Equal(t, zone.ConfidenceLow, fb.Confidence)
	require.NotNil(t, fb.GrossFloorAreaM2)
	assert.InDelta(t, 300.0, *fb.GrossFloorAreaM2, 1e-9)
	require.NotNil(t, fb.FinalBuildableFt2)
	assert.InDelta(t, 300.0*SqftPerSqm-750.0, *fb.FinalBuildableFt2, 1e-6)
}

func TestComputeFinalBuildable_NeitherInput(t *testing.T) {
	rules := mustLookup(t, zone.RL6)
	fb := ComputeFinalBuildable(Identity{Base: zone.RL6}, LotGeometry{}, rules,
		CoverageOutcome{}, FAROutcome{})

	assert.Equal(t, zone.ConfidenceLow, fb.Confidence)
	assert.Nil(t, fb.FinalBuildableFt2)
	assert.Nil(t, fb.GrossFloorAreaFt2)
	assert.NotEmpty(t, fb.Note)
}

func TestComputeFinalBuildable_DeductionClampsAtZero(t *testing.T) {
	// A tiny lot whose gross floor area falls under the fixed deduction.
	rules := mustLookup(t, zone.RUC)
	id := Identity{Base: zone.RUC}
	geom := LotGeometry{AreaM2: Float64(3)}

	cov, _ := ResolveCoverage(id, geom, rules)
	far, _ := ResolveFAR(id, geom, rules)
	fb := ComputeFinalBuildable(id, geom, rules, cov, far)

	require.NotNil(t, fb.FinalBuildableFt2)
	assert.Equal(t, 0.0, *fb.FinalBuildableFt2)
}
