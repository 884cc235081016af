package zoning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeEnvelope(t *testing.T) {
	geom := LotGeometry{
		AreaM2:    Float64(1000),
		FrontageM: Float64(20),
		DepthM:    Float64(50),
	}
	sb := Setbacks{
		Front:        Float64(9.0),
		InteriorSide: Float64(2.4),
		Rear:         Float64(7.5),
	}

	env, violations := ComputeEnvelope(geom, sb)
	require.NotNil(t, env.UsableFrontageM)
	assert.InDelta(t, 15.2, *env.UsableFrontageM, 1e-9)
	require.NotNil(t, env.UsableDepthM)
	assert.InDelta(t, 33.5, *env.UsableDepthM, 1e-9)
	require.NotNil(t, env.BuildableAreaM2)
	assert.InDelta(t, 509.2, *env.BuildableAreaM2, 1e-9)
	require.NotNil(t, env.EfficiencyRatio)
	assert.InDelta(t, 0.5092, *env.EfficiencyRatio, 1e-9)
	assert.Empty(t, violations)
}

func TestComputeEnvelope_AllOrNothing(t *testing.T) {
	tests := []struct {
		name string
		geom LotGeometry
		sb   Setbacks
	}{
		{
			name: "missing depth",
			geom: LotGeometry{FrontageM: Float64(20)},
			sb:   Setbacks{Front: Float64(9), InteriorSide: Float64(2.4), Rear: Float64(7.5)},
		},
		{
			name: "missing frontage",
			geom: LotGeometry{DepthM: Float64(50)},
			sb:   Setbacks{Front: Float64(9), InteriorSide: Float64(2.4), Rear: Float64(7.5)},
		},
		{
			name: "unresolved front setback",
			geom: LotGeometry{FrontageM: Float64(20), DepthM: Float64(50)},
			sb:   Setbacks{InteriorSide: Float64(2.4), Rear: Float64(7.5)},
		},
		{
			name: "unresolved side setback",
			geom: LotGeometry{FrontageM: Float64(20), DepthM: Float64(50)},
			sb:   Setbacks{Front: Float64(9), Rear: Float64(7.5)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, violations := ComputeEnvelope(tt.geom, tt.sb)
			assert.Nil(t, env.UsableFrontageM)
			assert.Nil(t, env.UsableDepthM)
			assert.Nil(t, env.BuildableAreaM2)
			assert.Nil(t, env.EfficiencyRatio)
			assert.Empty(t, violations)
		})
	}
}

func TestComputeEnvelope_NegativeSurfacesViolation(t *testing.T) {
	// Side yards wider than the lot itself. The negative figure is kept
	// in the result rather than floored to zero.
	geom := LotGeometry{FrontageM: Float64(10), DepthM: Float64(40)}
	sb := Setbacks{Front: Float64(9), InteriorSide: Float64(6), Rear: Float64(7.5)}

	env, violations := ComputeEnvelope(geom, sb)
	require.NotNil(t, env.UsableFrontageM)
	assert.InDelta(t, -2.0, *env.UsableFrontageM, 1e-9)
	assert.Contains(t, violations, ViolationNegativeEnvelope)
}

func TestComputeEnvelope_EfficiencyNilWithoutArea(t *testing.T) {
	geom := LotGeometry{FrontageM: Float64(20), DepthM: Float64(50)}
	sb := Setbacks{Front: Float64(9), InteriorSide: Float64(2.4), Rear: Float64(7.5)}

	env, _ := ComputeEnvelope(geom, sb)
	require.NotNil(t, env.BuildableAreaM2)
	assert.Nil(t, env.EfficiencyRatio)
}
