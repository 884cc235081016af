package zoning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parcelworks/bylaw/vocabulary/zone"
	"github.com/parcelworks/bylaw/zoning/registry"
)

func TestSuffixZeroFAR_BandBoundaries(t *testing.T) {
	tests := []struct {
		areaM2 float64
		want   float64
	}{
		{0, 0.43},
		{100, 0.43},
		{557.49, 0.43},
		{557.50, 0.42},
		{649.99, 0.42},
		{650, 0.41},
		{743, 0.40},
		{836, 0.39},
		{929, 0.38},
		{1022, 0.37},
		{1115, 0.35},
		{1208, 0.32},
		{1300.99, 0.32},
		{1301.00, 0.29},
		{5000, 0.29},
	}

	for _, tt := range tests {
		got := SuffixZeroFAR(tt.areaM2)
		assert.Equal(t, tt.want, got, "lot area %.2f", tt.areaM2)
	}
}

func mustLookup(t *testing.T, code zone.Code) registry.Rules {
	t.Helper()
	reg, err := registry.Load()
	require.NoError(t, err)
	rules, ok := reg.Lookup(code)
	require.True(t, ok, "zone %s missing from registry", code)
	return rules
}

func TestResolveCoverage_SuffixZeroHeightSplit(t *testing.T) {
	rules := mustLookup(t, zone.RL1)
	id := Identity{Base: zone.RL1, SuffixZero: true}

	tests := []struct {
		name    string
		heightM *float64
		want    *float64
	}{
		{"above split gets reduced coverage", Float64(8.0), Float64(25)},
		{"at or below split keeps parent maximum", Float64(6.0), Float64(30)},
		{"exactly at split keeps parent maximum", Float64(7.0), Float64(30)},
		{"missing height stays unresolved", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			geom := LotGeometry{AreaM2: Float64(1500), ProposedHeightM: tt.heightM}
			out, warnings := ResolveCoverage(id, geom, rules)
			assert.Equal(t, tt.want, out.Percent)
			if tt.want == nil {
				assert.Contains(t, warnings, WarnCoverageHeightUnknown)
				assert.Nil(t, out.AreaM2)
			} else {
				assert.Empty(t, warnings)
			}
		})
	}
}

func TestResolveCoverage_SuffixZeroFlatGroup(t *testing.T) {
	// The RL3 group row is a flat 35% regardless of height.
	for _, code := range []zone.Code{zone.RL3, zone.RL4, zone.RL5, zone.RL7, zone.RL10} {
		rules := mustLookup(t, code)
		id := Identity{Base: code, SuffixZero: true}
		out, warnings := ResolveCoverage(id, LotGeometry{AreaM2: Float64(600)}, rules)
		require.NotNil(t, out.Percent, "zone %s", code)
		assert.Equal(t, 35.0, *out.Percent, "zone %s", code)
		assert.Empty(t, warnings)
	}
}

func TestResolveCoverage_ParentZone(t *testing.T) {
	rules := mustLookup(t, zone.RL2)
	id := Identity{Base: zone.RL2}
	geom := LotGeometry{AreaM2: Float64(1000)}

	out, warnings := ResolveCoverage(id, geom, rules)
	require.NotNil(t, out.Percent)
	assert.Equal(t, 30.0, *out.Percent)
	require.NotNil(t, out.AreaM2)
	assert.InDelta(t, 300.0, *out.AreaM2, 1e-9)
	assert.Empty(t, warnings)
}

func TestResolveCoverage_NoMaximum(t *testing.T) {
	rules := mustLookup(t, zone.RL6)
	out, warnings := ResolveCoverage(Identity{Base: zone.RL6}, LotGeometry{AreaM2: Float64(300)}, rules)
	assert.True(t, out.NoMaximum)
	assert.Nil(t, out.Percent)
	assert.Nil(t, out.AreaM2)
	assert.Empty(t, warnings)
}

func TestResolveFAR_SuffixZeroTable(t *testing.T) {
	rules := mustLookup(t, zone.RL2)
	id := Identity{Base: zone.RL2, SuffixZero: true}

	out, warnings := ResolveFAR(id, LotGeometry{AreaM2: Float64(700)}, rules)
	require.NotNil(t, out.Ratio)
	assert.Equal(t, 0.41, *out.Ratio)
	require.NotNil(t, out.FloorAreaM2)
	assert.InDelta(t, 287.0, *out.FloorAreaM2, 1e-9)
	assert.Empty(t, warnings)
}

func TestResolveFAR_SuffixZeroMissingArea(t *testing.T) {
	rules := mustLookup(t, zone.RL2)
	id := Identity{Base: zone.RL2, SuffixZero: true}

	out, warnings := ResolveFAR(id, LotGeometry{}, rules)
	assert.Nil(t, out.Ratio)
	assert.Nil(t, out.FloorAreaM2)
	assert.Contains(t, warnings, WarnFARLotAreaUnknown)
}

func TestResolveFAR_AbsoluteCap(t *testing.T) {
	// RL6 caps residential floor area at 355 m² even when the fixed
	// ratio would allow more.
	rules := mustLookup(t, zone.RL6)
	id := Identity{Base: zone.RL6}

	out, _ := ResolveFAR(id, LotGeometry{AreaM2: Float64(600)}, rules)
	require.NotNil(t, out.Ratio)
	assert.Equal(t, 0.75, *out.Ratio)
	require.NotNil(t, out.FloorAreaM2)
	assert.Equal(t, 355.0, *out.FloorAreaM2)
}

func TestResolveFAR_NoRuleStaysNil(t *testing.T) {
	rules := mustLookup(t, zone.RL1)
	out, warnings := ResolveFAR(Identity{Base: zone.RL1}, LotGeometry{AreaM2: Float64(2000)}, rules)
	assert.Nil(t, out.Ratio)
	assert.Nil(t, out.FloorAreaM2)
	assert.Empty(t, warnings)
}
