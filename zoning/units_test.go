package zoning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parcelworks/bylaw/vocabulary/zone"
)

func TestEstimateUnits(t *testing.T) {
	tests := []struct {
		name        string
		code        zone.Code
		geom        LotGeometry
		floorAreaM2 *float64
		want        *int
	}{
		{
			name: "single family is always one",
			code: zone.RL1,
			geom: LotGeometry{AreaM2: Float64(2000)},
			want: intPtr(1),
		},
		{
			name: "mixed below the duplex threshold",
			code: zone.RL7,
			geom: LotGeometry{AreaM2: Float64(599.9)},
			want: intPtr(1),
		},
		{
			name: "mixed at the duplex threshold",
			code: zone.RL7,
			geom: LotGeometry{AreaM2: Float64(600)},
			want: intPtr(2),
		},
		{
			name: "mixed without a lot area",
			code: zone.RL8,
			want: nil,
		},
		{
			name: "duplex is always two",
			code: zone.RL10,
			geom: LotGeometry{AreaM2: Float64(500)},
			want: intPtr(2),
		},
		{
			name:        "linked floors and caps at three",
			code:        zone.RL11,
			floorAreaM2: Float64(300),
			want:        intPtr(2),
		},
		{
			name:        "linked hits the cap",
			code:        zone.RL11,
			floorAreaM2: Float64(900),
			want:        intPtr(3),
		},
		{
			name:        "uptown core caps at six",
			code:        zone.RUC,
			floorAreaM2: Float64(500),
			want:        intPtr(6),
		},
		{
			name:        "medium density scales by zone multiplier",
			code:        zone.RM2,
			floorAreaM2: Float64(300),
			want:        intPtr(3),
		},
		{
			name:        "medium density highest multiplier",
			code:        zone.RM4,
			floorAreaM2: Float64(300),
			want:        intPtr(6),
		},
		{
			name:        "high density",
			code:        zone.RH,
			floorAreaM2: Float64(300),
			want:        intPtr(5),
		},
		{
			name: "floor area formula without floor area",
			code: zone.RL11,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := mustLookup(t, tt.code)
			got := EstimateUnits(tt.code, rules, tt.geom, tt.floorAreaM2)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}
