package provision

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parcelworks/bylaw/vocabulary/zone"
	"github.com/parcelworks/bylaw/zoning"
	"github.com/parcelworks/bylaw/zoning/registry"
)

const sampleProvisions = `
"SP:1":
  description: Reduced front yard on Kerr Street infill lots
  front_m: 4.5
"SP:14":
  description: Site-specific coverage and height
  max_lot_coverage: 0.45
  max_height_m: 11.0
  max_storeys: 3
`

func TestParse(t *testing.T) {
	set, err := Parse([]byte(sampleProvisions))
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())

	o, ok := set.Lookup("SP:1")
	require.True(t, ok)
	require.NotNil(t, o.FrontM)
	assert.Equal(t, 4.5, *o.FrontM)

	_, ok = set.Lookup("SP:99")
	assert.False(t, ok)
}

func TestParse_Empty(t *testing.T) {
	set, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func TestSet_Apply(t *testing.T) {
	set, err := Parse([]byte(sampleProvisions))
	require.NoError(t, err)

	reg, err := registry.Load()
	require.NoError(t, err)
	base, ok := reg.Lookup(zone.RL3)
	require.True(t, ok)

	t.Run("single provision", func(t *testing.T) {
		id := zoning.Identity{Base: zone.RL3, SpecialProvisions: []string{"SP:1"}}
		rules := set.Apply(id, base.Clone())
		assert.Equal(t, registry.FixedSetback(4.5), rules.Setbacks.Front)
		// Untouched fields keep the registry values.
		assert.Equal(t, registry.FixedSetback(7.5), rules.Setbacks.Rear)
		assert.Equal(t, registry.FixedCoverage(0.35), rules.MaxLotCoverage)
	})

	t.Run("stacked provisions apply in order", func(t *testing.T) {
		id := zoning.Identity{Base: zone.RL3, SpecialProvisions: []string{"SP:1", "SP:14"}}
		rules := set.Apply(id, base.Clone())
		assert.Equal(t, registry.FixedSetback(4.5), rules.Setbacks.Front)
		assert.Equal(t, registry.FixedCoverage(0.45), rules.MaxLotCoverage)
		require.NotNil(t, rules.MaxHeight)
		assert.Equal(t, 11.0, *rules.MaxHeight)
		require.NotNil(t, rules.MaxStoreys)
		assert.Equal(t, 3, *rules.MaxStoreys)
	})

	t.Run("unknown provision leaves rules untouched", func(t *testing.T) {
		id := zoning.Identity{Base: zone.RL3, SpecialProvisions: []string{"SP:99"}}
		rules := set.Apply(id, base.Clone())
		assert.Equal(t, base.Setbacks.Front, rules.Setbacks.Front)
	})
}

func TestSet_ApplyDoesNotMutateInput(t *testing.T) {
	set, err := Parse([]byte(`
"SP:2":
  min_lot_area: 400.0
`))
	require.NoError(t, err)

	reg, err := registry.Load()
	require.NoError(t, err)
	base, _ := reg.Lookup(zone.RL2)

	id := zoning.Identity{Base: zone.RL2, SpecialProvisions: []string{"SP:2"}}
	out := set.Apply(id, base)
	require.NotNil(t, out.MinLotArea)
	assert.Equal(t, 400.0, *out.MinLotArea)

	fresh, _ := reg.Lookup(zone.RL2)
	require.NotNil(t, fresh.MinLotArea)
	assert.Equal(t, 836.0, *fresh.MinLotArea)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "provisions.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleProvisions), 0o644))

	set, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestSet_Replace(t *testing.T) {
	set, err := Parse([]byte(sampleProvisions))
	require.NoError(t, err)

	fresh, err := Parse([]byte(`
"SP:7":
  rear_m: 3.0
`))
	require.NoError(t, err)

	set.Replace(fresh)
	assert.Equal(t, 1, set.Len())
	_, ok := set.Lookup("SP:1")
	assert.False(t, ok)
	o, ok := set.Lookup("SP:7")
	require.True(t, ok)
	require.NotNil(t, o.RearM)
	assert.Equal(t, 3.0, *o.RearM)
}
