package zoning

// Validated input ranges for lot geometry. Values outside these bounds are
// rejected before any calculation runs.
const (
	MinLotArea = 1.0
	MaxLotArea = 100_000.0

	MinLotDimension = 0.1
	MaxLotDimension = 1_000.0

	MinBuildingHeight = 0.0
	MaxBuildingHeight = 50.0

	minExistingFrontYard = 0.0
	maxExistingFrontYard = 1_000.0
)

// LotGeometry carries the physical dimensions of a lot. Every measurement
// is optional: a nil field means the collaborator that supplied the data
// could not determine it, and downstream calculations degrade accordingly.
type LotGeometry struct {
	// AreaM2 is the lot area in square metres.
	AreaM2 *float64 `json:"lot_area_m2,omitempty" yaml:"lot_area_m2,omitempty"`

	// FrontageM is the lot frontage in metres.
	FrontageM *float64 `json:"lot_frontage_m,omitempty" yaml:"lot_frontage_m,omitempty"`

	// DepthM is the lot depth in metres.
	DepthM *float64 `json:"lot_depth_m,omitempty" yaml:"lot_depth_m,omitempty"`

	// CornerLot marks lots with a flankage yard on a side street.
	CornerLot bool `json:"is_corner_lot,omitempty" yaml:"is_corner_lot,omitempty"`

	// ExistingFrontYardM is the surveyed front yard of the existing
	// dwelling. Required only for the suffix-zero front yard rule.
	ExistingFrontYardM *float64 `json:"existing_front_yard_m,omitempty" yaml:"existing_front_yard_m,omitempty"`

	// ProposedHeightM is the proposed building height, used for the
	// height-dependent suffix-zero coverage table.
	ProposedHeightM *float64 `json:"proposed_building_height_m,omitempty" yaml:"proposed_building_height_m,omitempty"`
}

// Validate checks every present value against its documented range.
// The first out-of-range field is reported as a *RangeError. Absent
// fields are fine; absence is handled by the calculators, not here.
func (g LotGeometry) Validate() error {
	checks := []struct {
		name     string
		value    *float64
		min, max float64
	}{
		{"lot area", g.AreaM2, MinLotArea, MaxLotArea},
		{"lot frontage", g.FrontageM, MinLotDimension, MaxLotDimension},
		{"lot depth", g.DepthM, MinLotDimension, MaxLotDimension},
		{"existing front yard", g.ExistingFrontYardM, minExistingFrontYard, maxExistingFrontYard},
		{"building height", g.ProposedHeightM, MinBuildingHeight, MaxBuildingHeight},
	}
	for _, c := range checks {
		if c.value == nil {
			continue
		}
		if *c.value < c.min || *c.value > c.max {
			return &RangeError{Field: c.name, Value: *c.value, Min: c.min, Max: c.max}
		}
	}
	return nil
}

// Float64 returns a pointer to v. Convenience for building LotGeometry
// values and test fixtures.
func Float64(v float64) *float64 { return &v }
