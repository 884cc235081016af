package zoning

import (
	"math"

	"github.com/parcelworks/bylaw/vocabulary/zone"
	"github.com/parcelworks/bylaw/zoning/registry"
)

// Floor area per dwelling unit in square metres for the density formulas
// that divide floor area into units.
const (
	linkedUnitFloorAreaM2 = 120.0
	uptownUnitFloorAreaM2 = 80.0
	mediumUnitFloorAreaM2 = 100.0
	highUnitFloorAreaM2   = 60.0
)

// Unit caps and thresholds.
const (
	linkedUnitCap    = 3
	uptownUnitCap    = 6
	mixedTwoUnitArea = 600.0
)

// rmUnitMultipliers scales the medium-density formula per RM zone.
var rmUnitMultipliers = map[zone.Code]float64{
	zone.RM1: 1.0,
	zone.RM2: 1.2,
	zone.RM3: 1.5,
	zone.RM4: 2.0,
}

// EstimateUnits returns the potential dwelling unit count for the zone, or
// nil when the formula requires an input that did not resolve. The floor
// area input is the FAR-derived permitted floor area when available, else
// the final buildable estimate.
func EstimateUnits(code zone.Code, rules registry.Rules, geom LotGeometry, floorAreaM2 *float64) *int {
	switch rules.UnitDensity {
	case registry.UnitSingleFamily:
		return intPtr(1)

	case registry.UnitMixed:
		// One detached dwelling, or two units on lots large enough for
		// a duplex or semi-detached form.
		if geom.AreaM2 == nil {
			return nil
		}
		if *geom.AreaM2 < mixedTwoUnitArea {
			return intPtr(1)
		}
		return intPtr(2)

	case registry.UnitDuplex:
		return intPtr(2)

	case registry.UnitLinked:
		return unitsByFloorArea(floorAreaM2, linkedUnitFloorAreaM2, linkedUnitCap)

	case registry.UnitUptownCore:
		return unitsByFloorArea(floorAreaM2, uptownUnitFloorAreaM2, uptownUnitCap)

	case registry.UnitMedium:
		if floorAreaM2 == nil {
			return nil
		}
		n := int(math.Floor(*floorAreaM2 / mediumUnitFloorAreaM2 * rmUnitMultipliers[code]))
		return intPtr(n)

	case registry.UnitHigh:
		return unitsByFloorArea(floorAreaM2, highUnitFloorAreaM2, 0)
	}
	return nil
}

// unitsByFloorArea divides floor area by the per-unit requirement,
// flooring to an integer, with an optional cap. cap<=0 means uncapped.
func unitsByFloorArea(floorAreaM2 *float64, perUnitM2 float64, cap int) *int {
	if floorAreaM2 == nil {
		return nil
	}
	n := int(math.Floor(*floorAreaM2 / perUnitM2))
	if cap > 0 && n > cap {
		n = cap
	}
	return intPtr(n)
}

func intPtr(v int) *int { return &v }
