package jeotrans

import (
	"github.com/golang/geo/s2"
)

// MapCoords is a projected easting/northing pair in meters.
type MapCoords struct {
	Easting  float64
	Northing float64
}

// EastingIn returns the easting in unit, rounded half up to precision
// decimals. A negative precision skips rounding.
func (m MapCoords) EastingIn(unit LengthUnit, precision int) float64 {
	return measure(m.Easting, unit, precision)
}

// NorthingIn returns the northing in unit, rounded half up to precision
// decimals. A negative precision skips rounding.
func (m MapCoords) NorthingIn(unit LengthUnit, precision int) float64 {
	return measure(m.Northing, unit, precision)
}

// Projection is a map projection between geodetic coordinates and
// easting/northing. TransverseMercator and PolarStereographic implement it.
type Projection interface {
	ConvertFromGeodetic(geodeticCoordinates s2.LatLng) (MapCoords, error)
	ConvertToGeodetic(mapProjectionCoordinates MapCoords) (s2.LatLng, error)
}

var (
	_ Projection = (*TransverseMercator)(nil)
	_ Projection = (*PolarStereographic)(nil)
)
