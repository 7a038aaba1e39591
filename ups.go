package jeotrans

import (
	"fmt"
	"math"
	"strings"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// Hemisphere represents the hemisphere, north or south
type Hemisphere byte

// Hemisphere constants
const (
	HemisphereInvalid Hemisphere = iota
	HemisphereNorth
	HemisphereSouth
)

func (h Hemisphere) String() string {
	switch h {
	case HemisphereNorth:
		return "N"
	case HemisphereSouth:
		return "S"
	}
	return fmt.Sprintf("Hemisphere(%d)", byte(h))
}

// ParseHemisphere accepts N, S, north or south in any case.
func ParseHemisphere(s string) (Hemisphere, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "N", "NORTH":
		return HemisphereNorth, nil
	case "S", "SOUTH":
		return HemisphereSouth, nil
	}
	return HemisphereInvalid, domainError(BoundHemisphere, "unknown hemisphere %q", s)
}

// UPSCoord is a UPS coordinate with a specified easting/northing in meters and
// hemisphere.
type UPSCoord struct {
	Hemisphere Hemisphere
	Easting    float64
	Northing   float64
}

// EastingIn returns the easting in unit rounded half up to precision decimals.
func (c UPSCoord) EastingIn(unit LengthUnit, precision int) float64 {
	return measure(c.Easting, unit, precision)
}

// NorthingIn returns the northing in unit rounded half up to precision decimals.
func (c UPSCoord) NorthingIn(unit LengthUnit, precision int) float64 {
	return measure(c.Northing, unit, precision)
}

func (c UPSCoord) String() string {
	return fmt.Sprintf("%s %.0f %.0f", c.Hemisphere, c.Easting, c.Northing)
}

// UPS is a UPS coordinate converter. It holds no state that changes during a
// conversion and may be shared between goroutines.
type UPS struct {
	ell                    Ellipsoid
	polarStereographicMapN *PolarStereographic
	polarStereographicMapS *PolarStereographic
}

const epsilonRadians = 1.75e-7 // approx 1.0e-5 degrees (~1 meter) in radians

const upsFalseEasting = 2000000
const upsFalseNorthing = 2000000
const upsLongitudeDownFromPole = 0.0

const upsMaxLat = 90.0 * (math.Pi / 180.0) // 90 degrees in radians
const upsOriginLatitude = 81.114528 * (math.Pi / 180.0)
const upsMinNorthLat = 83.5 * (math.Pi / 180.0)
const upsMaxSouthLat = -79.5 * (math.Pi / 180.0)
const upsMinEastNorth = 0.0
const upsMaxEastNorth = 4000000.0

// NewUPS constructs a UPS converter for the ellipsoid.
func NewUPS(ellipsoid Ellipsoid) (*UPS, error) {
	ell, err := ellipsoid.checked()
	if err != nil {
		return nil, err
	}
	u := &UPS{ell: ell}

	u.polarStereographicMapN, err = NewPolarStereographic(ell, PSParams{
		LatitudeOfTrueScale:   s1.Angle(upsOriginLatitude),
		LongitudeDownFromPole: upsLongitudeDownFromPole,
		FalseEasting:          upsFalseEasting,
		FalseNorthing:         upsFalseNorthing,
	})
	if err != nil {
		return nil, err
	}
	u.polarStereographicMapS, err = NewPolarStereographic(ell, PSParams{
		LatitudeOfTrueScale:   s1.Angle(-upsOriginLatitude),
		LongitudeDownFromPole: upsLongitudeDownFromPole,
		FalseEasting:          upsFalseEasting,
		FalseNorthing:         upsFalseNorthing,
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Ellipsoid returns the ellipsoid the converter was built for.
func (u *UPS) Ellipsoid() Ellipsoid {
	return u.ell
}

func checkUPSLatitude(latitude float64) error {
	if (latitude < -upsMaxLat) || (latitude > upsMaxLat) {
		return domainError(BoundLatitude, "%v outside -90 to 90 degrees", s1.Angle(latitude))
	} else if (latitude < 0) && (latitude >= (upsMaxSouthLat + epsilonRadians)) {
		return domainError(BoundLatitude, "%v is north of the UPS south zone (-79.5 degrees)", s1.Angle(latitude))
	} else if (latitude >= 0) && (latitude < (upsMinNorthLat - epsilonRadians)) {
		return domainError(BoundLatitude, "%v is south of the UPS north zone (83.5 degrees)", s1.Angle(latitude))
	}
	return nil
}

// ConvertFromGeodetic converts a geodetic coordinate to a UPS coordinate.
func (u *UPS) ConvertFromGeodetic(geodeticCoordinates s2.LatLng) (UPSCoord, error) {
	longitude := geodeticCoordinates.Lng.Radians()
	latitude := geodeticCoordinates.Lat.Radians()

	if err := checkUPSLatitude(latitude); err != nil {
		return UPSCoord{}, err
	}
	if (longitude < -math.Pi) || (longitude > (2 * math.Pi)) {
		return UPSCoord{}, domainError(BoundLongitude, "%v outside -180 to 360 degrees", geodeticCoordinates.Lng)
	}

	polarStereographic := u.polarStereographicMapN
	hemisphere := HemisphereNorth
	if latitude < 0 {
		hemisphere = HemisphereSouth
		polarStereographic = u.polarStereographicMapS
	}

	polarStereographicCoordinates, err := polarStereographic.ConvertFromGeodetic(geodeticCoordinates)
	if err != nil {
		return UPSCoord{}, err
	}
	return UPSCoord{
		Hemisphere: hemisphere,
		Easting:    polarStereographicCoordinates.Easting,
		Northing:   polarStereographicCoordinates.Northing,
	}, nil
}

// ConvertToGeodetic converts UPS (hemisphere, easting, and northing)
// coordinates to geodetic (latitude and longitude) coordinates.
func (u *UPS) ConvertToGeodetic(upsCoordinates UPSCoord) (s2.LatLng, error) {
	geodeticCoordinates, err := u.toGeodetic(upsCoordinates)
	if err != nil {
		return s2.LatLng{}, err
	}
	if err := checkUPSLatitude(geodeticCoordinates.Lat.Radians()); err != nil {
		return s2.LatLng{}, err
	}
	return geodeticCoordinates, nil
}

// toGeodetic inverts a UPS coordinate without the UPS latitude band check.
func (u *UPS) toGeodetic(upsCoordinates UPSCoord) (s2.LatLng, error) {
	hemisphere := upsCoordinates.Hemisphere
	easting := upsCoordinates.Easting
	northing := upsCoordinates.Northing

	if (hemisphere != HemisphereNorth) && (hemisphere != HemisphereSouth) {
		return s2.LatLng{}, domainError(BoundHemisphere, "invalid hemisphere %v", hemisphere)
	}
	if (easting < upsMinEastNorth) || (easting > upsMaxEastNorth) {
		return s2.LatLng{}, domainError(BoundEasting, "%.3f outside 0 to 4,000,000", easting)
	}
	if (northing < upsMinEastNorth) || (northing > upsMaxEastNorth) {
		return s2.LatLng{}, domainError(BoundNorthing, "%.3f outside 0 to 4,000,000", northing)
	}

	polarStereographic := u.polarStereographicMapN
	if hemisphere == HemisphereSouth {
		polarStereographic = u.polarStereographicMapS
	}
	return polarStereographic.ConvertToGeodetic(MapCoords{
		Easting:  easting,
		Northing: northing,
	})
}
