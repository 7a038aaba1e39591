package jeotrans

import (
	"fmt"
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// UTMCoord is a UTM coordinate. Band is the latitude band letter ('C' to
// 'X'); it is informational when Hemisphere is set.
type UTMCoord struct {
	Zone       int
	Band       byte
	Hemisphere Hemisphere
	Easting    float64
	Northing   float64
}

// EastingIn returns the easting in unit rounded half up to precision decimals.
func (c UTMCoord) EastingIn(unit LengthUnit, precision int) float64 {
	return measure(c.Easting, unit, precision)
}

// NorthingIn returns the northing in unit rounded half up to precision decimals.
func (c UTMCoord) NorthingIn(unit LengthUnit, precision int) float64 {
	return measure(c.Northing, unit, precision)
}

func (c UTMCoord) String() string {
	band := c.Band
	if band == 0 {
		band = c.Hemisphere.String()[0]
	}
	return fmt.Sprintf("%d%c %.0f %.0f", c.Zone, band, c.Easting, c.Northing)
}

// hemisphere returns the hemisphere, falling back to the band letter.
func (c UTMCoord) hemisphere() Hemisphere {
	if c.Hemisphere != HemisphereInvalid || c.Band == 0 {
		return c.Hemisphere
	}
	switch b := c.Band | 0x20; {
	case b >= 'c' && b < 'n':
		return HemisphereSouth
	case b >= 'n' && b <= 'x':
		return HemisphereNorth
	}
	return HemisphereInvalid
}

// UTM is a UTM coordinate converter
type UTM struct {
	ell                   Ellipsoid
	utmOverride           int
	transverseMercatorMap [61]*TransverseMercator
}

const utmMinLat = ((-80.5 * math.Pi) / 180.0) // -80.5 degrees in radians
const utmMaxLat = ((84.5 * math.Pi) / 180.0)  //  84.5 degrees in radians
const utmMinEasting = 100000.0
const utmMaxEasting = 900000.0
const utmMinNorthing = 0.0
const utmMaxNorthing = 10000000.0
const utmFalseEasting = 500000.0
const utmSouthFalseNorthing = 10000000.0
const utmScaleFactor = 0.9996

// centralMeridian returns the central meridian of a UTM zone.
func centralMeridian(zone int) s1.Angle {
	if zone >= 31 {
		return s1.Angle(float64(6*zone-183) * math.Pi / 180)
	}
	return s1.Angle(float64(6*zone+177) * math.Pi / 180)
}

// NewUTM receives the ellipsoid and a UTM zone override. override is the UTM
// zone every conversion is forced into when it is within reach of the
// natural zone; 0 indicates no override.
func NewUTM(ellipsoid Ellipsoid, override int) (*UTM, error) {
	ell, err := ellipsoid.checked()
	if err != nil {
		return nil, err
	}
	if (override < 0) || (override > 60) {
		return nil, domainError(BoundZone, "zone override %d outside 0 to 60", override)
	}

	u := &UTM{
		ell:         ell,
		utmOverride: override,
	}
	for zone := 1; zone <= 60; zone++ {
		u.transverseMercatorMap[zone], err = NewTransverseMercator(ell, TMParams{
			CentralMeridian: centralMeridian(zone),
			FalseEasting:    utmFalseEasting,
			ScaleFactor:     utmScaleFactor,
		})
		if err != nil {
			return nil, err
		}
	}
	return u, nil
}

// Ellipsoid returns the ellipsoid the converter was built for.
func (u *UTM) Ellipsoid() Ellipsoid {
	return u.ell
}

// Override returns the converter's zone override, 0 if none.
func (u *UTM) Override() int {
	return u.utmOverride
}

// ConvertFromGeodetic converts geodetic (latitude and longitude) coordinates
// to UTM projection (zone, hemisphere, easting and northing) coordinates.
// A non zero utmZoneOverride takes precedence over the converter's override.
func (u *UTM) ConvertFromGeodetic(geodeticCoordinates s2.LatLng, utmZoneOverride int) (UTMCoord, error) {
	longitude := geodeticCoordinates.Lng.Radians()
	latitude := geodeticCoordinates.Lat.Radians()
	if (latitude < (utmMinLat - epsilonRadians)) ||
		(latitude > (utmMaxLat + epsilonRadians)) {
		return UTMCoord{}, domainError(BoundLatitude, "%v outside -80.5 to 84.5 degrees", geodeticCoordinates.Lat)
	}
	if (longitude < (-math.Pi - epsilonRadians)) ||
		(longitude > (2*math.Pi + epsilonRadians)) {
		return UTMCoord{}, domainError(BoundLongitude, "%v outside -180 to 360 degrees", geodeticCoordinates.Lng)
	}
	if (utmZoneOverride < 0) || (utmZoneOverride > 60) {
		return UTMCoord{}, domainError(BoundZone, "zone override %d outside 0 to 60", utmZoneOverride)
	}

	if (latitude > -1.0e-9) && (latitude < 0) {
		latitude = 0.0
	}
	if longitude < 0 {
		longitude += (2 * math.Pi)
	}

	latDegrees := int(latitude * 180.0 / math.Pi)
	longDegrees := int(longitude * 180.0 / math.Pi)

	var tempZone int
	if longitude < math.Pi {
		tempZone = int(31 + (((longitude + 1.0e-10) * 180.0 / math.Pi) / 6.0))
	} else {
		tempZone = int((((longitude + 1.0e-10) * 180.0 / math.Pi) / 6.0) - 29)
	}
	if tempZone > 60 {
		tempZone = 1
	}

	// special zone cases over southern Norway and Svalbard
	if (latDegrees > 55) && (latDegrees < 64) && (longDegrees > -1) &&
		(longDegrees < 3) {
		tempZone = 31
	}
	if (latDegrees > 55) && (latDegrees < 64) && (longDegrees > 2) &&
		(longDegrees < 12) {
		tempZone = 32
	}
	svalbard := (latDegrees > 71) && (longDegrees > -1) && (longDegrees < 42)
	if (latDegrees > 71) && (longDegrees > -1) && (longDegrees < 9) {
		tempZone = 31
	}
	if (latDegrees > 71) && (longDegrees > 8) && (longDegrees < 21) {
		tempZone = 33
	}
	if (latDegrees > 71) && (longDegrees > 20) && (longDegrees < 33) {
		tempZone = 35
	}
	if (latDegrees > 71) && (longDegrees > 32) && (longDegrees < 42) {
		tempZone = 37
	}

	override := utmZoneOverride
	if override == 0 {
		override = u.utmOverride
	}
	if override != 0 {
		// allow overrides of one zone, two inside the Svalbard zones
		reach := 1
		if svalbard {
			reach = 2
		}
		switch {
		case (tempZone == 1) && (override == 60):
			tempZone = override
		case (tempZone == 60) && (override == 1):
			tempZone = override
		case ((tempZone - reach) <= override) && (override <= (tempZone + reach)):
			tempZone = override
		default:
			return UTMCoord{}, domainError(BoundZone, "override %d is not within %d of zone %d", override, reach, tempZone)
		}
	}

	band, err := getLatitudeLetter(latitude)
	if err != nil {
		return UTMCoord{}, err
	}

	falseNorthing := 0.0
	hemisphere := HemisphereNorth
	if latitude < 0 {
		falseNorthing = utmSouthFalseNorthing
		hemisphere = HemisphereSouth
	}
	tempGeodeticCoordinates := s2.LatLng{Lng: s1.Angle(longitude), Lat: s1.Angle(latitude)}
	transverseMercatorCoordinates, err := u.transverseMercatorMap[tempZone].ConvertFromGeodetic(tempGeodeticCoordinates)
	if err != nil {
		return UTMCoord{}, err
	}
	easting := transverseMercatorCoordinates.Easting
	northing := transverseMercatorCoordinates.Northing + falseNorthing
	if (easting < utmMinEasting) || (easting > utmMaxEasting) {
		return UTMCoord{}, domainError(BoundEasting, "%.3f outside 100,000 to 900,000 in zone %d", easting, tempZone)
	}
	if (northing < utmMinNorthing) || (northing > utmMaxNorthing) {
		return UTMCoord{}, domainError(BoundNorthing, "%.3f outside 0 to 10,000,000", northing)
	}

	return UTMCoord{
		Zone:       tempZone,
		Band:       byte('A' + band),
		Hemisphere: hemisphere,
		Easting:    easting,
		Northing:   northing,
	}, nil
}

// ConvertToGeodetic converts UTM projection (zone, hemisphere, easting and
// northing) coordinates to geodetic (latitude and longitude) coordinates.
func (u *UTM) ConvertToGeodetic(utmCoordinates UTMCoord) (s2.LatLng, error) {
	geodeticCoordinates, err := u.toGeodetic(utmCoordinates)
	if err != nil {
		return s2.LatLng{}, err
	}
	latitude := geodeticCoordinates.Lat.Radians()
	if (latitude < (utmMinLat - epsilonRadians)) ||
		(latitude > (utmMaxLat + epsilonRadians)) {
		return s2.LatLng{}, domainError(BoundLatitude, "resulting latitude %v outside -80.5 to 84.5 degrees", geodeticCoordinates.Lat)
	}
	return geodeticCoordinates, nil
}

// toGeodetic inverts a UTM coordinate without checking that the result lies
// in the UTM latitude range. MGRS squares at the edge of the grid may reach
// past it.
func (u *UTM) toGeodetic(utmCoordinates UTMCoord) (s2.LatLng, error) {
	zone := utmCoordinates.Zone
	hemisphere := utmCoordinates.hemisphere()
	easting := utmCoordinates.Easting
	northing := utmCoordinates.Northing

	if (zone < 1) || (zone > 60) {
		return s2.LatLng{}, domainError(BoundZone, "%d outside 1 to 60", zone)
	}
	if (hemisphere != HemisphereSouth) && (hemisphere != HemisphereNorth) {
		return s2.LatLng{}, domainError(BoundHemisphere, "invalid hemisphere %v", hemisphere)
	}
	if (easting < utmMinEasting) || (easting > utmMaxEasting) {
		return s2.LatLng{}, domainError(BoundEasting, "%.3f outside 100,000 to 900,000", easting)
	}
	if (northing < utmMinNorthing) || (northing > utmMaxNorthing) {
		return s2.LatLng{}, domainError(BoundNorthing, "%.3f outside 0 to 10,000,000", northing)
	}

	falseNorthing := 0.0
	if hemisphere == HemisphereSouth {
		falseNorthing = utmSouthFalseNorthing
	}

	return u.transverseMercatorMap[zone].ConvertToGeodetic(MapCoords{
		Easting:  easting,
		Northing: northing - falseNorthing,
	})
}
