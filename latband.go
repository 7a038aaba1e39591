package jeotrans

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// Letters are handled as offsets from 'A' while encoding and decoding.
const (
	letterA = iota
	letterB
	letterC
	letterD
	letterE
	letterF
	letterG
	letterH
	letterI
	letterJ
	letterK
	letterL
	letterM
	letterN
	letterO
	letterP
	letterQ
	letterR
	letterS
	letterT
	letterU
	letterV
	letterW
	letterX
	letterY
	letterZ
)

type latitudeBand struct {
	letter         int     // letter representing latitude band
	minNorthing    float64 // minimum northing for latitude band
	north          float64 // upper latitude for latitude band
	south          float64 // lower latitude for latitude band
	northingOffset float64 // latitude band northing offset
}

var latitudeBands = [20]latitudeBand{
	{letterC, 1100000.0, -72.0, -80.5, 0.0},
	{letterD, 2000000.0, -64.0, -72.0, 2000000.0},
	{letterE, 2800000.0, -56.0, -64.0, 2000000.0},
	{letterF, 3700000.0, -48.0, -56.0, 2000000.0},
	{letterG, 4600000.0, -40.0, -48.0, 4000000.0},
	{letterH, 5500000.0, -32.0, -40.0, 4000000.0},
	{letterJ, 6400000.0, -24.0, -32.0, 6000000.0},
	{letterK, 7300000.0, -16.0, -24.0, 6000000.0},
	{letterL, 8200000.0, -8.0, -16.0, 8000000.0},
	{letterM, 9100000.0, 0.0, -8.0, 8000000.0},
	{letterN, 0.0, 8.0, 0.0, 0.0},
	{letterP, 800000.0, 16.0, 8.0, 0.0},
	{letterQ, 1700000.0, 24.0, 16.0, 0.0},
	{letterR, 2600000.0, 32.0, 24.0, 2000000.0},
	{letterS, 3500000.0, 40.0, 32.0, 2000000.0},
	{letterT, 4400000.0, 48.0, 40.0, 4000000.0},
	{letterU, 5300000.0, 56.0, 48.0, 4000000.0},
	{letterV, 6200000.0, 64.0, 56.0, 6000000.0},
	{letterW, 7000000.0, 72.0, 64.0, 6000000.0},
	{letterX, 7900000.0, 84.5, 72.0, 6000000.0}}

const (
	lat72  = 72.0 * (math.Pi / 180.0)
	lat80  = 80.0 * (math.Pi / 180.0)
	lat805 = 80.5 * (math.Pi / 180.0)
	lat8   = 8.0 * (math.Pi / 180.0)
	lat845 = 84.5 * (math.Pi / 180.0)

	northPolarMin = 84.0 * (math.Pi / 180.0)
	southPolarMin = -80.0 * (math.Pi / 180.0)
)

// bandIndex maps a band letter to its row in latitudeBands.
func bandIndex(letter int) (int, bool) {
	switch {
	case letter >= letterC && letter <= letterH:
		return letter - 2, true
	case letter >= letterJ && letter <= letterN:
		return letter - 3, true
	case letter >= letterP && letter <= letterX:
		return letter - 4, true
	}
	return 0, false
}

// getLatitudeLetter determines the latitude band letter for a latitude in
// radians.
func getLatitudeLetter(latitude float64) (int, error) {
	if latitude >= lat72 && latitude <= lat845+epsilonRadians {
		return letterX, nil
	} else if latitude >= -lat805-epsilonRadians && latitude < lat72 {
		band := int(((latitude + lat80) / lat8) + 1.0e-12)
		if band < 0 {
			band = 0
		}
		return latitudeBands[band].letter, nil
	}
	return 0, domainError(BoundLatitude, "%v has no latitude band (-80.5 to 84.5 degrees)", s1.Angle(latitude))
}

// LatitudeBand returns the MGRS/UTM latitude band letter (C to X, without I
// and O) for a latitude.
func LatitudeBand(latitude s1.Angle) (byte, error) {
	letter, err := getLatitudeLetter(latitude.Radians())
	if err != nil {
		return 0, err
	}
	return byte('A' + letter), nil
}

// LatitudeZone returns the latitude band letter of a position, or the polar
// zone letter north of 84 degrees (Y, Z) and south of -80 degrees (A, B).
// Polar letters split on the sign of the longitude.
func LatitudeZone(ll s2.LatLng) (byte, error) {
	west := ll.Lng.Radians() < 0
	switch {
	case IsNorthPolar(ll):
		if ll.Lat.Radians() > math.Pi/2 {
			break
		}
		if west {
			return 'Y', nil
		}
		return 'Z', nil
	case IsSouthPolar(ll):
		if ll.Lat.Radians() < -math.Pi/2 {
			break
		}
		if west {
			return 'A', nil
		}
		return 'B', nil
	default:
		return LatitudeBand(ll.Lat)
	}
	return 0, domainError(BoundLatitude, "%v outside -90 to 90 degrees", ll.Lat)
}

// IsNorthPolar reports whether ll is north of the MGRS UTM area.
func IsNorthPolar(ll s2.LatLng) bool {
	return ll.Lat.Radians() > northPolarMin
}

// IsSouthPolar reports whether ll is south of the MGRS UTM area.
func IsSouthPolar(ll s2.LatLng) bool {
	return ll.Lat.Radians() < southPolarMin
}

// inLatitudeRange reports whether latitude lies inside the band named by
// letter, widened by border radians on both sides.
func inLatitudeRange(letter int, latitude, border float64) (bool, error) {
	i, ok := bandIndex(letter)
	if !ok {
		return false, domainError(BoundMGRSString, "invalid latitude band %c", byte('A'+letter))
	}
	north := latitudeBands[i].north * math.Pi / 180
	south := latitudeBands[i].south * math.Pi / 180
	return (south-border) <= latitude && latitude <= (north+border), nil
}
