package jeotrans

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/golang/geo/s2"
)

// MGRSCoord is an MGRS coordinate. Zone is 0 for the polar (UPS) areas.
// Easting and Northing are meters inside the 100 km grid square, reduced to
// Precision digits (5 is 1 m, 0 names just the square).
type MGRSCoord struct {
	Zone      int
	Band      byte
	Square    [2]byte
	Easting   float64
	Northing  float64
	Precision int
}

// MGRS is a coordinate converter to and from MGRS coordinates.
type MGRS struct {
	ell Ellipsoid
	ups *UPS
	utm *UTM
}

const mgrsMaxPrecision = 5 // Maximum precision of easting & northing
const mgrsMinEasting = 100000.0
const mgrsMaxEasting = 900000.0
const mgrsMinNorthing = 0.0
const mgrsMaxNorthing = 10000000.0
const mgrsSquare = 100000.0

const lat3 = 3.0 * (math.Pi / 180.0)
const lat56 = 56.0 * (math.Pi / 180.0)
const lat64 = 64.0 * (math.Pi / 180.0)

type upsConstant struct {
	letter        int     // letter representing latitude band
	ltr2LowValue  int     // 2nd letter range - low number
	ltr2HighValue int     // 2nd letter range - high number
	ltr3HighValue int     // 3rd letter range - high number (UPS)
	falseEasting  float64 // False easting based on 2nd letter
	falseNorthing float64 // False northing based on 3rd letter
}

var upsConstants = [4]upsConstant{
	{letterA, letterJ, letterZ, letterZ, 800000.0, 800000.0},
	{letterB, letterA, letterR, letterZ, 2000000.0, 800000.0},
	{letterY, letterJ, letterZ, letterP, 800000.0, 1300000.0},
	{letterZ, letterA, letterJ, letterP, 2000000.0, 1300000.0}}

// upsConstantFor returns the constants of a polar first letter.
func upsConstantFor(letter int) (upsConstant, Hemisphere, bool) {
	switch letter {
	case letterA, letterB:
		return upsConstants[letter], HemisphereSouth, true
	case letterY, letterZ:
		return upsConstants[letter-22], HemisphereNorth, true
	}
	return upsConstant{}, HemisphereInvalid, false
}

// NewMGRS constructs an MGRS converter for the ellipsoid.
func NewMGRS(ellipsoid Ellipsoid) (*MGRS, error) {
	ell, err := ellipsoid.checked()
	if err != nil {
		return nil, err
	}
	m := &MGRS{ell: ell}
	m.ups, err = NewUPS(ell)
	if err != nil {
		return nil, err
	}
	m.utm, err = NewUTM(ell, 0)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Ellipsoid returns the ellipsoid the converter was built for.
func (m *MGRS) Ellipsoid() Ellipsoid {
	return m.ell
}

func checkPrecision(precision int) error {
	if (precision < 0) || (precision > mgrsMaxPrecision) {
		return domainError(BoundPrecision, "%d outside 0 to 5", precision)
	}
	return nil
}

// ConvertFromGeodetic converts Geodetic (latitude and longitude) coordinates to
// an MGRS coordinate with precision digits per axis.
func (m *MGRS) ConvertFromGeodetic(geodeticCoordinates s2.LatLng, precision int) (MGRSCoord, error) {
	latitude := geodeticCoordinates.Lat.Radians()
	longitude := geodeticCoordinates.Lng.Radians()

	if (latitude < -math.Pi/2) || (latitude > math.Pi/2) || math.IsNaN(latitude) {
		return MGRSCoord{}, domainError(BoundLatitude, "%v outside -90 to 90 degrees", geodeticCoordinates.Lat)
	}
	if (longitude < (-math.Pi - epsilonRadians)) ||
		(longitude > (2*math.Pi + epsilonRadians)) || math.IsNaN(longitude) {
		return MGRSCoord{}, domainError(BoundLongitude, "%v outside -180 to 360 degrees", geodeticCoordinates.Lng)
	}
	if err := checkPrecision(precision); err != nil {
		return MGRSCoord{}, err
	}

	if IsNorthPolar(geodeticCoordinates) || IsSouthPolar(geodeticCoordinates) {
		upsCoordinates, err := m.ups.ConvertFromGeodetic(geodeticCoordinates)
		if err != nil {
			return MGRSCoord{}, err
		}
		return m.fromUPS(upsCoordinates, precision)
	}
	return m.fromUTM(geodeticCoordinates, precision)
}

// ConvertFromUTM converts UTM (zone, easting, and northing) coordinates to an
// MGRS coordinate. The position is re-encoded in the zone MGRS assigns to it.
func (m *MGRS) ConvertFromUTM(utmCoordinates UTMCoord, precision int) (MGRSCoord, error) {
	if (utmCoordinates.Zone < 1) || (utmCoordinates.Zone > 60) {
		return MGRSCoord{}, domainError(BoundZone, "%d outside 1 to 60", utmCoordinates.Zone)
	}
	if (utmCoordinates.Easting < mgrsMinEasting) || (utmCoordinates.Easting > mgrsMaxEasting) {
		return MGRSCoord{}, domainError(BoundEasting, "%.3f outside 100,000 to 900,000", utmCoordinates.Easting)
	}
	if (utmCoordinates.Northing < mgrsMinNorthing) || (utmCoordinates.Northing > mgrsMaxNorthing) {
		return MGRSCoord{}, domainError(BoundNorthing, "%.3f outside 0 to 10,000,000", utmCoordinates.Northing)
	}
	if err := checkPrecision(precision); err != nil {
		return MGRSCoord{}, err
	}

	geodeticCoordinates, err := m.utm.ConvertToGeodetic(utmCoordinates)
	if err != nil {
		return MGRSCoord{}, err
	}
	return m.ConvertFromGeodetic(geodeticCoordinates, precision)
}

// ConvertFromUPS converts UPS (hemisphere, easting, and northing) coordinates
// to an MGRS coordinate. Points outside the polar caps are encoded through UTM.
func (m *MGRS) ConvertFromUPS(upsCoordinates UPSCoord, precision int) (MGRSCoord, error) {
	if err := checkPrecision(precision); err != nil {
		return MGRSCoord{}, err
	}
	geodeticCoordinates, err := m.ups.ConvertToGeodetic(upsCoordinates)
	if err != nil {
		return MGRSCoord{}, err
	}
	if IsNorthPolar(geodeticCoordinates) || IsSouthPolar(geodeticCoordinates) {
		return m.fromUPS(upsCoordinates, precision)
	}
	return m.fromUTM(geodeticCoordinates, precision)
}

// roundToMeter rounds a full easting or northing half up to 1 m. Letters are
// always derived from the 1 m value; coarser precisions only drop digits.
func roundToMeter(v float64) float64 {
	return RoundHalfUp(v, 0)
}

// fromUPS derives the MGRS coordinate of a UPS coordinate.
func (m *MGRS) fromUPS(upsCoordinates UPSCoord, precision int) (MGRSCoord, error) {
	hemisphere := upsCoordinates.Hemisphere
	easting := roundToMeter(upsCoordinates.Easting)
	northing := roundToMeter(upsCoordinates.Northing)

	var letters [3]int
	if hemisphere == HemisphereNorth {
		letters[0] = letterY
		if easting >= 2000000 {
			letters[0] = letterZ
		}
	} else {
		letters[0] = letterA
		if easting >= 2000000 {
			letters[0] = letterB
		}
	}
	constant, _, _ := upsConstantFor(letters[0])

	gridNorthing := northing - constant.falseNorthing
	letters[2] = int(gridNorthing / mgrsSquare)
	if letters[2] > letterH {
		letters[2]++
	}
	if letters[2] > letterN {
		letters[2]++
	}

	gridEasting := easting - constant.falseEasting
	letters[1] = constant.ltr2LowValue + int(gridEasting/mgrsSquare)
	if easting < 2000000 {
		if letters[1] > letterL {
			letters[1] += 3
		}
		if letters[1] > letterU {
			letters[1] += 2
		}
	} else {
		if letters[1] > letterC {
			letters[1] += 2
		}
		if letters[1] > letterH {
			letters[1]++
		}
		if letters[1] > letterL {
			letters[1] += 3
		}
	}

	return makeMGRSCoord(0, letters, easting, northing, precision)
}

// fromUTM calculates the MGRS coordinate of a position inside the UTM area.
func (m *MGRS) fromUTM(geodeticCoordinates s2.LatLng, precision int) (MGRSCoord, error) {
	latitude := geodeticCoordinates.Lat.Radians()
	longitude := geodeticCoordinates.Lng.Radians()
	if longitude > math.Pi {
		longitude -= 2 * math.Pi
	}

	utmCoordinates, err := m.utm.ConvertFromGeodetic(geodeticCoordinates, 0)
	if err != nil {
		return MGRSCoord{}, err
	}
	zone := utmCoordinates.Zone
	easting := roundToMeter(utmCoordinates.Easting)
	northing := roundToMeter(utmCoordinates.Northing)

	var letters [3]int
	letters[0], err = getLatitudeLetter(latitude)
	if err != nil {
		return MGRSCoord{}, err
	}

	// a point rounded onto the truncated eastern edge of 31V belongs to zone 32
	if (zone == 31) && (latitude >= lat56) && (latitude < lat64) &&
		((longitude >= lat3) || (easting >= 500000.0)) {
		utmOverride, err := m.utm.ConvertFromGeodetic(geodeticCoordinates, 32)
		if err != nil {
			return MGRSCoord{}, err
		}
		zone = utmOverride.Zone
		easting = roundToMeter(utmOverride.Easting)
		northing = roundToMeter(utmOverride.Northing)
	}

	if latitude <= 0.0 && northing == 1.0e7 {
		northing = 0.0
	}

	ltr2LowValue, ltr2HighValue, patternOffset := m.getGridValues(zone)

	// Northing used to derive 3rd letter of MGRS
	gridNorthing := northing
	for gridNorthing >= 2000000 {
		gridNorthing -= 2000000
	}
	gridNorthing += patternOffset
	if gridNorthing >= 2000000 {
		gridNorthing -= 2000000
	}

	letters[2] = int(gridNorthing / mgrsSquare)
	if letters[2] > letterH {
		letters[2]++
	}
	if letters[2] > letterN {
		letters[2]++
	}

	letters[1] = ltr2LowValue + int(easting/mgrsSquare) - 1
	if (ltr2LowValue == letterJ) && (letters[1] > letterN) {
		letters[1]++
	}
	if letters[1] < ltr2LowValue || letters[1] > ltr2HighValue {
		return MGRSCoord{}, domainError(BoundEasting, "%.0f has no grid column in zone %d", easting, zone)
	}

	return makeMGRSCoord(zone, letters, easting, northing, precision)
}

// computeScale returns the grid spacing in meters of a precision.
func computeScale(prec int) float64 {
	scale := 1.0e5
	switch prec {
	case 0:
		scale = 1.0e5
	case 1:
		scale = 1.0e4
	case 2:
		scale = 1.0e3
	case 3:
		scale = 1.0e2
	case 4:
		scale = 1.0e1
	case 5:
		scale = 1.0e0
	}
	return scale
}

// makeMGRSCoord assembles a coordinate from letter offsets and the 1 m
// easting and northing, truncating the in-square residual to precision.
func makeMGRSCoord(zone int, letters [3]int, easting, northing float64, precision int) (MGRSCoord, error) {
	for _, l := range letters {
		if l < letterA || l > letterZ || l == letterI || l == letterO {
			return MGRSCoord{}, domainError(BoundMGRSString, "derived an invalid grid letter")
		}
	}
	return MGRSCoord{
		Zone:      zone,
		Band:      byte('A' + letters[0]),
		Square:    [2]byte{byte('A' + letters[1]), byte('A' + letters[2])},
		Easting:   truncateToPrecision(math.Mod(easting, mgrsSquare), precision),
		Northing:  truncateToPrecision(math.Mod(northing, mgrsSquare), precision),
		Precision: precision,
	}, nil
}

func truncateToPrecision(v float64, precision int) float64 {
	scale := computeScale(precision)
	return math.Floor(v/scale) * scale
}

// IsPolar reports whether the coordinate lies in a UPS area.
func (c MGRSCoord) IsPolar() bool {
	return c.Zone == 0
}

// digits returns the easting and northing digit groups.
func (c MGRSCoord) digits() (string, string) {
	if c.Precision <= 0 {
		return "", ""
	}
	return gridDigits(c.Easting, c.Precision), gridDigits(c.Northing, c.Precision)
}

// gridDigits truncates an in-square value to precision digits. Values at or
// past the square edge read as its last digit group.
func gridDigits(v float64, precision int) string {
	last := int(math.Pow10(precision)) - 1
	n := int(math.Floor(v / computeScale(precision)))
	if n > last {
		n = last
	}
	if n < 0 {
		n = 0
	}
	return fmt.Sprintf("%0*d", precision, n)
}

// String renders the coordinate with spaces between its parts, for example
// "50S PA 66792 47343" or "A UW 98683 22343".
func (c MGRSCoord) String() string {
	var sb strings.Builder
	if c.Zone != 0 {
		fmt.Fprintf(&sb, "%2.2d", c.Zone)
	}
	sb.WriteByte(c.Band)
	sb.WriteByte(' ')
	sb.Write(c.Square[:])
	east, north := c.digits()
	if c.Precision > 0 {
		sb.WriteString(" " + east + " " + north)
	}
	return sb.String()
}

// Compact renders the coordinate without spaces, for example
// "50SPA6679247343".
func (c MGRSCoord) Compact() string {
	buf := bytes.Buffer{}
	if c.Zone != 0 {
		fmt.Fprintf(&buf, "%2.2d", c.Zone)
	}
	buf.WriteByte(c.Band)
	buf.Write(c.Square[:])
	east, north := c.digits()
	buf.WriteString(east)
	buf.WriteString(north)
	return buf.String()
}

// EastingIn returns the in-square easting in unit rounded half up to
// precision decimals.
func (c MGRSCoord) EastingIn(unit LengthUnit, precision int) float64 {
	return measure(c.Easting, unit, precision)
}

// NorthingIn returns the in-square northing in unit rounded half up to
// precision decimals.
func (c MGRSCoord) NorthingIn(unit LengthUnit, precision int) float64 {
	return measure(c.Northing, unit, precision)
}

// ParseMGRS breaks down an MGRS coordinate string into its component parts.
// Whitespace is ignored and letters may be in either case.
func ParseMGRS(MGRSString string) (MGRSCoord, error) {
	buf := make([]byte, 0, len(MGRSString))
	for i := 0; i < len(MGRSString); i++ {
		b := MGRSString[i]
		switch {
		case b == ' ' || b == '\t' || b == '\n' || b == '\r':
		case isdigit(b) || isalpha(b):
			buf = append(buf, b)
		default:
			return MGRSCoord{}, domainError(BoundMGRSString, "invalid character %q in %q", b, MGRSString)
		}
	}
	buf = bytes.ToUpper(buf)

	i := 0
	for i < len(buf) && isdigit(buf[i]) {
		i++
	}
	numDigits := i
	zone := 0
	if numDigits > 2 {
		return MGRSCoord{}, domainError(BoundMGRSString, "zone %q has too many digits", buf[:numDigits])
	} else if numDigits > 0 {
		zone, _ = strconv.Atoi(string(buf[:numDigits]))
		if (zone < 1) || (zone > 60) {
			return MGRSCoord{}, domainError(BoundZone, "%d outside 1 to 60", zone)
		}
	}

	j := i
	for i < len(buf) && isalpha(buf[i]) {
		i++
	}
	if i-j != 3 {
		return MGRSCoord{}, domainError(BoundMGRSString, "expected 3 letters in %q, got %d", MGRSString, i-j)
	}
	letters := buf[j:i]
	for _, l := range letters {
		if l == 'I' || l == 'O' {
			return MGRSCoord{}, domainError(BoundMGRSString, "invalid letter %c in %q", l, MGRSString)
		}
	}

	j = i
	for i < len(buf) && isdigit(buf[i]) {
		i++
	}
	if i != len(buf) {
		return MGRSCoord{}, domainError(BoundMGRSString, "unexpected %q after the digits", buf[i:])
	}
	numDigits = i - j
	if (numDigits > 2*mgrsMaxPrecision) || (numDigits%2 != 0) {
		return MGRSCoord{}, domainError(BoundMGRSString, "wrong number of digits (%d) in %q", numDigits, MGRSString)
	}

	// get easting & northing
	c := MGRSCoord{
		Zone:      zone,
		Band:      letters[0],
		Square:    [2]byte{letters[1], letters[2]},
		Precision: numDigits / 2,
	}
	if n := c.Precision; n > 0 {
		east, _ := strconv.Atoi(string(buf[j : j+n]))
		north, _ := strconv.Atoi(string(buf[j+n : j+2*n]))
		multiplier := computeScale(n)
		c.Easting = float64(east) * multiplier
		c.Northing = float64(north) * multiplier
	}
	return c, nil
}

// letters validates the coordinate's fields and returns its letters as
// offsets from 'A'.
func (c MGRSCoord) letters() ([3]int, error) {
	var letters [3]int
	if (c.Zone < 0) || (c.Zone > 60) {
		return letters, domainError(BoundZone, "%d outside 0 to 60", c.Zone)
	}
	if err := checkPrecision(c.Precision); err != nil {
		return letters, err
	}
	if (c.Easting < 0) || (c.Easting >= mgrsSquare) || math.IsNaN(c.Easting) {
		return letters, domainError(BoundEasting, "%.3f outside the 100 km square", c.Easting)
	}
	if (c.Northing < 0) || (c.Northing >= mgrsSquare) || math.IsNaN(c.Northing) {
		return letters, domainError(BoundNorthing, "%.3f outside the 100 km square", c.Northing)
	}
	for i, b := range [3]byte{c.Band, c.Square[0], c.Square[1]} {
		l := int(b|0x20) - 'a'
		if l < letterA || l > letterZ || l == letterI || l == letterO {
			return letters, domainError(BoundMGRSString, "invalid letter %q", b)
		}
		letters[i] = l
	}
	return letters, nil
}

// getGridValues sets the letter range used for the 2nd letter in the MGRS
// coordinate string, based on the set number of the utm zone. It also sets the
// pattern offset using a value of A for the second letter of the grid square,
// based on the grid pattern and set number of the utm zone.
func (m *MGRS) getGridValues(zone int) (ltr2LowValue, ltr2HighValue int, patternOffset float64) {
	// Set number (1-6) based on UTM zone number
	setNumber := zone % 6
	if setNumber == 0 {
		setNumber = 6
	}

	switch setNumber {
	case 1, 4:
		ltr2LowValue = letterA
		ltr2HighValue = letterH
	case 2, 5:
		ltr2LowValue = letterJ
		ltr2HighValue = letterR
	case 3, 6:
		ltr2LowValue = letterS
		ltr2HighValue = letterZ
	}

	// False northing at A for second letter of grid square
	if m.ell.aaPattern() {
		if (setNumber % 2) == 0 {
			patternOffset = 500000.0
		} else {
			patternOffset = 0.0
		}
	} else {
		if (setNumber % 2) == 0 {
			patternOffset = 1500000.0
		} else {
			patternOffset = 1000000.00
		}
	}
	return
}

// ConvertToGeodetic converts an MGRS coordinate to Geodetic (latitude and
// longitude) coordinates.
func (m *MGRS) ConvertToGeodetic(mgrsCoordinates MGRSCoord) (s2.LatLng, error) {
	if mgrsCoordinates.Zone != 0 {
		utmCoordinates, err := m.ConvertToUTM(mgrsCoordinates)
		if err != nil {
			return s2.LatLng{}, err
		}
		return m.utm.toGeodetic(utmCoordinates)
	}
	upsCoordinates, err := m.ConvertToUPS(mgrsCoordinates)
	if err != nil {
		return s2.LatLng{}, err
	}
	// the south west corner of a coarse polar square may lie outside the
	// UPS latitude band
	return m.ups.toGeodetic(upsCoordinates)
}

// ConvertStringToGeodetic parses an MGRS string and converts it to geodetic
// coordinates.
func (m *MGRS) ConvertStringToGeodetic(MGRSString string) (s2.LatLng, error) {
	c, err := ParseMGRS(MGRSString)
	if err != nil {
		return s2.LatLng{}, err
	}
	return m.ConvertToGeodetic(c)
}

// ConvertToUTM converts an MGRS coordinate to UTM projection (zone,
// hemisphere, easting and northing) coordinates.
func (m *MGRS) ConvertToUTM(mgrsCoordinates MGRSCoord) (UTMCoord, error) {
	letters, err := mgrsCoordinates.letters()
	if err != nil {
		return UTMCoord{}, err
	}
	zone := mgrsCoordinates.Zone
	if zone == 0 {
		return UTMCoord{}, domainError(BoundZone, "polar MGRS coordinate %v has no UTM zone", mgrsCoordinates)
	}

	if (letters[0] == letterX) && ((zone == 32) || (zone == 34) || (zone == 36)) {
		return UTMCoord{}, domainError(BoundMGRSString, "zone %dX does not exist", zone)
	} else if (letters[0] == letterV) && (zone == 31) && (letters[1] > letterD) {
		return UTMCoord{}, domainError(BoundMGRSString, "square %c is not part of zone 31V", byte('A'+letters[1]))
	}

	hemisphere := HemisphereNorth
	if letters[0] < letterN {
		hemisphere = HemisphereSouth
	}

	ltr2LowValue, ltr2HighValue, patternOffset := m.getGridValues(zone)

	// Check that the second letter of the MGRS string is within the range of
	// valid second letter values. Also check that the third letter is valid
	if (letters[1] < ltr2LowValue) ||
		(letters[1] > ltr2HighValue) ||
		(letters[2] > letterV) {
		return UTMCoord{}, domainError(BoundMGRSString, "square %s is not valid in zone %d", mgrsCoordinates.Square[:], zone)
	}

	gridEasting := float64(letters[1]-ltr2LowValue+1) * mgrsSquare
	if (ltr2LowValue == letterJ) && (letters[1] > letterO) {
		gridEasting -= mgrsSquare
	}

	rowLetterNorthing := float64(letters[2]) * mgrsSquare
	if letters[2] > letterO {
		rowLetterNorthing -= mgrsSquare
	}
	if letters[2] > letterI {
		rowLetterNorthing -= mgrsSquare
	}
	if rowLetterNorthing >= 2000000 {
		rowLetterNorthing -= 2000000
	}

	i, ok := bandIndex(letters[0])
	if !ok {
		return UTMCoord{}, domainError(BoundMGRSString, "invalid latitude band %c", mgrsCoordinates.Band)
	}
	minNorthing := latitudeBands[i].minNorthing
	northingOffset := latitudeBands[i].northingOffset

	gridNorthing := rowLetterNorthing - patternOffset
	if gridNorthing < 0 {
		gridNorthing += 2000000
	}
	gridNorthing += northingOffset
	if gridNorthing < minNorthing {
		gridNorthing += 2000000
	}

	utmCoordinates := UTMCoord{
		Zone:       zone,
		Band:       byte('A' + letters[0]),
		Hemisphere: hemisphere,
		Easting:    gridEasting + mgrsCoordinates.Easting,
		Northing:   gridNorthing + mgrsCoordinates.Northing,
	}

	// check that point is within Zone Letter bounds
	geodeticCoordinates, err := m.utm.toGeodetic(utmCoordinates)
	if err != nil {
		return UTMCoord{}, err
	}
	latitude := geodeticCoordinates.Lat.Radians()

	divisor := mgrsSquare / computeScale(mgrsCoordinates.Precision)
	border := math.Pi / 180 / divisor

	inRange, err := inLatitudeRange(letters[0], latitude, border)
	if err != nil {
		return UTMCoord{}, err
	}
	if !inRange {
		// a 100 km square may straddle a band boundary
		prevBand := letters[0] - 1
		nextBand := letters[0] + 1
		if letters[0] == letterC { // if last band, do not go off list
			prevBand = letters[0]
		}
		if letters[0] == letterX {
			nextBand = letters[0]
		}
		if prevBand == letterI || prevBand == letterO {
			prevBand--
		}
		if nextBand == letterI || nextBand == letterO {
			nextBand++
		}

		prevInRange, err := inLatitudeRange(prevBand, latitude, border)
		if err != nil {
			return UTMCoord{}, err
		}
		nextInRange, err := inLatitudeRange(nextBand, latitude, border)
		if err != nil {
			return UTMCoord{}, err
		}
		if !(prevInRange && nextInRange) {
			return UTMCoord{}, domainError(BoundMGRSString, "%v lies outside latitude band %c", mgrsCoordinates, mgrsCoordinates.Band)
		}
	}
	return utmCoordinates, nil
}

// ConvertToUPS converts an MGRS coordinate to UPS (hemisphere, easting, and
// northing) coordinates.
func (m *MGRS) ConvertToUPS(mgrsCoordinates MGRSCoord) (UPSCoord, error) {
	letters, err := mgrsCoordinates.letters()
	if err != nil {
		return UPSCoord{}, err
	}
	if mgrsCoordinates.Zone != 0 {
		return UPSCoord{}, domainError(BoundZone, "MGRS coordinate %v is not polar", mgrsCoordinates)
	}

	constant, hemisphere, ok := upsConstantFor(letters[0])
	if !ok {
		return UPSCoord{}, domainError(BoundMGRSString, "polar band must be A, B, Y or Z, got %c", mgrsCoordinates.Band)
	}

	// Check that the second letter of the MGRS string is within the range of
	// valid second letter values Also check that the third letter is valid
	if (letters[1] < constant.ltr2LowValue) || (letters[1] > constant.ltr2HighValue) ||
		((letters[1] == letterD) || (letters[1] == letterE) ||
			(letters[1] == letterM) || (letters[1] == letterN) ||
			(letters[1] == letterV) || (letters[1] == letterW)) ||
		(letters[2] > constant.ltr3HighValue) {
		return UPSCoord{}, domainError(BoundMGRSString, "square %s is not valid in polar band %c", mgrsCoordinates.Square[:], mgrsCoordinates.Band)
	}

	gridNorthing := float64(letters[2])*mgrsSquare + constant.falseNorthing
	if letters[2] > letterI {
		gridNorthing -= mgrsSquare
	}
	if letters[2] > letterO {
		gridNorthing -= mgrsSquare
	}

	gridEasting := float64(letters[1]-constant.ltr2LowValue)*mgrsSquare + constant.falseEasting
	if constant.ltr2LowValue != letterA {
		if letters[1] > letterL {
			gridEasting -= 300000.0
		}
		if letters[1] > letterU {
			gridEasting -= 200000.0
		}
	} else {
		if letters[1] > letterC {
			gridEasting -= 200000.0
		}
		if letters[1] > letterI {
			gridEasting -= mgrsSquare
		}
		if letters[1] > letterL {
			gridEasting -= 300000.0
		}
	}

	return UPSCoord{
		Hemisphere: hemisphere,
		Easting:    gridEasting + mgrsCoordinates.Easting,
		Northing:   gridNorthing + mgrsCoordinates.Northing,
	}, nil
}

func isdigit(r byte) bool {
	return r >= '0' && r <= '9'
}

func isalpha(r byte) bool {
	return r >= 'a' && r <= 'z' ||
		r >= 'A' && r <= 'Z'
}
