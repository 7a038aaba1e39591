package jeotrans

import (
	"math"
	"sort"
	"strings"
)

// Ellipsoid is a reference ellipsoid. The zero value is not usable; build one
// with NewEllipsoid or take one from the registry.
type Ellipsoid struct {
	Code          string  // 2 letter GeoTrans code
	Name          string
	SemiMajorAxis float64 // meters
	Flattening    float64

	// axis and flattening the cached values were derived from
	derivedA, derivedF float64

	es      float64 // eccentricity squared
	ebs     float64 // second eccentricity squared
	e       float64 // eccentricity

	// meridian arc series coefficients
	ap, bp, cp, dp, ep float64
}

const (
	minInverseFlattening = 250
	maxInverseFlattening = 350
)

// NewEllipsoid validates the axis and inverse flattening and caches the
// derived constants.
func NewEllipsoid(code, name string, semiMajorAxis, inverseFlattening float64) (Ellipsoid, error) {
	e := Ellipsoid{
		Code:          strings.ToUpper(code),
		Name:          name,
		SemiMajorAxis: semiMajorAxis,
	}
	if inverseFlattening != 0 {
		e.Flattening = 1 / inverseFlattening
	}
	return e.checked()
}

// checked validates the axis and flattening and returns e with its derived
// constants filled in. The cache is reused only while both are unchanged.
func (e Ellipsoid) checked() (Ellipsoid, error) {
	if e.derivedA != 0 && e.derivedA == e.SemiMajorAxis && e.derivedF == e.Flattening {
		return e, nil
	}
	if !(e.SemiMajorAxis > 0) {
		return Ellipsoid{}, domainError(BoundEllipsoid, "semi-major axis must be greater than zero, got %g", e.SemiMajorAxis)
	}
	invF := 1 / e.Flattening
	if !(invF >= minInverseFlattening && invF <= maxInverseFlattening) {
		return Ellipsoid{}, domainError(BoundEllipsoid, "inverse flattening must be between 250 and 350, got %g", invF)
	}

	a := e.SemiMajorAxis
	f := e.Flattening
	e.es = 2*f - f*f
	e.ebs = 1/(1-e.es) - 1
	e.e = math.Sqrt(e.es)

	b := a * (1 - f)
	n := (a - b) / (a + b)
	n2 := n * n
	n3 := n2 * n
	n4 := n3 * n
	n5 := n4 * n
	e.ap = a * (1 - n + 5*(n2-n3)/4 + 81*(n4-n5)/64)
	e.bp = 3 * a * (n - n2 + 7*(n3-n4)/8 + 55*n5/64) / 2
	e.cp = 15 * a * (n2 - n3 + 3*(n4-n5)/4) / 16
	e.dp = 35 * a * (n3 - n4 + 11*n5/16) / 48
	e.ep = 315 * a * (n4 - n5) / 512

	e.derivedA = a
	e.derivedF = f
	return e, nil
}

// InverseFlattening returns 1/f.
func (e Ellipsoid) InverseFlattening() float64 {
	return 1 / e.Flattening
}

// EccentricitySquared returns e².
func (e Ellipsoid) EccentricitySquared() float64 {
	return 2*e.Flattening - e.Flattening*e.Flattening
}

// meridianArc is the true meridional distance from the equator to latitude.
func (e *Ellipsoid) meridianArc(latitude float64) float64 {
	return e.ap*latitude -
		e.bp*math.Sin(2*latitude) +
		e.cp*math.Sin(4*latitude) -
		e.dp*math.Sin(6*latitude) +
		e.ep*math.Sin(8*latitude)
}

// primeVerticalRadius is the radius of curvature in the prime vertical.
func (e *Ellipsoid) primeVerticalRadius(latitude float64) float64 {
	s := math.Sin(latitude)
	return e.SemiMajorAxis / math.Sqrt(1-e.es*s*s)
}

// meridianRadius is the radius of curvature in the meridian.
func (e *Ellipsoid) meridianRadius(latitude float64) float64 {
	s := math.Sin(latitude)
	denom := math.Sqrt(1 - e.es*s*s)
	return e.SemiMajorAxis * (1 - e.es) / (denom * denom * denom)
}

// aaPattern reports whether MGRS lettering uses the AA pattern for this
// ellipsoid.
func (e Ellipsoid) aaPattern() bool {
	switch e.Code {
	case "CC", "CD", "BR", "BN":
		return false
	}
	return true
}

var ellipsoids = map[string]Ellipsoid{}

// WGS84 is the World Geodetic System 1984 ellipsoid.
var WGS84 Ellipsoid

func init() {
	for _, d := range []struct {
		code, name string
		a, invF    float64
	}{
		{"WE", "WGS 84", 6378137.0, 298.257223563},
		{"WD", "WGS 72", 6378135.0, 298.26},
		{"RF", "Geodetic Reference System 1980", 6378137.0, 298.257222101},
		{"CC", "Clarke 1866", 6378206.4, 294.9786982},
		{"CD", "Clarke 1880", 6378249.145, 293.465},
		{"BR", "Bessel 1841", 6377397.155, 299.1528128},
		{"BN", "Bessel 1841 (Namibia)", 6377483.865, 299.1528128},
		{"IN", "International 1924", 6378388.0, 297.0},
		{"AA", "Airy 1830", 6377563.396, 299.3249646},
		{"AM", "Modified Airy", 6377340.189, 299.3249646},
		{"KA", "Krassovsky 1940", 6378245.0, 298.3},
		{"EA", "Everest 1830", 6377276.345, 300.8017},
		{"SA", "South American 1969", 6378160.0, 298.25},
		{"AN", "Australian National", 6378160.0, 298.25},
		{"HO", "Hough 1960", 6378270.0, 297.0},
		{"ID", "Indonesian 1974", 6378160.0, 298.247},
		{"FA", "Modified Fischer 1960", 6378155.0, 298.3},
		{"HE", "Helmert 1906", 6378200.0, 298.3},
		{"WO", "War Office", 6378300.58, 296.0},
	} {
		e, err := NewEllipsoid(d.code, d.name, d.a, d.invF)
		if err != nil {
			panic("bad built-in ellipsoid " + d.code + ": " + err.Error())
		}
		ellipsoids[e.Code] = e
	}
	WGS84 = ellipsoids["WE"]
}

// LookupEllipsoid returns the built-in ellipsoid with the given code.
func LookupEllipsoid(code string) (Ellipsoid, error) {
	e, ok := ellipsoids[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return Ellipsoid{}, domainError(BoundEllipsoid, "unknown ellipsoid code %q", code)
	}
	return e, nil
}

// Ellipsoids lists the built-in ellipsoids ordered by code.
func Ellipsoids() []Ellipsoid {
	out := make([]Ellipsoid, 0, len(ellipsoids))
	for _, e := range ellipsoids {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
