package jeotrans

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

const (
	polarMaxIterations = 20
	polarTolerance     = 1.0e-10
	polarMinScale      = 0.1
	polarMaxScale      = 3.0
)

// PSParams are the Polar Stereographic (standard parallel) projection
// parameters. The sign of LatitudeOfTrueScale selects the hemisphere.
type PSParams struct {
	LatitudeOfTrueScale   s1.Angle
	LongitudeDownFromPole s1.Angle
	FalseEasting          float64 // meters
	FalseNorthing         float64 // meters
}

// PolarStereographic converts between geodetic and Polar Stereographic
// coordinates.
type PolarStereographic struct {
	ell   Ellipsoid
	es    float64 // eccentricity
	halfE float64 // es / 2
	south bool

	tc   float64
	k90  float64
	aMc  float64 // a * mc
	twoA float64 // 2 * a

	stdParallel   float64 // radians, folded into the north
	originLong    float64 // radians, folded into the north
	falseEasting  float64 // meters
	falseNorthing float64 // meters

	// largest easting/northing offset the inverse accepts
	deltaEasting  float64
	deltaNorthing float64

	scale float64
}

func newPolarStereographic(ellipsoid Ellipsoid, falseEasting, falseNorthing float64) (*PolarStereographic, error) {
	ell, err := ellipsoid.checked()
	if err != nil {
		return nil, err
	}
	p := &PolarStereographic{
		ell:           ell,
		es:            ell.e,
		halfE:         ell.e / 2,
		tc:            1.0,
		aMc:           ell.SemiMajorAxis,
		twoA:          2.0 * ell.SemiMajorAxis,
		falseEasting:  falseEasting,
		falseNorthing: falseNorthing,
		scale:         1.0,
	}
	onePlusEs := 1.0 + p.es
	oneMinusEs := 1.0 - p.es
	p.k90 = math.Sqrt(math.Pow(onePlusEs, onePlusEs) * math.Pow(oneMinusEs, oneMinusEs))
	return p, nil
}

// NewPolarStereographic receives the ellipsoid and Polar Stereographic
// (standard parallel) projection parameters.
func NewPolarStereographic(ellipsoid Ellipsoid, params PSParams) (*PolarStereographic, error) {
	standardParallel := params.LatitudeOfTrueScale.Radians()
	centralMeridian := params.LongitudeDownFromPole.Radians()
	if (standardParallel < -math.Pi/2) || (standardParallel > math.Pi/2) {
		return nil, domainError(BoundProjectionParameter, "latitude of true scale %v outside -90 to 90 degrees", params.LatitudeOfTrueScale)
	}
	if (centralMeridian < -math.Pi) || (centralMeridian > 2*math.Pi) {
		return nil, domainError(BoundProjectionParameter, "longitude down from pole %v outside -180 to 360 degrees", params.LongitudeDownFromPole)
	}

	p, err := newPolarStereographic(ellipsoid, params.FalseEasting, params.FalseNorthing)
	if err != nil {
		return nil, err
	}
	p.setOrigin(standardParallel, centralMeridian)

	slat := math.Sin(math.Abs(standardParallel))
	onePlusEs := 1.0 + p.es
	oneMinusEs := 1.0 - p.es
	p.scale = ((1 + slat) / 2) *
		(p.k90 / math.Sqrt(math.Pow(1.0+p.es*slat, onePlusEs)*
			math.Pow(1.0-p.es*slat, oneMinusEs)))

	if err := p.computeRadius(centralMeridian); err != nil {
		return nil, err
	}
	return p, nil
}

// NewPolarStereographicScaleFactor receives the ellipsoid and Polar
// Stereographic (scale factor) projection parameters. The latitude of true
// scale is solved from the scale factor at the pole.
func NewPolarStereographicScaleFactor(ellipsoid Ellipsoid,
	longitudeDownFromPole s1.Angle,
	scaleFactor float64, hemisphere Hemisphere,
	falseEasting, falseNorthing float64) (*PolarStereographic, error) {

	const tolerance = 1.0e-15
	count := 30

	centralMeridian := longitudeDownFromPole.Radians()
	if (scaleFactor < polarMinScale) || (scaleFactor > polarMaxScale) {
		return nil, domainError(BoundProjectionParameter, "scale factor %g outside 0.1 to 3.0", scaleFactor)
	}
	if (centralMeridian < -math.Pi) || (centralMeridian > 2*math.Pi) {
		return nil, domainError(BoundProjectionParameter, "longitude down from pole %v outside -180 to 360 degrees", longitudeDownFromPole)
	}
	if (hemisphere != HemisphereNorth) && (hemisphere != HemisphereSouth) {
		return nil, domainError(BoundHemisphere, "invalid hemisphere %v", hemisphere)
	}

	p, err := newPolarStereographic(ellipsoid, falseEasting, falseNorthing)
	if err != nil {
		return nil, err
	}
	p.scale = scaleFactor

	onePlusEs := 1.0 + p.es
	oneMinusEs := 1.0 - p.es
	sk := 0.0
	skPlus1 := -1 + 2*p.scale
	for math.Abs(skPlus1-sk) > tolerance && count != 0 {
		sk = skPlus1
		onePlusEsSk := 1.0 + p.es*sk
		oneMinusEsSk := 1.0 - p.es*sk
		skPlus1 = ((2 * p.scale *
			math.Sqrt(math.Pow(onePlusEsSk, onePlusEs)*
				math.Pow(oneMinusEsSk, oneMinusEs))) /
			p.k90) - 1
		count--
	}
	if count == 0 || skPlus1 < -1.0 || skPlus1 > 1.0 {
		return nil, domainError(BoundProjectionParameter, "no latitude of true scale for scale factor %g", scaleFactor)
	}

	standardParallel := math.Asin(skPlus1)
	if hemisphere == HemisphereSouth {
		standardParallel *= -1.0
	}
	p.setOrigin(standardParallel, centralMeridian)

	if err := p.computeRadius(centralMeridian); err != nil {
		return nil, err
	}
	return p, nil
}

// setOrigin mirrors southern parameters into the northern hemisphere and
// precomputes the true scale constants.
func (p *PolarStereographic) setOrigin(standardParallel, centralMeridian float64) {
	if centralMeridian > math.Pi {
		centralMeridian -= 2 * math.Pi
	}
	if standardParallel < 0 {
		p.south = true
		p.stdParallel = -standardParallel
		p.originLong = -centralMeridian
	} else {
		p.south = false
		p.stdParallel = standardParallel
		p.originLong = centralMeridian
	}

	if !p.originAtPole() {
		esSin := p.es * math.Sin(p.stdParallel)
		mc := math.Cos(p.stdParallel) / math.Sqrt(1.0-esSin*esSin)
		p.aMc = p.ell.SemiMajorAxis * mc
		p.tc = math.Tan(math.Pi/4-p.stdParallel/2.0) / p.conformal(esSin)
	}
}

// computeRadius sets the inverse bounds from the projected equator.
func (p *PolarStereographic) computeRadius(centralMeridian float64) error {
	p.deltaEasting = math.Inf(1)
	p.deltaNorthing = math.Inf(1)

	equator, err := p.ConvertFromGeodetic(s2.LatLng{Lng: s1.Angle(centralMeridian), Lat: 0})
	if err != nil {
		return err
	}
	p.deltaNorthing = math.Abs(equator.Northing-p.falseNorthing) * 1.01
	p.deltaEasting = p.deltaNorthing
	return nil
}

func (p *PolarStereographic) originAtPole() bool {
	return math.Abs(math.Abs(p.stdParallel)-math.Pi/2) <= 1.0e-10
}

// Hemisphere returns the hemisphere the projection is centered on.
func (p *PolarStereographic) Hemisphere() Hemisphere {
	if p.south {
		return HemisphereSouth
	}
	return HemisphereNorth
}

// Params returns the projection parameters in standard parallel form.
func (p *PolarStereographic) Params() PSParams {
	lat, lon := p.stdParallel, p.originLong
	if p.south {
		lat, lon = -lat, -lon
	}
	return PSParams{
		LatitudeOfTrueScale:   s1.Angle(lat),
		LongitudeDownFromPole: s1.Angle(lon),
		FalseEasting:          p.falseEasting,
		FalseNorthing:         p.falseNorthing,
	}
}

// ScaleFactor returns the scale factor at the pole.
func (p *PolarStereographic) ScaleFactor() float64 {
	return p.scale
}

// ConvertFromGeodetic converts geodetic coordinates (latitude and longitude) to
// Polar Stereographic coordinates (easting and northing).
func (p *PolarStereographic) ConvertFromGeodetic(geodeticCoordinates s2.LatLng) (MapCoords, error) {
	longitude := geodeticCoordinates.Lng.Radians()
	latitude := geodeticCoordinates.Lat.Radians()

	if (latitude < -math.Pi/2) || (latitude > math.Pi/2) {
		return MapCoords{}, domainError(BoundLatitude, "%v outside -90 to 90 degrees", geodeticCoordinates.Lat)
	} else if (latitude < 0) && (!p.south) {
		return MapCoords{}, domainError(BoundHemisphere, "latitude %v and origin latitude in different hemispheres", geodeticCoordinates.Lat)
	} else if (latitude > 0) && (p.south) {
		return MapCoords{}, domainError(BoundHemisphere, "latitude %v and origin latitude in different hemispheres", geodeticCoordinates.Lat)
	}
	if (longitude < -math.Pi) || (longitude > 2*math.Pi) {
		return MapCoords{}, domainError(BoundLongitude, "%v outside -180 to 360 degrees", geodeticCoordinates.Lng)
	}

	if math.Abs(math.Abs(latitude)-math.Pi/2) < 1.0e-10 {
		return MapCoords{Easting: p.falseEasting, Northing: p.falseNorthing}, nil
	}

	if p.south {
		longitude *= -1.0
		latitude *= -1.0
	}
	dlam := longitude - p.originLong
	if dlam > math.Pi {
		dlam -= 2 * math.Pi
	}
	if dlam < -math.Pi {
		dlam += 2 * math.Pi
	}
	t := math.Tan(math.Pi/4-latitude/2.0) / p.conformal(p.es*math.Sin(latitude))

	var rho float64
	if !p.originAtPole() {
		rho = p.aMc * t / p.tc
	} else {
		rho = p.twoA * t / p.k90
	}

	var easting, northing float64
	if p.south {
		easting = -(rho*math.Sin(dlam) - p.falseEasting)
		northing = rho*math.Cos(dlam) + p.falseNorthing
	} else {
		easting = rho*math.Sin(dlam) + p.falseEasting
		northing = -rho*math.Cos(dlam) + p.falseNorthing
	}
	return MapCoords{Easting: easting, Northing: northing}, nil
}

// ConvertToGeodetic converts Polar Stereographic coordinates (easting and
// northing) to geodetic coordinates (latitude and longitude).
func (p *PolarStereographic) ConvertToGeodetic(mapProjectionCoordinates MapCoords) (s2.LatLng, error) {
	easting := mapProjectionCoordinates.Easting
	northing := mapProjectionCoordinates.Northing

	if easting > p.falseEasting+p.deltaEasting ||
		easting < p.falseEasting-p.deltaEasting {
		return s2.LatLng{}, domainError(BoundEasting, "%.3f outside the projection's range", easting)
	}
	if northing > p.falseNorthing+p.deltaNorthing ||
		northing < p.falseNorthing-p.deltaNorthing {
		return s2.LatLng{}, domainError(BoundNorthing, "%.3f outside the projection's range", northing)
	}

	dy := northing - p.falseNorthing
	dx := easting - p.falseEasting

	rho := math.Sqrt(dx*dx + dy*dy)
	deltaRadius := math.Sqrt(p.deltaEasting*p.deltaEasting +
		p.deltaNorthing*p.deltaNorthing)
	if rho > deltaRadius {
		return s2.LatLng{}, domainError(BoundEasting, "point (%.3f, %.3f) is outside of the projection area", easting, northing)
	}

	var latitude, longitude float64
	if (dy == 0.0) && (dx == 0.0) {
		latitude = math.Pi / 2
		longitude = p.originLong
	} else {
		if p.south {
			dy *= -1.0
			dx *= -1.0
		}

		var t float64
		if !p.originAtPole() {
			t = rho * p.tc / p.aMc
		} else {
			t = rho * p.k90 / p.twoA
		}
		phi := math.Pi/2 - 2.0*math.Atan(t)
		tempPhi := 0.0
		converged := false
		for i := 0; i < polarMaxIterations; i++ {
			if math.Abs(phi-tempPhi) <= polarTolerance {
				converged = true
				break
			}
			tempPhi = phi
			essin := p.es * math.Sin(phi)
			phi = math.Pi/2 - 2.0*math.Atan(t*p.conformal(essin))
		}
		if !converged {
			return s2.LatLng{}, domainError(BoundNorthing, "latitude did not converge for (%.3f, %.3f)", easting, northing)
		}
		latitude = phi
		longitude = p.originLong + math.Atan2(dx, -dy)

		if longitude > math.Pi {
			longitude -= 2 * math.Pi
		} else if longitude < -math.Pi {
			longitude += 2 * math.Pi
		}

		// force distorted values to the poles and the antimeridian
		latitude = math.Max(-math.Pi/2, math.Min(math.Pi/2, latitude))
		longitude = math.Max(-math.Pi, math.Min(math.Pi, longitude))
	}
	if p.south {
		latitude *= -1.0
		longitude *= -1.0
	}

	return s2.LatLng{Lat: s1.Angle(latitude), Lng: s1.Angle(longitude)}, nil
}

func (p *PolarStereographic) conformal(esSin float64) float64 {
	return math.Pow((1.0-esSin)/(1.0+esSin), p.halfE)
}
