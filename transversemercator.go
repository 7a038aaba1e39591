package jeotrans

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

const (
	tranMercMaxLat       = (math.Pi * 89.99) / 180.0 // 89.99 degrees in radians
	tranMercMaxDeltaLong = math.Pi / 2               // 90 degrees in radians
	tranMercMinScale     = 0.3
	tranMercMaxScale     = 3.0
)

// TMParams are the Transverse Mercator projection parameters.
type TMParams struct {
	OriginLatitude  s1.Angle
	CentralMeridian s1.Angle
	FalseEasting    float64 // meters
	FalseNorthing   float64 // meters
	ScaleFactor     float64
}

// DefaultTMParams has its origin at (0, 0), no false offsets and a unit scale
// factor.
var DefaultTMParams = TMParams{ScaleFactor: 1}

// TransverseMercator provides conversions between Geodetic coordinates
// (latitude and longitude) and Transverse Mercator projection coordinates
// (easting and northing).
type TransverseMercator struct {
	ell Ellipsoid

	tranMercOriginLat     float64 // Latitude of origin in radians
	tranMercOriginLong    float64 // Longitude of origin in radians
	tranMercFalseNorthing float64 // False northing in meters
	tranMercFalseEasting  float64 // False easting in meters
	tranMercScaleFactor   float64 // Scale factor

	tranMercTMDO float64 // true meridional distance of the origin latitude

	// Maximum variance for easting and northing values
	tranMercDeltaEasting  float64
	tranMercDeltaNorthing float64
}

// NewTransverseMercator constructs a Transverse Mercator converter for the
// ellipsoid and projection parameters.
func NewTransverseMercator(ellipsoid Ellipsoid, params TMParams) (*TransverseMercator, error) {
	ell, err := ellipsoid.checked()
	if err != nil {
		return nil, err
	}

	originLatitude := params.OriginLatitude.Radians()
	centralMeridian := params.CentralMeridian.Radians()
	if (originLatitude < -math.Pi/2) || (originLatitude > math.Pi/2) {
		return nil, domainError(BoundProjectionParameter, "origin latitude %v outside -90 to 90 degrees", params.OriginLatitude)
	}
	if (centralMeridian < -math.Pi) || (centralMeridian > 2*math.Pi) {
		return nil, domainError(BoundProjectionParameter, "central meridian %v outside -180 to 360 degrees", params.CentralMeridian)
	}
	if (params.ScaleFactor < tranMercMinScale) || (params.ScaleFactor > tranMercMaxScale) {
		return nil, domainError(BoundProjectionParameter, "scale factor %g outside 0.3 to 3.0", params.ScaleFactor)
	}

	if centralMeridian > math.Pi {
		centralMeridian -= 2 * math.Pi
	}

	t := &TransverseMercator{
		ell:                   ell,
		tranMercOriginLat:     originLatitude,
		tranMercOriginLong:    centralMeridian,
		tranMercFalseEasting:  params.FalseEasting,
		tranMercFalseNorthing: params.FalseNorthing,
		tranMercScaleFactor:   params.ScaleFactor,
	}
	t.tranMercTMDO = t.ell.meridianArc(t.tranMercOriginLat)

	// The inverse accepts anything the forward projection can produce within
	// 89.99 degrees of latitude and 90 degrees of longitude.
	northing, _ := t.series(tranMercMaxLat, tranMercMaxDeltaLong)
	_, easting := t.series(0, tranMercMaxDeltaLong)
	t.tranMercDeltaNorthing = math.Abs(northing) + 1
	t.tranMercDeltaEasting = math.Abs(easting) + 1
	return t, nil
}

// Params returns the projection parameters, with the central meridian
// normalized into (-180, 180].
func (t *TransverseMercator) Params() TMParams {
	return TMParams{
		OriginLatitude:  s1.Angle(t.tranMercOriginLat),
		CentralMeridian: s1.Angle(t.tranMercOriginLong),
		FalseEasting:    t.tranMercFalseEasting,
		FalseNorthing:   t.tranMercFalseNorthing,
		ScaleFactor:     t.tranMercScaleFactor,
	}
}

// Ellipsoid returns the ellipsoid the converter was built for.
func (t *TransverseMercator) Ellipsoid() Ellipsoid {
	return t.ell
}

// ConvertFromGeodetic converts geodetic coordinates to Transverse Mercator
// easting and northing.
func (t *TransverseMercator) ConvertFromGeodetic(geodeticCoordinates s2.LatLng) (MapCoords, error) {
	latitude := geodeticCoordinates.Lat.Radians()
	longitude := geodeticCoordinates.Lng.Radians()

	if (latitude < -tranMercMaxLat) || (latitude > tranMercMaxLat) {
		return MapCoords{}, domainError(BoundLatitude, "%v outside -89.99 to 89.99 degrees", geodeticCoordinates.Lat)
	}
	if longitude > math.Pi {
		longitude -= 2 * math.Pi
	}
	if (longitude < (t.tranMercOriginLong - tranMercMaxDeltaLong)) ||
		(longitude > (t.tranMercOriginLong + tranMercMaxDeltaLong)) {
		// retry with both values on [0, 2pi) to handle the antimeridian
		tempLong := longitude
		if tempLong < 0 {
			tempLong += 2 * math.Pi
		}
		tempOrigin := t.tranMercOriginLong
		if tempOrigin < 0 {
			tempOrigin += 2 * math.Pi
		}
		if (tempLong < (tempOrigin - tranMercMaxDeltaLong)) ||
			(tempLong > (tempOrigin + tranMercMaxDeltaLong)) {
			return MapCoords{}, domainError(BoundLongitude, "%v is more than 90 degrees from the central meridian", geodeticCoordinates.Lng)
		}
	}

	dlam := longitude - t.tranMercOriginLong
	if dlam > math.Pi {
		dlam -= 2 * math.Pi
	}
	if dlam < -math.Pi {
		dlam += 2 * math.Pi
	}
	if math.Abs(dlam) < 2.0e-10 {
		dlam = 0.0
	}

	northing, easting := t.series(latitude, dlam)
	return MapCoords{
		Easting:  t.tranMercFalseEasting + easting,
		Northing: t.tranMercFalseNorthing + northing,
	}, nil
}

// series evaluates the projection without false offsets or range checks.
func (t *TransverseMercator) series(latitude, dlam float64) (northing, easting float64) {
	k := t.tranMercScaleFactor

	s := math.Sin(latitude)
	c := math.Cos(latitude)
	c2 := c * c
	c3 := c2 * c
	c5 := c3 * c2
	c7 := c5 * c2
	tn := math.Tan(latitude)
	tan2 := tn * tn
	tan4 := tan2 * tan2
	tan6 := tan4 * tan2
	eta := t.ell.ebs * c2
	eta2 := eta * eta
	eta3 := eta2 * eta
	eta4 := eta3 * eta

	sn := t.ell.primeVerticalRadius(latitude)
	tmd := t.ell.meridianArc(latitude)

	t1 := (tmd - t.tranMercTMDO) * k
	t2 := sn * s * c * k / 2
	t3 := sn * s * c3 * k * (5 - tan2 + 9*eta + 4*eta2) / 24
	t4 := sn * s * c5 * k * (61 - 58*tan2 + tan4 + 270*eta - 330*tan2*eta +
		445*eta2 + 324*eta3 - 680*tan2*eta2 + 88*eta4 -
		600*tan2*eta3 - 192*tan2*eta4) / 720
	t5 := sn * s * c7 * k * (1385 - 3111*tan2 + 543*tan4 - tan6) / 40320

	dlam2 := dlam * dlam
	dlam3 := dlam2 * dlam
	dlam4 := dlam3 * dlam
	dlam5 := dlam4 * dlam
	dlam6 := dlam5 * dlam
	dlam7 := dlam6 * dlam
	dlam8 := dlam7 * dlam

	northing = t1 + dlam2*t2 + dlam4*t3 + dlam6*t4 + dlam8*t5

	t6 := sn * c * k
	t7 := sn * c3 * k * (1 - tan2 + eta) / 6
	t8 := sn * c5 * k * (5 - 18*tan2 + tan4 + 14*eta - 58*tan2*eta +
		13*eta2 + 4*eta3 - 64*tan2*eta2 - 24*tan2*eta3) / 120
	t9 := sn * c7 * k * (61 - 479*tan2 + 179*tan4 - tan6) / 5040

	easting = dlam*t6 + dlam3*t7 + dlam5*t8 + dlam7*t9
	return northing, easting
}

// ConvertToGeodetic converts Transverse Mercator easting and northing to
// geodetic coordinates.
func (t *TransverseMercator) ConvertToGeodetic(mapProjectionCoordinates MapCoords) (s2.LatLng, error) {
	easting := mapProjectionCoordinates.Easting
	northing := mapProjectionCoordinates.Northing

	if (easting < (t.tranMercFalseEasting - t.tranMercDeltaEasting)) ||
		(easting > (t.tranMercFalseEasting + t.tranMercDeltaEasting)) {
		return s2.LatLng{}, domainError(BoundEasting, "%.3f outside the projection's range", easting)
	}
	if (northing < (t.tranMercFalseNorthing - t.tranMercDeltaNorthing)) ||
		(northing > (t.tranMercFalseNorthing + t.tranMercDeltaNorthing)) {
		return s2.LatLng{}, domainError(BoundNorthing, "%.3f outside the projection's range", northing)
	}

	k := t.tranMercScaleFactor
	tmd := t.tranMercTMDO + (northing-t.tranMercFalseNorthing)/k

	// footpoint latitude, fixed number of refinements
	ftphi := tmd / t.ell.meridianRadius(0)
	for i := 0; i < 5; i++ {
		ftphi += (tmd - t.ell.meridianArc(ftphi)) / t.ell.meridianRadius(ftphi)
	}

	sr := t.ell.meridianRadius(ftphi)
	sn := t.ell.primeVerticalRadius(ftphi)
	c := math.Cos(ftphi)
	tn := math.Tan(ftphi)
	tan2 := tn * tn
	tan4 := tan2 * tan2
	tan6 := tan4 * tan2
	eta := t.ell.ebs * c * c
	eta2 := eta * eta
	eta3 := eta2 * eta
	eta4 := eta3 * eta

	de := easting - t.tranMercFalseEasting
	if math.Abs(de) < 0.0001 {
		de = 0.0
	}

	sn3 := sn * sn * sn
	sn5 := sn3 * sn * sn
	sn7 := sn5 * sn * sn
	k2 := k * k
	k3 := k2 * k
	k4 := k3 * k
	k5 := k4 * k
	k6 := k5 * k
	k7 := k6 * k
	k8 := k7 * k

	t10 := tn / (2 * sr * sn * k2)
	t11 := tn * (5 + 3*tan2 + eta - 4*eta2 - 9*tan2*eta) / (24 * sr * sn3 * k4)
	t12 := tn * (61 + 90*tan2 + 46*eta + 45*tan4 - 252*tan2*eta - 3*eta2 +
		100*eta3 - 66*tan2*eta2 - 90*tan4*eta + 88*eta4 + 225*tan4*eta2 +
		84*tan2*eta3 - 192*tan2*eta4) / (720 * sr * sn5 * k6)
	t13 := tn * (1385 + 3633*tan2 + 4095*tan4 + 1575*tan6) / (40320 * sr * sn7 * k8)

	de2 := de * de
	de3 := de2 * de
	de4 := de3 * de
	de5 := de4 * de
	de6 := de5 * de
	de7 := de6 * de
	de8 := de7 * de

	latitude := ftphi - de2*t10 + de4*t11 - de6*t12 + de8*t13

	t14 := 1 / (sn * c * k)
	t15 := (1 + 2*tan2 + eta) / (6 * sn3 * c * k3)
	t16 := (5 + 6*eta + 28*tan2 - 3*eta2 + 8*tan2*eta + 24*tan4 -
		4*eta3 + 4*tan2*eta2 + 24*tan2*eta3) / (120 * sn5 * c * k5)
	t17 := (61 + 662*tan2 + 1320*tan4 + 720*tan6) / (5040 * sn7 * c * k7)

	dlam := de*t14 - de3*t15 + de5*t16 - de7*t17
	longitude := t.tranMercOriginLong + dlam

	if math.Abs(latitude) > math.Pi/2 {
		return s2.LatLng{}, domainError(BoundNorthing, "%.3f maps beyond the pole", northing)
	}

	if longitude > math.Pi {
		longitude -= 2 * math.Pi
		if math.Abs(longitude) > math.Pi {
			return s2.LatLng{}, domainError(BoundEasting, "%.3f maps beyond 180 degrees", easting)
		}
	} else if longitude < -math.Pi {
		longitude += 2 * math.Pi
		if math.Abs(longitude) > math.Pi {
			return s2.LatLng{}, domainError(BoundEasting, "%.3f maps beyond 180 degrees", easting)
		}
	}

	return s2.LatLng{Lat: s1.Angle(latitude), Lng: s1.Angle(longitude)}, nil
}
