package jeotrans_test

import (
	"math"
	"testing"

	"github.com/GEOINT/jeotrans"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const upsTrueScale = 81.114528

func newPolar(t require.TestingT, lat float64) *jeotrans.PolarStereographic {
	p, err := jeotrans.NewPolarStereographic(jeotrans.WGS84, jeotrans.PSParams{
		LatitudeOfTrueScale: s1.Angle(lat) * s1.Degree,
		FalseEasting:        2000000,
		FalseNorthing:       2000000,
	})
	require.NoError(t, err)
	return p
}

func TestPolarStereographicForward(t *testing.T) {
	south := newPolar(t, -upsTrueScale)
	assert.Equal(t, jeotrans.HemisphereSouth, south.Hemisphere())
	c, err := south.ConvertFromGeodetic(s2.LatLngFromDegrees(-82.123456789, -20.123456789))
	require.NoError(t, err)
	assert.InDelta(t, 1698683.394, c.Easting, 1e-3)
	assert.InDelta(t, 2822342.984, c.Northing, 1e-3)

	north := newPolar(t, upsTrueScale)
	assert.Equal(t, jeotrans.HemisphereNorth, north.Hemisphere())
	c, err = north.ConvertFromGeodetic(s2.LatLngFromDegrees(89, 45))
	require.NoError(t, err)
	assert.InDelta(t, 2078507.606, c.Easting, 1e-3)
	assert.InDelta(t, 1921492.394, c.Northing, 1e-3)

	c, err = north.ConvertFromGeodetic(s2.LatLngFromDegrees(90, 120))
	require.NoError(t, err)
	assert.Equal(t, jeotrans.MapCoords{Easting: 2000000, Northing: 2000000}, c)
}

func TestPolarStereographicScaleFactor(t *testing.T) {
	p, err := jeotrans.NewPolarStereographicScaleFactor(jeotrans.WGS84, 0, 0.994, jeotrans.HemisphereNorth, 2000000, 2000000)
	require.NoError(t, err)
	assert.Equal(t, 0.994, p.ScaleFactor())
	assert.InDelta(t, upsTrueScale, p.Params().LatitudeOfTrueScale.Degrees(), 1e-3)

	c, err := p.ConvertFromGeodetic(s2.LatLngFromDegrees(89, 45))
	require.NoError(t, err)
	assert.InDelta(t, 2078507.606, c.Easting, 0.5)
	assert.InDelta(t, 1921492.394, c.Northing, 0.5)

	_, err = jeotrans.NewPolarStereographicScaleFactor(jeotrans.WGS84, 0, 0.05, jeotrans.HemisphereNorth, 0, 0)
	assert.ErrorIs(t, err, jeotrans.ErrProjectionParameter)
	_, err = jeotrans.NewPolarStereographicScaleFactor(jeotrans.WGS84, 0, 1, jeotrans.HemisphereInvalid, 0, 0)
	assert.ErrorIs(t, err, jeotrans.ErrHemisphere)
}

func TestPolarStereographicDomain(t *testing.T) {
	north := newPolar(t, upsTrueScale)

	_, err := north.ConvertFromGeodetic(s2.LatLngFromDegrees(-10, 0))
	assert.ErrorIs(t, err, jeotrans.ErrHemisphere)
	_, err = north.ConvertFromGeodetic(s2.LatLng{Lat: s1.Angle(2), Lng: 0})
	assert.ErrorIs(t, err, jeotrans.ErrLatitude)
	_, err = north.ConvertFromGeodetic(s2.LatLngFromDegrees(85, -181))
	assert.ErrorIs(t, err, jeotrans.ErrLongitude)

	// the equator sits at 1/1.01 of the accepted radius
	_, err = north.ConvertToGeodetic(jeotrans.MapCoords{Easting: 2000000, Northing: 2000000 + 12763691.86 + 10})
	assert.ErrorIs(t, err, jeotrans.ErrNorthing)
	_, err = north.ConvertToGeodetic(jeotrans.MapCoords{Easting: 2000000 - 12763691.86 - 10, Northing: 2000000})
	assert.ErrorIs(t, err, jeotrans.ErrEasting)

	geo, err := north.ConvertToGeodetic(jeotrans.MapCoords{Easting: 2000000, Northing: 2000000})
	require.NoError(t, err)
	assert.InDelta(t, 90.0, geo.Lat.Degrees(), 1e-12)
}

func TestPolarStereographicRoundTrip(t *testing.T) {
	north := newPolar(t, upsTrueScale)
	south := newPolar(t, -upsTrueScale)

	rapid.Check(t, func(t *rapid.T) {
		lat := rapid.Float64Range(1, 89.9).Draw(t, "lat")
		lon := rapid.Float64Range(-180, 180).Draw(t, "lon")
		p := north
		if rapid.Bool().Draw(t, "south") {
			lat = -lat
			p = south
		}

		c, err := p.ConvertFromGeodetic(s2.LatLngFromDegrees(lat, lon))
		require.NoError(t, err)
		geo, err := p.ConvertToGeodetic(c)
		require.NoError(t, err)

		assert.InDelta(t, lat, geo.Lat.Degrees(), 1e-8)
		assert.InDelta(t, 0, math.Remainder(lon-geo.Lng.Degrees(), 360), 1e-7)
	})
}
