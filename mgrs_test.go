package jeotrans_test

import (
	"math"
	"testing"

	"github.com/GEOINT/jeotrans"
	"github.com/golang/geo/s2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"pgregory.net/rapid"
)

const earthRadius = 6371000.0

func TestMGRSFromGeodetic(t *testing.T) {
	for _, tc := range []struct {
		lat, lng  float64
		precision int
		want      string
	}{
		{-82.123456789, -20.123456789, 5, "A UW 98683 22343"},
		{32.05, 118.7666667, 5, "50S PA 66792 47343"},
		{0, 0, 5, "31N AA 66021 00000"},
		{89, 45, 5, "Z AG 78508 21492"},
		{86, -100, 3, "Y TH 624 771"},
		{-33.5, 118.2, 4, "50H PH 1146 9263"},
		{42.662139, -71.365553, 0, "19T CH"},
		{42.662139, -71.365553, 1, "19T CH 0 2"},
		{42.662139, -71.365553, 2, "19T CH 06 26"},
		{42.662139, -71.365553, 3, "19T CH 061 260"},
		{42.662139, -71.365553, 4, "19T CH 0613 2601"},
		{42.662139, -71.365553, 5, "19T CH 06130 26010"},
	} {
		c, err := jeotrans.DefaultMGRSConverter.ConvertFromGeodetic(s2.LatLngFromDegrees(tc.lat, tc.lng), tc.precision)
		require.NoError(t, err, "%v %v", tc.lat, tc.lng)
		assert.Equal(t, tc.want, c.String())
		assert.Equal(t, tc.precision, c.Precision)
	}
}

func TestMGRSCompact(t *testing.T) {
	c, err := jeotrans.DefaultMGRSConverter.ConvertFromGeodetic(s2.LatLngFromDegrees(42.662139, -71.365553), 1)
	require.NoError(t, err)
	assert.Equal(t, "19TCH02", c.Compact())

	c, err = jeotrans.DefaultMGRSConverter.ConvertFromGeodetic(s2.LatLngFromDegrees(-82.123456789, -20.123456789), 5)
	require.NoError(t, err)
	assert.Equal(t, "AUW9868322343", c.Compact())
	assert.True(t, c.IsPolar())

	c, err = jeotrans.DefaultMGRSConverter.ConvertFromGeodetic(s2.LatLngFromDegrees(1, 1), 0)
	require.NoError(t, err)
	assert.Equal(t, "31NBB", c.Compact())
}

func TestMGRSZone31V(t *testing.T) {
	pos := s2.LatLngFromDegrees(60, 2.9)

	c, err := jeotrans.DefaultMGRSConverter.ConvertFromGeodetic(pos, 5)
	require.NoError(t, err)
	assert.Equal(t, 31, c.Zone)
	assert.Equal(t, byte('V'), c.Band)

	// coarse precisions keep the square of the 1 m position
	c, err = jeotrans.DefaultMGRSConverter.ConvertFromGeodetic(pos, 0)
	require.NoError(t, err)
	assert.Equal(t, 31, c.Zone)
	assert.Equal(t, "31VDG", c.Compact())

	c, err = jeotrans.DefaultMGRSConverter.ConvertFromGeodetic(s2.LatLngFromDegrees(56.05, 2.25), 0)
	require.NoError(t, err)
	assert.Equal(t, 31, c.Zone)

	// rounding to 1 m lands on the truncated eastern edge of 31V
	c, err = jeotrans.DefaultMGRSConverter.ConvertFromGeodetic(s2.LatLngFromDegrees(60, 2.99999999), 5)
	require.NoError(t, err)
	assert.Equal(t, 32, c.Zone)
	assert.Equal(t, byte('V'), c.Band)
}

func TestMGRSCoarseEdges(t *testing.T) {
	mgrs := jeotrans.DefaultMGRSConverter
	for _, pos := range []s2.LatLng{
		s2.LatLngFromDegrees(84.05, -179.95),
		s2.LatLngFromDegrees(-80.05, -161.55),
		s2.LatLngFromDegrees(-80.4, 25),
		s2.LatLngFromDegrees(-79.95, 0.5),
		s2.LatLngFromDegrees(83.95, 10.5),
		s2.LatLngFromDegrees(56.05, 2.25),
	} {
		for precision := 0; precision <= 5; precision++ {
			c, err := mgrs.ConvertFromGeodetic(pos, precision)
			require.NoError(t, err, "%v p%d", pos, precision)

			geo, err := mgrs.ConvertStringToGeodetic(c.String())
			require.NoError(t, err, "%v p%d %v", pos, precision, c)
			bound := 1.5 * math.Pow10(5-precision)
			assert.Less(t, pos.Distance(geo).Radians()*earthRadius, bound, "%v p%d %v", pos, precision, c)
		}
	}
}

func TestMGRSDigitsTruncate(t *testing.T) {
	c := jeotrans.MGRSCoord{Zone: 19, Band: 'T', Square: [2]byte{'C', 'H'}, Easting: 99999.7, Northing: 5.2, Precision: 5}
	assert.Equal(t, "19T CH 99999 00005", c.String())
	assert.Equal(t, "19TCH9999900005", c.Compact())

	c.Precision = 2
	assert.Equal(t, "19T CH 99 00", c.String())
}

func TestMGRSDomain(t *testing.T) {
	mgrs := jeotrans.DefaultMGRSConverter
	pos := s2.LatLngFromDegrees(10, 10)

	_, err := mgrs.ConvertFromGeodetic(pos, 6)
	assert.ErrorIs(t, err, jeotrans.ErrPrecision)
	_, err = mgrs.ConvertFromGeodetic(pos, -1)
	assert.ErrorIs(t, err, jeotrans.ErrPrecision)
	_, err = mgrs.ConvertFromGeodetic(s2.LatLngFromDegrees(91, 0), 5)
	assert.ErrorIs(t, err, jeotrans.ErrLatitude)
	_, err = mgrs.ConvertFromGeodetic(s2.LatLngFromDegrees(10, -200), 5)
	assert.ErrorIs(t, err, jeotrans.ErrLongitude)

	for _, s := range []string{
		"32XMH1234512345",
		"34XDK1234512345",
		"31VFG1234512345",
		"50SPW1234512345",
		"50SAA1234512345",
		"YAA1234512345",
		"CAA1234512345",
		"50AAA1234512345",
	} {
		_, err := mgrs.ConvertStringToGeodetic(s)
		assert.ErrorIs(t, err, jeotrans.ErrMGRSString, s)
	}

	_, err = mgrs.ConvertToUTM(jeotrans.MGRSCoord{Band: 'A', Square: [2]byte{'U', 'W'}, Precision: 5})
	assert.ErrorIs(t, err, jeotrans.ErrZone)
	_, err = mgrs.ConvertToUPS(jeotrans.MGRSCoord{Zone: 50, Band: 'S', Square: [2]byte{'P', 'A'}, Precision: 5})
	assert.ErrorIs(t, err, jeotrans.ErrZone)
	_, err = mgrs.ConvertToGeodetic(jeotrans.MGRSCoord{Zone: 50, Band: 'S', Square: [2]byte{'P', 'A'}, Easting: 100000, Precision: 5})
	assert.ErrorIs(t, err, jeotrans.ErrEasting)
	_, err = mgrs.ConvertToGeodetic(jeotrans.MGRSCoord{Zone: 50, Band: 'S', Square: [2]byte{'P', 'A'}, Precision: 7})
	assert.ErrorIs(t, err, jeotrans.ErrPrecision)
}

func TestMGRSToGeodetic(t *testing.T) {
	geo, err := jeotrans.DefaultMGRSConverter.ConvertStringToGeodetic("16SGG3855124838")
	require.NoError(t, err)
	assert.InDelta(t, 37.23956583595817, geo.Lat.Degrees(), 1e-7)
	assert.InDelta(t, -84.31073601545755, geo.Lng.Degrees(), 1e-7)

	geo, err = jeotrans.DefaultMGRSConverter.ConvertStringToGeodetic("50S PA 66792 47343")
	require.NoError(t, err)
	assert.InDelta(t, 32.05, geo.Lat.Degrees(), 1e-5)
	assert.InDelta(t, 118.7666667, geo.Lng.Degrees(), 1e-5)

	geo, err = jeotrans.DefaultMGRSConverter.ConvertStringToGeodetic("a uw 98683 22343")
	require.NoError(t, err)
	assert.InDelta(t, -82.123456789, geo.Lat.Degrees(), 1e-5)
	assert.InDelta(t, -20.123456789, geo.Lng.Degrees(), 1e-4)
}

func TestMGRSToProjected(t *testing.T) {
	mgrs := jeotrans.DefaultMGRSConverter

	c, err := jeotrans.ParseMGRS("50SPA6679247343")
	require.NoError(t, err)
	utm, err := mgrs.ConvertToUTM(c)
	require.NoError(t, err)
	assert.Equal(t, 50, utm.Zone)
	assert.Equal(t, byte('S'), utm.Band)
	assert.Equal(t, jeotrans.HemisphereNorth, utm.Hemisphere)
	assert.Equal(t, 666792.0, utm.Easting)
	assert.Equal(t, 3547343.0, utm.Northing)

	c, err = jeotrans.ParseMGRS("50HPH11479264")
	require.NoError(t, err)
	utm, err = mgrs.ConvertToUTM(c)
	require.NoError(t, err)
	assert.Equal(t, jeotrans.HemisphereSouth, utm.Hemisphere)
	assert.Equal(t, 611470.0, utm.Easting)
	assert.Equal(t, 6292640.0, utm.Northing)

	c, err = jeotrans.ParseMGRS("AUW9868322343")
	require.NoError(t, err)
	ups, err := mgrs.ConvertToUPS(c)
	require.NoError(t, err)
	assert.Equal(t, jeotrans.UPSCoord{Hemisphere: jeotrans.HemisphereSouth, Easting: 1698683, Northing: 2822343}, ups)

	c, err = jeotrans.ParseMGRS("ZAG7850821492")
	require.NoError(t, err)
	ups, err = mgrs.ConvertToUPS(c)
	require.NoError(t, err)
	assert.Equal(t, jeotrans.UPSCoord{Hemisphere: jeotrans.HemisphereNorth, Easting: 2078508, Northing: 1921492}, ups)
}

func TestMGRSFromProjected(t *testing.T) {
	mgrs := jeotrans.DefaultMGRSConverter

	c, err := mgrs.ConvertFromUTM(jeotrans.UTMCoord{
		Zone:       50,
		Hemisphere: jeotrans.HemisphereNorth,
		Easting:    666792.1264697725,
		Northing:   3547342.665735376,
	}, 5)
	require.NoError(t, err)
	assert.Equal(t, "50S PA 66792 47343", c.String())

	// a neighbouring zone is re-encoded in the natural one
	pos := s2.LatLngFromDegrees(32.05, 120.5)
	forced, err := jeotrans.DefaultUTMConverter.ConvertFromGeodetic(pos, 50)
	require.NoError(t, err)
	require.Equal(t, 50, forced.Zone)
	natural, err := mgrs.ConvertFromGeodetic(pos, 5)
	require.NoError(t, err)
	require.Equal(t, 51, natural.Zone)
	c, err = mgrs.ConvertFromUTM(forced, 5)
	require.NoError(t, err)
	assert.Equal(t, natural.String(), c.String())

	c, err = mgrs.ConvertFromUPS(jeotrans.UPSCoord{
		Hemisphere: jeotrans.HemisphereSouth,
		Easting:    1698683.3938713786,
		Northing:   2822342.983810586,
	}, 5)
	require.NoError(t, err)
	assert.Equal(t, "A UW 98683 22343", c.String())

	_, err = mgrs.ConvertFromUTM(jeotrans.UTMCoord{Zone: 61, Hemisphere: jeotrans.HemisphereNorth, Easting: 500000}, 5)
	assert.ErrorIs(t, err, jeotrans.ErrZone)
	_, err = mgrs.ConvertFromUTM(jeotrans.UTMCoord{Zone: 50, Hemisphere: jeotrans.HemisphereNorth, Easting: 50000}, 5)
	assert.ErrorIs(t, err, jeotrans.ErrEasting)
	_, err = mgrs.ConvertFromUPS(jeotrans.UPSCoord{Hemisphere: jeotrans.HemisphereSouth, Easting: 2000000, Northing: 2000000}, 9)
	assert.ErrorIs(t, err, jeotrans.ErrPrecision)
}

func TestMGRSOtherEllipsoid(t *testing.T) {
	clarke, err := jeotrans.LookupEllipsoid("CC")
	require.NoError(t, err)
	mgrs, err := jeotrans.NewMGRS(clarke)
	require.NoError(t, err)

	c, err := mgrs.ConvertFromGeodetic(s2.LatLngFromDegrees(0, 0), 5)
	require.NoError(t, err)
	assert.Equal(t, [2]byte{'A', 'L'}, c.Square)

	geo, err := mgrs.ConvertToGeodetic(c)
	require.NoError(t, err)
	assert.Less(t, geo.Distance(s2.LatLngFromDegrees(0, 0)).Radians()*earthRadius, 1.0)
}

func TestParseMGRS(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want jeotrans.MGRSCoord
	}{
		{"50S PA 66792 47343", jeotrans.MGRSCoord{Zone: 50, Band: 'S', Square: [2]byte{'P', 'A'}, Easting: 66792, Northing: 47343, Precision: 5}},
		{"50spa6679247343", jeotrans.MGRSCoord{Zone: 50, Band: 'S', Square: [2]byte{'P', 'A'}, Easting: 66792, Northing: 47343, Precision: 5}},
		{"4QFJ12345678", jeotrans.MGRSCoord{Zone: 4, Band: 'Q', Square: [2]byte{'F', 'J'}, Easting: 12340, Northing: 56780, Precision: 4}},
		{"AUW9868322343", jeotrans.MGRSCoord{Band: 'A', Square: [2]byte{'U', 'W'}, Easting: 98683, Northing: 22343, Precision: 5}},
		{"19TCH", jeotrans.MGRSCoord{Zone: 19, Band: 'T', Square: [2]byte{'C', 'H'}}},
		{" 19T CH 1 3\n", jeotrans.MGRSCoord{Zone: 19, Band: 'T', Square: [2]byte{'C', 'H'}, Easting: 10000, Northing: 30000, Precision: 1}},
	} {
		got, err := jeotrans.ParseMGRS(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	for _, in := range []string{
		"",
		"123ABC",
		"50SP",
		"50SPAA",
		"50SPI1234",
		"50SOA1234",
		"50SPA123",
		"50SPA123456789012",
		"50SPA12AB",
		"61SPA1234",
		"00SPA1234",
		"50S-PA1234",
		"00000000\xff\xff",
		"\xff\xff",
		"00000000\u007f\xff",
		"\u007f\xff",
	} {
		_, err := jeotrans.ParseMGRS(in)
		assert.Error(t, err, "%q", in)
	}
}

func TestMGRSRoundTrip(t *testing.T) {
	mgrs, err := jeotrans.NewMGRS(jeotrans.WGS84)
	require.NoError(t, err)

	rapid.Check(t, func(t *rapid.T) {
		lat := rapid.Float64Range(-90, 90).Draw(t, "lat")
		lng := rapid.Float64Range(-180, 180).Draw(t, "lng")
		precision := rapid.IntRange(0, 5).Draw(t, "precision")
		geo := s2.LatLngFromDegrees(lat, lng)

		c, err := mgrs.ConvertFromGeodetic(geo, precision)
		require.NoError(t, err)

		// the string form decodes to the same coordinate
		parsed, err := jeotrans.ParseMGRS(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)

		geo2, err := mgrs.ConvertToGeodetic(c)
		require.NoError(t, err)
		// the south west corner of the square at the drawn precision
		assert.Less(t, geo.Distance(geo2).Radians()*earthRadius, 1.5*math.Pow10(5-precision))
	})
}

func TestMGRSConcurrent(t *testing.T) {
	points := make([]s2.LatLng, 0, 64)
	for i := 0; i < 64; i++ {
		lat := -85 + 170*float64(i)/63
		lng := math.Remainder(37*float64(i), 360)
		points = append(points, s2.LatLngFromDegrees(lat, lng))
	}

	want := make([]string, len(points))
	for i, p := range points {
		c, err := jeotrans.DefaultMGRSConverter.ConvertFromGeodetic(p, 5)
		require.NoError(t, err)
		want[i] = c.String()
	}

	got := make([][]string, 8)
	var g errgroup.Group
	for w := range got {
		w := w
		got[w] = make([]string, len(points))
		g.Go(func() error {
			for i, p := range points {
				c, err := jeotrans.DefaultMGRSConverter.ConvertFromGeodetic(p, 5)
				if err != nil {
					return err
				}
				got[w][i] = c.String()
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	for w := range got {
		assert.Equal(t, want, got[w])
	}
}
