package jeotrans_test

import (
	"testing"

	"github.com/GEOINT/jeotrans"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundHalfUp(t *testing.T) {
	for _, tc := range []struct {
		v     float64
		scale int
		want  float64
	}{
		{2.675, 2, 2.68},
		{2.5, 0, 3},
		{-2.5, 0, -3},
		{1.005, 2, 1.01},
		{666792.1264697725, 0, 666792},
		{3547342.665735376, 3, 3547342.666},
		{1234.5, -1, 1230},
		{1235, -1, 1240},
		{306130.0310836368, -4, 310000},
		{4726009.96068384, -5, 4700000},
		{0, 3, 0},
	} {
		assert.Equal(t, tc.want, jeotrans.RoundHalfUp(tc.v, tc.scale), "RoundHalfUp(%v, %d)", tc.v, tc.scale)
	}
}

func TestParseLengthUnit(t *testing.T) {
	for in, want := range map[string]jeotrans.LengthUnit{
		"m":      jeotrans.Meter,
		"Meters": jeotrans.Meter,
		"km":     jeotrans.Kilometer,
		"feet":   jeotrans.Foot,
		"us-ft":  jeotrans.USSurveyFoot,
	} {
		u, err := jeotrans.ParseLengthUnit(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, u, in)
	}
	_, err := jeotrans.ParseLengthUnit("furlong")
	assert.ErrorIs(t, err, jeotrans.ErrUnit)
	var de *jeotrans.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, `unit: unknown length unit "furlong"`, de.Error())
	assert.Equal(t, "us-ft", jeotrans.USSurveyFoot.String())
}

func TestConvertLength(t *testing.T) {
	assert.Equal(t, 1.0, jeotrans.ConvertLength(1000, jeotrans.Meter, jeotrans.Kilometer))
	assert.InDelta(t, 0.3048, jeotrans.ConvertLength(1, jeotrans.Foot, jeotrans.Meter), 1e-15)
	assert.InDelta(t, 1200.0/3937.0, jeotrans.ConvertLength(1, jeotrans.USSurveyFoot, jeotrans.Meter), 1e-15)

	c := jeotrans.MapCoords{Easting: 666792.1264697725, Northing: 3547342.665735376}
	assert.Equal(t, 666.792, c.EastingIn(jeotrans.Kilometer, 3))
	assert.Equal(t, 3547342.67, c.NorthingIn(jeotrans.Meter, 2))
	assert.Equal(t, 3547342.665735376, c.NorthingIn(jeotrans.Meter, -1))
}
