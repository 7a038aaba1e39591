package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/GEOINT/jeotrans"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func missingEnv(t *testing.T) string {
	return filepath.Join(t.TempDir(), "none.env")
}

func TestDefault(t *testing.T) {
	cfg, err := Load("", missingEnv(t))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	ell, err := cfg.EllipsoidParams()
	require.NoError(t, err)
	assert.Equal(t, jeotrans.WGS84, ell)
	assert.Equal(t, jeotrans.DefaultTMParams, cfg.TMParams())
	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, log.InfoLevel, level)
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "jeotrans.yaml", `
ellipsoid: xa
precision: 3
zone_override: 49
format: geojson
unit: km
workers: 2
log_level: debug
ellipsoids:
  - code: XA
    name: Test sphere-ish
    semi_major_axis: 6378000
    inverse_flattening: 300
transverse_mercator:
  central_meridian: 117
  false_easting: 500000
  scale_factor: 0.9996
polar_stereographic:
  latitude_of_true_scale: -71
  false_easting: 2000000
  false_northing: 2000000
`)
	cfg, err := Load(path, missingEnv(t))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Precision)
	assert.Equal(t, 49, cfg.ZoneOverride)
	assert.Equal(t, FormatGeoJSON, cfg.Format)
	assert.Equal(t, 2, cfg.Workers)

	ell, err := cfg.EllipsoidParams()
	require.NoError(t, err)
	assert.Equal(t, "XA", ell.Code)
	assert.Equal(t, 6378000.0, ell.SemiMajorAxis)

	unit, err := cfg.LengthUnit()
	require.NoError(t, err)
	assert.Equal(t, jeotrans.Kilometer, unit)

	assert.InDelta(t, 117, cfg.TMParams().CentralMeridian.Degrees(), 1e-12)
	assert.InDelta(t, -71, cfg.PSParams().LatitudeOfTrueScale.Degrees(), 1e-12)

	all := cfg.AllEllipsoids()
	assert.Len(t, all, len(jeotrans.Ellipsoids())+1)
}

func TestLoadPrecedence(t *testing.T) {
	path := writeFile(t, "jeotrans.yaml", "precision: 3\nunit: km\nformat: geojson\n")
	envFile := writeFile(t, "test.env", "JEOTRANS_PRECISION=2\nJEOTRANS_UNIT=ft\n")
	t.Setenv("JEOTRANS_UNIT", "us-ft")

	cfg, err := Load(path, envFile)
	require.NoError(t, err)
	// env file over yaml
	assert.Equal(t, 2, cfg.Precision)
	// process environment over env file
	assert.Equal(t, "us-ft", cfg.Unit)
	// yaml over defaults
	assert.Equal(t, FormatGeoJSON, cfg.Format)
}

func TestLoadErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		yaml string
		is   error
	}{
		{"unknown field", "precison: 3\n", nil},
		{"precision", "precision: 6\n", jeotrans.ErrPrecision},
		{"zone override", "zone_override: 61\n", jeotrans.ErrZone},
		{"format", "format: kml\n", nil},
		{"unit", "unit: furlong\n", jeotrans.ErrUnit},
		{"workers", "workers: 0\n", nil},
		{"log level", "log_level: loud\n", nil},
		{"unknown ellipsoid", "ellipsoid: QQ\n", jeotrans.ErrEllipsoid},
		{"duplicate builtin", "ellipsoids:\n  - {code: WE, semi_major_axis: 6378137, inverse_flattening: 298.257223563}\n", jeotrans.ErrEllipsoid},
		{"bad custom", "ellipsoids:\n  - {code: XB, semi_major_axis: 6378137, inverse_flattening: 100}\n", jeotrans.ErrEllipsoid},
		{"tm scale", "transverse_mercator: {scale_factor: 5}\n", jeotrans.ErrProjectionParameter},
		{"ps latitude", "polar_stereographic: {latitude_of_true_scale: 95}\n", jeotrans.ErrProjectionParameter},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "c.yaml", tc.yaml), missingEnv(t))
			require.Error(t, err)
			if tc.is != nil {
				assert.ErrorIs(t, err, tc.is)
			}
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), missingEnv(t))
	assert.ErrorIs(t, err, os.ErrNotExist)

	t.Setenv("JEOTRANS_WORKERS", "many")
	_, err = Load("", missingEnv(t))
	assert.Error(t, err)
}

func TestEmptyFile(t *testing.T) {
	cfg, err := Load(writeFile(t, "empty.yaml", ""), missingEnv(t))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
