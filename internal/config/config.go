// Package config loads the settings of the jeotrans command from a YAML file,
// a .env file and JEOTRANS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/GEOINT/jeotrans"
	"github.com/charmbracelet/log"
	"github.com/golang/geo/s1"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "JEOTRANS_"

// Output formats
const (
	FormatText    = "text"
	FormatGeoJSON = "geojson"
)

// Config holds the settings shared by every command.
type Config struct {
	Ellipsoid    string `yaml:"ellipsoid"`
	Precision    int    `yaml:"precision"`
	ZoneOverride int    `yaml:"zone_override"`
	Format       string `yaml:"format"`
	Unit         string `yaml:"unit"`
	Workers      int    `yaml:"workers"`
	LogLevel     string `yaml:"log_level"`

	Ellipsoids         []EllipsoidConfig `yaml:"ellipsoids"`
	TransverseMercator TMConfig          `yaml:"transverse_mercator"`
	PolarStereographic PSConfig          `yaml:"polar_stereographic"`
}

// EllipsoidConfig describes a custom ellipsoid.
type EllipsoidConfig struct {
	Code              string  `yaml:"code"`
	Name              string  `yaml:"name"`
	SemiMajorAxis     float64 `yaml:"semi_major_axis"`
	InverseFlattening float64 `yaml:"inverse_flattening"`
}

// TMConfig holds Transverse Mercator parameters, angles in degrees.
type TMConfig struct {
	OriginLatitude  float64 `yaml:"origin_latitude"`
	CentralMeridian float64 `yaml:"central_meridian"`
	FalseEasting    float64 `yaml:"false_easting"`
	FalseNorthing   float64 `yaml:"false_northing"`
	ScaleFactor     float64 `yaml:"scale_factor"`
}

// PSConfig holds Polar Stereographic parameters, angles in degrees.
type PSConfig struct {
	LatitudeOfTrueScale   float64 `yaml:"latitude_of_true_scale"`
	LongitudeDownFromPole float64 `yaml:"longitude_down_from_pole"`
	FalseEasting          float64 `yaml:"false_easting"`
	FalseNorthing         float64 `yaml:"false_northing"`
}

// Default returns the built-in settings: WGS 84, 1 m MGRS precision, text
// output in meters, one worker per CPU, a unit scale Transverse Mercator at
// (0, 0) and a north polar Stereographic projection true at the pole.
func Default() Config {
	return Config{
		Ellipsoid: "WE",
		Precision: 5,
		Format:    FormatText,
		Unit:      "m",
		Workers:   runtime.NumCPU(),
		LogLevel:  "info",
		TransverseMercator: TMConfig{
			ScaleFactor: 1,
		},
		PolarStereographic: PSConfig{
			LatitudeOfTrueScale: 90,
		},
	}
}

// Load builds the configuration. Defaults are overlaid by the YAML file at
// path (skipped when path is empty), then by JEOTRANS_* variables. Variables
// missing from the environment are looked up in envFiles, ".env" when none are
// given; missing env files are ignored.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return Config{}, err
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	e := env{dotenv: map[string]string{}}
	for _, name := range envFiles {
		vals, err := godotenv.Read(name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Config{}, fmt.Errorf("read env file %s: %w", name, err)
		}
		for k, v := range vals {
			if _, ok := e.dotenv[k]; !ok {
				e.dotenv[k] = v
			}
		}
	}
	if err := cfg.applyEnv(e); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

// env resolves variables from the process environment first, then from the
// parsed env files.
type env struct {
	dotenv map[string]string
}

func (e env) getEnv(key, fallback string) string {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		return v
	}
	if v := e.dotenv[EnvPrefix+key]; v != "" {
		return v
	}
	return fallback
}

func (e env) getInt(key string, fallback int) (int, error) {
	v := e.getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
	}
	return n, nil
}

func (c *Config) applyEnv(e env) error {
	c.Ellipsoid = e.getEnv("ELLIPSOID", c.Ellipsoid)
	c.Format = e.getEnv("FORMAT", c.Format)
	c.Unit = e.getEnv("UNIT", c.Unit)
	c.LogLevel = e.getEnv("LOG_LEVEL", c.LogLevel)

	var err error
	if c.Precision, err = e.getInt("PRECISION", c.Precision); err != nil {
		return err
	}
	if c.ZoneOverride, err = e.getInt("ZONE_OVERRIDE", c.ZoneOverride); err != nil {
		return err
	}
	if c.Workers, err = e.getInt("WORKERS", c.Workers); err != nil {
		return err
	}
	return nil
}

// Validate checks every field and that the configured projections can be
// built.
func (c Config) Validate() error {
	if c.Precision < 0 || c.Precision > 5 {
		return fmt.Errorf("config: precision %d: %w", c.Precision, jeotrans.ErrPrecision)
	}
	if c.ZoneOverride < 0 || c.ZoneOverride > 60 {
		return fmt.Errorf("config: zone override %d: %w", c.ZoneOverride, jeotrans.ErrZone)
	}
	switch c.Format {
	case FormatText, FormatGeoJSON:
	default:
		return fmt.Errorf("config: unknown format %q (want text or geojson)", c.Format)
	}
	if _, err := c.LengthUnit(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Workers < 1 {
		return fmt.Errorf("config: workers must be at least 1, got %d", c.Workers)
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	seen := map[string]bool{}
	for _, ec := range c.Ellipsoids {
		code := strings.ToUpper(ec.Code)
		if len(code) != 2 {
			return fmt.Errorf("config: ellipsoid code %q must have 2 letters: %w", ec.Code, jeotrans.ErrEllipsoid)
		}
		if _, err := jeotrans.LookupEllipsoid(code); err == nil || seen[code] {
			return fmt.Errorf("config: ellipsoid code %s is already defined: %w", code, jeotrans.ErrEllipsoid)
		}
		seen[code] = true
		if _, err := ec.build(); err != nil {
			return fmt.Errorf("config: ellipsoid %s: %w", code, err)
		}
	}

	ell, err := c.EllipsoidParams()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := jeotrans.NewTransverseMercator(ell, c.TMParams()); err != nil {
		return fmt.Errorf("config: transverse_mercator: %w", err)
	}
	if _, err := jeotrans.NewPolarStereographic(ell, c.PSParams()); err != nil {
		return fmt.Errorf("config: polar_stereographic: %w", err)
	}
	return nil
}

func (ec EllipsoidConfig) build() (jeotrans.Ellipsoid, error) {
	return jeotrans.NewEllipsoid(ec.Code, ec.Name, ec.SemiMajorAxis, ec.InverseFlattening)
}

// EllipsoidParams resolves the configured ellipsoid code against the custom
// ellipsoids, then the built-in registry.
func (c Config) EllipsoidParams() (jeotrans.Ellipsoid, error) {
	code := strings.ToUpper(strings.TrimSpace(c.Ellipsoid))
	for _, ec := range c.Ellipsoids {
		if strings.ToUpper(ec.Code) == code {
			return ec.build()
		}
	}
	return jeotrans.LookupEllipsoid(code)
}

// AllEllipsoids lists the built-in and custom ellipsoids ordered by code.
// Invalid custom entries are skipped.
func (c Config) AllEllipsoids() []jeotrans.Ellipsoid {
	all := jeotrans.Ellipsoids()
	for _, ec := range c.Ellipsoids {
		if e, err := ec.build(); err == nil {
			all = append(all, e)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	return all
}

// TMParams converts the Transverse Mercator section.
func (c Config) TMParams() jeotrans.TMParams {
	tm := c.TransverseMercator
	return jeotrans.TMParams{
		OriginLatitude:  s1.Angle(tm.OriginLatitude) * s1.Degree,
		CentralMeridian: s1.Angle(tm.CentralMeridian) * s1.Degree,
		FalseEasting:    tm.FalseEasting,
		FalseNorthing:   tm.FalseNorthing,
		ScaleFactor:     tm.ScaleFactor,
	}
}

// PSParams converts the Polar Stereographic section.
func (c Config) PSParams() jeotrans.PSParams {
	ps := c.PolarStereographic
	return jeotrans.PSParams{
		LatitudeOfTrueScale:   s1.Angle(ps.LatitudeOfTrueScale) * s1.Degree,
		LongitudeDownFromPole: s1.Angle(ps.LongitudeDownFromPole) * s1.Degree,
		FalseEasting:          ps.FalseEasting,
		FalseNorthing:         ps.FalseNorthing,
	}
}

// LengthUnit parses the configured output unit.
func (c Config) LengthUnit() (jeotrans.LengthUnit, error) {
	return jeotrans.ParseLengthUnit(c.Unit)
}

// Level parses the configured log level.
func (c Config) Level() (log.Level, error) {
	return log.ParseLevel(c.LogLevel)
}
