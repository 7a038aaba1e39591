// Command jeotrans converts coordinates between geodetic, TM, PS, UTM, UPS and MGRS.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/GEOINT/jeotrans"
	"github.com/GEOINT/jeotrans/internal/config"
	"github.com/GEOINT/jeotrans/internal/render"
	"github.com/charmbracelet/log"
	"github.com/golang/geo/s2"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

var errUsage = errors.New("usage")

func main() {
	if code := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); code != exitOK {
		os.Exit(code)
	}
}

// app holds the converters built from the configuration. They are shared by
// every conversion, including concurrent batch workers.
type app struct {
	cfg    config.Config
	logger *log.Logger
	writer render.Writer
	stdin  io.Reader
	stdout io.Writer

	tm   *jeotrans.TransverseMercator
	ps   *jeotrans.PolarStereographic
	utm  *jeotrans.UTM
	ups  *jeotrans.UPS
	mgrs *jeotrans.MGRS
}

type command struct {
	args  string
	help  string
	nargs int // -1 for a variable count
	run   func(a *app, args []string) ([]render.Result, error)
}

var commands = map[string]command{
	"geo2all":    {"<lat> <lon>", "TM, UTM, UPS and MGRS at every precision", 2, (*app).geo2all},
	"geo2utm":    {"<lat> <lon>", "geodetic to UTM", 2, (*app).geo2utm},
	"geo2ups":    {"<lat> <lon>", "geodetic to UPS", 2, (*app).geo2ups},
	"geo2mgrs":   {"<lat> <lon>", "geodetic to MGRS", 2, (*app).geo2mgrs},
	"geo2tm":     {"<lat> <lon>", "geodetic to Transverse Mercator", 2, (*app).geo2tm},
	"geo2ps":     {"<lat> <lon>", "geodetic to Polar Stereographic", 2, (*app).geo2ps},
	"utm2geo":    {"<zone><band> <easting> <northing>", "UTM to geodetic", 3, (*app).utm2geo},
	"ups2geo":    {"<N|S> <easting> <northing>", "UPS to geodetic", 3, (*app).ups2geo},
	"mgrs2geo":   {"<mgrs>", "MGRS to geodetic", -1, (*app).mgrs2geo},
	"tm2geo":     {"<easting> <northing>", "Transverse Mercator to geodetic", 2, (*app).tm2geo},
	"ps2geo":     {"<easting> <northing>", "Polar Stereographic to geodetic", 2, (*app).ps2geo},
	"batch":      {"[file]", "geo2all for each \"lat lon\" line of file or stdin", -1, (*app).batch},
	"ellipsoids": {"", "list the known ellipsoids", 0, (*app).ellipsoids},
}

var commandOrder = []string{
	"geo2all", "geo2utm", "geo2ups", "geo2mgrs", "geo2tm", "geo2ps",
	"utm2geo", "ups2geo", "mgrs2geo", "tm2geo", "ps2geo", "batch", "ellipsoids",
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("jeotrans", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	// stop at the command so negative coordinates are not read as flags
	fs.SetInterspersed(false)

	var configPath = fs.StringP("config", "c", os.Getenv(config.EnvPrefix+"CONFIG"), "YAML configuration file.")
	var ellipsoid = fs.StringP("ellipsoid", "e", "", "Ellipsoid code, WE (WGS 84) by default.")
	var precision = fs.IntP("precision", "p", 5, "MGRS precision, 0 (100 km) to 5 (1 m).")
	var zoneOverride = fs.IntP("zone-override", "z", 0, "Force UTM conversions into this zone when within reach.")
	var format = fs.StringP("format", "f", config.FormatText, "Output format: text or geojson.")
	var unit = fs.StringP("unit", "u", "m", "Unit for eastings and northings: m, km, ft or us-ft.")
	var workers = fs.IntP("workers", "w", 0, "Concurrent conversions in batch mode, one per CPU by default.")
	var verbose = fs.BoolP("verbose", "v", false, "Log debug information to stderr.")
	var help = fs.Bool("help", false, "Display help text.")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Coordinate conversion between geodetic, TM, PS, UTM, UPS and MGRS\n")
		fmt.Fprintf(stderr, "\n")
		fmt.Fprintf(stderr, "Usage:\n")
		fmt.Fprintf(stderr, "\tjeotrans [flags] <command> [args]\n")
		fmt.Fprintf(stderr, "\n")
		fmt.Fprintf(stderr, "Commands:\n")
		for _, name := range commandOrder {
			c := commands[name]
			fmt.Fprintf(stderr, "\t%-10s %-34s %s\n", name, c.args, c.help)
		}
		fmt.Fprintf(stderr, "\n")
		fmt.Fprintf(stderr, "Latitude and longitude are in decimal degrees, negative for south or west.\n")
		fmt.Fprintf(stderr, "\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\n")
		fmt.Fprintf(stderr, "Example:\n")
		fmt.Fprintf(stderr, "\tjeotrans geo2all 42.662139 -71.365553\n")
	}

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if *help {
		fs.Usage()
		return exitOK
	}

	logger := log.NewWithOptions(stderr, log.Options{Prefix: "jeotrans"})

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("loading configuration", "err", err)
		return exitUsage
	}
	if fs.Changed("ellipsoid") {
		cfg.Ellipsoid = *ellipsoid
	}
	if fs.Changed("precision") {
		cfg.Precision = *precision
	}
	if fs.Changed("zone-override") {
		cfg.ZoneOverride = *zoneOverride
	}
	if fs.Changed("format") {
		cfg.Format = *format
	}
	if fs.Changed("unit") {
		cfg.Unit = *unit
	}
	if fs.Changed("workers") {
		cfg.Workers = *workers
	}
	if *verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid flags", "err", err)
		return exitUsage
	}
	level, _ := cfg.Level()
	logger.SetLevel(level)

	if fs.NArg() == 0 {
		fs.Usage()
		return exitUsage
	}
	name := fs.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		logger.Error("unknown command", "command", name)
		fs.Usage()
		return exitUsage
	}
	cmdArgs := fs.Args()[1:]
	if cmd.nargs >= 0 && len(cmdArgs) != cmd.nargs {
		logger.Error("wrong number of arguments", "command", name, "want", cmd.args)
		return exitUsage
	}

	a, err := newApp(cfg, logger, stdin, stdout)
	if err != nil {
		logger.Error("building converters", "err", err)
		return exitUsage
	}
	logger.Debug("starting", "command", name, "ellipsoid", a.tm.Ellipsoid().Code, "precision", cfg.Precision)

	results, err := cmd.run(a, cmdArgs)
	if len(results) > 0 {
		if werr := a.writer.Write(stdout, cfg.Format, results); werr != nil {
			logger.Error("writing output", "err", werr)
			return exitFailure
		}
	}
	switch {
	case errors.Is(err, errUsage):
		logger.Error("bad arguments", "command", name, "err", err)
		return exitUsage
	case err != nil:
		logger.Error("conversion failed", "command", name, "err", err)
		return exitFailure
	}
	return exitOK
}

func newApp(cfg config.Config, logger *log.Logger, stdin io.Reader, stdout io.Writer) (*app, error) {
	ell, err := cfg.EllipsoidParams()
	if err != nil {
		return nil, err
	}
	unit, err := cfg.LengthUnit()
	if err != nil {
		return nil, err
	}
	a := &app{
		cfg:    cfg,
		logger: logger,
		writer: render.Writer{Unit: unit, Decimals: 3},
		stdin:  stdin,
		stdout: stdout,
	}
	if a.tm, err = jeotrans.NewTransverseMercator(ell, cfg.TMParams()); err != nil {
		return nil, fmt.Errorf("transverse mercator: %w", err)
	}
	if a.ps, err = jeotrans.NewPolarStereographic(ell, cfg.PSParams()); err != nil {
		return nil, fmt.Errorf("polar stereographic: %w", err)
	}
	if a.utm, err = jeotrans.NewUTM(ell, cfg.ZoneOverride); err != nil {
		return nil, fmt.Errorf("utm: %w", err)
	}
	if a.ups, err = jeotrans.NewUPS(ell); err != nil {
		return nil, fmt.Errorf("ups: %w", err)
	}
	if a.mgrs, err = jeotrans.NewMGRS(ell); err != nil {
		return nil, fmt.Errorf("mgrs: %w", err)
	}
	return a, nil
}

func parseFloat(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", errUsage, name, s)
	}
	return v, nil
}

func parseLatLng(latStr, lngStr string) (s2.LatLng, error) {
	lat, err := parseFloat("latitude", latStr)
	if err != nil {
		return s2.LatLng{}, err
	}
	lng, err := parseFloat("longitude", lngStr)
	if err != nil {
		return s2.LatLng{}, err
	}
	return s2.LatLngFromDegrees(lat, lng), nil
}

func parseMapCoords(eStr, nStr string) (jeotrans.MapCoords, error) {
	e, err := parseFloat("easting", eStr)
	if err != nil {
		return jeotrans.MapCoords{}, err
	}
	n, err := parseFloat("northing", nStr)
	if err != nil {
		return jeotrans.MapCoords{}, err
	}
	return jeotrans.MapCoords{Easting: e, Northing: n}, nil
}

// convertAll fills in every system that accepts the position. Only an MGRS
// failure, which means the position itself is invalid, is an error.
func (a *app) convertAll(pos s2.LatLng) (render.Result, error) {
	r := render.Result{Position: pos}

	if tm, err := a.tm.ConvertFromGeodetic(pos); err == nil {
		r.TM = &tm
	} else {
		a.logger.Debug("no transverse mercator", "err", err)
	}
	if utm, err := a.utm.ConvertFromGeodetic(pos, 0); err == nil {
		r.UTM = &utm
	} else {
		a.logger.Debug("no utm", "err", err)
	}
	if jeotrans.IsNorthPolar(pos) || jeotrans.IsSouthPolar(pos) {
		if ups, err := a.ups.ConvertFromGeodetic(pos); err == nil {
			r.UPS = &ups
		} else {
			a.logger.Debug("no ups", "err", err)
		}
	}
	for precision := 1; precision <= 5; precision++ {
		m, err := a.mgrs.ConvertFromGeodetic(pos, precision)
		if err != nil {
			return render.Result{}, fmt.Errorf("mgrs: %w", err)
		}
		r.MGRS = append(r.MGRS, m)
	}
	return r, nil
}

func (a *app) geo2all(args []string) ([]render.Result, error) {
	pos, err := parseLatLng(args[0], args[1])
	if err != nil {
		return nil, err
	}
	r, err := a.convertAll(pos)
	if err != nil {
		return nil, err
	}
	return []render.Result{r}, nil
}

func (a *app) geo2utm(args []string) ([]render.Result, error) {
	pos, err := parseLatLng(args[0], args[1])
	if err != nil {
		return nil, err
	}
	utm, err := a.utm.ConvertFromGeodetic(pos, 0)
	if err != nil {
		return nil, err
	}
	return []render.Result{{Position: pos, UTM: &utm}}, nil
}

func (a *app) geo2ups(args []string) ([]render.Result, error) {
	pos, err := parseLatLng(args[0], args[1])
	if err != nil {
		return nil, err
	}
	ups, err := a.ups.ConvertFromGeodetic(pos)
	if err != nil {
		return nil, err
	}
	return []render.Result{{Position: pos, UPS: &ups}}, nil
}

func (a *app) geo2mgrs(args []string) ([]render.Result, error) {
	pos, err := parseLatLng(args[0], args[1])
	if err != nil {
		return nil, err
	}
	m, err := a.mgrs.ConvertFromGeodetic(pos, a.cfg.Precision)
	if err != nil {
		return nil, err
	}
	return []render.Result{{Position: pos, MGRS: []jeotrans.MGRSCoord{m}}}, nil
}

// project runs the forward conversion of a "lat lon" argument pair.
func project(p jeotrans.Projection, args []string) (s2.LatLng, jeotrans.MapCoords, error) {
	pos, err := parseLatLng(args[0], args[1])
	if err != nil {
		return s2.LatLng{}, jeotrans.MapCoords{}, err
	}
	mc, err := p.ConvertFromGeodetic(pos)
	return pos, mc, err
}

// unproject runs the inverse conversion of an "easting northing" argument pair.
func unproject(p jeotrans.Projection, args []string) (s2.LatLng, jeotrans.MapCoords, error) {
	mc, err := parseMapCoords(args[0], args[1])
	if err != nil {
		return s2.LatLng{}, jeotrans.MapCoords{}, err
	}
	pos, err := p.ConvertToGeodetic(mc)
	return pos, mc, err
}

func (a *app) geo2tm(args []string) ([]render.Result, error) {
	pos, tm, err := project(a.tm, args)
	if err != nil {
		return nil, err
	}
	return []render.Result{{Position: pos, TM: &tm}}, nil
}

func (a *app) geo2ps(args []string) ([]render.Result, error) {
	pos, ps, err := project(a.ps, args)
	if err != nil {
		return nil, err
	}
	return []render.Result{{Position: pos, PS: &ps}}, nil
}

// parseZoneBand splits "50S" into its zone and band letter.
func parseZoneBand(s string) (int, byte, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 {
		return 0, 0, fmt.Errorf("%w: zone and band %q, want for example 50S", errUsage, s)
	}
	zone, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: zone and band %q, want for example 50S", errUsage, s)
	}
	return zone, s[len(s)-1], nil
}

func (a *app) utm2geo(args []string) ([]render.Result, error) {
	zone, band, err := parseZoneBand(args[0])
	if err != nil {
		return nil, err
	}
	mc, err := parseMapCoords(args[1], args[2])
	if err != nil {
		return nil, err
	}
	utm := jeotrans.UTMCoord{Zone: zone, Band: band, Easting: mc.Easting, Northing: mc.Northing}
	pos, err := a.utm.ConvertToGeodetic(utm)
	if err != nil {
		return nil, err
	}
	return []render.Result{{Position: pos, UTM: &utm}}, nil
}

func (a *app) ups2geo(args []string) ([]render.Result, error) {
	hemisphere, err := jeotrans.ParseHemisphere(args[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}
	mc, err := parseMapCoords(args[1], args[2])
	if err != nil {
		return nil, err
	}
	ups := jeotrans.UPSCoord{Hemisphere: hemisphere, Easting: mc.Easting, Northing: mc.Northing}
	pos, err := a.ups.ConvertToGeodetic(ups)
	if err != nil {
		return nil, err
	}
	return []render.Result{{Position: pos, UPS: &ups}}, nil
}

func (a *app) mgrs2geo(args []string) ([]render.Result, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: missing MGRS coordinate", errUsage)
	}
	m, err := jeotrans.ParseMGRS(strings.Join(args, " "))
	if err != nil {
		return nil, err
	}
	pos, err := a.mgrs.ConvertToGeodetic(m)
	if err != nil {
		return nil, err
	}
	return []render.Result{{Position: pos, MGRS: []jeotrans.MGRSCoord{m}}}, nil
}

func (a *app) tm2geo(args []string) ([]render.Result, error) {
	pos, tm, err := unproject(a.tm, args)
	if err != nil {
		return nil, err
	}
	return []render.Result{{Position: pos, TM: &tm}}, nil
}

func (a *app) ps2geo(args []string) ([]render.Result, error) {
	pos, ps, err := unproject(a.ps, args)
	if err != nil {
		return nil, err
	}
	return []render.Result{{Position: pos, PS: &ps}}, nil
}

func (a *app) ellipsoids(args []string) ([]render.Result, error) {
	w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "CODE\tSEMI-MAJOR AXIS\tINVERSE FLATTENING\tNAME\n")
	for _, e := range a.cfg.AllEllipsoids() {
		fmt.Fprintf(w, "%s\t%.3f\t%.9f\t%s\n", e.Code, e.SemiMajorAxis, e.InverseFlattening(), e.Name)
	}
	return nil, w.Flush()
}

// batchLine is one "lat lon" line of batch input.
type batchLine struct {
	number int
	text   string
}

func readBatch(r io.Reader) ([]batchLine, error) {
	var lines []batchLine
	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		lines = append(lines, batchLine{number: n, text: text})
	}
	return lines, scanner.Err()
}

// parseBatchLine accepts "lat lon" separated by spaces, tabs or a comma.
func parseBatchLine(text string) (s2.LatLng, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == ';'
	})
	if len(fields) != 2 {
		return s2.LatLng{}, fmt.Errorf("want \"lat lon\", got %d fields", len(fields))
	}
	return parseLatLng(fields[0], fields[1])
}

// batch converts every line with up to cfg.Workers conversions in flight.
// Output keeps the input order; failed lines are logged and skipped.
func (a *app) batch(args []string) ([]render.Result, error) {
	if len(args) > 1 {
		return nil, fmt.Errorf("%w: batch takes at most one file", errUsage)
	}
	in := a.stdin
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in = f
	}
	lines, err := readBatch(in)
	if err != nil {
		return nil, err
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results := make([]render.Result, len(lines))
	errs := make([]error, len(lines))
	g, ctx := errgroup.WithContext(sigCtx)
	g.SetLimit(a.cfg.Workers)
	for i, line := range lines {
		i, line := i, line
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			pos, err := parseBatchLine(line.text)
			if err == nil {
				results[i], err = a.convertAll(pos)
			}
			if err != nil {
				errs[i] = err
				return nil
			}
			results[i].Input = line.text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := sigCtx.Err(); err != nil {
		return nil, fmt.Errorf("batch interrupted: %w", err)
	}

	var ok []render.Result
	failed := 0
	for i, line := range lines {
		if errs[i] != nil {
			failed++
			a.logger.Error("skipping line", "line", line.number, "input", line.text, "err", errs[i])
			continue
		}
		ok = append(ok, results[i])
	}
	a.logger.Debug("batch done", "lines", len(lines), "failed", failed, "workers", a.cfg.Workers)
	if failed > 0 {
		return ok, fmt.Errorf("%d of %d lines failed", failed, len(lines))
	}
	return ok, nil
}
