// Package render writes conversion results as text or as a GeoJSON
// FeatureCollection.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/GEOINT/jeotrans"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Result is everything computed for one position. Nil members were not
// requested or are outside their system's domain.
type Result struct {
	Input    string
	Position s2.LatLng
	TM       *jeotrans.MapCoords
	PS       *jeotrans.MapCoords
	UTM      *jeotrans.UTMCoord
	UPS      *jeotrans.UPSCoord
	MGRS     []jeotrans.MGRSCoord
}

// Point returns the orb point (longitude, latitude in degrees) of ll.
func Point(ll s2.LatLng) orb.Point {
	return orb.Point{ll.Lng.Degrees(), ll.Lat.Degrees()}
}

// LatLng returns the pivot of an orb point.
func LatLng(p orb.Point) s2.LatLng {
	return s2.LatLng{Lat: s1.Angle(p.Lat()) * s1.Degree, Lng: s1.Angle(p.Lon()) * s1.Degree}
}

// Writer renders results. Projected values are reported in Unit, rounded
// half up to Decimals places.
type Writer struct {
	Unit     jeotrans.LengthUnit
	Decimals int
}

func (w Writer) number(v float64) string {
	return strconv.FormatFloat(v, 'f', w.Decimals, 64)
}

func (w Writer) pair(c jeotrans.MapCoords) string {
	return w.number(c.EastingIn(w.Unit, w.Decimals)) + " " + w.number(c.NorthingIn(w.Unit, w.Decimals))
}

// Text writes each result as "name: value" lines, results separated by a
// blank line.
func (w Writer) Text(out io.Writer, results []Result) error {
	var sb strings.Builder
	for i, r := range results {
		if i > 0 {
			sb.WriteByte('\n')
		}
		if r.Input != "" {
			fmt.Fprintf(&sb, "input: %s\n", r.Input)
		}
		fmt.Fprintf(&sb, "geodetic: %.8f %.8f\n", r.Position.Lat.Degrees(), r.Position.Lng.Degrees())
		if r.TM != nil {
			fmt.Fprintf(&sb, "tm: %s\n", w.pair(*r.TM))
		}
		if r.PS != nil {
			fmt.Fprintf(&sb, "ps: %s\n", w.pair(*r.PS))
		}
		if r.UTM != nil {
			fmt.Fprintf(&sb, "utm: %d%c %s\n", r.UTM.Zone, r.UTM.Band,
				w.pair(jeotrans.MapCoords{Easting: r.UTM.Easting, Northing: r.UTM.Northing}))
		}
		if r.UPS != nil {
			fmt.Fprintf(&sb, "ups: %s %s\n", r.UPS.Hemisphere,
				w.pair(jeotrans.MapCoords{Easting: r.UPS.Easting, Northing: r.UPS.Northing}))
		}
		for _, m := range r.MGRS {
			fmt.Fprintf(&sb, "mgrs: %s\n", m)
		}
	}
	_, err := io.WriteString(out, sb.String())
	return err
}

// FeatureCollection builds one point feature per result carrying the
// projected values as properties.
func (w Writer) FeatureCollection(results []Result) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, r := range results {
		f := geojson.NewFeature(Point(r.Position))
		if r.Input != "" {
			f.Properties["input"] = r.Input
		}
		f.Properties["unit"] = w.Unit.String()
		if r.TM != nil {
			f.Properties["tm"] = w.mapProps(*r.TM)
		}
		if r.PS != nil {
			f.Properties["ps"] = w.mapProps(*r.PS)
		}
		if r.UTM != nil {
			props := w.mapProps(jeotrans.MapCoords{Easting: r.UTM.Easting, Northing: r.UTM.Northing})
			props["zone"] = r.UTM.Zone
			props["band"] = string(r.UTM.Band)
			props["hemisphere"] = r.UTM.Hemisphere.String()
			f.Properties["utm"] = props
		}
		if r.UPS != nil {
			props := w.mapProps(jeotrans.MapCoords{Easting: r.UPS.Easting, Northing: r.UPS.Northing})
			props["hemisphere"] = r.UPS.Hemisphere.String()
			f.Properties["ups"] = props
		}
		if len(r.MGRS) > 0 {
			mgrs := make([]string, 0, len(r.MGRS))
			for _, m := range r.MGRS {
				mgrs = append(mgrs, m.Compact())
			}
			f.Properties["mgrs"] = mgrs
		}
		fc.Append(f)
	}
	return fc
}

func (w Writer) mapProps(c jeotrans.MapCoords) map[string]interface{} {
	return map[string]interface{}{
		"easting":  c.EastingIn(w.Unit, w.Decimals),
		"northing": c.NorthingIn(w.Unit, w.Decimals),
	}
}

// GeoJSON writes the results as a FeatureCollection followed by a newline.
func (w Writer) GeoJSON(out io.Writer, results []Result) error {
	data, err := w.FeatureCollection(results).MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshal geojson: %w", err)
	}
	_, err = out.Write(append(data, '\n'))
	return err
}

// Write dispatches on format, "text" or "geojson".
func (w Writer) Write(out io.Writer, format string, results []Result) error {
	switch format {
	case "geojson":
		return w.GeoJSON(out, results)
	case "text", "":
		return w.Text(out, results)
	}
	return fmt.Errorf("unknown format %q", format)
}
