package jeotrans

import "fmt"

// DefaultTransverseMercator is a WGS84 based Transverse Mercator converter
// with its origin at (0, 0), no false offsets and a scale factor of 1.
var DefaultTransverseMercator *TransverseMercator

// DefaultMGRSConverter is a WGS84 ellipsoid based MGRS converter.
var DefaultMGRSConverter *MGRS

// DefaultUTMConverter is a WGS84 ellipsoid based UTM converter without a zone
// override.
var DefaultUTMConverter *UTM

// DefaultUPSConverter is a WGS84 ellipsoid based UPS converter.
var DefaultUPSConverter *UPS

func init() {
	var err error
	DefaultTransverseMercator, err = NewTransverseMercator(WGS84, DefaultTMParams)
	if err != nil {
		panic(fmt.Sprintf("error constructing WGS84 Transverse Mercator converter: %s", err))
	}
	DefaultMGRSConverter, err = NewMGRS(WGS84)
	if err != nil {
		panic(fmt.Sprintf("error constructing WGS84 MGRS converter: %s", err))
	}
	DefaultUTMConverter, err = NewUTM(WGS84, 0)
	if err != nil {
		panic(fmt.Sprintf("error constructing WGS84 UTM converter: %s", err))
	}
	DefaultUPSConverter, err = NewUPS(WGS84)
	if err != nil {
		panic(fmt.Sprintf("error constructing WGS84 UPS converter: %s", err))
	}
}
