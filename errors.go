package jeotrans

import "fmt"

// Bound identifies which input domain a conversion violated.
type Bound int

// Bound values
const (
	BoundLatitude Bound = iota + 1
	BoundLongitude
	BoundEasting
	BoundNorthing
	BoundZone
	BoundHemisphere
	BoundEllipsoid
	BoundProjectionParameter
	BoundPrecision
	BoundMGRSString
	BoundUnit
)

var boundNames = map[Bound]string{
	BoundLatitude:            "latitude",
	BoundLongitude:           "longitude",
	BoundEasting:             "easting",
	BoundNorthing:            "northing",
	BoundZone:                "zone",
	BoundHemisphere:          "hemisphere",
	BoundEllipsoid:           "ellipsoid",
	BoundProjectionParameter: "projection parameter",
	BoundPrecision:           "precision",
	BoundMGRSString:          "MGRS string",
	BoundUnit:                "unit",
}

func (b Bound) String() string {
	if s, ok := boundNames[b]; ok {
		return s
	}
	return fmt.Sprintf("Bound(%d)", int(b))
}

// DomainError is returned when an input lies outside the domain a converter
// accepts. Violations are permanent for a given input.
type DomainError struct {
	Bound Bound
	Msg   string
}

func (e *DomainError) Error() string {
	if e.Msg == "" {
		return e.Bound.String() + " out of range"
	}
	return e.Bound.String() + ": " + e.Msg
}

// Is reports whether target is a DomainError for the same bound, so that
// errors.Is(err, ErrLatitude) matches every latitude violation.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Bound == e.Bound
}

func domainError(b Bound, format string, args ...interface{}) error {
	return &DomainError{Bound: b, Msg: fmt.Sprintf(format, args...)}
}

// Sentinels for errors.Is.
var (
	ErrLatitude            = &DomainError{Bound: BoundLatitude}
	ErrLongitude           = &DomainError{Bound: BoundLongitude}
	ErrEasting             = &DomainError{Bound: BoundEasting}
	ErrNorthing            = &DomainError{Bound: BoundNorthing}
	ErrZone                = &DomainError{Bound: BoundZone}
	ErrHemisphere          = &DomainError{Bound: BoundHemisphere}
	ErrEllipsoid           = &DomainError{Bound: BoundEllipsoid}
	ErrProjectionParameter = &DomainError{Bound: BoundProjectionParameter}
	ErrPrecision           = &DomainError{Bound: BoundPrecision}
	ErrMGRSString          = &DomainError{Bound: BoundMGRSString}
	ErrUnit                = &DomainError{Bound: BoundUnit}
)
