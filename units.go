package jeotrans

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// LengthUnit is a unit of length that projected values can be reported in.
// All conversions work in meters internally.
type LengthUnit int

// Supported units
const (
	Meter LengthUnit = iota
	Kilometer
	Foot
	USSurveyFoot
)

var unitInfo = [...]struct {
	name   string
	meters float64
}{
	Meter:        {"m", 1},
	Kilometer:    {"km", 1000},
	Foot:         {"ft", 0.3048},
	USSurveyFoot: {"us-ft", 1200.0 / 3937.0},
}

func (u LengthUnit) String() string {
	if u < 0 || int(u) >= len(unitInfo) {
		return fmt.Sprintf("LengthUnit(%d)", int(u))
	}
	return unitInfo[u].name
}

// ParseLengthUnit parses a unit name such as "m", "km", "ft" or "us-ft".
func ParseLengthUnit(s string) (LengthUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m", "meter", "meters", "metre", "metres":
		return Meter, nil
	case "km", "kilometer", "kilometers", "kilometre", "kilometres":
		return Kilometer, nil
	case "ft", "foot", "feet":
		return Foot, nil
	case "us-ft", "ussurveyfoot", "survey-foot", "us-survey-foot":
		return USSurveyFoot, nil
	}
	return Meter, domainError(BoundUnit, "unknown length unit %q", s)
}

// ConvertLength converts v from one unit to another.
func ConvertLength(v float64, from, to LengthUnit) float64 {
	if from == to {
		return v
	}
	return v * unitInfo[from].meters / unitInfo[to].meters
}

// RoundHalfUp rounds v to scale decimal places, with ties going away from
// zero. The shortest decimal representation of v is rounded, so 2.675 rounds
// to 2.68 even though its binary value is slightly below. A negative scale
// rounds to tens, hundreds and so on.
func RoundHalfUp(v float64, scale int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, ok := new(big.Rat).SetString(strconv.FormatFloat(v, 'g', -1, 64))
	if !ok {
		return v
	}
	s := scale
	if s < 0 {
		s = -s
	}
	pow := new(big.Rat).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(s)), nil))
	if scale >= 0 {
		r.Mul(r, pow)
	} else {
		r.Quo(r, pow)
	}

	neg := r.Sign() < 0
	r.Abs(r)
	r.Add(r, big.NewRat(1, 2))
	q := new(big.Int).Quo(r.Num(), r.Denom())
	if neg {
		q.Neg(q)
	}

	res := new(big.Rat).SetInt(q)
	if scale >= 0 {
		res.Quo(res, pow)
	} else {
		res.Mul(res, pow)
	}
	f, _ := res.Float64()
	return f
}

// measure converts a meter value to unit and rounds it when precision >= 0.
func measure(meters float64, unit LengthUnit, precision int) float64 {
	v := ConvertLength(meters, Meter, unit)
	if precision < 0 {
		return v
	}
	return RoundHalfUp(v, precision)
}
