package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Unit is a display unit. Plans always store millimetres; units only apply
// when reading input or rendering output.
type Unit string

const (
	UnitMillimeter Unit = "mm"
	UnitCentimeter Unit = "cm"
	UnitMeter      Unit = "m"
)

// ParseUnit accepts mm, cm or m (case-insensitive).
func ParseUnit(s string) (Unit, error) {
	switch Unit(strings.ToLower(strings.TrimSpace(s))) {
	case "", UnitMillimeter:
		return UnitMillimeter, nil
	case UnitCentimeter:
		return UnitCentimeter, nil
	case UnitMeter:
		return UnitMeter, nil
	default:
		return "", fmt.Errorf("unknown unit %q", s)
	}
}

// Millimeters returns how many millimetres one unit holds.
func (u Unit) Millimeters() float64 {
	switch u {
	case UnitCentimeter:
		return 10
	case UnitMeter:
		return 1000
	default:
		return 1
	}
}

// ToMillimeters converts a value in u to whole millimetres. It fails when the
// value does not land on a whole millimetre.
func (u Unit) ToMillimeters(v float64) (int, error) {
	mm := v * u.Millimeters()
	rounded := math.Round(mm)
	if math.Abs(mm-rounded) > 1e-6 {
		return 0, fmt.Errorf("%g%s is not a whole number of millimetres", v, u)
	}
	return int(rounded), nil
}

// Format renders a millimetre value in u, trimming trailing zeros.
func (u Unit) Format(mm int) string {
	if u == "" {
		u = UnitMillimeter
	}
	v := float64(mm) / u.Millimeters()
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + string(u)
}
