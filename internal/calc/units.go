package calc

import (
	"strconv"
	"strings"

	"github.com/Lllllllleong/toolsuite/internal/tools"
)

type Quantity string

const (
	Length      Quantity = "length"
	Weight      Quantity = "weight"
	Temperature Quantity = "temperature"
)

// Conversion is one converted value.
type Conversion struct {
	Unit  string  `json:"unit"`
	Value float64 `json:"value"`
}

// Convert expresses v (meters, kilograms or degrees Celsius) in every unit
// of its quantity, base unit first.
func Convert(q Quantity, v float64) ([]Conversion, error) {
	switch q {
	case Length:
		return []Conversion{
			{"Meters (m)", v},
			{"Kilometers (km)", v / 1000},
			{"Feet (ft)", v * 3.28084},
			{"Inches (in)", v * 39.3701},
			{"Miles (mi)", v / 1609.344},
		}, nil
	case Weight:
		return []Conversion{
			{"Kilograms (kg)", v},
			{"Grams (g)", v * 1000},
			{"Pounds (lb)", v * 2.20462},
			{"Ounces (oz)", v * 35.274},
		}, nil
	case Temperature:
		return []Conversion{
			{"Celsius (°C)", v},
			{"Fahrenheit (°F)", v*9/5 + 32},
			{"Kelvin (K)", v + 273.15},
		}, nil
	}
	return nil, tools.Invalid("Unknown quantity %q.", q)
}

// Trim4 formats with four decimals and drops trailing zeros.
func Trim4(v float64) string {
	s := strconv.FormatFloat(v, 'f', 4, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		return "0"
	}
	return s
}
