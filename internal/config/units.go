package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Length is a physical distance stored in millimetres.
// It parses "30.5mm", "3.05cm", "1.2in", "86pt" or a bare number (mm),
// from YAML and from command-line flags alike.
type Length float64

var unitFactors = map[string]float64{
	"mm": 1,
	"cm": 10,
	"in": 25.4,
	"pt": 25.4 / 72,
}

// Common conversions
const (
	MMPerPoint = 25.4 / 72
	MMPerCM    = 10
)

// CM builds a Length from centimetres
func CM(v float64) Length { return Length(v * MMPerCM) }

// MM returns the length in millimetres
func (l Length) MM() float64 { return float64(l) }

// Points returns the length in PDF points
func (l Length) Points() float64 { return float64(l) / MMPerPoint }

// ParseLength parses a length with an optional unit suffix
func ParseLength(s string) (Length, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("empty length")
	}

	factor := 1.0
	for unit, f := range unitFactors {
		if strings.HasSuffix(s, unit) {
			factor = f
			s = strings.TrimSpace(strings.TrimSuffix(s, unit))
			break
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid length %q (use e.g. 30.5mm, 3.05cm, 1.2in, 86pt)", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("length cannot be negative: %q", s)
	}
	return Length(v * factor), nil
}

// String formats the length in millimetres
func (l Length) String() string {
	return strconv.FormatFloat(float64(l), 'f', -1, 64) + "mm"
}

// Set implements pflag.Value
func (l *Length) Set(s string) error {
	v, err := ParseLength(s)
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// Type implements pflag.Value
func (l *Length) Type() string { return "length" }

// UnmarshalYAML accepts both numbers and strings with units
func (l *Length) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: length must be a scalar", node.Line)
	}
	v, err := ParseLength(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*l = v
	return nil
}

// MarshalYAML writes the length with its mm suffix
func (l Length) MarshalYAML() (interface{}, error) {
	return l.String(), nil
}
