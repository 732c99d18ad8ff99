package dispatch

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ironsheep/picwizard/internal/transform"
)

// ParamType is the declared type of an operation parameter.
type ParamType string

const (
	TypeFloat  ParamType = "float"
	TypeInt    ParamType = "int"
	TypeBool   ParamType = "bool"
	TypeEnum   ParamType = "enum"
	TypePoints ParamType = "points"
)

// ParamSpec describes one parameter of an operation. Default is written in
// the same textual form a caller would send, and is coerced by the same code
// path when the key is absent.
type ParamSpec struct {
	Name    string    `json:"name"`
	Type    ParamType `json:"type"`
	Default string    `json:"default"`
	Values  []string  `json:"values,omitempty"`
	Help    string    `json:"help"`
}

// Values holds the coerced parameters of one call.
type Values struct {
	op    string
	raw   map[string]string
	typed map[string]any
}

// coerce converts the raw string parameters named by specs. Keys not in
// specs are ignored. A key that is present is never replaced by its default,
// even when malformed.
func coerce(op string, specs []ParamSpec, params map[string]string) (Values, error) {
	v := Values{
		op:    op,
		raw:   make(map[string]string, len(specs)),
		typed: make(map[string]any, len(specs)),
	}
	for _, spec := range specs {
		raw, ok := params[spec.Name]
		if !ok {
			raw = spec.Default
		}
		v.raw[spec.Name] = raw

		val, err := parseValue(spec, raw)
		if err != nil {
			return Values{}, &InvalidParameterError{Operation: op, Name: spec.Name, Value: raw, Reason: err.Error()}
		}
		v.typed[spec.Name] = val
	}
	return v, nil
}

func parseValue(spec ParamSpec, raw string) (any, error) {
	s := strings.TrimSpace(raw)
	switch spec.Type {
	case TypeFloat:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("expected a finite number")
		}
		return f, nil
	case TypeInt:
		i, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("expected an integer")
		}
		return i, nil
	case TypeBool:
		return parseBool(s)
	case TypeEnum:
		lower := strings.ToLower(s)
		for _, allowed := range spec.Values {
			if lower == allowed {
				return lower, nil
			}
		}
		return nil, fmt.Errorf("expected one of %s", strings.Join(spec.Values, ", "))
	case TypePoints:
		return parsePoints(s)
	}
	return nil, fmt.Errorf("unsupported parameter type %q", spec.Type)
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("expected a boolean")
	}
	return b, nil
}

// parsePoints reads numbers grouped in (x, y) pairs. Commas, semicolons,
// parentheses, brackets and whitespace all separate numbers, so
// "(0,0),(128,64),(255,255)", "[[0,0],[255,255]]" and "0 0; 255 255" are
// equivalent spellings.
func parsePoints(s string) ([]transform.ControlPoint, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		switch r {
		case ',', ';', '(', ')', '[', ']', ' ', '\t', '\n', '\r':
			return true
		}
		return false
	})
	if len(fields)%2 != 0 {
		return nil, fmt.Errorf("expected (x,y) pairs, got %d numbers", len(fields))
	}

	points := make([]transform.ControlPoint, 0, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		x, errX := strconv.ParseFloat(fields[i], 64)
		y, errY := strconv.ParseFloat(fields[i+1], 64)
		if errX != nil || errY != nil {
			return nil, fmt.Errorf("point %d is not numeric", i/2+1)
		}
		points = append(points, transform.ControlPoint{X: x, Y: y})
	}
	return points, nil
}

// Raw returns the text a parameter was coerced from (the default if the
// caller did not send it).
func (v Values) Raw(name string) string {
	return v.raw[name]
}

func (v Values) Float(name string) float64 {
	f, _ := v.typed[name].(float64)
	return f
}

func (v Values) Int(name string) int {
	i, _ := v.typed[name].(int)
	return i
}

func (v Values) Bool(name string) bool {
	b, _ := v.typed[name].(bool)
	return b
}

func (v Values) String(name string) string {
	s, _ := v.typed[name].(string)
	return s
}

func (v Values) Points(name string) []transform.ControlPoint {
	p, _ := v.typed[name].([]transform.ControlPoint)
	return p
}

// invalid builds the error for a parameter that parsed but violates a
// domain constraint.
func (v Values) invalid(name, reason string, args ...any) error {
	return &InvalidParameterError{
		Operation: v.op,
		Name:      name,
		Value:     v.raw[name],
		Reason:    fmt.Sprintf(reason, args...),
	}
}
