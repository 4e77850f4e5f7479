package script

import (
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// defaultPrecision matches the legacy runtime's display rounding.
const defaultPrecision = 4

// prefs is the fixed label/threshold table the standalone runtime answers
// preference lookups from. Live instances carry site-configured values; the
// mock carries the legacy defaults so previews render plausibly.
var prefs = map[string]string{
	"doseDecimals":    "1",
	"weightUnit":      "kg",
	"volumeUnit":      "mL",
	"energyUnit":      "kcal",
	"warnColor":       "#c0392b",
	"normalColor":     "#2c3e50",
	"lowDoseWarning":  "0.5",
	"highDoseWarning": "150",
}

// Mock is the standalone Runtime: a synthetic stand-in for the production
// calculation object, backed entirely by a test case's variable map.
// Built fresh per evaluation and never shared.
type Mock struct {
	vars map[string]any
	id   string
}

// NewMock builds a standalone runtime over the supplied variables. The map
// is used as-is; unknown keys read as zero values and writes through element
// wrappers land back in it.
func NewMock(vars map[string]any) *Mock {
	if vars == nil {
		vars = make(map[string]any)
	}
	return &Mock{vars: vars, id: uuid.NewString()}
}

func (m *Mock) GetValue(key string) string {
	v, ok := m.vars[key]
	if !ok {
		return "0"
	}
	return displayString(v)
}

func (m *Mock) GetNumber(key string) float64 {
	return toNumber(m.vars[key])
}

func (m *Mock) Format(v float64, precision int) string {
	return FormatNumber(v, precision)
}

func (m *Mock) El(selector string) *Element {
	return &Element{vars: m.vars, key: strings.TrimPrefix(selector, "#")}
}

func (m *Mock) Pref(key, def string) string {
	if v, ok := prefs[key]; ok {
		return v
	}
	return def
}

// Recalculate is a production side-effect hook; standalone it does nothing.
func (m *Mock) Recalculate() {}

// ConvertUnits is a production side-effect hook; standalone it passes the
// value through.
func (m *Mock) ConvertUnits(v float64, from, to string) float64 { return v }

func (m *Mock) InstanceID() string { return m.id }

// Element emulates the legacy per-element accessor scripts use to read and
// write a single variable through a selector.
type Element struct {
	vars map[string]any
	key  string
}

// Value returns the element's backing variable as display text.
func (e *Element) Value() string {
	v, ok := e.vars[e.key]
	if !ok {
		return "0"
	}
	return displayString(v)
}

// Number returns the element's backing variable as a number.
func (e *Element) Number() float64 { return toNumber(e.vars[e.key]) }

// SetValue writes through to the backing variable.
func (e *Element) SetValue(v any) { e.vars[e.key] = v }

// FormatNumber rounds to the given precision, then strips trailing zeros and
// any dangling decimal point: 3.20 -> "3.2", 4.00 -> "4".
func FormatNumber(v float64, precision int) string {
	if precision < 0 {
		precision = 0
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	s := strconv.FormatFloat(v, 'f', precision, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		s = "0"
	}
	return s
}

// displayString renders a scalar variable value the way the legacy runtime
// displays it. Strings pass through verbatim.
func displayString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return FormatNumber(x, defaultPrecision)
	case float32:
		return FormatNumber(float64(x), defaultPrecision)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return "0"
	}
}

func toNumber(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
			return f
		}
	}
	return 0
}
