// Package eco normalizes the loosely typed ecological fields attached to
// urban-forestry features into numeric values.
package eco

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numberPattern captures the first signed decimal substring.
var numberPattern = regexp.MustCompile(`-?[0-9]*\.?[0-9]+`)

// ParseNumber converts a property value into a float using the European
// convention ("." groups thousands, "," separates decimals).
// It never fails out-of-band: NaN is returned when no number can be found,
// so callers must check the result with IsFinite before using it.
func ParseNumber(v any) float64 {
	var s string

	switch n := v.(type) {
	case nil:
		return math.NaN()
	case float64:
		s = strconv.FormatFloat(n, 'f', -1, 64)
	case float32:
		s = strconv.FormatFloat(float64(n), 'f', -1, 32)
	case int:
		s = strconv.Itoa(n)
	case int64:
		s = strconv.FormatInt(n, 10)
	case int32:
		s = strconv.FormatInt(int64(n), 10)
	case uint:
		s = strconv.FormatUint(uint64(n), 10)
	case uint64:
		s = strconv.FormatUint(n, 10)
	case json.Number:
		// already machine formatted, separators must not be rewritten
		s = n.String()
	case map[string]any:
		return math.NaN()
	case string:
		s = strings.ReplaceAll(n, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	default:
		s = strings.ReplaceAll(fmt.Sprint(n), ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}

	m := numberPattern.FindString(s)
	if m == "" {
		return math.NaN()
	}

	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return math.NaN()
	}

	return f
}

// IsFinite reports whether f is neither NaN nor infinite.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Finite returns a pointer to f when it is finite, nil otherwise.
func Finite(f float64) *float64 {
	if !IsFinite(f) {
		return nil
	}
	return &f
}
