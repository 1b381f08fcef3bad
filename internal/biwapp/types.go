package biwapp

import (
	"math"
	"strconv"
)

// Record is one raw feed item: an arbitrary mapping of field names to
// heterogeneous values. Records are read-only input; the normalizer copies
// what it needs and never mutates them.
type Record map[string]any

// stringifyValue renders a raw feed value as the string the pipeline works
// with. Integral numbers lose their decimal point so a JSON 42 becomes "42",
// the form the dedupe store compares against.
func stringifyValue(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		if t == math.Trunc(t) {
			return strconv.FormatFloat(t, 'f', 0, 64), true
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}

// numericValue extracts a float from the loosely typed values JSON decoding
// produces for category markers.
func numericValue(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	return 0, false
}
