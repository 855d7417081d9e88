package event

import (
	"encoding/json"
	"math"
)

// ToFloat coerces a payload value to float64. It accepts the numeric
// types that reach payloads from Go callers, decoded JSON and decoded
// binary buffers. The boolean result is false for nil, NaN and
// non-numeric values.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) {
			return 0, false
		}
		return n, true
	case float32:
		if math.IsNaN(float64(n)) {
			return 0, false
		}
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// IsValid reports whether a payload value is usable for numeric and fill
// policies: present, non-nil and not NaN. Non-numeric values (strings,
// nested maps) count as valid.
func IsValid(v any) bool {
	if v == nil {
		return false
	}
	if f, ok := v.(float64); ok && math.IsNaN(f) {
		return false
	}
	if f, ok := v.(float32); ok && math.IsNaN(float64(f)) {
		return false
	}

	return true
}

// Value extracts a valid numeric value at path from e. The boolean
// result is false when the path is missing, nil, NaN or non-numeric.
func Value(e Event, path string) (float64, bool) {
	return ToFloat(e.Get(path))
}
