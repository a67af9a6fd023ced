// Package jsonutil provides tolerant conversions for loosely-typed JSON values.
//
// Both the record store and the language model return fields whose JSON type is
// not fixed: lookup fields come back as arrays, computed fields as objects with
// a "value" key, numbers where strings are expected. These helpers normalize
// such values instead of failing the whole record.
package jsonutil

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FlexibleString converts a decoded JSON value to a string.
// Arrays are joined with ", ", objects with a "value" key collapse to that
// value, and scalars are formatted. Returns "" for nil.
func FlexibleString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	case bool:
		return fmt.Sprintf("%t", val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := FlexibleString(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		// Computed-field envelopes look like {state, value, isStale}.
		if inner, ok := val["value"]; ok {
			return FlexibleString(inner)
		}
		encoded, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(encoded)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// FlexibleStringSlice converts a decoded JSON value to a string slice.
// A scalar becomes a one-element slice; nil and empty values become nil.
func FlexibleStringSlice(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s := FlexibleString(item); s != "" {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	case []string:
		return val
	default:
		s := FlexibleString(val)
		if s == "" {
			return nil
		}
		return []string{s}
	}
}

// FlexibleBool converts a decoded JSON value to a bool.
// Checkbox fields are absent when unchecked, so nil maps to false.
func FlexibleBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return strings.EqualFold(val, "true") || val == "1"
	case float64:
		return val != 0
	default:
		return false
	}
}
