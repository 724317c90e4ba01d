package memory

import (
	"math"
	"strconv"
	"time"
)

// Inbound parsing is best-effort: service payloads routinely omit optional
// fields, so every helper here returns a safe default instead of failing.

func mapList(result map[string]any, key string) []map[string]any {
	items, ok := result[key].([]any)
	if !ok {
		return nil
	}

	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}

	return out
}

// strField returns the first non-empty string among the given keys.
func strField(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := m[key].(string); ok && s != "" {
			return s
		}
	}

	return ""
}

// idField reads an identifier that may arrive as a string or a number.
func idField(m map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := m[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return formatNumber(v)
		case int:
			return strconv.Itoa(v)
		}
	}

	return ""
}

func strListField(m map[string]any, key string) []string {
	items, ok := m[key].([]any)
	if !ok {
		return []string{}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			out = append(out, v)
		case float64:
			out = append(out, formatNumber(v))
		}
	}

	return out
}

// intField reads a numeric field across the given keys, defaulting to zero.
func intField(m map[string]any, keys ...string) int {
	for _, key := range keys {
		switch v := m[key].(type) {
		case float64:
			return int(v)
		case int:
			return v
		}
	}

	return 0
}

func intPtrField(m map[string]any, key string) *int {
	switch v := m[key].(type) {
	case float64:
		n := int(v)
		return &n
	case int:
		n := v
		return &n
	}

	return nil
}

// formatNumber renders a JSON number as an identifier string. Whole numbers
// drop the fractional part so numeric ids survive the float round-trip.
func formatNumber(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatInt(int64(v), 10)
	}

	return strconv.FormatFloat(v, 'f', -1, 64)
}

// timeField parses an RFC 3339 timestamp, defaulting to the current time
// when the field is absent or malformed.
func timeField(m map[string]any, key string) time.Time {
	if s, ok := m[key].(string); ok {
		if ts, err := time.Parse(time.RFC3339, s); err == nil {
			return ts
		}
	}

	return time.Now().UTC()
}
