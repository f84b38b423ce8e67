package server

import (
	"fmt"
	"math"
)

// Tool arguments arrive as decoded JSON: numbers are float64, arrays are
// []any.

func stringParam(params map[string]any, key, defaultVal string) string {
	if v, ok := params[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return defaultVal
}

// optionalString reports whether key holds a string at all. An empty string
// counts as present.
func optionalString(params map[string]any, key string) (string, bool) {
	v, ok := params[key]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func intParam(params map[string]any, key string, defaultVal int) int {
	if n, ok := numberParam(params, key); ok {
		return int(n)
	}
	return defaultVal
}

func floatParam(params map[string]any, key string, defaultVal float64) float64 {
	if n, ok := numberParam(params, key); ok {
		return n
	}
	return defaultVal
}

func numberParam(params map[string]any, key string) (float64, bool) {
	switch n := params[key].(type) {
	case float64:
		return n, !math.IsNaN(n) && !math.IsInf(n, 0)
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func requireNumber(params map[string]any, key string) (float64, error) {
	n, ok := numberParam(params, key)
	if !ok {
		return 0, fmt.Errorf("%s is required and must be a number", key)
	}
	return n, nil
}

func requireString(params map[string]any, key string) (string, error) {
	s, ok := optionalString(params, key)
	if !ok {
		return "", fmt.Errorf("%s is required and must be a string", key)
	}
	return s, nil
}

// stringSliceParam accepts a JSON array of strings. A missing key is an
// empty list.
func stringSliceParam(params map[string]any, key string) ([]string, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch items := v.(type) {
	case []string:
		return items, nil
	case []any:
		out := make([]string, 0, len(items))
		for i, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] must be a string", key, i)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%s must be an array of strings", key)
}
