package tool

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Argument values arrive from the reasoning collaborator as whatever the
// provider deserialized: strings, float64s, json.Number, sometimes numbers
// quoted as strings. These helpers coerce tolerantly instead of failing.

func argString(args map[string]any, key string) string {
	switch v := args[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

func argFloat(args map[string]any, key string) (float64, bool) {
	switch v := args[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func argInt(args map[string]any, key string) (int, bool) {
	f, ok := argFloat(args, key)
	if !ok {
		return 0, false
	}
	return int(f), true
}
