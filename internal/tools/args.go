package tools

import (
	"github.com/spf13/cast"
)

// stringArg returns args[key] as a string, or def when it is absent or null.
// Non-string values are converted with their natural string form.
func stringArg(args map[string]any, key, def string) string {
	v, ok := args[key]
	if !ok || v == nil {
		return def
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return def
	}
	return s
}

// intArg returns args[key] as an int, or def when it is absent, null or not numeric.
func intArg(args map[string]any, key string, def int) int {
	v, ok := args[key]
	if !ok || v == nil {
		return def
	}
	i, err := cast.ToIntE(v)
	if err != nil {
		return def
	}
	return i
}

// objectArg returns args[key] as an object, or an empty object when it is absent or not an object.
func objectArg(args map[string]any, key string) map[string]any {
	if m, ok := args[key].(map[string]any); ok {
		return m
	}
	return map[string]any{}
}
