package common

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// StringArg returns the string argument key and whether it was present.
// Non-string values are reported as absent.
func StringArg(args map[string]interface{}, key string) (string, bool) {
	v, ok := args[key].(string)
	return v, ok
}

// OptionalString returns a pointer to the string argument key, or nil when
// it was not supplied.
func OptionalString(args map[string]interface{}, key string) *string {
	v, ok := StringArg(args, key)
	if !ok {
		return nil
	}
	return &v
}

// IntArg reads a whole-number argument in the int32 range. JSON numbers
// arrive as float64; numeric strings are accepted too. def is returned when
// key is absent.
func IntArg(args map[string]interface{}, key string, def int) (int, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return def, nil
	}

	var n int64
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || math.Abs(v) > math.MaxInt32 {
			return 0, fmt.Errorf("%s must be a whole number", key)
		}
		n = int64(v)
	case int:
		n = int64(v)
	case int64:
		n = v
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 32)
		if err != nil {
			return 0, fmt.Errorf("%s must be a whole number", key)
		}
		n = parsed
	default:
		return 0, fmt.Errorf("%s must be a number", key)
	}

	if n > math.MaxInt32 || n < math.MinInt32 {
		return 0, fmt.Errorf("%s must be a whole number", key)
	}
	return int(n), nil
}

// BoolArg reads a boolean argument, accepting "true"/"false" strings.
// def is returned when key is absent.
func BoolArg(args map[string]interface{}, key string, def bool) (bool, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return def, nil
	}

	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, fmt.Errorf("%s must be true or false", key)
		}
		return b, nil
	default:
		return false, fmt.Errorf("%s must be a boolean", key)
	}
}

// JSONResult marshals v as the text content of a tool result.
func JSONResult(v any, isError bool) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	result := mcp.NewToolResultText(string(data))
	result.IsError = isError
	return result, nil
}
