package helpers

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

func ImplodeInt(a []int64) string {

	return strings.Trim(strings.Replace(fmt.Sprint(a), " ", ",", -1), "[]")
}

func JsonMarshalStr(j interface{}) string {
	m, err := json.Marshal(j)
	if err != nil {

		return "INVALID_JSON"
	}

	return string(m)
}

// FieldStr returns m[key] as a string, or "" when the key is missing or holds
// a different type.
func FieldStr(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if v, ok := m[key].(string); ok {
		return v
	}

	return ""
}

func FieldBool(m map[string]any, key string) bool {
	if m == nil {
		return false
	}
	if v, ok := m[key].(bool); ok {
		return v
	}

	return false
}

// FieldInt64 tolerates the three encodings TDLib uses for integers: plain
// JSON numbers, int64-as-string and (when a payload was decoded without
// UseNumber) float64.
func FieldInt64(m map[string]any, key string) int64 {
	if m == nil {
		return 0
	}
	switch v := m[key].(type) {
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return 0
		}
		return i
	case string:
		i, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0
		}
		return i
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	}

	return 0
}

func FieldMap(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	if v, ok := m[key].(map[string]any); ok {
		return v
	}

	return nil
}

func FieldList(m map[string]any, key string) []any {
	if m == nil {
		return nil
	}
	if v, ok := m[key].([]any); ok {
		return v
	}

	return nil
}

// FieldIdStr renders a numeric id field as its decimal string form, the way
// local state keys chats and users. Returns "" when the field is absent or
// not a number.
func FieldIdStr(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if _, ok := m[key]; !ok {
		return ""
	}
	if v, ok := m[key].(string); ok {
		return v
	}
	i := FieldInt64(m, key)
	if i == 0 {
		return ""
	}

	return strconv.FormatInt(i, 10)
}

// ScalarInt64 converts a bare scalar (list element, option value) to int64.
func ScalarInt64(v any) int64 {
	switch val := v.(type) {
	case json.Number:
		i, err := val.Int64()
		if err != nil {
			return 0
		}
		return i
	case string:
		i, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return 0
		}
		return i
	case float64:
		return int64(val)
	case int64:
		return val
	case int:
		return int64(val)
	}

	return 0
}

// ScalarStr renders a scalar option value as a string.
func ScalarStr(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return ""
	}

	return fmt.Sprint(v)
}
