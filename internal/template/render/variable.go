package render

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Variables holds render context values.
type Variables interface {
	// Get retrieves a value by key.
	// Returns (value, true) if found, (nil, false) if not found.
	Get(name string) (interface{}, bool)

	// Set sets a value.
	Set(name string, value interface{})

	// All returns a copy of all values.
	All() map[string]interface{}
}

// MapVariables implements Variables using a map[string]interface{}.
type MapVariables struct {
	data map[string]interface{}
}

// NewMapVariables creates a new MapVariables from a map.
func NewMapVariables(data map[string]interface{}) *MapVariables {
	if data == nil {
		data = make(map[string]interface{})
	}
	return &MapVariables{data: data}
}

// Get retrieves a value by key.
func (m *MapVariables) Get(name string) (interface{}, bool) {
	val, ok := m.data[name]
	return val, ok
}

// Set sets a value.
func (m *MapVariables) Set(name string, value interface{}) {
	m.data[name] = value
}

// All returns a copy of all values.
func (m *MapVariables) All() map[string]interface{} {
	result := make(map[string]interface{}, len(m.data))
	for k, v := range m.data {
		result[k] = v
	}
	return result
}

// scope is the stack of values visible while rendering.
// The innermost section value is last.
type scope []interface{}

func (s scope) push(v interface{}) scope {
	next := make(scope, len(s), len(s)+1)
	copy(next, s)
	return append(next, v)
}

// lookup resolves a key against the scope, innermost first.
// A flat key that contains dots ("secrets.TOKEN") is tried before
// walking nested maps.
func (s scope) lookup(name string) (interface{}, bool) {
	if name == "." {
		if len(s) == 0 {
			return nil, false
		}
		return s[len(s)-1], true
	}

	for i := len(s) - 1; i >= 0; i-- {
		if v, ok := getKey(s[i], name); ok {
			return v, true
		}
	}

	if !strings.Contains(name, ".") {
		return nil, false
	}

	parts := strings.Split(name, ".")
	for i := len(s) - 1; i >= 0; i-- {
		v, ok := getKey(s[i], parts[0])
		if !ok {
			continue
		}
		for _, part := range parts[1:] {
			v, ok = getKey(v, part)
			if !ok {
				return nil, false
			}
		}
		return v, true
	}
	return nil, false
}

// getKey reads a key from a frame value when the frame is map-like.
func getKey(frame interface{}, key string) (interface{}, bool) {
	switch f := frame.(type) {
	case Variables:
		return f.Get(key)
	case map[string]interface{}:
		v, ok := f[key]
		return v, ok
	case map[string]string:
		v, ok := f[key]
		return v, ok
	default:
		return nil, false
	}
}

// truthy follows mustache rules: nil, false, zero numbers, empty strings
// and empty lists are falsy.
func truthy(v interface{}) bool {
	if v == nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t != ""
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv.Len() > 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Ptr, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

// listItems returns the elements of a slice or array value.
func listItems(v interface{}) ([]interface{}, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]interface{}, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

// valueToString converts a context value into its textual form.
func valueToString(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return formatFloat(float64(v))
	case float64:
		return formatFloat(v)
	}

	data, err := json.Marshal(val)
	if err != nil {
		return fmt.Sprintf("%v", val)
	}
	return string(data)
}

// formatFloat prints whole numbers without a fraction (JSON numbers decode
// as float64).
func formatFloat(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
