package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// JSON type for flexible storage
type JSON map[string]interface{}

// NewJSON builds a JSON value from a plain map.
func NewJSON(m map[string]interface{}) JSON {
	return JSON(m)
}

// Value implements the driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	return json.Marshal(j)
}

// Scan implements the sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into JSON", value)
	}
	return json.Unmarshal(bytes, &j)
}

// MarshalJSON returns the JSON encoding
func (j JSON) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return json.Marshal(map[string]interface{}(j))
}

// UnmarshalJSON sets the JSON encoding
func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return errors.New("nil pointer")
	}
	return json.Unmarshal(data, (*map[string]interface{})(j))
}

// GetPath reads a value along a dotted key path ("purchase.amount").
// Intermediate segments must be maps; anything else yields the default.
func (j JSON) GetPath(path string, def interface{}) interface{} {
	if j == nil {
		return def
	}
	segments := strings.Split(path, ".")
	var current interface{} = map[string]interface{}(j)
	for _, seg := range segments {
		m, ok := asMap(current)
		if !ok {
			return def
		}
		current, ok = m[seg]
		if !ok {
			return def
		}
	}
	return current
}

// SetPath writes a value along a dotted key path, creating intermediate
// maps as needed. A non-map intermediate value is replaced.
func (j *JSON) SetPath(path string, value interface{}) {
	if *j == nil {
		*j = JSON{}
	}
	segments := strings.Split(path, ".")
	current := map[string]interface{}(*j)
	for _, seg := range segments[:len(segments)-1] {
		next, ok := asMap(current[seg])
		if !ok {
			next = map[string]interface{}{}
			current[seg] = next
		}
		current = next
	}
	current[segments[len(segments)-1]] = value
}

// Merge overwrites top-level keys from other into j. Nested values are
// replaced wholesale, not deep-merged.
func (j *JSON) Merge(other map[string]interface{}) {
	if other == nil {
		return
	}
	if *j == nil {
		*j = JSON{}
	}
	for k, v := range other {
		(*j)[k] = v
	}
}

func asMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case JSON:
		return map[string]interface{}(m), true
	default:
		return nil, false
	}
}
