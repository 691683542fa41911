package xwing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Value is a scalar card field that the data files store either as a JSON
// number or as a string ("?" skills, "*" points). The text form is kept.
type Value string

// UnmarshalJSON accepts numbers, strings and null
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("value must be a number or string, got %s", data)
	}
	*v = Value(n.String())
	return nil
}

// MarshalJSON writes numeric values as JSON numbers and everything else as strings
func (v Value) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseFloat(string(v), 64); err == nil && json.Valid([]byte(v)) {
		return []byte(v), nil
	}
	return json.Marshal(string(v))
}

// String returns the text form
func (v Value) String() string {
	return string(v)
}

// IsSet reports whether the field was present in the data
func (v Value) IsSet() bool {
	return v != ""
}

// Int parses the value as an integer
func (v Value) Int() (int, error) {
	return strconv.Atoi(strings.TrimSpace(string(v)))
}

// Float parses the value as a float
func (v Value) Float() (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
}

// Flag is a boolean stored as either a JSON bool or a number (0 = false).
type Flag bool

// UnmarshalJSON accepts true/false, numbers and null
func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "null", "false", "0", `""`:
		*f = false
		return nil
	case "true":
		*f = true
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = n != 0
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("flag must be a bool or number, got %s", data)
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("flag must be a bool or number, got %s", data)
	}
	*f = Flag(b)
	return nil
}

// ShipRef names the ship(s) a pilot or upgrade belongs to. The data files use
// a bare string for a single ship and a list otherwise.
type ShipRef []string

// UnmarshalJSON accepts a string or a list of strings
func (r *ShipRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = nil
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = ShipRef{s}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("ship must be a string or list of strings: %w", err)
	}
	*r = list
	return nil
}

// MarshalJSON writes a single ship as a bare string
func (r ShipRef) MarshalJSON() ([]byte, error) {
	if len(r) == 1 {
		return json.Marshal(r[0])
	}
	return json.Marshal([]string(r))
}
