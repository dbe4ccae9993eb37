package models

import (
	"encoding/json"
	"strconv"
)

// ParamValue is a sampling parameter that is either a number or a string.
// Providers expect numeric types for numeric options (temperature, top_p, ...),
// but clients routinely send them as strings. The coercion happens once, at
// JSON decode time, and the decided form is used both for the cache key and
// for the forwarded provider request.
type ParamValue struct {
	Number   float64
	Str      string
	IsNumber bool
}

// NumberParam builds a numeric parameter value.
func NumberParam(n float64) ParamValue {
	return ParamValue{Number: n, IsNumber: true}
}

// StringParam builds a string parameter value.
func StringParam(s string) ParamValue {
	return ParamValue{Str: s}
}

func (p *ParamValue) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*p = ParamValue{Number: n, IsNumber: true}
		return nil
	}

	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		v := 0.0
		if b {
			v = 1.0
		}
		*p = ParamValue{Number: v, IsNumber: true}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	// Strings that parse as numbers are coerced here so "0.7" and 0.7 are
	// the same parameter from this point on.
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		*p = ParamValue{Number: n, IsNumber: true}
		return nil
	}

	*p = ParamValue{Str: s}
	return nil
}

func (p ParamValue) MarshalJSON() ([]byte, error) {
	if p.IsNumber {
		return json.Marshal(p.Number)
	}
	return json.Marshal(p.Str)
}
