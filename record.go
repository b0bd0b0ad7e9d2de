package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
)

// Record is a loosely typed JSON object returned by Intervals.icu.
// Values are whatever decodeJSON produced: string, json.Number, bool,
// []any, map[string]any or nil.
type Record map[string]any

// Lookup returns the value stored under key. JSON null counts as absent.
func (r Record) Lookup(key string) (any, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Str renders the value under key, or "" when absent.
func (r Record) Str(key string) string {
	v, ok := r.Lookup(key)
	if !ok {
		return ""
	}
	return renderValue(v)
}

// StrOr renders the value under key, or fallback when absent.
func (r Record) StrOr(key, fallback string) string {
	v, ok := r.Lookup(key)
	if !ok {
		return fallback
	}
	return renderValue(v)
}

// Record returns the nested object under key.
func (r Record) Record(key string) (Record, bool) {
	v, ok := r.Lookup(key)
	if !ok {
		return nil, false
	}
	return asRecord(v)
}

// List returns the array under key, or nil.
func (r Record) List(key string) []any {
	v, _ := r.Lookup(key)
	list, _ := v.([]any)
	return list
}

// Truthy reports whether the value under key is present and non-zero.
func (r Record) Truthy(key string) bool {
	v, _ := r.Lookup(key)
	return truthy(v)
}

func asRecord(v any) (Record, bool) {
	switch m := v.(type) {
	case Record:
		return m, true
	case map[string]any:
		return Record(m), true
	}
	return nil, false
}

// records keeps the object elements of a JSON array.
func records(list []any) []Record {
	out := make([]Record, 0, len(list))
	for _, item := range list {
		if rec, ok := asRecord(item); ok {
			out = append(out, rec)
		}
	}
	return out
}

// truthy mirrors the upstream notion of an "empty" value: null, false,
// zero, "" and empty collections are all treated as missing.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	case Record:
		return len(t) > 0
	}
	return true
}

// renderValue prints a decoded JSON value the way it appeared upstream.
func renderValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return formatFloat(t)
	case number:
		return t.String()
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = renderValue(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

// formatFloat prints a computed float, keeping a ".0" suffix on whole
// numbers so that 28800/3600 renders as "8.0".
func formatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e16 {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// number is a numeric value that remembers whether it was an integer, so
// arithmetic on zone boundaries prints "141" rather than "141.0".
type number struct {
	f       float64
	integer bool
}

func toNumber(v any) (number, bool) {
	switch t := v.(type) {
	case json.Number:
		s := t.String()
		if !strings.ContainsAny(s, ".eE") {
			if i, err := t.Int64(); err == nil {
				return number{f: float64(i), integer: true}, true
			}
		}
		f, err := t.Float64()
		if err != nil {
			return number{}, false
		}
		return number{f: f}, true
	case float64:
		return number{f: t}, true
	case int:
		return number{f: float64(t), integer: true}, true
	case int64:
		return number{f: float64(t), integer: true}, true
	case number:
		return t, true
	}
	return number{}, false
}

func (n number) add(d int) number {
	return number{f: n.f + float64(d), integer: n.integer}
}

// floorDiv divides and rounds toward negative infinity, keeping the
// integer flag.
func (n number) floorDiv(d float64) number {
	return number{f: math.Floor(n.f / d), integer: n.integer}
}

func (n number) String() string {
	if n.integer {
		return strconv.FormatInt(int64(n.f), 10)
	}
	return formatFloat(n.f)
}

// decodeJSON parses an upstream body keeping numbers as json.Number.
func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON value")
	}
	if m, ok := v.(map[string]any); ok {
		return Record(m), nil
	}
	return v, nil
}
