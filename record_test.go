package main

import (
	"encoding/json"
	"testing"
)

func TestRenderValue(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{name: "string", value: "Ride", expected: "Ride"},
		{name: "integer number", value: json.Number("42"), expected: "42"},
		{name: "decimal number", value: json.Number("4.50"), expected: "4.50"},
		{name: "computed whole float", value: 8.0, expected: "8.0"},
		{name: "computed fraction", value: 7.25, expected: "7.25"},
		{name: "bool", value: true, expected: "true"},
		{name: "list", value: []any{json.Number("1"), "a"}, expected: "[1, a]"},
		{name: "nil", value: nil, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderValue(tt.value); got != tt.expected {
				t.Errorf("renderValue(%v) = %q, want %q", tt.value, got, tt.expected)
			}
		})
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected bool
	}{
		{name: "nil", value: nil, expected: false},
		{name: "empty string", value: "", expected: false},
		{name: "zero", value: json.Number("0"), expected: false},
		{name: "zero decimal", value: json.Number("0.0"), expected: false},
		{name: "empty list", value: []any{}, expected: false},
		{name: "empty record", value: Record{}, expected: false},
		{name: "false", value: false, expected: false},
		{name: "text", value: "x", expected: true},
		{name: "number", value: json.Number("3"), expected: true},
		{name: "list", value: []any{"x"}, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truthy(tt.value); got != tt.expected {
				t.Errorf("truthy(%v) = %v, want %v", tt.value, got, tt.expected)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	t.Run("object becomes record", func(t *testing.T) {
		v, err := decodeJSON([]byte(`{"ftp": 250, "nested": {"a": 1.50}}`))
		if err != nil {
			t.Fatalf("decodeJSON() error = %v", err)
		}
		rec, ok := v.(Record)
		if !ok {
			t.Fatalf("decodeJSON() = %T, want Record", v)
		}
		if got := rec.Str("ftp"); got != "250" {
			t.Errorf("ftp = %q, want %q", got, "250")
		}
		nested, ok := rec.Record("nested")
		if !ok {
			t.Fatal("nested record missing")
		}
		if got := nested.Str("a"); got != "1.50" {
			t.Errorf("nested.a = %q, want %q", got, "1.50")
		}
	})

	t.Run("array", func(t *testing.T) {
		v, err := decodeJSON([]byte(`[{"id": 1}, 2]`))
		if err != nil {
			t.Fatalf("decodeJSON() error = %v", err)
		}
		list, ok := v.([]any)
		if !ok || len(records(list)) != 1 {
			t.Errorf("decodeJSON() = %v, want one record in a list", v)
		}
	})

	t.Run("trailing data rejected", func(t *testing.T) {
		if _, err := decodeJSON([]byte(`{} {}`)); err == nil {
			t.Error("decodeJSON() expected error for trailing data")
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		if _, err := decodeJSON([]byte(`not json`)); err == nil {
			t.Error("decodeJSON() expected error")
		}
	})
}

func TestRecord_Accessors(t *testing.T) {
	rec := Record{"name": "Ride", "empty": nil, "list": []any{"a"}}

	if _, ok := rec.Lookup("empty"); ok {
		t.Error("Lookup(empty) reported a null value as present")
	}
	if got := rec.StrOr("missing", "N/A"); got != "N/A" {
		t.Errorf("StrOr() = %q, want %q", got, "N/A")
	}
	if got := len(rec.List("list")); got != 1 {
		t.Errorf("List() len = %d, want 1", got)
	}
	if rec.List("name") != nil {
		t.Error("List() on a string should be nil")
	}
	if !rec.Truthy("name") || rec.Truthy("empty") {
		t.Error("Truthy() mismatch")
	}
}
