package main

import "testing"

func TestResolveBaseURL(t *testing.T) {
	tests := []struct {
		name     string
		env      string
		expected string
	}{
		{name: "default", env: "", expected: defaultBaseURL},
		{name: "override", env: "http://localhost:9000/api/v1", expected: "http://localhost:9000/api/v1"},
		{name: "trailing slash", env: "http://localhost:9000/api/v1/", expected: "http://localhost:9000/api/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getenv := func(key string) string {
				if key == "INTERVALS_API_BASE_URL" {
					return tt.env
				}
				return ""
			}
			if got := resolveBaseURL(getenv); got != tt.expected {
				t.Errorf("resolveBaseURL() = %q, want %q", got, tt.expected)
			}
		})
	}
}
