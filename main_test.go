package main

import (
	"strings"
	"testing"
)

func TestRun_Flags(t *testing.T) {
	t.Setenv("INTERVALS_MCP_CONFIG", "")
	t.Setenv("API_KEY", "k")
	t.Setenv("ATHLETE_ID", "i1")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "version", args: []string{"--version"}},
		{name: "help", args: []string{"-h"}},
		{name: "unknown flag", args: []string{"--verbose"}, wantErr: "unknown flag"},
		{name: "positional argument", args: []string{"serve"}, wantErr: "unexpected argument: serve"},
		{name: "bad log level", args: []string{"--log-level", "loud"}, wantErr: "unknown log level"},
		{name: "unknown transport", args: []string{"--transport", "carrier-pigeon", "--log-level", "error"}, wantErr: "unknown transport"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(tt.args)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("run(%v) error = %v", tt.args, err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("run(%v) error = %v, want %q", tt.args, err, tt.wantErr)
			}
		})
	}
}

func TestRun_MissingCredentials(t *testing.T) {
	t.Setenv("INTERVALS_MCP_CONFIG", "")
	t.Setenv("API_KEY", "")
	t.Setenv("ATHLETE_ID", "")
	err := run(nil)
	if err == nil || !strings.Contains(err.Error(), "API_KEY") {
		t.Errorf("run() error = %v, want missing API_KEY", err)
	}
}
