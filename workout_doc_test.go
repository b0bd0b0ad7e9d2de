package main

import (
	"encoding/json"
	"errors"
	"testing"
)

func mustWorkoutDoc(t *testing.T, body string) *WorkoutDoc {
	t.Helper()
	var doc WorkoutDoc
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		t.Fatalf("json.Unmarshal(%s) error = %v", body, err)
	}
	return &doc
}

func TestWorkoutDoc_Text(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		expected string
	}{
		{
			name: "warmup repeats cooldown",
			doc: `{"description": "VO2", "steps": [
				{"duration": 900, "warmup": true, "power": {"value": 60, "units": "%ftp"}},
				{"reps": 2, "text": "Hard", "steps": [
					{"duration": 180, "power": {"value": 115, "units": "%ftp"}},
					{"duration": 180, "power": {"value": 50, "units": "%ftp"}}
				]},
				{"duration": 600, "cooldown": true, "power": {"value": 50, "units": "%ftp"}}
			]}`,
			expected: "VO2\n" +
				"\nWarmup\n- 15m 60% ftp \n\n" +
				"\n2x Hard \n- 3m 115% ftp \n- 3m 50% ftp \n\n" +
				"\nCooldown\n- 10m 50% ftp \n\n",
		},
		{
			name:     "string quantities and zones",
			doc:      `{"steps": [{"duration": "1200", "hr": {"value": "2", "units": "hr_zone"}}]}`,
			expected: "- 20m Z2 HR \n",
		},
		{
			name:     "distance with pace range",
			doc:      `{"steps": [{"distance": 5000, "pace": {"start": 85, "end": 90, "units": "%pace"}}]}`,
			expected: "- 5km 85% - 90% Pace \n",
		},
		{
			name:     "short distance and modifiers",
			doc:      `{"steps": [{"distance": 400, "maxeffort": true, "text": "all out"}]}`,
			expected: "- 400mtr maxeffort all out \n",
		},
		{
			name:     "ramp with watts",
			doc:      `{"steps": [{"duration": 3720, "ramp": true, "power": {"start": 150, "end": 250, "units": "w"}}]}`,
			expected: "- 1h2m ramp 150W - 250W \n",
		},
		{
			name:     "cadence alias",
			doc:      `{"steps": [{"duration": 60, "free": true, "cadence": {"value": 90, "units": "rpm"}}]}`,
			expected: "- 1m freeride 90rpm Cadence \n",
		},
		{
			name:     "text only line",
			doc:      `{"steps": [{"text": "Stay seated"}]}`,
			expected: "Stay seated \n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mustWorkoutDoc(t, tt.doc).Text()
			if err != nil {
				t.Fatalf("Text() error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("Text() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestWorkoutDoc_TextErrors(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		expected error
	}{
		{
			name:     "nested reps",
			doc:      `{"steps": [{"reps": 2, "steps": [{"reps": 3, "steps": [{"duration": 60}]}]}]}`,
			expected: errNestedReps,
		},
		{
			name:     "reps without steps",
			doc:      `{"steps": [{"reps": 2}]}`,
			expected: errRepsWithSteps,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mustWorkoutDoc(t, tt.doc).Text()
			if !errors.Is(err, tt.expected) {
				t.Errorf("Text() error = %v, want %v", err, tt.expected)
			}
		})
	}
}

func TestTargetUnits_Unmarshal(t *testing.T) {
	var target Target
	if err := json.Unmarshal([]byte(`{"value": 80, "units": "%FTP"}`), &target); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if target.Units != UnitsPercentFTP {
		t.Errorf("Units = %q, want %q", target.Units, UnitsPercentFTP)
	}

	if err := json.Unmarshal([]byte(`{"value": 80, "units": "furlongs"}`), &target); err == nil {
		t.Error("json.Unmarshal() expected error for unknown units")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds  float64
		expected string
	}{
		{seconds: 30, expected: "30s"},
		{seconds: 60, expected: "1m"},
		{seconds: 90, expected: "90s"},
		{seconds: 150, expected: "2m30s"},
		{seconds: 3600, expected: "60m"},
		{seconds: 3725, expected: "1h2m5s"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := formatDuration(NewQuantity(tt.seconds)); got != tt.expected {
				t.Errorf("formatDuration(%v) = %q, want %q", tt.seconds, got, tt.expected)
			}
		})
	}
}
