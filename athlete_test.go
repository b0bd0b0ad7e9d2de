package main

import (
	"fmt"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const sampleAthlete = `{
	"name": "Jane",
	"id": "i123",
	"sex": "F",
	"city": "Berlin",
	"country": "DE",
	"icu_weight": 60,
	"plan": "Premium",
	"sportSettings": [{
		"types": ["Ride", "VirtualRide"],
		"ftp": 250,
		"power_zones": [55, 75, 90, 105, 999],
		"power_zone_names": ["Z1", "Z2", "Z3", "Z4", "Z5"],
		"lthr": 170,
		"hr_zones": [140, 160, 180],
		"hr_zone_names": ["Easy", "Moderate", "Hard"],
		"warmup_time": 600
	}, {
		"types": ["Run"],
		"threshold_pace": 4.0,
		"pace_units": "MINS_KM"
	}]
}`

// markdownHeadings returns "level text" for every heading in source.
func markdownHeadings(source string) []string {
	src := []byte(source)
	document := goldmark.New().Parser().Parse(text.NewReader(src))
	var headings []string
	_ = ast.Walk(document, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		heading, ok := node.(*ast.Heading)
		if !ok || !entering {
			return ast.WalkContinue, nil
		}
		var b strings.Builder
		for child := heading.FirstChild(); child != nil; child = child.NextSibling() {
			if t, ok := child.(*ast.Text); ok {
				b.Write(t.Segment.Value(src))
			}
		}
		headings = append(headings, fmt.Sprintf("%d %s", heading.Level, b.String()))
		return ast.WalkSkipChildren, nil
	})
	return headings
}

func TestFormatAthlete_Structure(t *testing.T) {
	athlete, err := decodeJSON([]byte(sampleAthlete))
	if err != nil {
		t.Fatalf("decodeJSON() error = %v", err)
	}
	got := markdownHeadings(FormatAthlete(athlete))
	want := []string{
		"1 Athlete Profile: Jane",
		"2 Basic Information",
		"2 Sport-Specific Training Zones",
		"3 Cycling",
		"3 Running",
		"2 Additional Information",
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("headings = %v, want %v", got, want)
	}
}

func TestFormatAthlete_Content(t *testing.T) {
	athlete, err := decodeJSON([]byte(sampleAthlete))
	if err != nil {
		t.Fatalf("decodeJSON() error = %v", err)
	}
	profile := FormatAthlete(athlete)

	expected := []string{
		"- **ID**: i123",
		"- **Location**: Berlin, DE",
		"- **Height**: N/A",
		"- **Weight**: 60 kg",
		"- **Resting HR**: N/A bpm",
		"**Activity Types**: Ride, VirtualRide",
		"- LTHR: 170 bpm",
		"  - **Easy**: 1-140 bpm",
		"  - **Moderate**: 141-160 bpm",
		"  - **Hard**: 161+ bpm",
		"- FTP: 250 watts",
		"  - **Z1**: 1-55% FTP (0-137 watts)",
		"  - **Z2**: 56-75% FTP (137-187 watts)",
		"  - **Z5**: 106%+ FTP (262+ watts)",
		"- Warmup Time: 10 minutes",
		"- Threshold Pace: 4.17 min/km",
		"- **Plan**: Premium",
	}
	for _, line := range expected {
		if !strings.Contains(profile, line+"\n") && !strings.HasSuffix(profile, line) {
			t.Errorf("profile missing line %q\n%s", line, profile)
		}
	}
	if strings.HasSuffix(profile, "\n") {
		t.Error("profile should not end with a newline")
	}
}

func TestFormatAthlete_NoData(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{name: "nil", value: nil},
		{name: "empty record", value: Record{}},
		{name: "list", value: []any{"x"}},
		{name: "string", value: "athlete"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatAthlete(tt.value); got != noAthleteData {
				t.Errorf("FormatAthlete(%v) = %q, want %q", tt.value, got, noAthleteData)
			}
		})
	}
}

func TestPaceDisplay(t *testing.T) {
	tests := []struct {
		pace     float64
		units    string
		expected string
	}{
		{pace: 4.0, units: "MINS_KM", expected: "4.17 min/km"},
		{pace: 1.25, units: "SECS_100M", expected: "80.0 sec/100m"},
		{pace: 3.5, units: "MILES", expected: "3.50 MILES"},
	}

	for _, tt := range tests {
		t.Run(tt.units, func(t *testing.T) {
			if got := paceDisplay(tt.pace, tt.units); got != tt.expected {
				t.Errorf("paceDisplay(%v, %q) = %q, want %q", tt.pace, tt.units, got, tt.expected)
			}
		})
	}
}

func TestSportName(t *testing.T) {
	tests := map[string]string{
		"VirtualRide":   "Cycling",
		"TrailRun":      "Running",
		"OpenWaterSwim": "Swimming",
		"WeightWorkout": "General Workout",
		"Rowing":        "Rowing",
	}
	for primary, expected := range tests {
		if got := sportName(primary); got != expected {
			t.Errorf("sportName(%q) = %q, want %q", primary, got, expected)
		}
	}
}
