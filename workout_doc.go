package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// TargetUnits names the unit of a step intensity target.
type TargetUnits string

const (
	UnitsPercentMMP  TargetUnits = "%mmp"
	UnitsPercentHR   TargetUnits = "%hr"
	UnitsPercentLTHR TargetUnits = "%lthr"
	UnitsPercentPace TargetUnits = "%pace"
	UnitsPercentFTP  TargetUnits = "%ftp"
	UnitsPowerZone   TargetUnits = "power_zone"
	UnitsHRZone      TargetUnits = "hr_zone"
	UnitsPaceZone    TargetUnits = "pace_zone"
	UnitsWatts       TargetUnits = "w"
	UnitsCadence     TargetUnits = "cadence"
)

var knownUnits = map[TargetUnits]bool{
	UnitsPercentMMP: true, UnitsPercentHR: true, UnitsPercentLTHR: true, UnitsPercentPace: true,
	UnitsPercentFTP: true, UnitsPowerZone: true, UnitsHRZone: true, UnitsPaceZone: true,
	UnitsWatts: true, UnitsCadence: true,
}

// UnmarshalJSON accepts the unit names case-insensitively and "rpm" for cadence.
func (u *TargetUnits) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	units := TargetUnits(strings.ToLower(strings.TrimSpace(s)))
	if units == "rpm" {
		units = UnitsCadence
	}
	if !knownUnits[units] {
		return fmt.Errorf("unknown target units %q", s)
	}
	*u = units
	return nil
}

func (u TargetUnits) isPercent() bool {
	switch u {
	case UnitsPercentHR, UnitsPercentMMP, UnitsPercentLTHR, UnitsPercentPace, UnitsPercentFTP:
		return true
	}
	return false
}

func (u TargetUnits) isZone() bool {
	return u == UnitsPowerZone || u == UnitsHRZone || u == UnitsPaceZone
}

func (u TargetUnits) label() string {
	switch u {
	case UnitsPercentHR, UnitsHRZone:
		return "HR"
	case UnitsPercentMMP:
		return "MMP"
	case UnitsPercentLTHR:
		return "LTHR"
	case UnitsPercentPace, UnitsPaceZone:
		return "Pace"
	case UnitsPercentFTP:
		return "ftp"
	case UnitsPowerZone:
		return "W"
	case UnitsCadence:
		return "Cadence"
	}
	return ""
}

// Quantity is a workout number that clients send either as a JSON number
// or as a string such as "900" or "Z2".
type Quantity struct {
	raw     string
	num     float64
	numeric bool
}

// NewQuantity returns a numeric quantity.
func NewQuantity(f float64) *Quantity {
	return &Quantity{raw: strconv.FormatFloat(f, 'f', -1, 64), num: f, numeric: true}
}

func (q *Quantity) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		q.raw = strings.TrimSpace(s)
		f, perr := strconv.ParseFloat(q.raw, 64)
		q.num, q.numeric = f, perr == nil
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("expected a number or a string, got %s", data)
	}
	*q = *NewQuantity(f)
	return nil
}

func (q Quantity) MarshalJSON() ([]byte, error) {
	if q.numeric {
		return json.Marshal(q.num)
	}
	return json.Marshal(q.raw)
}

func (q Quantity) String() string {
	if q.numeric {
		return compactFloat(q.num)
	}
	return q.raw
}

// compactFloat drops the fractional part of whole numbers.
func compactFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e16 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Target is a step intensity: a single value or a start/end range.
type Target struct {
	Value    *Quantity   `json:"value,omitempty"`
	Start    *Quantity   `json:"start,omitempty"`
	End      *Quantity   `json:"end,omitempty"`
	Units    TargetUnits `json:"units,omitempty"`
	HRTarget string      `json:"target,omitempty"`
}

func (t *Target) formatValue(q *Quantity) string {
	s := q.String()
	switch {
	case t.Units.isPercent():
		return s + "%"
	case t.Units.isZone():
		if strings.HasPrefix(strings.ToUpper(s), "Z") {
			return strings.ToUpper(s)
		}
		return "Z" + s
	case t.Units == UnitsWatts:
		return s + "W"
	case t.Units == UnitsCadence:
		return s + "rpm"
	}
	return s
}

func (t *Target) String() string {
	var parts []string
	if t.Start != nil && t.End != nil {
		parts = append(parts, t.formatValue(t.Start)+" - "+t.formatValue(t.End))
	} else if t.Value != nil {
		parts = append(parts, t.formatValue(t.Value))
	}
	if t.Units != "" {
		if label := t.Units.label(); label != "" {
			parts = append(parts, label)
		}
	}
	if t.HRTarget != "" {
		parts = append(parts, "hr="+t.HRTarget)
	}
	return strings.Join(parts, " ")
}

// Step is one line of a structured workout, or a repeat block when Reps is set.
type Step struct {
	Text      *string   `json:"text,omitempty"`
	Duration  *Quantity `json:"duration,omitempty"`
	Distance  *Quantity `json:"distance,omitempty"`
	Reps      *int      `json:"reps,omitempty"`
	Warmup    bool      `json:"warmup,omitempty"`
	Cooldown  bool      `json:"cooldown,omitempty"`
	Ramp      bool      `json:"ramp,omitempty"`
	Freeride  bool      `json:"freeride,omitempty"`
	Free      bool      `json:"free,omitempty"`
	MaxEffort bool      `json:"maxeffort,omitempty"`
	HidePower bool      `json:"hidepower,omitempty"`
	Intensity string    `json:"intensity,omitempty"`
	Steps     []Step    `json:"steps,omitempty"`
	Power     *Target   `json:"power,omitempty"`
	HR        *Target   `json:"hr,omitempty"`
	Pace      *Target   `json:"pace,omitempty"`
	Cadence   *Target   `json:"cadence,omitempty"`
}

var (
	errNestedReps    = errors.New("nested reps not supported")
	errRepsWithSteps = errors.New("nested steps are required if reps is specified")
)

// formatDuration writes seconds as 1h2m3s. Minutes are used above 100
// seconds or for exactly one minute, matching the Intervals.icu syntax.
func formatDuration(q *Quantity) string {
	if !q.numeric {
		return q.raw
	}
	remaining := int64(q.num)
	var b strings.Builder
	if remaining > 3600 {
		fmt.Fprintf(&b, "%dh", remaining/3600)
		remaining %= 3600
	}
	if remaining > 100 || remaining == 60 {
		fmt.Fprintf(&b, "%dm", remaining/60)
		remaining %= 60
	}
	if remaining > 0 {
		fmt.Fprintf(&b, "%ds", remaining)
	}
	return b.String()
}

func formatDistance(q *Quantity) string {
	if !q.numeric {
		return q.raw
	}
	if q.num < 1000 {
		return compactFloat(q.num) + "mtr"
	}
	return compactFloat(q.num/1000) + "km"
}

func (s *Step) text(nested bool) (string, error) {
	var b strings.Builder
	if s.Reps != nil {
		if nested {
			return "", errNestedReps
		}
		fmt.Fprintf(&b, "\n%dx ", *s.Reps)
	} else {
		if !nested && s.Warmup {
			b.WriteString("\nWarmup\n")
		}
		if !nested && s.Cooldown {
			b.WriteString("\nCooldown\n")
		}
		switch {
		case s.Duration != nil:
			fmt.Fprintf(&b, "- %s ", formatDuration(s.Duration))
		case s.Distance != nil:
			fmt.Fprintf(&b, "- %s ", formatDistance(s.Distance))
		}
		if s.Freeride || s.Free {
			b.WriteString("freeride ")
		}
		if s.MaxEffort {
			b.WriteString("maxeffort ")
		}
		if s.Ramp {
			b.WriteString("ramp ")
		}
		if s.HidePower {
			b.WriteString("hidepower ")
		}
		if s.Intensity != "" {
			fmt.Fprintf(&b, "intensity=%s ", s.Intensity)
		}
		for _, t := range []*Target{s.Power, s.HR, s.Pace, s.Cadence} {
			if t != nil {
				fmt.Fprintf(&b, "%s ", t)
			}
		}
	}
	if s.Text != nil {
		fmt.Fprintf(&b, "%s ", *s.Text)
	}

	if s.Reps != nil {
		if len(s.Steps) == 0 {
			return "", errRepsWithSteps
		}
		for i := range s.Steps {
			line, err := s.Steps[i].text(true)
			if err != nil {
				return "", err
			}
			b.WriteString("\n" + line)
		}
		b.WriteString("\n")
	} else if !nested && (s.Warmup || s.Cooldown) {
		b.WriteString("\n")
	}
	return b.String(), nil
}

// WorkoutDoc is a structured workout supplied by the caller. Intervals.icu
// parses its text form from an event description.
type WorkoutDoc struct {
	Description *string `json:"description,omitempty"`
	Steps       []Step  `json:"steps,omitempty"`
}

// Text renders the document in Intervals.icu workout syntax.
func (d *WorkoutDoc) Text() (string, error) {
	var b strings.Builder
	if d.Description != nil {
		b.WriteString(*d.Description + "\n")
	}
	for i := range d.Steps {
		line, err := d.Steps[i].text(false)
		if err != nil {
			return "", fmt.Errorf("step %d: %w", i+1, err)
		}
		b.WriteString(line + "\n")
	}
	return b.String(), nil
}
