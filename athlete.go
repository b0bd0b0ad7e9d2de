package main

import (
	"fmt"
	"math"
	"strings"
)

// FormatAthlete renders an athlete profile as Markdown. Anything that is
// not a non-empty JSON object yields noAthleteData.
func FormatAthlete(v any) string {
	athlete, ok := asRecord(v)
	if !ok || len(athlete) == 0 {
		return noAthleteData
	}

	weight := "N/A"
	if athlete.Truthy("icu_weight") || athlete.Truthy("weight") {
		w, ok := athlete.Lookup("icu_weight")
		if !ok {
			w, _ = athlete.Lookup("weight")
		}
		weight = renderValue(w) + " kg"
	}
	height := "N/A"
	if athlete.Truthy("height") {
		height = athlete.Str("height") + " m"
	}

	var location []string
	for _, key := range []string{"city", "state", "country"} {
		if athlete.Truthy(key) {
			location = append(location, athlete.Str(key))
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Athlete Profile: %s\n\n", athlete.StrOr("name", "Unknown"))
	b.WriteString("## Basic Information\n")
	fmt.Fprintf(&b, "- **ID**: %s\n", athlete.StrOr("id", "N/A"))
	fmt.Fprintf(&b, "- **Gender**: %s\n", athlete.StrOr("sex", "N/A"))
	fmt.Fprintf(&b, "- **Location**: %s\n", strings.Join(location, ", "))
	fmt.Fprintf(&b, "- **Height**: %s\n", height)
	fmt.Fprintf(&b, "- **Weight**: %s\n", weight)
	fmt.Fprintf(&b, "- **Resting HR**: %s bpm\n", athlete.StrOr("icu_resting_hr", "N/A"))
	fmt.Fprintf(&b, "- **Date of Birth**: %s\n", athlete.StrOr("icu_date_of_birth", "N/A"))
	fmt.Fprintf(&b, "- **Timezone**: %s\n", athlete.StrOr("timezone", "N/A"))
	fmt.Fprintf(&b, "- **Units**: %s\n\n", athlete.StrOr("measurement_preference", "N/A"))

	if settings := athlete.List("sportSettings"); len(settings) > 0 {
		b.WriteString("## Sport-Specific Training Zones\n\n")
		for _, setting := range records(settings) {
			writeSportSetting(&b, setting)
		}
	}

	if athlete.Truthy("bio") {
		fmt.Fprintf(&b, "## Bio\n%s\n\n", athlete.Str("bio"))
	}

	b.WriteString("## Additional Information\n")
	if athlete.Truthy("plan") {
		fmt.Fprintf(&b, "- **Plan**: %s\n", athlete.Str("plan"))
	}
	if athlete.Truthy("icu_activated") {
		since := athlete.Str("icu_activated")
		if len(since) > 10 {
			since = since[:10]
		}
		fmt.Fprintf(&b, "- **Member Since**: %s\n", since)
	}
	if athlete.Truthy("website") {
		fmt.Fprintf(&b, "- **Website**: %s\n", athlete.Str("website"))
	}

	return strings.TrimRight(b.String(), " \t\r\n")
}

func sportName(primary string) string {
	switch {
	case strings.Contains(primary, "Ride"):
		return "Cycling"
	case strings.Contains(primary, "Run"):
		return "Running"
	case strings.Contains(primary, "Swim"):
		return "Swimming"
	case strings.Contains(primary, "Workout"):
		return "General Workout"
	}
	return primary
}

func writeSportSetting(b *strings.Builder, setting Record) {
	var types []string
	for _, t := range setting.List("types") {
		types = append(types, renderValue(t))
	}
	if len(types) == 0 {
		return
	}

	fmt.Fprintf(b, "### %s\n", sportName(types[0]))
	fmt.Fprintf(b, "**Activity Types**: %s\n\n", strings.Join(types, ", "))

	if setting.Truthy("lthr") || setting.Truthy("max_hr") {
		b.WriteString("**Heart Rate**:\n")
		if setting.Truthy("lthr") {
			fmt.Fprintf(b, "- LTHR: %s bpm\n", setting.Str("lthr"))
		}
		if setting.Truthy("max_hr") {
			fmt.Fprintf(b, "- Max HR: %s bpm\n", setting.Str("max_hr"))
		}
		writeHRZones(b, setting)
		b.WriteString("\n")
	}

	if setting.Truthy("ftp") || setting.Truthy("power_zones") {
		b.WriteString("**Power**:\n")
		if setting.Truthy("ftp") {
			fmt.Fprintf(b, "- FTP: %s watts\n", setting.Str("ftp"))
		}
		if setting.Truthy("w_prime") {
			fmt.Fprintf(b, "- W': %s joules\n", setting.Str("w_prime"))
		}
		if setting.Truthy("sweet_spot_min") && setting.Truthy("sweet_spot_max") {
			fmt.Fprintf(b, "- Sweet Spot: %s-%s%% FTP\n", setting.Str("sweet_spot_min"), setting.Str("sweet_spot_max"))
		}
		writePowerZones(b, setting)
		b.WriteString("\n")
	}

	if setting.Truthy("threshold_pace") || setting.Truthy("pace_zones") {
		b.WriteString("**Pace**:\n")
		if pace, ok := toNumber(setting["threshold_pace"]); ok && pace.f != 0 {
			units := setting.StrOr("pace_units", "MINS_KM")
			fmt.Fprintf(b, "- Threshold Pace: %s\n", paceDisplay(pace.f, units))
		}
		writePaceZones(b, setting)
		b.WriteString("\n")
	}

	if setting.Truthy("warmup_time") || setting.Truthy("cooldown_time") {
		b.WriteString("**Training Settings**:\n")
		if n, ok := toNumber(setting["warmup_time"]); ok && n.f != 0 {
			fmt.Fprintf(b, "- Warmup Time: %s minutes\n", n.floorDiv(60))
		}
		if n, ok := toNumber(setting["cooldown_time"]); ok && n.f != 0 {
			fmt.Fprintf(b, "- Cooldown Time: %s minutes\n", n.floorDiv(60))
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n")
}

// paceDisplay converts a threshold pace in m/s to the athlete's units.
func paceDisplay(pace float64, units string) string {
	switch units {
	case "MINS_KM":
		var minPerKM float64
		if pace > 0 {
			minPerKM = 1000 / (pace * 60)
		}
		return fmt.Sprintf("%.2f min/km", minPerKM)
	case "SECS_100M":
		var secPer100 float64
		if pace > 0 {
			secPer100 = 100 / pace
		}
		return fmt.Sprintf("%.1f sec/100m", secPer100)
	}
	return fmt.Sprintf("%.2f %s", pace, units)
}

// zoneTable pairs zone names with their upper bounds, dropping entries
// that are not numeric.
func zoneTable(setting Record, boundsKey, namesKey string) ([]string, []number) {
	bounds := setting.List(boundsKey)
	names := setting.List(namesKey)
	if len(bounds) == 0 || len(names) == 0 {
		return nil, nil
	}
	var outNames []string
	var outBounds []number
	for i := 0; i < len(bounds) && i < len(names); i++ {
		n, ok := toNumber(bounds[i])
		if !ok {
			return outNames, outBounds
		}
		outNames = append(outNames, renderValue(names[i]))
		outBounds = append(outBounds, n)
	}
	return outNames, outBounds
}

// lowerBound is the previous zone's upper bound, or 0 for the first zone.
func lowerBound(bounds []number, i int) number {
	if i == 0 {
		return number{integer: true}
	}
	return bounds[i-1]
}

func writeHRZones(b *strings.Builder, setting Record) {
	names, bounds := zoneTable(setting, "hr_zones", "hr_zone_names")
	if len(names) == 0 {
		return
	}
	last := len(setting.List("hr_zones")) - 1
	b.WriteString("- HR Zones:\n")
	for i, name := range names {
		low := lowerBound(bounds, i).add(1)
		if i == last {
			fmt.Fprintf(b, "  - **%s**: %s+ bpm\n", name, low)
		} else {
			fmt.Fprintf(b, "  - **%s**: %s-%s bpm\n", name, low, bounds[i])
		}
	}
}

// openZone marks the last, unbounded zone in power and pace zone tables.
const openZone = 999

func writePowerZones(b *strings.Builder, setting Record) {
	names, bounds := zoneTable(setting, "power_zones", "power_zone_names")
	if len(names) == 0 {
		return
	}
	ftp, _ := toNumber(setting["ftp"])
	watts := func(percent number) string {
		if ftp.f == 0 {
			return "0"
		}
		return fmt.Sprintf("%d", int64(math.Trunc(ftp.f*percent.f/100)))
	}

	b.WriteString("- Power Zones:\n")
	for i, name := range names {
		low := lowerBound(bounds, i)
		high := bounds[i]
		if high.f >= openZone {
			fmt.Fprintf(b, "  - **%s**: %s%%+ FTP (%s+ watts)\n", name, low.add(1), watts(low))
			continue
		}
		maxWatts := "∞"
		if ftp.f != 0 {
			maxWatts = watts(high)
		}
		fmt.Fprintf(b, "  - **%s**: %s-%s%% FTP (%s-%s watts)\n", name, low.add(1), high, watts(low), maxWatts)
	}
}

func writePaceZones(b *strings.Builder, setting Record) {
	names, bounds := zoneTable(setting, "pace_zones", "pace_zone_names")
	if len(names) == 0 {
		return
	}
	b.WriteString("- Pace Zones:\n")
	for i, name := range names {
		low := lowerBound(bounds, i)
		high := bounds[i]
		if high.f >= openZone {
			fmt.Fprintf(b, "  - **%s**: %s%%+ threshold\n", name, low.add(1))
			continue
		}
		fmt.Fprintf(b, "  - **%s**: %s-%.1f%% threshold\n", name, low.add(1), high.f)
	}
}
