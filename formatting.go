package main

import (
	"fmt"
	"strings"
	"time"
)

const noAthleteData = "No athlete data available"

// isoLayouts are the timestamp shapes Intervals.icu uses for activity start times.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func activityStartTime(activity Record) any {
	start, ok := activity.Lookup("startTime")
	if !ok {
		start, ok = activity.Lookup("start_date")
	}
	if !ok {
		return "Unknown"
	}
	s, isString := start.(string)
	if !isString || len(s) <= 10 {
		return start
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02 15:04:05")
		}
	}
	return s
}

// FormatActivitySummary renders one activity as a plain-text report.
func FormatActivitySummary(activity Record) string {
	report := NewReport(activity, "")
	report.Append("Activity: {name}")
	report.Append("ID: {id}")
	report.Append("Type: {type}")
	report.Append("Date: {}", withValue(activityStartTime(activity)))
	report.Append("Description: {description}")
	report.Append("Distance: {distance} meters")
	report.Append("Duration: {duration} seconds")
	report.Append("Moving Time: {moving_time} seconds")
	report.Append("Elevation Gain: {elevation_gain} meters")
	report.Append("Elevation Loss: {elevation_loss} meters")

	power := report.Section("Power Data:", "- ", nil)
	power.Append("Average Power: {avg_power} W")
	power.Append("Weighted Avg Power: {weighted_avg_power} W")
	power.Append("Training Load: {training_load}")
	power.Append("FTP: {ftp} W")
	power.Append("Kilojoules: {kilojoules}")
	power.Append("Intensity: {intensity}")
	power.Append("Power:HR Ratio: {power_hr_ratio}")
	power.Append("Variability Index: {variability_index}")
	power.Close()

	hr := report.Section("Heart Rate Data:", "- ", nil)
	hr.Append("Average Heart Rate: {avg_hr} bpm")
	hr.Append("Max Heart Rate: {max_hr} bpm")
	hr.Append("LTHR: {lthr} bpm")
	hr.Append("Resting HR: {resting_hr} bpm")
	hr.Append("Decoupling: {decoupling}")
	hr.Close()

	other := report.Section("Other Metrics:", "- ", nil)
	other.Append("Cadence: {cadence} rpm")
	other.Append("Calories: {calories}")
	other.Append("Average Speed: {average_speed} m/s")
	other.Append("Max Speed: {max_speed} m/s")
	other.Append("Average Stride: {average_stride} m")
	other.Append("L/R Balance: {avg_lr_balance}")
	other.Append("Weight: {weight} kg")
	other.Append("RPE: {value}/10", withKeys("perceived_exertion", "icu_rpe"))
	other.Append("Session RPE: {session_rpe}")
	other.Append("Feel: {feel}/5")
	other.Close()

	env := report.Section("Environment:", "- ", nil)
	env.Append("Trainer: {trainer}")
	env.Append("Average Temp: {average_temp}°C")
	env.Append("Min Temp: {min_temp}°C")
	env.Append("Max Temp: {max_temp}°C")
	env.Append("Avg Wind Speed: {average_wind_speed} km/h")
	env.Append("Headwind %: {headwind_percent}%")
	env.Append("Tailwind %: {tailwind_percent}%")
	env.Close()

	training := report.Section("Training Metrics:", "- ", nil)
	training.Append("Fitness (CTL): {ctl}")
	training.Append("Fatigue (ATL): {atl}")
	training.Append("TRIMP: {trimp}")
	training.Append("Polarization Index: {polarization_index}")
	training.Append("Power Load: {power_load}")
	training.Append("HR Load: {hr_load}")
	training.Append("Pace Load: {pace_load}")
	training.Append("Efficiency Factor: {efficiency_factor}")
	training.Close()

	device := report.Section("Device Info:", "- ", nil)
	device.Append("Device: {device_name}")
	device.Append("Power Meter: {power_meter}")
	device.Append("File Type: {file_type}")
	device.Close()

	return report.String()
}

// FormatActivityZones lists time in zone for an activity that carries a
// zones object, or returns "" when it does not.
func FormatActivityZones(activity Record) string {
	zones, ok := activity.Record("zones")
	if !ok {
		return ""
	}
	var b strings.Builder
	b.WriteString("\nPower Zones:\n")
	for _, zone := range records(zones.List("power")) {
		fmt.Fprintf(&b, "Zone %s: %s seconds\n", zone.StrOr("number", "?"), zone.StrOr("secondsInZone", "0"))
	}
	b.WriteString("\nHeart Rate Zones:\n")
	for _, zone := range records(zones.List("hr")) {
		fmt.Fprintf(&b, "Zone %s: %s seconds\n", zone.StrOr("number", "?"), zone.StrOr("secondsInZone", "0"))
	}
	return b.String()
}

// FormatWorkout renders a library workout.
func FormatWorkout(workout Record) string {
	report := NewReport(workout, "")
	report.Append("Workout: {name}")
	report.Append("Description: {description}")
	report.Append("Sport: {sport}")
	report.Append("Duration: {duration} seconds", withDefault(0))
	report.Append("TSS: {tss}")
	report.Append("Intervals: {}", withValue(len(workout.List("intervals"))))
	return report.String()
}

// FormatWellnessEntry renders one day of wellness data.
func FormatWellnessEntry(entry Record) string {
	report := NewReport(entry, "Wellness Data:")
	report.Append("Date: {id}")

	metrics := report.Section("Training Metrics:", "- ", nil)
	metrics.Append("Fitness (CTL): {ctl}")
	metrics.Append("Fatigue (ATL): {atl}")
	metrics.Append("Ramp Rate: {rampRate}")
	metrics.Append("CTL Load: {ctlLoad}")
	metrics.Append("ATL Load: {atlLoad}")
	metrics.Close()

	sport := report.Section("Sport-Specific Info:", "- ", nil)
	for _, info := range records(entry.List("sportInfo")) {
		sport.Append("{type}: eFTP = {eftp:.0f} W", withData(info))
	}
	sport.Close()

	vital := report.Section("Vital Signs:", "- ", nil)
	vital.Append("Weight: {weight} kg")
	vital.Append("Resting HR: {restingHR} bpm")
	vital.Append("HRV: {hrv}")
	vital.Append("HRV SDNN: {hrvSDNN}")
	vital.Append("Average Sleeping HR: {avgSleepingHR} bpm")
	vital.Append("SpO2: {spO2}%")
	vital.Append("Blood Pressure: {systolic}/{diastolic} mmHg")
	vital.Append("Respiration: {respiration} breaths/min")
	vital.Append("Blood Glucose: {bloodGlucose} mmol/L")
	vital.Append("Lactate: {lactate} mmol/L")
	vital.Append("VO2 Max: {vo2max} ml/kg/min")
	vital.Append("Body Fat: {bodyFat}%")
	vital.Append("Abdomen: {abdomen} cm")
	vital.Append("Baevsky Stress Index: {baevskySI}")
	vital.Close()

	sleep := report.Section("Sleep & Recovery:", "- ", nil)
	var hours []AppendOption
	if secs, ok := toNumber(entry["sleepSecs"]); ok {
		hours = append(hours, withField("sleepHours", secs.f/3600))
	}
	sleep.Append("Sleep: {sleepHours} hours", hours...)
	sleep.Append("Sleep Score: {sleepScore}")
	sleep.Append("Sleep Quality: {sleepQuality}/4")
	sleep.Append("Readiness: {readiness}")
	sleep.Close()

	menstrual := report.Section("Menstrual Tracking:", "- ", nil)
	menstrual.Append("Menstrual Phase: {menstrualPhase}")
	menstrual.Append("Predicted Phase: {menstrualPhasePredicted}")
	menstrual.Close()

	subjective := report.Section("Subjective Feelings:", "- ", nil)
	subjective.Append("Soreness: {soreness}/14")
	subjective.Append("Fatigue: {fatigue}/4")
	subjective.Append("Stress: {stress}/4")
	subjective.Append("Mood: {mood}/4")
	subjective.Append("Motivation: {motivation}/4")
	subjective.Append("Injury: {injury}/4")
	subjective.Close()

	nutrition := report.Section("Nutrition & Hydration:", "- ", nil)
	nutrition.Append("Calories Consumed: {kcalConsumed} kcal")
	nutrition.Append("Hydration Volume: {hydrationVolume} ml")
	nutrition.Append("Hydration Score: {hydration}/4")
	nutrition.Close()

	activity := report.Section("Activity:", "- ", nil)
	activity.Append("Steps: {steps}")
	activity.Close()

	status := "Unlocked"
	if entry.Truthy("locked") {
		status = "Locked"
	}
	comments := report.Section("", "", nil)
	comments.Append("Comments: {comments}")
	comments.Append("Status: {}", withValue(status))
	comments.Close()

	return report.String()
}

func eventKind(event Record) string {
	switch {
	case event.Truthy("workout"):
		return "Workout"
	case event.Truthy("race"):
		return "Race"
	default:
		return "Other"
	}
}

// FormatEventSummary renders a calendar event for listings. shared, when
// non-empty, is the shared event a race refers to.
func FormatEventSummary(event, shared Record) string {
	report := NewReport(event, "")
	report.Append("Date: {}", withKeys("start_date_local", "date"))
	report.Append("ID: {id}")
	report.Append("Type: {type}", withField("type", eventKind(event)))
	report.Append("Name: {name}")
	report.Append("Description: \n{description}")
	report.TrimLast()

	if len(shared) > 0 {
		sec := report.Section("Shared Event:", "- ", shared)
		sec.Append("Name: {name}")
		sec.Append("Date: {}", withKeys("start_date_local", "date"))
		sec.Append("Location: {location}")
		sec.Append("Country: {country}")
		sec.Append("Website: {url}")
		sec.Close()
	}
	return report.String()
}

// FormatEventDetails renders a single event with its workout, race and
// calendar details.
func FormatEventDetails(event Record) string {
	report := NewReport(event, "Event Details:")
	report.Append("")
	report.Append("ID: {id}")
	report.Append("Date: {date}")
	report.Append("Name: {name}")
	report.Append("Description: \n{description}")
	report.TrimLast()

	if workout, ok := event.Record("workout"); ok && len(workout) > 0 {
		sec := report.Section("Workout Information:", "", workout)
		sec.Append("Workout ID: {id}")
		sec.Append("Sport: {sport}")
		sec.Append("Duration: {duration} seconds")
		sec.Append("TSS: {tss}")
		if intervals := workout.List("intervals"); len(intervals) > 0 {
			sec.Append("Intervals: {}", withValue(len(intervals)))
		}
		sec.Close()
	}

	if event.Truthy("race") {
		sec := report.Section("Race Information:", "", nil)
		sec.Append("Priority: {priority}")
		sec.Append("Result: {result}")
		sec.Close()
	}

	if calendar, ok := event.Record("calendar"); ok && len(calendar) > 0 {
		sec := report.Section("Calendar Information:", "", calendar)
		sec.Append("Calendar: {name}")
		sec.Close()
	}

	return report.String()
}

// FormatIntervals renders the interval analysis of an activity.
func FormatIntervals(data Record, activityType string) string {
	report := NewReport(data, "Intervals Analysis:")
	report.Append("ID: {id}")
	report.Append("Analyzed: {analyzed}")
	if activityType != "" {
		report.Append("Activity Type: {}", withValue(activityType))
	}

	if intervals := records(data.List("icu_intervals")); len(intervals) > 0 {
		list := report.Section("Individual Intervals:", "", Record{})
		for i, interval := range intervals {
			formatInterval(list, i+1, interval)
		}
		list.Close()
	}

	if groups := records(data.List("icu_groups")); len(groups) > 0 {
		list := report.Section("Interval Groups:", "", Record{})
		for i, group := range groups {
			formatIntervalGroup(list, i+1, group)
		}
		list.Close()
	}

	return report.String()
}

func formatInterval(parent *Section, i int, interval Record) {
	label := interval.StrOr("label", fmt.Sprintf("Interval %d", i))
	kind := interval.StrOr("type", "Unknown")
	sec := parent.Section(fmt.Sprintf("[%d] %s (%s)", i, label, kind), "", interval)
	defer sec.Close()

	sec.Append("Duration: {elapsed_time} seconds (moving: {moving_time} seconds)", withDefault(0))
	sec.Append("Distance: {distance} meters")
	sec.Append("Start-End Indices: {start_index}-{end_index}")

	power := sec.Section("Power Metrics:", "", nil)
	power.Append("Average Power: {average_watts} watts ({average_watts_kg} W/kg)", withDefaults(Record{"average_watts_kg": 0}))
	power.Append("Max Power: {max_watts} watts ({max_watts_kg} W/kg)", withDefaults(Record{"max_watts_kg": 0}))
	power.Append("Weighted Avg Power: {weighted_average_watts} watts")
	power.Append("Intensity: {intensity}")
	power.Append("Training Load: {training_load}")
	power.Append("Joules: {joules}")
	power.Append("Joules > FTP: {joules_above_ftp}")
	power.Append("Power Zone: {zone} ({zone_min_watts}-{zone_max_watts} watts)")
	power.Append("W' Balance: Start {wbal_start}, End {wbal_end}")
	power.Append("L/R Balance: {avg_lr_balance}")
	power.Append("Variability: {w5s_variability}")
	power.Append("Torque: Avg {average_torque}, Min {min_torque}, Max {max_torque}")
	power.Close()

	hr := sec.Section("Heart Rate & Metabolic:", "", nil)
	hr.Append("Heart Rate: Avg {average_heartrate}, Min {min_heartrate}, Max {max_heartrate} bpm")
	hr.Append("Decoupling: {decoupling}")
	hr.Append("DFA α1: {average_dfa_a1}")
	hr.Append("Respiration: {average_respiration} breaths/min")
	hr.Append("EPOC: {average_epoc}")
	hr.Append("SmO2: {average_smo2}% / {average_smo2_2}%")
	hr.Append("THb: {average_thb}% / {average_thb_2}%")
	hr.Close()

	speed := sec.Section("Speed & Cadence:", "", nil)
	speed.Append("Speed: Avg {average_speed}, Min {min_speed}, Max {max_speed} m/s")
	speed.Append("GAP: {gap} m/s")
	speed.Append("Cadence: Avg {average_cadence}, Min {min_cadence}, Max {max_cadence} rpm")
	speed.Append("Stride: {average_stride}")
	speed.Close()

	elevation := sec.Section("Elevation & Environment:", "", nil)
	elevation.Append("Elevation Gain: {total_elevation_gain} meters")
	elevation.Append("Altitude: Min {min_altitude}, Max {max_altitude} meters")
	elevation.Append("Gradient: {average_gradient}%")
	elevation.Append("Temperature: {average_temp}°C (Weather: {average_weather_temp}°C, Feels like: {average_feels_like}°C)")
	elevation.Append("Wind: Speed {average_wind_speed} km/h, Gust {average_wind_gust} km/h, Direction {prevailing_wind_deg}°")
	elevation.Append("Headwind: {headwind_percent}%, Tailwind: {tailwind_percent}%")
	elevation.Close()
}

func formatIntervalGroup(parent *Section, i int, group Record) {
	sec := parent.Section(fmt.Sprintf("Group %d", i), "", group)
	defer sec.Close()

	sec.Append("[{i}] {label} ({type})",
		withDefaults(Record{"label": fmt.Sprintf("Group %d", i), "type": "Unknown"}),
		withField("i", i))
	sec.Append("Duration: {elapsed_time} seconds (moving: {moving_time} seconds)", withDefault(0))
	sec.Append("Distance: {distance} meters")
	sec.Append("Start-End Indices: {start_index}-{end_index}", withDefault(0))
	sec.Append("Power: Avg {average_watts} watts ({average_watts_kg} W/kg), Max {max_watts} watts ({max_watts_kg} W/kg)",
		withDefaults(Record{"average_watts_kg": 0, "max_watts_kg": 0}))
	sec.Append("W. Avg Power: {weighted_average_watts} watts, Intensity: {intensity}")
	sec.Append("Heart Rate: Avg {average_heartrate}, Max {max_heartrate} bpm")
	sec.Append("Speed: Avg {average_speed}, Max {max_speed} m/s")
	sec.Append("Cadence: Avg {average_cadence}, Max {max_cadence} rpm")
}
