package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
)

const missingAthleteText = "Error: No athlete ID provided and no default ATHLETE_ID found in environment variables."

// Schema helpers

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

func dateProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description + " (YYYY-MM-DD)",
		"pattern":     `^\d{4}-\d{2}-\d{2}$`,
	}
}

func intProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "integer", "description": description}
}

func boolProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "boolean", "description": description}
}

func idProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": []string{"string", "integer"}, "description": description}
}

// accountSchema returns properties with the athlete_id and api_key
// overrides added.
func accountSchema(props map[string]interface{}) map[string]interface{} {
	if props == nil {
		props = map[string]interface{}{}
	}
	props["athlete_id"] = idProp("The Intervals.icu athlete ID (optional, defaults to ATHLETE_ID)")
	props["api_key"] = stringProp("The Intervals.icu API key (optional, defaults to API_KEY)")
	return props
}

func objectSchema(props map[string]interface{}, required ...string) MCPInputSchema {
	return MCPInputSchema{Type: "object", Properties: props, Required: required}
}

var (
	readOnly    = &ToolAnnotations{ReadOnlyHint: true, IdempotentHint: true, OpenWorldHint: true}
	localOnly   = &ToolAnnotations{ReadOnlyHint: true, IdempotentHint: true}
	destructive = &ToolAnnotations{DestructiveHint: true, IdempotentHint: true, OpenWorldHint: true}
	writes      = &ToolAnnotations{OpenWorldHint: true}
)

// defineMCPTools defines the available MCP tools
func defineMCPTools() []MCPTool {
	return []MCPTool{
		{
			Name:        "get_activities",
			Description: "Get a list of activities for an athlete from Intervals.icu, newest first. Unnamed activities are skipped unless include_unnamed is set.",
			InputSchema: objectSchema(accountSchema(map[string]interface{}{
				"start_date":      dateProp("Start date, defaults to 30 days ago"),
				"end_date":        dateProp("End date, defaults to today"),
				"limit":           intProp("Maximum number of activities to return (default 10)"),
				"include_unnamed": boolProp("Include activities without a name"),
			})),
			Annotations: readOnly,
		},
		{
			Name:        "get_activity_details",
			Description: "Get detailed information for a specific activity, including time in power and heart rate zones.",
			InputSchema: objectSchema(map[string]interface{}{
				"activity_id": idProp("The Intervals.icu activity ID"),
				"api_key":     stringProp("The Intervals.icu API key (optional, defaults to API_KEY)"),
			}, "activity_id"),
			Annotations: readOnly,
		},
		{
			Name:        "get_activity_intervals",
			Description: "Get interval data for a specific activity: individual intervals and interval groups.",
			InputSchema: objectSchema(map[string]interface{}{
				"activity_id": idProp("The Intervals.icu activity ID"),
				"api_key":     stringProp("The Intervals.icu API key (optional, defaults to API_KEY)"),
			}, "activity_id"),
			Annotations: readOnly,
		},
		{
			Name:        "get_activity_power_curves",
			Description: "Get the power curve recorded for a specific activity as JSON.",
			InputSchema: objectSchema(map[string]interface{}{
				"activity_id": idProp("The Intervals.icu activity ID"),
				"api_key":     stringProp("The Intervals.icu API key (optional, defaults to API_KEY)"),
			}, "activity_id"),
			Annotations: readOnly,
		},
		{
			Name:        "get_events",
			Description: "Get planned events (workouts, races, notes) from the athlete's calendar.",
			InputSchema: objectSchema(accountSchema(map[string]interface{}{
				"start_date": dateProp("Start date, defaults to today"),
				"end_date":   dateProp("End date, defaults to 30 days from today"),
			})),
			Annotations: readOnly,
		},
		{
			Name:        "get_event_by_id",
			Description: "Get detailed information for a specific calendar event, including its workout structure.",
			InputSchema: objectSchema(accountSchema(map[string]interface{}{
				"event_id": idProp("The Intervals.icu event ID"),
			}), "event_id"),
			Annotations: readOnly,
		},
		{
			Name:        "get_races",
			Description: "Get upcoming races for the next year, with shared event details when available.",
			InputSchema: objectSchema(accountSchema(nil)),
			Annotations: readOnly,
		},
		{
			Name:        "delete_event",
			Description: "Delete a calendar event.",
			InputSchema: objectSchema(accountSchema(map[string]interface{}{
				"event_id": idProp("The Intervals.icu event ID"),
			}), "event_id"),
			Annotations: destructive,
		},
		{
			Name:        "delete_events_by_date_range",
			Description: "Delete every calendar event between two dates.",
			InputSchema: objectSchema(accountSchema(map[string]interface{}{
				"start_date": dateProp("First date to delete"),
				"end_date":   dateProp("Last date to delete"),
			}), "start_date", "end_date"),
			Annotations: destructive,
		},
		{
			Name:        "add_or_update_event",
			Description: "Create a planned workout on the calendar, or update it when event_id is given. workout_doc is rendered into the Intervals.icu workout description syntax.",
			InputSchema: objectSchema(accountSchema(map[string]interface{}{
				"workout_type": stringProp("Ride, Run, Swim, Walk or Row; inferred from the name when omitted"),
				"name":         stringProp("Name of the event"),
				"event_id":     idProp("Existing event to update"),
				"start_date":   dateProp("Date of the event, defaults to today"),
				"workout_doc":  workoutDocSchema(),
				"moving_time":  intProp("Planned moving time in seconds"),
				"distance":     intProp("Planned distance in meters"),
			}), "name"),
			Annotations: writes,
		},
		{
			Name:        "get_workouts",
			Description: "Get the workouts saved in the athlete's workout library.",
			InputSchema: objectSchema(accountSchema(nil)),
			Annotations: readOnly,
		},
		{
			Name:        "get_wellness_data",
			Description: "Get wellness data (fitness, sleep, HRV, subjective scores) for a date range.",
			InputSchema: objectSchema(accountSchema(map[string]interface{}{
				"start_date": dateProp("Start date, defaults to 30 days ago"),
				"end_date":   dateProp("End date, defaults to today"),
			})),
			Annotations: readOnly,
		},
		{
			Name:        "get_athlete",
			Description: "Get the athlete profile with sport settings and training zones as Markdown.",
			InputSchema: objectSchema(accountSchema(nil)),
			Annotations: readOnly,
		},
		{
			Name:        "get_power_curves",
			Description: "Get the athlete's best power curves for a period as JSON.",
			InputSchema: objectSchema(accountSchema(map[string]interface{}{
				"curves": stringProp("Curve periods, e.g. 42d, 1y or s0 (default 42d)"),
				"type":   stringProp("Activity type (default Ride)"),
			})),
			Annotations: readOnly,
		},
		{
			Name:        "get_pace_curves",
			Description: "Get the athlete's best pace curves for a period as JSON.",
			InputSchema: objectSchema(accountSchema(map[string]interface{}{
				"curves": stringProp("Curve periods, e.g. 42d, 1y or s0 (default 42d)"),
				"type":   stringProp("Activity type (default Run)"),
				"gap":    boolProp("Use gradient adjusted pace"),
			})),
			Annotations: readOnly,
		},
		{
			Name:        "get_current_date_and_time_info",
			Description: "Get the current date and time, the day of the week and days until the weekend.",
			InputSchema: objectSchema(map[string]interface{}{}),
			Annotations: localOnly,
		},
		{
			Name:        "calculate_date_info",
			Description: "Describe a date relative to today: weekday, week number and distance in days.",
			InputSchema: objectSchema(map[string]interface{}{
				"date": dateProp("The date to describe"),
			}, "date"),
			Annotations: localOnly,
		},
		{
			Name:        "get_workout_syntax",
			Description: "Get the reference for the Intervals.icu workout description syntax.",
			InputSchema: objectSchema(map[string]interface{}{}),
			Annotations: localOnly,
		},
	}
}

func workoutDocSchema() map[string]interface{} {
	quantity := map[string]interface{}{"type": []string{"number", "string"}}
	target := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"value": quantity,
			"start": quantity,
			"end":   quantity,
			"units": map[string]interface{}{
				"type": "string",
				"enum": []string{"%mmp", "%hr", "%lthr", "%pace", "%ftp", "power_zone", "hr_zone", "pace_zone", "w", "cadence"},
			},
			"target": stringProp("For HR targets, whether the value is the target or a limit"),
		},
	}
	step := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"text":       stringProp("Step label"),
			"duration":   map[string]interface{}{"type": []string{"number", "string"}, "description": "Duration in seconds"},
			"distance":   map[string]interface{}{"type": []string{"number", "string"}, "description": "Distance in meters"},
			"reps":       intProp("Repeat the nested steps this many times"),
			"warmup":     boolProp("Warmup step"),
			"cooldown":   boolProp("Cooldown step"),
			"ramp":       boolProp("Ramp between start and end"),
			"freeride":   boolProp("Free ride, no ERG target"),
			"free":       boolProp("Free step"),
			"maxeffort":  boolProp("Maximum effort"),
			"hidepower":  boolProp("Hide the power target"),
			"intensity":  stringProp("Intensity label"),
			"steps":      map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "object"}},
			"power":      target,
			"hr":         target,
			"pace":       target,
			"cadence":    target,
		},
	}
	return map[string]interface{}{
		"type":        "object",
		"description": "Structured workout rendered into the event description",
		"properties": map[string]interface{}{
			"description": stringProp("Free text shown above the steps"),
			"steps":       map[string]interface{}{"type": "array", "items": step},
		},
	}
}

// executeTool executes a specific tool with the given arguments. A returned
// error means the arguments could not be decoded; upstream failures are
// reported in the output text.
func (s *MCPServer) executeTool(ctx context.Context, toolName string, arguments json.RawMessage) (toolOutput, error) {
	switch toolName {
	case "get_activities":
		return s.executeGetActivities(ctx, arguments)
	case "get_activity_details":
		return s.executeGetActivityDetails(ctx, arguments)
	case "get_activity_intervals":
		return s.executeGetActivityIntervals(ctx, arguments)
	case "get_activity_power_curves":
		return s.executeGetActivityPowerCurves(ctx, arguments)
	case "get_events":
		return s.executeGetEvents(ctx, arguments)
	case "get_event_by_id":
		return s.executeGetEventByID(ctx, arguments)
	case "get_races":
		return s.executeGetRaces(ctx, arguments)
	case "delete_event":
		return s.executeDeleteEvent(ctx, arguments)
	case "delete_events_by_date_range":
		return s.executeDeleteEventsByDateRange(ctx, arguments)
	case "add_or_update_event":
		return s.executeAddOrUpdateEvent(ctx, arguments)
	case "get_workouts":
		return s.executeGetWorkouts(ctx, arguments)
	case "get_wellness_data":
		return s.executeGetWellnessData(ctx, arguments)
	case "get_athlete":
		return s.executeGetAthlete(ctx, arguments)
	case "get_power_curves":
		return s.executeGetCurves(ctx, arguments, "power-curves", "Ride", "power curves")
	case "get_pace_curves":
		return s.executeGetCurves(ctx, arguments, "pace-curves", "Run", "pace curves")
	case "get_current_date_and_time_info":
		return jsonResult(currentTimeInfo(s.now())), nil
	case "calculate_date_info":
		return s.executeCalculateDateInfo(arguments)
	case "get_workout_syntax":
		return s.executeGetWorkoutSyntax(), nil
	default:
		return toolOutput{}, fmt.Errorf("%w: %s", errUnknownTool, toolName)
	}
}

func decodeArguments(arguments json.RawMessage, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(arguments))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// athleteID resolves the athlete override against the configured default.
// An explicitly empty override does not fall back.
func (s *MCPServer) athleteID(override *FlexString) (string, bool) {
	if override != nil {
		return string(*override), *override != ""
	}
	return s.config.AthleteID, s.config.AthleteID != ""
}

// apiErrorText formats a gateway failure as "Error <doing>: <message>".
func apiErrorText(doing string, err error) string {
	msg := err.Error()
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		msg = apiErr.Message
	}
	return fmt.Sprintf("Error %s: %s", doing, msg)
}

func athletePath(athleteID string, parts ...string) string {
	path := "/athlete/" + url.PathEscape(athleteID)
	for _, p := range parts {
		path += "/" + p
	}
	return path
}

func invalidDateResult() toolOutput {
	return errorResult("Error: " + invalidDateMessage)
}
