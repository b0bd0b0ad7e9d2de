package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

const defaultActivityLimit = 10

// activityShape is the form an activities listing arrived in.
type activityShape int

const (
	shapeEmpty activityShape = iota
	shapeList
	shapeContainer
	shapeEntity
)

// activityPayload is an activities response normalized to a list.
type activityPayload struct {
	shape activityShape
	items []Record
}

// classifyActivities accepts a bare list, an object wrapping a list under
// some key, or a single activity object.
func classifyActivities(result any) activityPayload {
	switch v := result.(type) {
	case []any:
		return activityPayload{shape: shapeList, items: records(v)}
	case Record, map[string]any:
		rec, _ := asRecord(v)
		keys := make([]string, 0, len(rec))
		for k := range rec {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if list, ok := rec[k].([]any); ok {
				if items := records(list); len(items) > 0 {
					return activityPayload{shape: shapeContainer, items: items}
				}
				break
			}
		}
		for _, k := range []string{"name", "startTime", "distance"} {
			if _, ok := rec[k]; ok {
				return activityPayload{shape: shapeEntity, items: []Record{rec}}
			}
		}
	}
	return activityPayload{shape: shapeEmpty}
}

func isNamed(activity Record) bool {
	name := activity.Str("name")
	return name != "" && name != "Unnamed"
}

func filterNamed(activities []Record) []Record {
	named := make([]Record, 0, len(activities))
	for _, a := range activities {
		if isNamed(a) {
			named = append(named, a)
		}
	}
	return named
}

func (s *MCPServer) executeGetActivities(ctx context.Context, arguments json.RawMessage) (toolOutput, error) {
	var input ActivitiesInput
	if err := decodeArguments(arguments, &input); err != nil {
		return toolOutput{}, err
	}
	athleteID, ok := s.athleteID(input.AthleteID)
	if !ok {
		return errorResult(missingAthleteText), nil
	}
	oldest, newest, err := dateRange(s.now(), input.StartDate, input.EndDate, -30, 0)
	if err != nil {
		return invalidDateResult(), nil
	}
	limit := defaultActivityLimit
	if input.Limit != nil {
		limit = *input.Limit
	}
	if limit < 1 {
		return errorResult("Error: limit must be a positive integer."), nil
	}

	apiLimit := limit
	if !input.IncludeUnnamed {
		apiLimit = limit * 3
	}
	params := url.Values{
		"oldest": {oldest},
		"newest": {newest},
		"limit":  {strconv.Itoa(apiLimit)},
	}
	result, err := s.client.Get(ctx, athletePath(athleteID, "activities"), input.APIKey, params)
	if err != nil {
		return errorResult(apiErrorText("fetching activities", err)), nil
	}
	if !truthy(result) {
		return textResult(fmt.Sprintf("No activities found for athlete %s in the specified date range.", athleteID)), nil
	}

	activities := classifyActivities(result).items
	if len(activities) == 0 {
		return textResult(fmt.Sprintf("No valid activities found for athlete %s in the specified date range.", athleteID)), nil
	}

	if !input.IncludeUnnamed {
		activities = filterNamed(activities)
		if len(activities) < limit {
			older := s.fetchOlderActivities(ctx, athleteID, oldest, input.APIKey, apiLimit)
			activities = append(activities, filterNamed(older)...)
		}
	}
	if len(activities) > limit {
		activities = activities[:limit]
	}

	if len(activities) == 0 {
		if input.IncludeUnnamed {
			return textResult(fmt.Sprintf("No valid activities found for athlete %s in the specified date range.", athleteID)), nil
		}
		return textResult(fmt.Sprintf("No named activities found for athlete %s in the specified date range. Try with include_unnamed=True to see all activities.", athleteID)), nil
	}

	var b strings.Builder
	b.WriteString("Activities:")
	for _, activity := range activities {
		b.WriteString("\n\n")
		b.WriteString(FormatActivitySummary(activity))
	}
	return textResult(b.String()), nil
}

// fetchOlderActivities makes one extra request for the 60 days before
// oldest. Failures are logged and yield nothing.
func (s *MCPServer) fetchOlderActivities(ctx context.Context, athleteID, oldest string, apiKey *string, apiLimit int) []Record {
	start, err := time.Parse(dateInputLayout, oldest)
	if err != nil {
		return nil
	}
	params := url.Values{
		"oldest": {start.AddDate(0, 0, -60).Format(dateLayout)},
		"newest": {start.AddDate(0, 0, -1).Format(dateLayout)},
		"limit":  {strconv.Itoa(apiLimit)},
	}
	result, err := s.client.Get(ctx, athletePath(athleteID, "activities"), apiKey, params)
	if err != nil {
		s.logger.Warn("failed to fetch older activities", "athlete_id", athleteID, "error", err)
		return nil
	}
	return classifyActivities(result).items
}

func activityPath(id FlexString, parts ...string) string {
	path := "/activity/" + url.PathEscape(string(id))
	for _, p := range parts {
		path += "/" + p
	}
	return path
}

func (s *MCPServer) executeGetActivityDetails(ctx context.Context, arguments json.RawMessage) (toolOutput, error) {
	var input ActivityInput
	if err := decodeArguments(arguments, &input); err != nil {
		return toolOutput{}, err
	}
	if input.ActivityID == "" {
		return errorResult("Error: Activity ID is required."), nil
	}

	result, err := s.client.Get(ctx, activityPath(input.ActivityID), input.APIKey, nil)
	if err != nil {
		return errorResult(apiErrorText("fetching activity details", err)), nil
	}
	if !truthy(result) {
		return textResult(fmt.Sprintf("No details found for activity %s.", input.ActivityID)), nil
	}
	if list, ok := result.([]any); ok {
		result = list[0]
	}
	activity, ok := asRecord(result)
	if !ok {
		return errorResult(fmt.Sprintf("Invalid activity format for activity %s.", input.ActivityID)), nil
	}

	return textResult(FormatActivitySummary(activity) + FormatActivityZones(activity)), nil
}

func (s *MCPServer) executeGetActivityIntervals(ctx context.Context, arguments json.RawMessage) (toolOutput, error) {
	var input ActivityInput
	if err := decodeArguments(arguments, &input); err != nil {
		return toolOutput{}, err
	}
	if input.ActivityID == "" {
		return errorResult("Error: Activity ID is required."), nil
	}

	result, err := s.client.Get(ctx, activityPath(input.ActivityID, "intervals"), input.APIKey, nil)
	if err != nil {
		return errorResult(apiErrorText("fetching intervals", err)), nil
	}
	if !truthy(result) {
		return textResult(fmt.Sprintf("No interval data found for activity %s.", input.ActivityID)), nil
	}
	data, ok := asRecord(result)
	if !ok {
		return textResult(fmt.Sprintf("No interval data or unrecognized format for activity %s.", input.ActivityID)), nil
	}
	_, hasIntervals := data["icu_intervals"]
	_, hasGroups := data["icu_groups"]
	if !hasIntervals && !hasGroups {
		return textResult(fmt.Sprintf("No interval data or unrecognized format for activity %s.", input.ActivityID)), nil
	}

	activityType := ""
	activity, err := s.client.Get(ctx, activityPath(input.ActivityID), input.APIKey, nil)
	if err != nil {
		s.logger.Warn("failed to fetch activity type", "activity_id", input.ActivityID, "error", err)
	} else if rec, ok := asRecord(activity); ok {
		activityType = rec.Str("type")
	}

	return textResult(FormatIntervals(data, activityType)), nil
}

func (s *MCPServer) executeGetActivityPowerCurves(ctx context.Context, arguments json.RawMessage) (toolOutput, error) {
	var input ActivityInput
	if err := decodeArguments(arguments, &input); err != nil {
		return toolOutput{}, err
	}
	if input.ActivityID == "" {
		return errorResult("Error: Activity ID is required."), nil
	}

	result, err := s.client.Get(ctx, activityPath(input.ActivityID, "power-curves"), input.APIKey, nil)
	if err != nil {
		return errorResult(apiErrorText("fetching activity power curve", err)), nil
	}
	if list, ok := result.([]any); ok {
		return jsonResult(list), nil
	}
	return jsonResult([]any{}), nil
}
