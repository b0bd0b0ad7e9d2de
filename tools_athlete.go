package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// wellnessEntries flattens a wellness response. Date-keyed objects are
// returned in date order, with the key filling in a missing id.
func wellnessEntries(result any) []Record {
	if list, ok := result.([]any); ok {
		return records(list)
	}
	byDate, ok := asRecord(result)
	if !ok {
		return nil
	}
	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	entries := make([]Record, 0, len(dates))
	for _, date := range dates {
		entry, ok := asRecord(byDate[date])
		if !ok {
			continue
		}
		if _, ok := entry.Lookup("id"); !ok {
			withID := make(Record, len(entry)+1)
			for k, v := range entry {
				withID[k] = v
			}
			withID["id"] = date
			entry = withID
		}
		entries = append(entries, entry)
	}
	return entries
}

func (s *MCPServer) executeGetWellnessData(ctx context.Context, arguments json.RawMessage) (toolOutput, error) {
	var input EventsInput
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

	params := url.Values{"oldest": {oldest}, "newest": {newest}}
	result, err := s.client.Get(ctx, athletePath(athleteID, "wellness"), input.APIKey, params)
	if err != nil {
		return errorResult(apiErrorText("fetching wellness data", err)), nil
	}
	entries := wellnessEntries(result)
	if len(entries) == 0 {
		return textResult(fmt.Sprintf("No wellness data found for athlete %s in the specified date range.", athleteID)), nil
	}

	var b strings.Builder
	b.WriteString("Wellness Data:\n\n")
	for _, entry := range entries {
		b.WriteString(FormatWellnessEntry(entry))
		b.WriteString("\n\n")
	}
	return textResult(b.String()), nil
}

func (s *MCPServer) executeGetAthlete(ctx context.Context, arguments json.RawMessage) (toolOutput, error) {
	var input AccountArgs
	if err := decodeArguments(arguments, &input); err != nil {
		return toolOutput{}, err
	}
	athleteID, ok := s.athleteID(input.AthleteID)
	if !ok {
		return errorResult(missingAthleteText), nil
	}

	result, err := s.client.Get(ctx, athletePath(athleteID), input.APIKey, nil)
	if err != nil {
		return errorResult(apiErrorText("fetching athlete data", err)), nil
	}
	if _, ok := asRecord(result); !ok {
		return errorResult("Error: Invalid response format from Intervals.icu API"), nil
	}
	return textResult(FormatAthlete(result)), nil
}

// executeGetCurves serves both the power and pace curve tools, which differ
// only in endpoint and default sport.
func (s *MCPServer) executeGetCurves(ctx context.Context, arguments json.RawMessage, endpoint, defaultType, label string) (toolOutput, error) {
	var input CurvesInput
	if err := decodeArguments(arguments, &input); err != nil {
		return toolOutput{}, err
	}
	athleteID, ok := s.athleteID(input.AthleteID)
	if !ok {
		return errorResult(missingAthleteText), nil
	}
	curves := input.Curves
	if curves == "" {
		curves = "42d"
	}
	sport := input.Type
	if sport == "" {
		sport = defaultType
	}

	params := url.Values{"curves": {curves}, "type": {sport}}
	if input.GAP {
		params.Set("gap", "true")
	}
	result, err := s.client.Get(ctx, athletePath(athleteID, endpoint), input.APIKey, params)
	if err != nil {
		return errorResult(apiErrorText("fetching "+label, err)), nil
	}
	if rec, ok := asRecord(result); ok {
		if list, ok := rec["list"].([]any); ok {
			return jsonResult(list), nil
		}
	}
	return jsonResult([]any{}), nil
}
