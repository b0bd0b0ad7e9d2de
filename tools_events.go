package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

func eventPath(athleteID string, eventID FlexString) string {
	return athletePath(athleteID, "events", url.PathEscape(string(eventID)))
}

// fetchEvents returns the event objects in [oldest, newest]. A non-list
// payload yields no events.
func (s *MCPServer) fetchEvents(ctx context.Context, athleteID string, apiKey *string, oldest, newest string) ([]Record, error) {
	params := url.Values{"oldest": {oldest}, "newest": {newest}}
	result, err := s.client.Get(ctx, athletePath(athleteID, "events"), apiKey, params)
	if err != nil {
		return nil, err
	}
	list, _ := result.([]any)
	return records(list), nil
}

func (s *MCPServer) executeGetEvents(ctx context.Context, arguments json.RawMessage) (toolOutput, error) {
	var input EventsInput
	if err := decodeArguments(arguments, &input); err != nil {
		return toolOutput{}, err
	}
	athleteID, ok := s.athleteID(input.AthleteID)
	if !ok {
		return errorResult(missingAthleteText), nil
	}
	oldest, newest, err := dateRange(s.now(), input.StartDate, input.EndDate, 0, 30)
	if err != nil {
		return invalidDateResult(), nil
	}

	events, err := s.fetchEvents(ctx, athleteID, input.APIKey, oldest, newest)
	if err != nil {
		return errorResult(apiErrorText("fetching events", err)), nil
	}
	if len(events) == 0 {
		return textResult(fmt.Sprintf("No events found for athlete %s in the specified date range.", athleteID)), nil
	}

	var b strings.Builder
	b.WriteString("Events:\n\n")
	for _, event := range events {
		b.WriteString(FormatEventSummary(event, nil))
		b.WriteString("\n\n")
	}
	return textResult(b.String()), nil
}

func (s *MCPServer) executeGetEventByID(ctx context.Context, arguments json.RawMessage) (toolOutput, error) {
	var input EventInput
	if err := decodeArguments(arguments, &input); err != nil {
		return toolOutput{}, err
	}
	athleteID, ok := s.athleteID(input.AthleteID)
	if !ok {
		return errorResult(missingAthleteText), nil
	}
	if input.EventID == "" {
		return errorResult("Error: No event ID provided."), nil
	}

	result, err := s.client.Get(ctx, eventPath(athleteID, input.EventID), input.APIKey, nil)
	if err != nil {
		return errorResult(apiErrorText("fetching event details", err)), nil
	}
	if !truthy(result) {
		return textResult(fmt.Sprintf("No details found for event %s.", input.EventID)), nil
	}
	event, ok := asRecord(result)
	if !ok {
		return errorResult(fmt.Sprintf("Invalid event format for event %s.", input.EventID)), nil
	}
	return textResult(FormatEventDetails(event)), nil
}

func (s *MCPServer) executeGetRaces(ctx context.Context, arguments json.RawMessage) (toolOutput, error) {
	var input AccountArgs
	if err := decodeArguments(arguments, &input); err != nil {
		return toolOutput{}, err
	}
	athleteID, ok := s.athleteID(input.AthleteID)
	if !ok {
		return errorResult(missingAthleteText), nil
	}
	oldest, newest, _ := dateRange(s.now(), nil, nil, 0, 356)

	events, err := s.fetchEvents(ctx, athleteID, input.APIKey, oldest, newest)
	if err != nil {
		return errorResult(apiErrorText("fetching events", err)), nil
	}
	if len(events) == 0 {
		return textResult(fmt.Sprintf("No events found for athlete %s in the specified date range.", athleteID)), nil
	}

	var b strings.Builder
	b.WriteString("Races:\n\n")
	for _, event := range events {
		if !strings.HasPrefix(event.Str("category"), "RACE_") {
			continue
		}
		b.WriteString(FormatEventSummary(event, s.sharedEvent(ctx, event, input.APIKey)))
		b.WriteString("\n\n\n")
	}
	return textResult(b.String()), nil
}

// sharedEvent looks up the public event a race is linked to. Failures are
// logged and the race is shown without it.
func (s *MCPServer) sharedEvent(ctx context.Context, event Record, apiKey *string) Record {
	if !event.Truthy("shared_event_id") {
		return nil
	}
	id := event.Str("shared_event_id")
	result, err := s.client.Get(ctx, "/shared-event/"+url.PathEscape(id), apiKey, nil)
	if err != nil {
		s.logger.Warn("failed to fetch shared event", "shared_event_id", id, "error", err)
		return nil
	}
	shared, ok := asRecord(result)
	if !ok {
		s.logger.Warn("unexpected shared event payload", "shared_event_id", id)
		return nil
	}
	return shared
}

func (s *MCPServer) executeDeleteEvent(ctx context.Context, arguments json.RawMessage) (toolOutput, error) {
	var input EventInput
	if err := decodeArguments(arguments, &input); err != nil {
		return toolOutput{}, err
	}
	athleteID, ok := s.athleteID(input.AthleteID)
	if !ok {
		return errorResult(missingAthleteText), nil
	}
	if input.EventID == "" {
		return errorResult("Error: No event ID provided."), nil
	}

	result, err := s.client.Do(ctx, Request{Method: http.MethodDelete, Path: eventPath(athleteID, input.EventID), APIKey: input.APIKey})
	if err != nil {
		return errorResult(apiErrorText("deleting event", err)), nil
	}
	return jsonResult(result), nil
}

func (s *MCPServer) executeDeleteEventsByDateRange(ctx context.Context, arguments json.RawMessage) (toolOutput, error) {
	var input DeleteRangeInput
	if err := decodeArguments(arguments, &input); err != nil {
		return toolOutput{}, err
	}
	athleteID, ok := s.athleteID(input.AthleteID)
	if !ok {
		return errorResult(missingAthleteText), nil
	}
	oldest, err := validateDate(input.StartDate)
	if err != nil {
		return invalidDateResult(), nil
	}
	newest, err := validateDate(input.EndDate)
	if err != nil {
		return invalidDateResult(), nil
	}

	events, err := s.fetchEvents(ctx, athleteID, input.APIKey, oldest, newest)
	if err != nil {
		return errorResult(apiErrorText("deleting events", err)), nil
	}

	var failed []string
	for _, event := range events {
		id := event.StrOr("id", "None")
		if _, err := s.client.Do(ctx, Request{Method: http.MethodDelete, Path: eventPath(athleteID, FlexString(id)), APIKey: input.APIKey}); err != nil {
			s.logger.Warn("failed to delete event", "event_id", id, "error", err)
			failed = append(failed, id)
		}
	}
	return textResult(fmt.Sprintf("Deleted %d events. Failed to delete %d events: [%s]",
		len(events)-len(failed), len(failed), strings.Join(failed, ", "))), nil
}

// eventPayload is the body sent when creating or updating a planned workout.
type eventPayload struct {
	StartDateLocal string  `json:"start_date_local"`
	Category       string  `json:"category"`
	Name           string  `json:"name"`
	Description    *string `json:"description,omitempty"`
	Type           string  `json:"type"`
	MovingTime     *int    `json:"moving_time,omitempty"`
	Distance       *int    `json:"distance,omitempty"`
}

var workoutTypeKeywords = []struct {
	workoutType string
	keywords    []string
}{
	{"Ride", []string{"bike", "cycle", "cycling", "ride"}},
	{"Run", []string{"run", "running", "jog", "jogging"}},
	{"Swim", []string{"swim", "swimming", "pool"}},
	{"Walk", []string{"walk", "walking", "hike", "hiking"}},
	{"Row", []string{"row", "rowing"}},
}

// resolveWorkoutType prefers the explicit type, then the first sport whose
// keyword appears in the name, then Ride.
func resolveWorkoutType(name, workoutType string) string {
	if workoutType != "" {
		return workoutType
	}
	lower := strings.ToLower(name)
	for _, entry := range workoutTypeKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(lower, keyword) {
				return entry.workoutType
			}
		}
	}
	return "Ride"
}

func (s *MCPServer) executeAddOrUpdateEvent(ctx context.Context, arguments json.RawMessage) (toolOutput, error) {
	var input EventWriteInput
	if err := decodeArguments(arguments, &input); err != nil {
		return toolOutput{}, err
	}
	// An empty athlete_id falls back to the configured athlete here.
	if input.AthleteID != nil && *input.AthleteID == "" {
		input.AthleteID = nil
	}
	athleteID, ok := s.athleteID(input.AthleteID)
	if !ok {
		return errorResult(missingAthleteText), nil
	}
	startDate := s.now().Format(dateLayout)
	if input.StartDate != nil && *input.StartDate != "" {
		if _, err := validateDate(*input.StartDate); err != nil {
			return invalidDateResult(), nil
		}
		startDate = *input.StartDate
	}

	payload := eventPayload{
		StartDateLocal: startDate + "T00:00:00",
		Category:       "WORKOUT",
		Name:           input.Name,
		Type:           resolveWorkoutType(input.Name, input.WorkoutType),
		MovingTime:     input.MovingTime,
		Distance:       input.Distance,
	}
	if input.WorkoutDoc != nil {
		description, err := input.WorkoutDoc.Text()
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		payload.Description = &description
	}

	request := Request{Method: http.MethodPost, Path: athletePath(athleteID, "events"), APIKey: input.APIKey, Body: payload}
	action, doing := "created", "creating"
	if input.EventID != nil && *input.EventID != "" {
		request.Method = http.MethodPut
		request.Path = eventPath(athleteID, *input.EventID)
		action, doing = "updated", "updating"
	}

	result, err := s.client.Do(ctx, request)
	if err != nil {
		data, _ := json.Marshal(payload)
		return errorResult(fmt.Sprintf("%s, data used: %s", apiErrorText(doing+" event", err), data)), nil
	}
	if !truthy(result) {
		return textResult(fmt.Sprintf("No events %s for athlete %s.", action, athleteID)), nil
	}
	if event, ok := asRecord(result); ok {
		data, err := json.MarshalIndent(event, "", "  ")
		if err != nil {
			return errorResult(fmt.Sprintf("Error: failed to encode result: %v", err)), nil
		}
		return textResult(fmt.Sprintf("Successfully %s event: %s", action, data)), nil
	}
	return textResult(fmt.Sprintf("Event %s successfully at %s", action, startDate)), nil
}

func (s *MCPServer) executeGetWorkouts(ctx context.Context, arguments json.RawMessage) (toolOutput, error) {
	var input AccountArgs
	if err := decodeArguments(arguments, &input); err != nil {
		return toolOutput{}, err
	}
	athleteID, ok := s.athleteID(input.AthleteID)
	if !ok {
		return errorResult(missingAthleteText), nil
	}

	result, err := s.client.Get(ctx, athletePath(athleteID, "workouts"), input.APIKey, nil)
	if err != nil {
		return errorResult(apiErrorText("fetching workouts", err)), nil
	}
	list, _ := result.([]any)
	workouts := records(list)
	if len(workouts) == 0 {
		return textResult(fmt.Sprintf("No workouts found for athlete %s.", athleteID)), nil
	}

	var b strings.Builder
	b.WriteString("Workouts:\n\n")
	for _, workout := range workouts {
		b.WriteString(FormatWorkout(workout))
		b.WriteString("\n\n")
	}
	return textResult(b.String()), nil
}
