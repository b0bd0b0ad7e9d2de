package main

import (
	"encoding/json"
	"fmt"
)

// MCP Protocol Types
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// isNotification reports whether the message expects no response.
func (r *MCPRequest) isNotification() bool {
	return len(r.ID) == 0
}

type MCPResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *MCPError       `json:"error,omitempty"`
}

type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// JSON-RPC and MCP error codes.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
	codeNotInitialized = -32002
)

type MCPTool struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	InputSchema MCPInputSchema   `json:"inputSchema"`
	Annotations *ToolAnnotations `json:"annotations,omitempty"`
}

type MCPInputSchema struct {
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties"`
	Required   []string               `json:"required,omitempty"`
}

// ToolAnnotations are behavioural hints for the agent host.
type ToolAnnotations struct {
	ReadOnlyHint    bool `json:"readOnlyHint"`
	DestructiveHint bool `json:"destructiveHint"`
	IdempotentHint  bool `json:"idempotentHint"`
	OpenWorldHint   bool `json:"openWorldHint"`
}

type MCPResource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type ToolResult struct {
	Content           []ContentBlock `json:"content"`
	StructuredContent interface{}    `json:"structuredContent,omitempty"`
	IsError           bool           `json:"isError,omitempty"`
}

// toolOutput is what a tool handler produces before it is wrapped in a
// ToolResult.
type toolOutput struct {
	Text       string
	Structured interface{}
	IsError    bool
}

func textResult(text string) toolOutput {
	return toolOutput{Text: text}
}

func errorResult(text string) toolOutput {
	return toolOutput{Text: text, IsError: true}
}

// jsonResult renders v as indented JSON. Objects are also attached as
// structured content.
func jsonResult(v interface{}) toolOutput {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("Error: failed to encode result: %v", err))
	}
	out := toolOutput{Text: string(data)}
	switch v.(type) {
	case Record, map[string]interface{}, DateInfo, TimeInfo:
		out.Structured = v
	}
	return out
}

// FlexString accepts a JSON string or number; agents send ids both ways.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected a string or a number, got %s", data)
	}
	*f = FlexString(n.String())
	return nil
}

// Tool input types

// AccountArgs are the per-call overrides every Intervals.icu tool accepts.
type AccountArgs struct {
	AthleteID *FlexString `json:"athlete_id"`
	APIKey    *string     `json:"api_key"`
}

type DateRangeArgs struct {
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

type ActivitiesInput struct {
	AccountArgs
	DateRangeArgs
	Limit          *int `json:"limit"`
	IncludeUnnamed bool `json:"include_unnamed"`
}

type ActivityInput struct {
	ActivityID FlexString `json:"activity_id"`
	APIKey     *string    `json:"api_key"`
}

type EventsInput struct {
	AccountArgs
	DateRangeArgs
}

type EventInput struct {
	AccountArgs
	EventID FlexString `json:"event_id"`
}

type DeleteRangeInput struct {
	AccountArgs
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type EventWriteInput struct {
	AccountArgs
	WorkoutType string      `json:"workout_type"`
	Name        string      `json:"name"`
	EventID     *FlexString `json:"event_id"`
	StartDate   *string     `json:"start_date"`
	WorkoutDoc  *WorkoutDoc `json:"workout_doc"`
	MovingTime  *int        `json:"moving_time"`
	Distance    *int        `json:"distance"`
}

type CurvesInput struct {
	AccountArgs
	Curves string `json:"curves"`
	Type   string `json:"type"`
	GAP    bool   `json:"gap"`
}

type DateInput struct {
	Date string `json:"date"`
}
