package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	protocolVersion = "2024-11-05"
	serverName      = "intervals-icu-mcp-server"
	maxMessageSize  = 1 << 20
)

var errUnknownTool = errors.New("unknown tool")

// MCPServer handles the Model Context Protocol communication
type MCPServer struct {
	client    *IntervalsClient
	config    Config
	logger    *slog.Logger
	tools     []MCPTool
	resources []MCPResource
	version   string
	now       func() time.Time
}

// session is the per-connection protocol state.
type session struct {
	mu          sync.Mutex
	initialized bool
}

func (s *session) setInitialized() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = true
}

func (s *session) isInitialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// NewMCPServer creates a new MCP server instance
func NewMCPServer(cfg Config, client *IntervalsClient, logger *slog.Logger) *MCPServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &MCPServer{
		client:    client,
		config:    cfg,
		logger:    logger,
		tools:     defineMCPTools(),
		resources: defineMCPResources(),
		version:   Version,
		now:       time.Now,
	}
}

// Run serves one session over newline-delimited JSON until in is exhausted.
func (s *MCPServer) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxMessageSize)
	writer := bufio.NewWriter(out)
	sess := &session{}

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		response := s.handleMessage(ctx, sess, line)
		if response == nil {
			continue
		}
		if err := s.writeMessage(writer, response); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading from input: %w", err)
	}
	return nil
}

// writeMessage writes a single newline-terminated message.
func (s *MCPServer) writeMessage(w *bufio.Writer, message *MCPResponse) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("error marshaling message: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("error writing message: %w", err)
	}
	return w.Flush()
}

// handleMessage decodes one JSON-RPC message and returns the response to
// send, or nil for notifications.
func (s *MCPServer) handleMessage(ctx context.Context, sess *session, line []byte) *MCPResponse {
	var request MCPRequest
	if err := json.Unmarshal(line, &request); err != nil {
		return errorResponse(nil, codeParseError, "Parse error", err.Error())
	}
	if request.Method == "" {
		if request.isNotification() {
			return nil
		}
		return errorResponse(request.ID, codeInvalidRequest, "Invalid Request", "missing method")
	}

	result, rpcErr := s.handleRequest(ctx, sess, &request)
	if request.isNotification() {
		return nil
	}
	if rpcErr != nil {
		return &MCPResponse{JSONRPC: "2.0", ID: request.ID, Error: rpcErr}
	}
	return &MCPResponse{JSONRPC: "2.0", ID: request.ID, Result: result}
}

func errorResponse(id json.RawMessage, code int, message string, data interface{}) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &MCPError{Code: code, Message: message, Data: data},
	}
}

// handleRequest processes incoming MCP requests
func (s *MCPServer) handleRequest(ctx context.Context, sess *session, request *MCPRequest) (interface{}, *MCPError) {
	switch request.Method {
	case "initialize":
		return s.handleInitialize(sess), nil
	case "ping", "notifications/initialized", "notifications/cancelled":
		return map[string]interface{}{}, nil
	case "tools/list", "tools/call", "resources/list", "resources/read":
		if !sess.isInitialized() {
			return nil, &MCPError{Code: codeNotInitialized, Message: "Not initialized", Data: "Server not initialized"}
		}
	default:
		return nil, &MCPError{Code: codeMethodNotFound, Message: "Method not found", Data: fmt.Sprintf("Unknown method: %s", request.Method)}
	}

	switch request.Method {
	case "tools/list":
		return map[string]interface{}{"tools": s.tools}, nil
	case "tools/call":
		return s.handleToolsCall(ctx, request)
	case "resources/list":
		return map[string]interface{}{"resources": s.resources}, nil
	default:
		return s.handleResourcesRead(ctx, request)
	}
}

// handleInitialize processes the initialize request
func (s *MCPServer) handleInitialize(sess *session) interface{} {
	sess.setInitialized()
	return map[string]interface{}{
		"protocolVersion": protocolVersion,
		"capabilities": map[string]interface{}{
			"tools":     map[string]interface{}{},
			"resources": map[string]interface{}{},
		},
		"serverInfo": map[string]interface{}{
			"name":    serverName,
			"version": s.version,
		},
	}
}

// handleToolsCall executes a tool call
func (s *MCPServer) handleToolsCall(ctx context.Context, request *MCPRequest) (interface{}, *MCPError) {
	var params struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(request.Params, &params); err != nil {
		return nil, &MCPError{Code: codeInvalidParams, Message: "Invalid params", Data: err.Error()}
	}
	arguments := params.Arguments
	if len(arguments) == 0 || string(arguments) == "null" {
		arguments = json.RawMessage("{}")
	}

	logger := s.logger.With("tool", params.Name, "request_id", uuid.NewString())
	start := time.Now()
	output, err := s.executeTool(ctx, params.Name, arguments)
	elapsed := time.Since(start)
	if errors.Is(err, errUnknownTool) {
		logger.Warn("unknown tool requested")
		return nil, &MCPError{Code: codeInvalidParams, Message: "Unknown tool", Data: err.Error()}
	}
	if err != nil {
		logger.Warn("invalid tool arguments", "error", err)
		recordToolCall(params.Name, true, elapsed)
		return nil, &MCPError{Code: codeInvalidParams, Message: "Invalid params", Data: err.Error()}
	}

	recordToolCall(params.Name, output.IsError, elapsed)
	logger.Info("tool call completed", "elapsed", elapsed, "is_error", output.IsError)

	return ToolResult{
		Content:           []ContentBlock{{Type: "text", Text: output.Text}},
		StructuredContent: output.Structured,
		IsError:           output.IsError,
	}, nil
}

// handleResourcesRead reads a specific resource
func (s *MCPServer) handleResourcesRead(ctx context.Context, request *MCPRequest) (interface{}, *MCPError) {
	var params struct {
		URI string `json:"uri"`
	}
	if err := json.Unmarshal(request.Params, &params); err != nil {
		return nil, &MCPError{Code: codeInvalidParams, Message: "Invalid params", Data: err.Error()}
	}

	content, mimeType, err := s.readResource(ctx, params.URI)
	if errors.Is(err, errUnknownResource) {
		return nil, &MCPError{Code: codeInvalidParams, Message: "Invalid params", Data: err.Error()}
	}
	if err != nil {
		s.logger.Error("failed to read resource", "uri", params.URI, "error", err)
		return nil, &MCPError{Code: codeInternalError, Message: "Internal error", Data: err.Error()}
	}

	return map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"uri":      params.URI,
				"mimeType": mimeType,
				"text":     content,
			},
		},
	}, nil
}

var errUnknownResource = errors.New("unknown resource")

// defineMCPResources defines the available MCP resources
func defineMCPResources() []MCPResource {
	return []MCPResource{
		{
			URI:         "intervals://athlete/profile",
			Name:        "Athlete Profile",
			Description: "Raw Intervals.icu profile of the configured athlete",
			MimeType:    "application/json",
		},
		{
			URI:         "intervals://wellness/recent",
			Name:        "Recent Wellness Data",
			Description: "Wellness records for the last 7 days",
			MimeType:    "application/json",
		},
		{
			URI:         "intervals://docs/workout-syntax",
			Name:        "Workout Syntax",
			Description: "Reference for the Intervals.icu workout description syntax",
			MimeType:    "text/markdown",
		},
	}
}

// readResource reads a specific resource
func (s *MCPServer) readResource(ctx context.Context, uri string) (string, string, error) {
	switch uri {
	case "intervals://athlete/profile":
		athlete, err := s.client.Get(ctx, "/athlete/"+s.config.AthleteID, nil, nil)
		if err != nil {
			return "", "", fmt.Errorf("failed to get athlete profile: %w", err)
		}
		data, err := json.MarshalIndent(athlete, "", "  ")
		if err != nil {
			return "", "", fmt.Errorf("failed to marshal athlete data: %w", err)
		}
		return string(data), "application/json", nil

	case "intervals://wellness/recent":
		now := s.now()
		params := url.Values{
			"oldest": {now.AddDate(0, 0, -7).Format(dateLayout)},
			"newest": {now.Format(dateLayout)},
		}
		wellness, err := s.client.Get(ctx, "/athlete/"+s.config.AthleteID+"/wellness", nil, params)
		if err != nil {
			return "", "", fmt.Errorf("failed to get wellness data: %w", err)
		}
		data, err := json.MarshalIndent(wellness, "", "  ")
		if err != nil {
			return "", "", fmt.Errorf("failed to marshal wellness data: %w", err)
		}
		return string(data), "application/json", nil

	case "intervals://docs/workout-syntax":
		data, err := os.ReadFile(s.config.WorkoutSyntaxPath)
		if err != nil {
			return "", "", fmt.Errorf("failed to read workout syntax reference: %w", err)
		}
		return string(data), "text/markdown", nil

	default:
		return "", "", fmt.Errorf("%w: %s", errUnknownResource, uri)
	}
}
