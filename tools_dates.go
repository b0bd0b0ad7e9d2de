package main

import (
	"encoding/json"
	"fmt"
	"os"
)

func (s *MCPServer) executeCalculateDateInfo(arguments json.RawMessage) (toolOutput, error) {
	var input DateInput
	if err := decodeArguments(arguments, &input); err != nil {
		return toolOutput{}, err
	}
	info, err := calculateDateInfo(input.Date, s.now())
	if err != nil {
		out := jsonResult(map[string]interface{}{"error": true, "message": err.Error()})
		out.IsError = true
		return out, nil
	}
	return jsonResult(info), nil
}

func (s *MCPServer) executeGetWorkoutSyntax() toolOutput {
	data, err := os.ReadFile(s.config.WorkoutSyntaxPath)
	if err != nil {
		s.logger.Warn("workout syntax reference unavailable", "path", s.config.WorkoutSyntaxPath, "error", err)
		return errorResult(fmt.Sprintf("Workout syntax reference is not available at %s.", s.config.WorkoutSyntaxPath))
	}
	return textResult(string(data))
}
