package protocol

import (
	"encoding/json"
	"fmt"
)

// ResultStatus tags a tool result as success or error.
type ResultStatus string

const (
	StatusSuccess ResultStatus = "success"
	StatusError   ResultStatus = "error"
)

// ToolResult is the outcome of one tool execution. Content is always a
// serialized JSON document, never a raw object: the conversation transport
// only accepts string payloads.
type ToolResult struct {
	Status  ResultStatus `json:"status"`
	Content string       `json:"content"`
}

// IsError returns true for error-tagged results.
func (r ToolResult) IsError() bool {
	return r.Status == StatusError
}

// SuccessResult marshals v into a success ToolResult. If v cannot be
// marshaled the result degrades to an error result instead of panicking.
func SuccessResult(v any) ToolResult {
	data, err := json.Marshal(v)
	if err != nil {
		return ErrorResult(fmt.Sprintf("marshal result: %v", err))
	}
	return ToolResult{Status: StatusSuccess, Content: string(data)}
}

// ErrorResult builds an error ToolResult with content {"error": msg}.
func ErrorResult(msg string) ToolResult {
	data, _ := json.Marshal(map[string]string{"error": msg})
	return ToolResult{Status: StatusError, Content: string(data)}
}

// ErrorResultf is ErrorResult with fmt.Sprintf formatting.
func ErrorResultf(format string, args ...any) ToolResult {
	return ErrorResult(fmt.Sprintf(format, args...))
}
