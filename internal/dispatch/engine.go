// Package dispatch binds model-issued function calls to registered tools and
// guarantees the two-step result protocol back to the conversation transport.
package dispatch

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	"github.com/voxlane-io/voxlane/internal/tool"
	"github.com/voxlane-io/voxlane/pkg/protocol"
)

// ResultSender is the transport-boundary interface for returning function
// results. SendFunctionResult must emit both wire messages (the
// function_call_output item and the response.create trigger) as one
// operation; the model stalls mid-turn if either is missing.
type ResultSender interface {
	SendFunctionResult(callID, content string) error
}

// HistorySink receives a record of every tool execution.
type HistorySink interface {
	Append(tool, status string, arguments map[string]any, result string) string
}

// Renderer receives results for display. parsed is the decoded content when
// it is valid JSON, or the raw string when it is not.
type Renderer interface {
	RenderToolResult(toolName string, status protocol.ResultStatus, parsed any)
}

// Engine watches inbound protocol events for function-call requests,
// de-duplicates by call identifier, runs the matching tool exactly once, and
// sends the result sequence back to the transport. One call is processed at
// a time; there is no cancellation and no engine-level timeout.
type Engine struct {
	registry *tool.Registry
	sender   ResultSender
	history  HistorySink
	renderer Renderer
	logger   *slog.Logger

	mu         sync.Mutex
	lastCallID string

	slotMu sync.Mutex // serializes handler execution: one dispatch slot
}

// NewEngine creates a dispatch engine. history, renderer, and logger may be
// nil.
func NewEngine(registry *tool.Registry, sender ResultSender, history HistorySink, renderer Renderer, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		registry: registry,
		sender:   sender,
		history:  history,
		renderer: renderer,
		logger:   logger,
	}
}

// HandleEvent inspects an inbound server event and dispatches any function
// call it carries. Duplicate deliveries of the tracked call id are ignored.
func (e *Engine) HandleEvent(ctx context.Context, ev *protocol.ServerEvent) {
	for _, call := range ev.FunctionCalls() {
		e.Dispatch(ctx, call)
	}
}

// Dispatch runs one function call to completion, including the result send.
func (e *Engine) Dispatch(ctx context.Context, call protocol.FunctionCall) {
	if !e.claim(call.CallID) {
		e.logger.Debug("duplicate function call ignored", "call_id", call.CallID)
		return
	}

	e.slotMu.Lock()
	defer e.slotMu.Unlock()

	t, ok := e.registry.Get(call.Name)
	if !ok {
		// Unknown tool names are logged and dropped without a wire
		// response.
		e.logger.Warn("unknown tool requested", "tool", call.Name, "call_id", call.CallID)
		return
	}

	args, parseErr := parseArguments(call.Arguments)

	var result protocol.ToolResult
	switch {
	case parseErr != nil:
		result = protocol.ErrorResultf("invalid tool arguments: %v", parseErr)
	default:
		res, err := t.Execute(ctx, args)
		if err != nil {
			e.logger.Warn("tool error", "tool", call.Name, "call_id", call.CallID, "error", err)
			result = protocol.ErrorResult(err.Error())
		} else {
			result = res
		}
	}

	e.logger.Info("tool dispatched",
		"tool", call.Name,
		"call_id", call.CallID,
		"status", string(result.Status),
	)

	if e.history != nil {
		e.history.Append(call.Name, string(result.Status), args, result.Content)
	}
	if e.renderer != nil {
		e.renderer.RenderToolResult(call.Name, result.Status, parseContent(result.Content))
	}

	// The model must always receive a function result, even on failure, or
	// the conversation turn hangs forever.
	if err := e.sender.SendFunctionResult(call.CallID, result.Content); err != nil {
		e.logger.Error("send function result", "call_id", call.CallID, "error", err)
	}
}

// claim tracks the call id for idempotent de-duplication: the transport may
// redeliver events, and a call id matching the tracked one is ignored. A new
// distinct id replaces the previous (completed) one.
func (e *Engine) claim(callID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if callID == "" || callID == e.lastCallID {
		return false
	}
	e.lastCallID = callID
	return true
}

// parseArguments decodes the model-supplied argument JSON, defaulting to an
// empty object when absent or blank.
func parseArguments(raw string) (map[string]any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, err
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

// parseContent decodes result content for display, falling back to the raw
// string so a parse failure can never abort the result send.
func parseContent(content string) any {
	var parsed any
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return content
	}
	return parsed
}
