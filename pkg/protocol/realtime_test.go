package protocol

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestFunctionCalls_OutputItemDone(t *testing.T) {
	raw := `{
		"type": "response.output_item.done",
		"item": {"type": "function_call", "call_id": "call_1", "name": "webhook_call", "arguments": "{\"endpoint_key\":\"weather-api\"}"}
	}`
	e, err := ParseServerEvent([]byte(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	calls := e.FunctionCalls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	if calls[0].CallID != "call_1" || calls[0].Name != "webhook_call" {
		t.Errorf("unexpected call: %+v", calls[0])
	}
}

func TestFunctionCalls_ResponseDone(t *testing.T) {
	raw := `{
		"type": "response.done",
		"response": {"id": "resp_1", "output": [
			{"type": "message", "role": "assistant"},
			{"type": "function_call", "call_id": "call_2", "name": "current_datetime", "arguments": "{}"}
		]}
	}`
	e, err := ParseServerEvent([]byte(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	calls := e.FunctionCalls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	if calls[0].Name != "current_datetime" {
		t.Errorf("unexpected call name %q", calls[0].Name)
	}
}

func TestFunctionCalls_IgnoresOtherEvents(t *testing.T) {
	e := &ServerEvent{Type: EventTypeSessionCreated}
	if calls := e.FunctionCalls(); len(calls) != 0 {
		t.Errorf("expected no calls, got %d", len(calls))
	}
}

func TestNewFunctionOutputEvent(t *testing.T) {
	ev := NewFunctionOutputEvent("call_9", `{"ok":true}`)
	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	for _, want := range []string{
		`"type":"conversation.item.create"`,
		`"type":"function_call_output"`,
		`"call_id":"call_9"`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("missing %s in %s", want, s)
		}
	}
}

func TestToolResult_ContentAlwaysJSON(t *testing.T) {
	results := []ToolResult{
		SuccessResult(map[string]any{"answer": 42}),
		SuccessResult("plain string"),
		ErrorResult("boom"),
		ErrorResultf("endpoint %q not found", "foo"),
		SuccessResult(make(chan int) != nil), // bool, still marshalable
	}
	for i, r := range results {
		if !json.Valid([]byte(r.Content)) {
			t.Errorf("result %d content is not valid JSON: %q", i, r.Content)
		}
	}
}

func TestSuccessResult_UnmarshalableValue(t *testing.T) {
	r := SuccessResult(make(chan int))
	if !r.IsError() {
		t.Error("expected error result for unmarshalable value")
	}
	if !json.Valid([]byte(r.Content)) {
		t.Errorf("error content is not valid JSON: %q", r.Content)
	}
}
