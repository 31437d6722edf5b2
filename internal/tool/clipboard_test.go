package tool

import (
	"context"
	"strings"
	"testing"
)

func TestClipboard_Get(t *testing.T) {
	tool := &ClipboardTool{
		ReadFn: func() (string, error) { return "copied text", nil },
	}
	result, err := tool.Execute(context.Background(), map[string]any{"action": "get"})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(result.Content, "copied text") {
		t.Errorf("expected clipboard content, got %q", result.Content)
	}
}

func TestClipboard_Set(t *testing.T) {
	var written string
	tool := &ClipboardTool{
		WriteFn: func(s string) error { written = s; return nil },
	}
	result, err := tool.Execute(context.Background(), map[string]any{
		"action": "set",
		"text":   "hello",
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if result.IsError() {
		t.Fatalf("unexpected error result: %s", result.Content)
	}
	if written != "hello" {
		t.Errorf("expected write of %q, got %q", "hello", written)
	}
}

func TestClipboard_SetWithoutText(t *testing.T) {
	tool := &ClipboardTool{WriteFn: func(string) error { return nil }}
	result, err := tool.Execute(context.Background(), map[string]any{"action": "set"})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !result.IsError() {
		t.Error("expected error result for set without text")
	}
}

func TestClipboard_UnknownAction(t *testing.T) {
	tool := &ClipboardTool{}
	result, err := tool.Execute(context.Background(), map[string]any{"action": "clear"})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !result.IsError() {
		t.Error("expected error result for unknown action")
	}
}
