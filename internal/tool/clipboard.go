package tool

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/voxlane-io/voxlane/pkg/protocol"
)

// CapClipboard gates clipboard access on a host that actually has one.
const CapClipboard = "clipboard"

// ClipboardTool reads and writes the system clipboard.
type ClipboardTool struct {
	// ReadFn and WriteFn are overridable for tests; defaults use the
	// system clipboard.
	ReadFn  func() (string, error)
	WriteFn func(string) error
}

func (t *ClipboardTool) Name() string { return "clipboard" }
func (t *ClipboardTool) Description() string {
	return "Read from or write to the system clipboard"
}
func (t *ClipboardTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"action": map[string]any{
				"type":        "string",
				"enum":        []string{"get", "set"},
				"description": "get reads the clipboard, set writes to it",
			},
			"text": map[string]any{
				"type":        "string",
				"description": "Text to write (required for set)",
			},
		},
		"required": []string{"action"},
	}
}
func (t *ClipboardTool) RequiredCapabilities() []string { return []string{CapClipboard} }

func (t *ClipboardTool) Execute(_ context.Context, params map[string]any) (protocol.ToolResult, error) {
	read := t.ReadFn
	if read == nil {
		read = clipboard.ReadAll
	}
	write := t.WriteFn
	if write == nil {
		write = clipboard.WriteAll
	}

	switch action := getString(params, "action"); action {
	case "get":
		text, err := read()
		if err != nil {
			return protocol.ToolResult{}, fmt.Errorf("clipboard: read: %w", err)
		}
		return protocol.SuccessResult(map[string]any{"text": text}), nil
	case "set":
		text := getString(params, "text")
		if text == "" {
			return protocol.ErrorResult("clipboard: text is required for set"), nil
		}
		if err := write(text); err != nil {
			return protocol.ToolResult{}, fmt.Errorf("clipboard: write: %w", err)
		}
		return protocol.SuccessResult(map[string]any{"written": len(text)}), nil
	default:
		return protocol.ErrorResultf("clipboard: unknown action %q", action), nil
	}
}
