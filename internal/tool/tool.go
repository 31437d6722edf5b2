package tool

import (
	"context"

	"github.com/voxlane-io/voxlane/pkg/protocol"
)

// Tool is the interface every callable tool must implement.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]any // JSON Schema
	// RequiredCapabilities lists the capability flags this tool depends on.
	// An empty list means the tool is always enabled.
	RequiredCapabilities() []string
	// Execute runs the tool. Expected failures come back as error-tagged
	// results; a non-nil error means the handler itself failed and gets
	// converted to an error result at the dispatch boundary.
	Execute(ctx context.Context, params map[string]any) (protocol.ToolResult, error)
}

func getString(params map[string]any, key string) string {
	v, _ := params[key].(string)
	return v
}

func getMap(params map[string]any, key string) map[string]any {
	v, _ := params[key].(map[string]any)
	return v
}

func getInt(params map[string]any, key string, fallback int) int {
	switch v := params[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return fallback
}
