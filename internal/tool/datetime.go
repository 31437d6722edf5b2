package tool

import (
	"context"
	"time"

	"github.com/voxlane-io/voxlane/pkg/protocol"
)

// DatetimeTool reports the current date and time, optionally in a given
// IANA timezone.
type DatetimeTool struct {
	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

func (t *DatetimeTool) Name() string { return "current_datetime" }
func (t *DatetimeTool) Description() string {
	return "Get the current date and time, optionally for a specific timezone"
}
func (t *DatetimeTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"timezone": map[string]any{
				"type":        "string",
				"description": "IANA timezone name, e.g. America/New_York (default local)",
			},
		},
	}
}
func (t *DatetimeTool) RequiredCapabilities() []string { return nil }

func (t *DatetimeTool) Execute(_ context.Context, params map[string]any) (protocol.ToolResult, error) {
	now := time.Now
	if t.Now != nil {
		now = t.Now
	}

	current := now()
	tz := getString(params, "timezone")
	if tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return protocol.ErrorResultf("current_datetime: unknown timezone %q", tz), nil
		}
		current = current.In(loc)
	}

	return protocol.SuccessResult(map[string]any{
		"datetime": current.Format(time.RFC3339),
		"date":     current.Format("2006-01-02"),
		"time":     current.Format("15:04:05"),
		"weekday":  current.Weekday().String(),
		"timezone": current.Location().String(),
		"unix":     current.Unix(),
	}), nil
}
