package tool

import (
	"context"
	"errors"
	"fmt"

	"github.com/voxlane-io/voxlane/internal/endpoint"
	"github.com/voxlane-io/voxlane/internal/webhook"
	"github.com/voxlane-io/voxlane/pkg/protocol"
)

// WebhookCallTool invokes user-configured webhook endpoints. It is always
// enabled: its dependencies are runtime-configured endpoints, not startup
// secrets.
type WebhookCallTool struct {
	Store   endpoint.Store
	Invoker *webhook.Invoker
}

func (t *WebhookCallTool) Name() string { return "webhook_call" }
func (t *WebhookCallTool) Description() string {
	return "Call a user-configured webhook endpoint by its key. Endpoints are set up by the user; on an unknown key the error lists the configured keys."
}
func (t *WebhookCallTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"endpoint_key": map[string]any{
				"type":        "string",
				"description": "Key of the configured endpoint, e.g. weather-api",
			},
			"method": map[string]any{
				"type":        "string",
				"enum":        []string{"GET", "POST"},
				"description": "HTTP method to use; the endpoint's configured method wins",
			},
			"payload": map[string]any{
				"type":        "object",
				"description": "Parameters to send: query string for GET, JSON body for POST",
			},
			"query": map[string]any{
				"type":        "string",
				"description": "Bare search query for search-style endpoints when no payload is given",
			},
		},
		"required": []string{"endpoint_key"},
	}
}
func (t *WebhookCallTool) RequiredCapabilities() []string { return nil }

func (t *WebhookCallTool) Execute(ctx context.Context, params map[string]any) (protocol.ToolResult, error) {
	key := getString(params, "endpoint_key")
	if key == "" {
		return protocol.ErrorResult("endpoint_key is required"), nil
	}

	cfg, storedKey, err := endpoint.Resolve(key, t.Store)
	if err != nil {
		var nf *endpoint.NotFoundError
		if errors.As(err, &nf) {
			return protocol.ErrorResult(nf.Error()), nil
		}
		return protocol.ToolResult{}, fmt.Errorf("webhook_call: %w", err)
	}

	result, err := t.Invoker.Invoke(ctx,
		storedKey,
		cfg,
		getString(params, "method"),
		getMap(params, "payload"),
		getString(params, "query"),
	)
	if err != nil {
		// Invocation failures (missing payload, non-2xx, transport errors)
		// go back to the model as error results so it can adjust the call.
		return protocol.ErrorResult(err.Error()), nil
	}

	return protocol.SuccessResult(result), nil
}
