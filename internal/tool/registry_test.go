package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/voxlane-io/voxlane/internal/capability"
	"github.com/voxlane-io/voxlane/pkg/protocol"
)

type fakeTool struct {
	name string
	caps []string
}

func (f *fakeTool) Name() string                   { return f.name }
func (f *fakeTool) Description() string            { return "fake " + f.name }
func (f *fakeTool) Parameters() map[string]any     { return map[string]any{"type": "object"} }
func (f *fakeTool) RequiredCapabilities() []string { return f.caps }
func (f *fakeTool) Execute(_ context.Context, _ map[string]any) (protocol.ToolResult, error) {
	return protocol.SuccessResult(map[string]any{"tool": f.name}), nil
}

type failingProvider struct{}

func (failingProvider) Snapshot() (map[string]bool, error) {
	return nil, errors.New("snapshot unavailable")
}
func (failingProvider) Subscribe(func(map[string]bool)) {}

func TestEnabledDefinitions_FiltersByCapability(t *testing.T) {
	caps := capability.NewStaticProvider(map[string]bool{
		"brave_search": false,
		"clipboard":    true,
	})
	r := NewRegistry(caps, nil)
	r.Register(&fakeTool{name: "webhook_call"})
	r.Register(&fakeTool{name: "web_search", caps: []string{"brave_search"}})
	r.Register(&fakeTool{name: "clipboard", caps: []string{"clipboard"}})

	defs := r.EnabledDefinitions()
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Name
	}
	if len(names) != 2 || names[0] != "webhook_call" || names[1] != "clipboard" {
		t.Errorf("unexpected enabled set: %v", names)
	}
}

func TestEnabledDefinitions_MissingFlagDisables(t *testing.T) {
	// A flag absent from the snapshot counts as false.
	caps := capability.NewStaticProvider(map[string]bool{})
	r := NewRegistry(caps, nil)
	r.Register(&fakeTool{name: "web_search", caps: []string{"brave_search"}})

	if defs := r.EnabledDefinitions(); len(defs) != 0 {
		t.Errorf("expected no enabled tools, got %d", len(defs))
	}
}

func TestEnabledDefinitions_FailsOpenOnSnapshotError(t *testing.T) {
	r := NewRegistry(failingProvider{}, nil)
	r.Register(&fakeTool{name: "web_search", caps: []string{"brave_search"}})
	r.Register(&fakeTool{name: "webhook_call"})

	defs := r.EnabledDefinitions()
	if len(defs) != 2 {
		t.Errorf("expected fail-open to enable all tools, got %d", len(defs))
	}
}

func TestEnabledDefinitions_NilProviderEnablesAll(t *testing.T) {
	r := NewRegistry(nil, nil)
	r.Register(&fakeTool{name: "web_search", caps: []string{"brave_search"}})

	if defs := r.EnabledDefinitions(); len(defs) != 1 {
		t.Errorf("expected all tools enabled with nil provider, got %d", len(defs))
	}
}

func TestEnabledDefinitions_PreservesRegistrationOrder(t *testing.T) {
	r := NewRegistry(nil, nil)
	for _, name := range []string{"zeta", "alpha", "mid"} {
		r.Register(&fakeTool{name: name})
	}
	defs := r.EnabledDefinitions()
	if defs[0].Name != "zeta" || defs[1].Name != "alpha" || defs[2].Name != "mid" {
		t.Errorf("registration order not preserved: %v", defs)
	}
}

func TestExecute_UnknownTool(t *testing.T) {
	r := NewRegistry(nil, nil)
	_, err := r.Execute(context.Background(), "nope", nil)
	if err == nil {
		t.Fatal("expected error for unknown tool")
	}
}
