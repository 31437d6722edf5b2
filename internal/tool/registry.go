package tool

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/voxlane-io/voxlane/internal/capability"
	"github.com/voxlane-io/voxlane/pkg/protocol"
)

// Registry holds registered tools and computes the enabled subset that gets
// advertised to the model. The registry itself is immutable after startup;
// enablement is a filtered view over the current capability snapshot.
type Registry struct {
	mu    sync.RWMutex
	order []string
	tools map[string]Tool
	caps  capability.SnapshotProvider
	log   *slog.Logger
}

// NewRegistry creates an empty registry. caps may be nil, in which case
// every tool is enabled.
func NewRegistry(caps capability.SnapshotProvider, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		tools: make(map[string]Tool),
		caps:  caps,
		log:   logger,
	}
}

// Register adds a tool to the registry, preserving insertion order.
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[t.Name()]; !exists {
		r.order = append(r.order, t.Name())
	}
	r.tools[t.Name()] = t
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// List returns the names of all registered tools in registration order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// EnabledDefinitions returns definitions for the tools whose required
// capabilities are all satisfied by the current snapshot, in registration
// order. When the snapshot cannot be evaluated the gate fails open and every
// tool is included: an empty toolset on a transient capability-check failure
// would silently hide functionality from the model.
func (r *Registry) EnabledDefinitions() []protocol.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var snapshot map[string]bool
	failOpen := r.caps == nil
	if !failOpen {
		snap, err := r.caps.Snapshot()
		if err != nil {
			r.log.Warn("capability snapshot unavailable, enabling all tools", "error", err)
			failOpen = true
		} else {
			snapshot = snap
		}
	}

	defs := make([]protocol.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		if !failOpen && !satisfied(t.RequiredCapabilities(), snapshot) {
			continue
		}
		defs = append(defs, protocol.NewToolDefinition(
			t.Name(),
			t.Description(),
			t.Parameters(),
		))
	}
	return defs
}

func satisfied(required []string, snapshot map[string]bool) bool {
	for _, flag := range required {
		if !snapshot[flag] {
			return false
		}
	}
	return true
}

// EnabledNames returns the names of the currently enabled tools in
// registration order.
func (r *Registry) EnabledNames() []string {
	defs := r.EnabledDefinitions()
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Name
	}
	return names
}

// Execute runs the named tool with the given parameters.
func (r *Registry) Execute(ctx context.Context, name string, params map[string]any) (protocol.ToolResult, error) {
	r.mu.RLock()
	t, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		return protocol.ToolResult{}, fmt.Errorf("tool %q not found", name)
	}
	return t.Execute(ctx, params)
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}
