// Package capability tracks which optional integrations are currently
// configured. Tools declare required capability flags; the registry filters
// its advertised definitions against the current snapshot.
package capability

import (
	"maps"
	"sync"
)

// SnapshotProvider exposes the current capability snapshot. The snapshot is
// replaced wholesale whenever the underlying source reports a change.
type SnapshotProvider interface {
	// Snapshot returns the current flag map. Callers must not mutate it.
	Snapshot() (map[string]bool, error)
	// Subscribe registers fn to be called with the new snapshot after each
	// replacement. Callbacks run on the replacing goroutine.
	Subscribe(fn func(map[string]bool))
}

// StaticProvider is a SnapshotProvider holding an in-process flag map,
// typically derived from config and refreshed by a Refresher.
type StaticProvider struct {
	mu    sync.RWMutex
	flags map[string]bool
	subs  []func(map[string]bool)
}

// NewStaticProvider creates a provider with an initial flag map.
func NewStaticProvider(flags map[string]bool) *StaticProvider {
	if flags == nil {
		flags = make(map[string]bool)
	}
	return &StaticProvider{flags: maps.Clone(flags)}
}

func (p *StaticProvider) Snapshot() (map[string]bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return maps.Clone(p.flags), nil
}

func (p *StaticProvider) Subscribe(fn func(map[string]bool)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subs = append(p.subs, fn)
}

// Replace swaps in a new snapshot. Subscribers are notified only when the
// flags actually changed.
func (p *StaticProvider) Replace(flags map[string]bool) {
	if flags == nil {
		flags = make(map[string]bool)
	}

	p.mu.Lock()
	if maps.Equal(p.flags, flags) {
		p.mu.Unlock()
		return
	}
	p.flags = maps.Clone(flags)
	subs := make([]func(map[string]bool), len(p.subs))
	copy(subs, p.subs)
	snapshot := maps.Clone(p.flags)
	p.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}
