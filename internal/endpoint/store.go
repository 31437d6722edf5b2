package endpoint

import "sync"

// Store is the persistence interface for endpoint configurations. This
// subsystem only reads; writes come from the configuration surface and are
// last-writer-wins at the storage layer.
type Store interface {
	// Get retrieves a single endpoint by exact key.
	Get(key string) (Config, bool, error)
	// GetAll returns all configured endpoints keyed by their stored key.
	GetAll() (map[string]Config, error)
	// Put creates or replaces an endpoint configuration.
	Put(key string, cfg Config) error
	// Delete removes an endpoint. Deleting a missing key is not an error.
	Delete(key string) error
}

// MemoryStore is an in-memory Store, used in tests and as a fallback when
// no database path is configured.
type MemoryStore struct {
	mu        sync.RWMutex
	endpoints map[string]Config
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{endpoints: make(map[string]Config)}
}

func (s *MemoryStore) Get(key string) (Config, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, ok := s.endpoints[key]
	return cfg, ok, nil
}

func (s *MemoryStore) GetAll() (map[string]Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Config, len(s.endpoints))
	for k, v := range s.endpoints {
		out[k] = v
	}
	return out, nil
}

func (s *MemoryStore) Put(key string, cfg Config) error {
	cfg.Normalize()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.endpoints[NormalizeKey(key)] = cfg
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.endpoints, NormalizeKey(key))
	return nil
}
