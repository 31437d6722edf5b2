// Package history keeps an append-only record of tool executions for the
// admin API and the rendering surface.
package history

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Record captures one tool execution.
type Record struct {
	ID        string         `json:"id"`
	Tool      string         `json:"tool"`
	Status    string         `json:"status"` // "success" or "error"
	Arguments map[string]any `json:"arguments,omitempty"`
	Result    string         `json:"result"` // serialized JSON content
	Timestamp time.Time      `json:"timestamp"`
}

// Log is a thread-safe ring of tool execution records, oldest evicted first.
type Log struct {
	mu      sync.Mutex
	entries []Record
	size    int
	pos     int
	count   int
}

// New creates a log that holds up to size records.
func New(size int) *Log {
	return &Log{
		entries: make([]Record, size),
		size:    size,
	}
}

// Append records a tool execution and returns the assigned record ID.
func (l *Log) Append(tool, status string, arguments map[string]any, result string) string {
	r := Record{
		ID:        uuid.NewString(),
		Tool:      tool,
		Status:    status,
		Arguments: arguments,
		Result:    result,
		Timestamp: time.Now(),
	}

	l.mu.Lock()
	l.entries[l.pos] = r
	l.pos = (l.pos + 1) % l.size
	if l.count < l.size {
		l.count++
	}
	l.mu.Unlock()
	return r.ID
}

// Query returns records oldest first. If since is zero all records are
// considered; if limit <= 0 all matching records are returned.
func (l *Log) Query(since time.Time, limit int) []Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	var result []Record

	start := 0
	n := l.count
	if l.count == l.size {
		start = l.pos // oldest record when the ring is full
	}

	for i := 0; i < n; i++ {
		idx := (start + i) % l.size
		r := l.entries[idx]
		if !since.IsZero() && r.Timestamp.Before(since) {
			continue
		}
		result = append(result, r)
	}

	if limit > 0 && len(result) > limit {
		result = result[len(result)-limit:]
	}
	return result
}
