// Package logbuf captures slog records into an in-memory ring so the admin
// API can serve recent daemon logs without touching the filesystem.
package logbuf

import (
	"log/slog"
	"sync"
	"time"
)

// Entry is one captured log record.
type Entry struct {
	Time    time.Time      `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Attrs   map[string]any `json:"attrs,omitempty"`
}

// Buffer is a fixed-capacity ring of log entries, oldest evicted first.
type Buffer struct {
	mu      sync.Mutex
	entries []Entry
	size    int
	pos     int
	count   int
}

// New creates a buffer holding up to size entries. Size must be positive;
// anything else gets a small default.
func New(size int) *Buffer {
	if size <= 0 {
		size = 256
	}
	return &Buffer{
		entries: make([]Entry, size),
		size:    size,
	}
}

// Write appends an entry, evicting the oldest when full.
func (b *Buffer) Write(e Entry) {
	b.mu.Lock()
	b.entries[b.pos] = e
	b.pos = (b.pos + 1) % b.size
	if b.count < b.size {
		b.count++
	}
	b.mu.Unlock()
}

// Query returns entries at or above minLevel, oldest first. A zero since
// matches everything; limit <= 0 returns all matches. When limit trims the
// result, the newest entries are kept.
func (b *Buffer) Query(since time.Time, minLevel slog.Level, limit int) []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()

	start := 0
	if b.count == b.size {
		start = b.pos
	}

	var result []Entry
	for i := 0; i < b.count; i++ {
		e := b.entries[(start+i)%b.size]
		if !since.IsZero() && e.Time.Before(since) {
			continue
		}
		if parseLevel(e.Level) < minLevel {
			continue
		}
		result = append(result, e)
	}

	if limit > 0 && len(result) > limit {
		result = result[len(result)-limit:]
	}
	return result
}

func parseLevel(s string) slog.Level {
	switch s {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
