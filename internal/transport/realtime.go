// Package transport maintains the WebSocket session with the realtime
// conversational service and owns all outbound wire messages.
package transport

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/voxlane-io/voxlane/pkg/protocol"
)

// Config holds realtime connection settings.
type Config struct {
	// URL is the websocket endpoint, e.g. wss://api.openai.com/v1/realtime.
	URL string
	// Model is appended as a query parameter when set.
	Model string
	// APIKey is sent as a Bearer token when set.
	APIKey string
}

// EventHandler processes decoded server events.
type EventHandler func(ctx context.Context, ev *protocol.ServerEvent)

// Realtime is the websocket client for the conversational service. It
// implements dispatch.ResultSender.
type Realtime struct {
	cfg     Config
	handler EventHandler
	logger  *slog.Logger
	dialer  *websocket.Dialer

	mu   sync.Mutex
	conn *websocket.Conn

	writeMu sync.Mutex
}

// New creates a realtime client. logger may be nil.
func New(cfg Config, handler EventHandler, logger *slog.Logger) *Realtime {
	if logger == nil {
		logger = slog.Default()
	}
	return &Realtime{
		cfg:     cfg,
		handler: handler,
		logger:  logger,
		dialer:  websocket.DefaultDialer,
	}
}

// Start dials the service and runs the read loop. Blocks until the context
// is cancelled or the connection fails.
func (t *Realtime) Start(ctx context.Context) error {
	url := t.cfg.URL
	if t.cfg.Model != "" {
		url += "?model=" + t.cfg.Model
	}

	header := http.Header{}
	if t.cfg.APIKey != "" {
		header.Set("Authorization", "Bearer "+t.cfg.APIKey)
	}

	conn, resp, err := t.dialer.DialContext(ctx, url, header)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("realtime: dial %s: HTTP %d: %w", t.cfg.URL, resp.StatusCode, err)
		}
		return fmt.Errorf("realtime: dial %s: %w", t.cfg.URL, err)
	}

	t.mu.Lock()
	t.conn = conn
	t.mu.Unlock()

	t.logger.Info("realtime connected", "url", t.cfg.URL, "model", t.cfg.Model)

	// Unblock the read loop on cancellation.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("realtime: read: %w", err)
		}

		ev, err := protocol.ParseServerEvent(data)
		if err != nil {
			t.logger.Warn("unparseable server event", "error", err)
			continue
		}
		if ev.Type == protocol.EventTypeError && ev.Error != nil {
			t.logger.Error("service error event", "code", ev.Error.Code, "message", ev.Error.Message)
		}
		if t.handler != nil {
			t.handler(ctx, ev)
		}
	}
}

// Stop closes the connection.
func (t *Realtime) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	return err
}

// SendEvent writes one client event to the wire.
func (t *Realtime) SendEvent(ev protocol.ClientEvent) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	return t.writeJSON(ev)
}

// SendFunctionResult emits the mandatory two-message sequence for one
// function result: the function_call_output item, then the response.create
// continuation trigger. Both messages go out under a single write lock so
// they can neither interleave with other writes nor be split by a caller.
func (t *Realtime) SendFunctionResult(callID, content string) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if err := t.writeJSON(protocol.NewFunctionOutputEvent(callID, content)); err != nil {
		return fmt.Errorf("realtime: send function output: %w", err)
	}
	if err := t.writeJSON(protocol.NewResponseCreateEvent()); err != nil {
		return fmt.Errorf("realtime: send response trigger: %w", err)
	}
	return nil
}

// UpdateSession advertises the given tool definitions to the service with
// tool selection left to the model.
func (t *Realtime) UpdateSession(instructions string, tools []protocol.ToolDefinition) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	return t.writeJSON(protocol.NewSessionUpdateEvent(protocol.SessionConfig{
		Instructions: instructions,
		Tools:        tools,
		ToolChoice:   "auto",
	}))
}

func (t *Realtime) writeJSON(v any) error {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("realtime: not connected")
	}
	return conn.WriteJSON(v)
}
