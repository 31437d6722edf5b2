package tool

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/voxlane-io/voxlane/internal/endpoint"
	"github.com/voxlane-io/voxlane/internal/webhook"
	"github.com/voxlane-io/voxlane/pkg/protocol"
)

func newWebhookTool(t *testing.T, store endpoint.Store) *WebhookCallTool {
	t.Helper()
	return &WebhookCallTool{
		Store:   store,
		Invoker: webhook.NewInvoker(nil, nil, nil),
	}
}

func TestWebhookCall_UnknownEndpointListsKeys(t *testing.T) {
	store := endpoint.NewMemoryStore()
	store.Put("bar-baz", endpoint.Config{URL: "https://example.com"})

	result, err := newWebhookTool(t, store).Execute(context.Background(), map[string]any{
		"endpoint_key": "foo",
	})
	if err != nil {
		t.Fatalf("unexpected handler error: %v", err)
	}
	if !result.IsError() {
		t.Fatal("expected error result")
	}

	var content map[string]string
	if err := json.Unmarshal([]byte(result.Content), &content); err != nil {
		t.Fatalf("content not JSON: %q", result.Content)
	}
	if !strings.Contains(content["error"], "Available endpoints: bar-baz") {
		t.Errorf("expected available keys in error, got %q", content["error"])
	}
}

func TestWebhookCall_MissingKey(t *testing.T) {
	result, err := newWebhookTool(t, endpoint.NewMemoryStore()).Execute(context.Background(), map[string]any{})
	if err != nil {
		t.Fatalf("unexpected handler error: %v", err)
	}
	if !result.IsError() {
		t.Error("expected error result without endpoint_key")
	}
}

func TestWebhookCall_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"queued"}`))
	}))
	defer srv.Close()

	store := endpoint.NewMemoryStore()
	store.Put("ops-alert", endpoint.Config{URL: srv.URL, Method: endpoint.MethodPost})

	result, err := newWebhookTool(t, store).Execute(context.Background(), map[string]any{
		"endpoint_key": "ops_alert", // underscored form resolves too
		"payload":      map[string]any{"msg": "disk full"},
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if result.IsError() {
		t.Fatalf("expected success, got %s", result.Content)
	}
	if !json.Valid([]byte(result.Content)) {
		t.Fatalf("content not JSON: %q", result.Content)
	}
	if !strings.Contains(result.Content, "queued") {
		t.Errorf("expected normalized response, got %q", result.Content)
	}
}

func TestWebhookCall_PayloadRequiredIsErrorResult(t *testing.T) {
	store := endpoint.NewMemoryStore()
	store.Put("ops-alert", endpoint.Config{
		URL:         "http://127.0.0.1:1",
		Method:      endpoint.MethodPost,
		Description: "page the on-call",
	})

	result, err := newWebhookTool(t, store).Execute(context.Background(), map[string]any{
		"endpoint_key": "ops-alert",
	})
	if err != nil {
		t.Fatalf("unexpected handler error: %v", err)
	}
	if result.Status != protocol.StatusError {
		t.Fatal("expected error result")
	}
	if !strings.Contains(result.Content, "page the on-call") {
		t.Errorf("expected endpoint description in error, got %q", result.Content)
	}
}
