package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/voxlane-io/voxlane/internal/endpoint"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   string
}

func recordingServer(t *testing.T, status int, contentType, respBody string) (*httptest.Server, *recordedRequest) {
	t.Helper()
	rec := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rec.Method = r.Method
		rec.Path = r.URL.Path
		rec.Query = r.URL.Query()
		rec.Header = r.Header.Clone()
		rec.Body = string(body)
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		w.Write([]byte(respBody))
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestInvoke_GetWithQueryParamsAndAPIKey(t *testing.T) {
	srv, rec := recordingServer(t, http.StatusOK, "application/json", `{"temp": 12}`)

	cfg := endpoint.Config{
		URL:              srv.URL + "/w",
		Method:           endpoint.MethodGet,
		AuthMethod:       endpoint.AuthAPIKey,
		APIKey:           "secret",
		APIKeyHeaderName: "key",
	}

	inv := NewInvoker(nil, nil, nil)
	result, err := inv.Invoke(context.Background(), "weather-api", cfg, "", map[string]any{"q": "Boston"}, "")
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}

	if rec.Method != "GET" {
		t.Errorf("expected GET, got %s", rec.Method)
	}
	if rec.Query.Get("q") != "Boston" {
		t.Errorf("expected q=Boston, got %q", rec.Query.Get("q"))
	}
	if rec.Header.Get("key") != "secret" {
		t.Errorf("expected api key header, got %q", rec.Header.Get("key"))
	}

	parsed, ok := result.(map[string]any)
	if !ok {
		t.Fatalf("expected parsed JSON map, got %T", result)
	}
	if parsed["temp"] != float64(12) {
		t.Errorf("unexpected response %v", parsed)
	}
}

func TestInvoke_ConfigMethodOverridesCaller(t *testing.T) {
	srv, rec := recordingServer(t, http.StatusOK, "application/json", `{}`)

	cfg := endpoint.Config{URL: srv.URL, Method: endpoint.MethodPost}
	inv := NewInvoker(nil, nil, nil)
	_, err := inv.Invoke(context.Background(), "alerts", cfg, "GET", map[string]any{"msg": "hi"}, "")
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if rec.Method != "POST" {
		t.Errorf("config method must win, got %s", rec.Method)
	}
	var body map[string]any
	if err := json.Unmarshal([]byte(rec.Body), &body); err != nil || body["msg"] != "hi" {
		t.Errorf("expected JSON body with msg, got %q", rec.Body)
	}
}

func TestInvoke_SearchGetSwitchesToPost(t *testing.T) {
	srv, rec := recordingServer(t, http.StatusOK, "application/json", `{"results":[]}`)

	cfg := endpoint.Config{URL: srv.URL, Method: endpoint.MethodAny}
	inv := NewInvoker(nil, nil, nil)
	_, err := inv.Invoke(context.Background(), "n8n-brave-search", cfg, "GET", map[string]any{"query": "x"}, "")
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if rec.Method != "POST" {
		t.Errorf("expected switch to POST for search query, got %s", rec.Method)
	}
}

func TestInvoke_SearchGetStripsUnknownParams(t *testing.T) {
	srv, rec := recordingServer(t, http.StatusOK, "application/json", `{}`)

	cfg := endpoint.Config{URL: srv.URL, Method: endpoint.MethodGet, Description: "web search"}
	inv := NewInvoker(nil, nil, nil)
	_, err := inv.Invoke(context.Background(), "my-hook", cfg, "", map[string]any{
		"q":      "golang",
		"count":  5,
		"format": "rss",
	}, "")
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if rec.Query.Get("q") != "golang" {
		t.Errorf("expected q kept, got %v", rec.Query)
	}
	if rec.Query.Get("count") != "5" {
		t.Errorf("expected count kept (JSON-stringified), got %q", rec.Query.Get("count"))
	}
	if rec.Query.Has("format") {
		t.Errorf("expected format stripped, got %v", rec.Query)
	}
}

func TestInvoke_PostWithoutPayload(t *testing.T) {
	cfg := endpoint.Config{URL: "http://127.0.0.1:1", Method: endpoint.MethodPost, Description: "notify ops"}
	inv := NewInvoker(nil, nil, nil)
	_, err := inv.Invoke(context.Background(), "ops-alert", cfg, "", nil, "")

	var pr *PayloadRequiredError
	if !errors.As(err, &pr) {
		t.Fatalf("expected PayloadRequiredError, got %v", err)
	}
	if !strings.Contains(err.Error(), "notify ops") {
		t.Errorf("expected description in error, got %q", err.Error())
	}
}

func TestInvoke_PostSynthesizesSearchQuery(t *testing.T) {
	srv, rec := recordingServer(t, http.StatusOK, "application/json", `{"results":[]}`)

	cfg := endpoint.Config{URL: srv.URL, Method: endpoint.MethodPost}
	inv := NewInvoker(nil, nil, nil)
	_, err := inv.Invoke(context.Background(), "brave-search", cfg, "", nil, "weather in Boston")
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	var body map[string]any
	if err := json.Unmarshal([]byte(rec.Body), &body); err != nil {
		t.Fatalf("body not JSON: %q", rec.Body)
	}
	if body["query"] != "weather in Boston" {
		t.Errorf("expected synthesized {query}, got %v", body)
	}
}

func TestInvoke_NonJSONResponse(t *testing.T) {
	srv, _ := recordingServer(t, http.StatusOK, "text/plain", "pong")

	cfg := endpoint.Config{URL: srv.URL, Method: endpoint.MethodGet}
	inv := NewInvoker(nil, nil, nil)
	result, err := inv.Invoke(context.Background(), "ping", cfg, "", nil, "")
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	wrapped, ok := result.(map[string]any)
	if !ok {
		t.Fatalf("expected wrapped map, got %T", result)
	}
	if wrapped["text"] != "pong" || wrapped["nonJsonResponse"] != true {
		t.Errorf("unexpected wrapper %v", wrapped)
	}
}

func TestInvoke_MalformedJSONFallsBackToText(t *testing.T) {
	srv, _ := recordingServer(t, http.StatusOK, "application/json", "{not json")

	cfg := endpoint.Config{URL: srv.URL, Method: endpoint.MethodGet}
	inv := NewInvoker(nil, nil, nil)
	result, err := inv.Invoke(context.Background(), "flaky", cfg, "", nil, "")
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	wrapped, ok := result.(map[string]any)
	if !ok || wrapped["nonJsonResponse"] != true {
		t.Errorf("expected text fallback, got %v", result)
	}
}

func TestInvoke_Non2xxStatus(t *testing.T) {
	srv, _ := recordingServer(t, http.StatusBadGateway, "text/plain", "upstream down")

	cfg := endpoint.Config{URL: srv.URL, Method: endpoint.MethodGet}
	inv := NewInvoker(nil, nil, nil)
	_, err := inv.Invoke(context.Background(), "flaky", cfg, "", nil, "")

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Status != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", se.Status)
	}
}

func TestForwarder_Rewrite(t *testing.T) {
	f := &Forwarder{ProxyPrefix: "http://127.0.0.1:8091/forward", SameOriginHost: "127.0.0.1:8091"}

	ext := f.Rewrite("https://api.example.com/w?q=x")
	if !strings.HasPrefix(ext, "http://127.0.0.1:8091/forward?url=") {
		t.Errorf("expected proxy rewrite, got %q", ext)
	}
	if !strings.Contains(ext, url.QueryEscape("https://api.example.com/w?q=x")) {
		t.Errorf("expected encoded target, got %q", ext)
	}

	local := f.Rewrite("http://127.0.0.1:8091/api/health")
	if local != "http://127.0.0.1:8091/api/health" {
		t.Errorf("same-origin must pass through, got %q", local)
	}

	var disabled *Forwarder
	if got := disabled.Rewrite("https://api.example.com"); got != "https://api.example.com" {
		t.Errorf("nil forwarder must pass through, got %q", got)
	}
}

func TestInvoke_ThroughForwarder(t *testing.T) {
	srv, rec := recordingServer(t, http.StatusOK, "application/json", `{}`)

	inv := NewInvoker(nil, &Forwarder{ProxyPrefix: srv.URL + "/forward"}, nil)
	cfg := endpoint.Config{URL: "https://api.example.com/w", Method: endpoint.MethodGet}
	_, err := inv.Invoke(context.Background(), "weather-api", cfg, "", map[string]any{"q": "Boston"}, "")
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if rec.Path != "/forward" {
		t.Errorf("expected request via forwarder, got path %q", rec.Path)
	}
	target := rec.Query.Get("url")
	if !strings.Contains(target, "q=Boston") {
		t.Errorf("expected encoded target with query, got %q", target)
	}
}
