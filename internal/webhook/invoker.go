package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/voxlane-io/voxlane/internal/endpoint"
)

const (
	defaultTimeout  = 30 * time.Second
	maxResponseSize = 1 << 20 // 1MB
)

// StatusError reports a non-2xx response from the remote endpoint.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("webhook returned HTTP %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("webhook returned HTTP %d", e.Status)
}

// PayloadRequiredError reports a POST-enforced endpoint invoked without a
// payload and without a synthesizable search query.
type PayloadRequiredError struct {
	Key         string
	Description string
}

func (e *PayloadRequiredError) Error() string {
	msg := fmt.Sprintf("endpoint %q requires a payload for POST requests", e.Key)
	if e.Description != "" {
		msg += fmt.Sprintf(" (%s)", e.Description)
	}
	return msg
}

// searchMarkers identify search-style endpoints by key, URL, or description.
var searchMarkers = []string{"search", "brave", "searx", "duckduckgo", "serp"}

// IsSearchEndpoint reports whether the endpoint looks like a search backend.
func IsSearchEndpoint(key string, cfg endpoint.Config) bool {
	for _, field := range []string{key, cfg.URL, cfg.Description} {
		lower := strings.ToLower(field)
		for _, marker := range searchMarkers {
			if strings.Contains(lower, marker) {
				return true
			}
		}
	}
	return false
}

// keptSearchParams is the small parameter set every search engine accepts.
// Models pad search calls with extra parameters that strict engines reject
// outright, so everything else is stripped from GET query strings.
var keptSearchParams = map[string]bool{
	"q":      true,
	"query":  true,
	"count":  true,
	"offset": true,
	"page":   true,
}

// Invoker builds and issues outbound webhook requests.
type Invoker struct {
	client    *http.Client
	forwarder *Forwarder
	logger    *slog.Logger
}

// NewInvoker creates an Invoker. client and logger may be nil; forwarder may
// be nil when no proxy indirection is configured.
func NewInvoker(client *http.Client, forwarder *Forwarder, logger *slog.Logger) *Invoker {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Invoker{client: client, forwarder: forwarder, logger: logger}
}

// Invoke issues the outbound request for one webhook call and returns the
// normalized response body.
//
// requestedMethod is the caller's guess; when the endpoint declares GET or
// POST that declaration wins unconditionally. fallbackQuery is a bare query
// string from the call arguments, used to synthesize a {query} payload for
// search-like POST endpoints called without one.
func (inv *Invoker) Invoke(ctx context.Context, key string, cfg endpoint.Config, requestedMethod string, payload map[string]any, fallbackQuery string) (any, error) {
	method := strings.ToUpper(strings.TrimSpace(requestedMethod))
	if method == "" {
		method = endpoint.MethodGet
		if len(payload) > 0 {
			method = endpoint.MethodPost
		}
	}

	// The endpoint owner's declared method always wins over the model's guess.
	if cfg.Method == endpoint.MethodGet || cfg.Method == endpoint.MethodPost {
		method = cfg.Method
	}

	search := IsSearchEndpoint(key, cfg)

	// Some search backends silently ignore GET-encoded queries; switch to
	// POST when the payload carries one and the endpoint allows it.
	if search && method == endpoint.MethodGet && cfg.Method == endpoint.MethodAny {
		if _, ok := queryValue(payload); ok {
			inv.logger.Debug("switching search call to POST", "endpoint", key)
			method = endpoint.MethodPost
		}
	}

	if method == endpoint.MethodPost && len(payload) == 0 {
		if search && fallbackQuery != "" {
			payload = map[string]any{"query": fallbackQuery}
		} else {
			return nil, &PayloadRequiredError{Key: key, Description: cfg.Description}
		}
	}

	target := cfg.URL
	var body io.Reader

	switch method {
	case endpoint.MethodGet:
		withQuery, err := appendQueryParams(cfg.URL, payload, search)
		if err != nil {
			return nil, fmt.Errorf("webhook %s: %w", key, err)
		}
		target = withQuery
	case endpoint.MethodPost:
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("webhook %s: encode payload: %w", key, err)
		}
		body = bytes.NewReader(data)
	}

	target = inv.forwarder.Rewrite(target)

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("webhook %s: %w", key, err)
	}
	for name, value := range BuildHeaders(cfg) {
		req.Header.Set(name, value)
	}

	inv.logger.Info("webhook request", "endpoint", key, "method", method, "url", cfg.URL)

	resp, err := inv.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("webhook %s: %w", key, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("webhook %s: read response: %w", key, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	return normalizeResponse(resp.Header.Get("Content-Type"), raw), nil
}

// normalizeResponse parses JSON bodies into structured data and wraps
// everything else as tagged raw text. Parse failures fall back to the text
// wrapper, never a hard error.
func normalizeResponse(contentType string, raw []byte) any {
	if strings.Contains(contentType, "application/json") || strings.Contains(contentType, "+json") {
		var parsed any
		if err := json.Unmarshal(raw, &parsed); err == nil {
			return parsed
		}
	}
	return map[string]any{
		"text":            string(raw),
		"nonJsonResponse": true,
	}
}

// appendQueryParams serializes payload entries onto the URL's query string.
// Non-string values are JSON-stringified. For search-like endpoints, only
// the parameters every engine accepts are kept.
func appendQueryParams(rawURL string, payload map[string]any, search bool) (string, error) {
	if len(payload) == 0 {
		return rawURL, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}
	q := u.Query()
	for k, v := range payload {
		if search && !keptSearchParams[strings.ToLower(k)] {
			continue
		}
		q.Set(k, stringifyParam(v))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func stringifyParam(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// queryValue extracts a non-empty "query" (or "q") string from the payload.
func queryValue(payload map[string]any) (string, bool) {
	for _, k := range []string{"query", "q"} {
		if s, ok := payload[k].(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}
