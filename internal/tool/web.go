package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "codeberg.org/readeck/go-readability/v2"

	"github.com/voxlane-io/voxlane/pkg/protocol"
)

const (
	maxFetchSize      = 50 * 1024 // 50KB text output
	fetchTimeout      = 30 * time.Second
	defaultNumResults = 5

	braveSearchURL = "https://api.search.brave.com/res/v1/web/search"
)

// CapBraveSearch gates tools on a configured Brave Search API key.
const CapBraveSearch = "brave_search"

// --- WebSearch ---

// WebSearchTool searches the web using the Brave Search API.
type WebSearchTool struct {
	APIKey  string
	BaseURL string // overridable for tests; defaults to the Brave API
}

func (t *WebSearchTool) Name() string        { return "web_search" }
func (t *WebSearchTool) Description() string { return "Search the web and return top results" }
func (t *WebSearchTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{"type": "string", "description": "Search query"},
			"count": map[string]any{"type": "integer", "description": "Number of results (default 5)"},
		},
		"required": []string{"query"},
	}
}
func (t *WebSearchTool) RequiredCapabilities() []string { return []string{CapBraveSearch} }

func (t *WebSearchTool) Execute(ctx context.Context, params map[string]any) (protocol.ToolResult, error) {
	query := getString(params, "query")
	if query == "" {
		return protocol.ErrorResult("web_search: query is required"), nil
	}
	if t.APIKey == "" {
		return protocol.ErrorResult("web search is not available (no API key configured)"), nil
	}

	base := t.BaseURL
	if base == "" {
		base = braveSearchURL
	}
	count := getInt(params, "count", defaultNumResults)
	reqURL := fmt.Sprintf("%s?q=%s&count=%d", base, url.QueryEscape(query), count)

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return protocol.ToolResult{}, fmt.Errorf("web_search: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", t.APIKey)

	client := &http.Client{Timeout: fetchTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return protocol.ToolResult{}, fmt.Errorf("web_search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return protocol.ErrorResultf("web_search: API returned %d: %s", resp.StatusCode, string(body)), nil
	}

	var result braveSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return protocol.ToolResult{}, fmt.Errorf("web_search: parse response: %w", err)
	}

	results := make([]searchResult, 0, len(result.Web.Results))
	for _, r := range result.Web.Results {
		results = append(results, searchResult{Title: r.Title, URL: r.URL, Description: r.Description})
	}
	return protocol.SuccessResult(map[string]any{
		"query":   query,
		"results": results,
	}), nil
}

type searchResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

type braveSearchResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

// --- WebFetch ---

// WebFetchTool fetches a URL and extracts readable content.
type WebFetchTool struct{}

func (t *WebFetchTool) Name() string        { return "web_fetch" }
func (t *WebFetchTool) Description() string { return "Fetch a URL and extract readable text content" }
func (t *WebFetchTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{"type": "string", "description": "URL to fetch"},
		},
		"required": []string{"url"},
	}
}
func (t *WebFetchTool) RequiredCapabilities() []string { return nil }

func (t *WebFetchTool) Execute(ctx context.Context, params map[string]any) (protocol.ToolResult, error) {
	rawURL := getString(params, "url")
	if rawURL == "" {
		return protocol.ErrorResult("web_fetch: url is required"), nil
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return protocol.ErrorResultf("web_fetch: invalid URL: %v", err), nil
	}

	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return protocol.ToolResult{}, fmt.Errorf("web_fetch: %w", err)
	}
	req.Header.Set("User-Agent", "voxlane/1.0")

	client := &http.Client{Timeout: fetchTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return protocol.ToolResult{}, fmt.Errorf("web_fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return protocol.ErrorResultf("web_fetch: HTTP %d", resp.StatusCode), nil
	}

	contentType := resp.Header.Get("Content-Type")

	// For non-HTML content, return raw text (truncated)
	if !strings.Contains(contentType, "text/html") {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, int64(maxFetchSize)))
		return protocol.SuccessResult(map[string]any{
			"url":  rawURL,
			"text": string(body),
		}), nil
	}

	article, err := readability.FromReader(resp.Body, parsedURL)
	if err != nil {
		return protocol.ToolResult{}, fmt.Errorf("web_fetch: parse: %w", err)
	}

	var textBuf bytes.Buffer
	if err := article.RenderText(&textBuf); err != nil {
		return protocol.ToolResult{}, fmt.Errorf("web_fetch: render: %w", err)
	}

	text := textBuf.String()
	wordCount := len(strings.Fields(text))
	if len(text) > maxFetchSize {
		text = text[:maxFetchSize] + "\n... [truncated]"
	}

	return protocol.SuccessResult(map[string]any{
		"title": article.Title(),
		"url":   rawURL,
		"words": wordCount,
		"text":  text,
	}), nil
}
