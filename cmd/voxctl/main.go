package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/voxlane-io/voxlane/internal/config"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}

	switch os.Args[1] {
	case "health":
		cmdHealth()
	case "endpoints":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "usage: voxctl endpoints <list|set|delete>")
			os.Exit(1)
		}
		switch os.Args[2] {
		case "list":
			cmdEndpointsList()
		case "set":
			if len(os.Args) < 4 {
				fmt.Fprintln(os.Stderr, "usage: voxctl endpoints set <key> [flags]")
				os.Exit(1)
			}
			cmdEndpointsSet(os.Args[3], os.Args[4:])
		case "delete":
			if len(os.Args) < 4 {
				fmt.Fprintln(os.Stderr, "usage: voxctl endpoints delete <key>")
				os.Exit(1)
			}
			cmdEndpointsDelete(os.Args[3])
		default:
			fmt.Fprintf(os.Stderr, "unknown endpoints subcommand: %s\n", os.Args[2])
			os.Exit(1)
		}
	case "tools":
		cmdTools()
	case "history":
		cmdHistory(os.Args[2:])
	case "logs":
		cmdLogs(os.Args[2:])
	case "config":
		if len(os.Args) < 4 || os.Args[2] != "validate" {
			fmt.Fprintln(os.Stderr, "usage: voxctl config validate <path>")
			os.Exit(1)
		}
		cmdConfigValidate(os.Args[3])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func cmdHealth() {
	body, err := apiDo("GET", "/api/health", nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(body))
}

func cmdEndpointsList() {
	body, err := apiDo("GET", "/api/endpoints", nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	var endpoints map[string]map[string]any
	json.Unmarshal(body, &endpoints)
	for key, cfg := range endpoints {
		method, _ := cfg["method"].(string)
		url, _ := cfg["url"].(string)
		fmt.Printf("%-24s %-5s %s\n", key, method, url)
	}
}

func cmdEndpointsSet(key string, args []string) {
	fs := flag.NewFlagSet("endpoints set", flag.ExitOnError)
	url := fs.String("url", "", "Endpoint URL (required)")
	method := fs.String("method", "ANY", "HTTP method: ANY, GET, or POST")
	auth := fs.String("auth", "none", "Auth method: none, apiKey, basicAuth, bearerToken, customHeader")
	apiKey := fs.String("api-key", "", "API key value (auth=apiKey)")
	apiKeyHeader := fs.String("api-key-header", "", "API key header name (default X-API-Key)")
	username := fs.String("username", "", "Username (auth=basicAuth)")
	password := fs.String("password", "", "Password (auth=basicAuth)")
	bearer := fs.String("bearer", "", "Bearer token (auth=bearerToken)")
	headerName := fs.String("header-name", "", "Header name (auth=customHeader)")
	headerValue := fs.String("header-value", "", "Header value (auth=customHeader)")
	description := fs.String("description", "", "Human description, shown to the model")
	fs.Parse(args)

	if *url == "" {
		fmt.Fprintln(os.Stderr, "error: --url is required")
		os.Exit(1)
	}

	payload := map[string]any{
		"url":               *url,
		"method":            *method,
		"authMethod":        *auth,
		"apiKey":            *apiKey,
		"apiKeyHeaderName":  *apiKeyHeader,
		"username":          *username,
		"password":          *password,
		"bearerToken":       *bearer,
		"customHeaderName":  *headerName,
		"customHeaderValue": *headerValue,
		"description":       *description,
	}
	data, _ := json.Marshal(payload)

	body, err := apiDo("PUT", "/api/endpoints/"+key, data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(body))
}

func cmdEndpointsDelete(key string) {
	body, err := apiDo("DELETE", "/api/endpoints/"+key, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(body))
}

func cmdTools() {
	body, err := apiDo("GET", "/api/tools", nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(prettyJSON(body))
}

func cmdHistory(args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	limit := fs.Int("limit", 50, "Max results")
	fs.Parse(args)

	body, err := apiDo("GET", fmt.Sprintf("/api/history?limit=%d", *limit), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	var records []map[string]any
	json.Unmarshal(body, &records)
	for _, r := range records {
		fmt.Printf("%-26s %-20s %s\n", r["timestamp"], r["tool"], r["status"])
	}
}

func cmdLogs(args []string) {
	fs := flag.NewFlagSet("logs", flag.ExitOnError)
	limit := fs.Int("limit", 100, "Max entries")
	level := fs.String("level", "", "Minimum level: debug, info, warn, error")
	fs.Parse(args)

	query := fmt.Sprintf("?limit=%d", *limit)
	if *level != "" {
		query += "&level=" + *level
	}
	body, err := apiDo("GET", "/api/logs"+query, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(prettyJSON(body))
}

func cmdConfigValidate(path string) {
	_, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("config is valid")
}

// --- Helpers ---

func apiDo(method, path string, body []byte) ([]byte, error) {
	base := envOr("VOXLANE_API_URL", "http://localhost:8090")
	url := base + path

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if key := os.Getenv("VOXLANE_API_KEY"); key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(data))
	}
	return data, nil
}

func prettyJSON(data []byte) string {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return string(data)
	}
	out, _ := json.MarshalIndent(v, "", "  ")
	return string(out)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func printUsage() {
	fmt.Println("voxctl - voxlane daemon management CLI")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  health                     Check daemon health")
	fmt.Println("  endpoints list             List configured webhook endpoints")
	fmt.Println("  endpoints set <key>        Create or update an endpoint (--url, --method, --auth, ...)")
	fmt.Println("  endpoints delete <key>     Remove an endpoint")
	fmt.Println("  tools                      Show registered and enabled tools")
	fmt.Println("  history                    Show recent tool executions (--limit)")
	fmt.Println("  logs                       Show recent daemon logs (--limit, --level)")
	fmt.Println("  config validate <path>     Validate a config file")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  VOXLANE_API_URL  Daemon URL (default: http://localhost:8090)")
	fmt.Println("  VOXLANE_API_KEY  API key for authentication")
}