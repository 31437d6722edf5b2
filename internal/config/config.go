package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config is the top-level voxlane configuration.
type Config struct {
	Realtime RealtimeConfig `json:"realtime"`
	Tools    ToolsConfig    `json:"tools"`
	Webhook  WebhookConfig  `json:"webhook"`
	API      APIConfig      `json:"api"`
}

// RealtimeConfig holds conversational service connection settings.
type RealtimeConfig struct {
	URL          string `json:"url"`
	Model        string `json:"model"`
	APIKey       string `json:"api_key"`
	Instructions string `json:"instructions,omitempty"`
}

// ToolsConfig holds tool-level settings.
type ToolsConfig struct {
	BraveAPIKey      string `json:"brave_api_key,omitempty"`
	ClipboardEnabled bool   `json:"clipboard_enabled,omitempty"`
	// RefreshSchedule re-derives the capability snapshot on this cron
	// schedule. Default @every 30s.
	RefreshSchedule string `json:"refresh_schedule,omitempty"`
}

// WebhookConfig holds endpoint store and invocation settings.
type WebhookConfig struct {
	// DBPath is the SQLite database holding endpoint configurations.
	// Empty falls back to an in-memory store.
	DBPath string `json:"db_path,omitempty"`
	// ProxyPrefix routes external URLs through a forwarding proxy.
	ProxyPrefix string `json:"proxy_prefix,omitempty"`
	// SameOriginHost is exempt from proxy rewriting.
	SameOriginHost string `json:"same_origin_host,omitempty"`
}

// APIConfig holds admin API server settings.
type APIConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
	Key  string `json:"api_key"`
}

// Load reads configuration from a JSON file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv builds a config from environment variables with VOXLANE_ prefix.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Realtime: RealtimeConfig{
			URL:          getenv("VOXLANE_REALTIME_URL", "wss://api.openai.com/v1/realtime"),
			Model:        getenv("VOXLANE_MODEL", "gpt-4o-realtime-preview"),
			APIKey:       os.Getenv("VOXLANE_OPENAI_API_KEY"),
			Instructions: os.Getenv("VOXLANE_INSTRUCTIONS"),
		},
		Tools: ToolsConfig{
			BraveAPIKey:      os.Getenv("VOXLANE_BRAVE_API_KEY"),
			ClipboardEnabled: getenvBool("VOXLANE_CLIPBOARD_ENABLED", false),
		},
		Webhook: WebhookConfig{
			DBPath:         os.Getenv("VOXLANE_DB_PATH"),
			ProxyPrefix:    os.Getenv("VOXLANE_PROXY_PREFIX"),
			SameOriginHost: os.Getenv("VOXLANE_SAME_ORIGIN_HOST"),
		},
		API: APIConfig{
			Host: getenv("VOXLANE_API_HOST", "127.0.0.1"),
			Port: getenvInt("VOXLANE_API_PORT", 8090),
			Key:  os.Getenv("VOXLANE_API_KEY"),
		},
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Tools.RefreshSchedule == "" {
		c.Tools.RefreshSchedule = "@every 30s"
	}
	if c.API.Host == "" {
		c.API.Host = "127.0.0.1"
	}
	if c.API.Port == 0 {
		c.API.Port = 8090
	}
}

// CapabilityFlags derives the capability snapshot from the configured
// integrations.
func (c *Config) CapabilityFlags() map[string]bool {
	return map[string]bool{
		"brave_search": c.Tools.BraveAPIKey != "",
		"clipboard":    c.Tools.ClipboardEnabled,
	}
}

// Validate checks for required fields.
func (c *Config) Validate() error {
	var errs []string

	if c.Realtime.URL == "" {
		errs = append(errs, "realtime.url is required")
	}
	if c.Realtime.APIKey == "" {
		errs = append(errs, "realtime.api_key is required")
	}
	if c.API.Port < 0 || c.API.Port > 65535 {
		errs = append(errs, fmt.Sprintf("api.port %d is out of range", c.API.Port))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
