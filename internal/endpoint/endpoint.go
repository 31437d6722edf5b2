package endpoint

import (
	"encoding/json"
	"strings"
)

// Method enforcement values. MethodAny means the caller's requested method
// is honored; GET and POST override whatever the caller asked for.
const (
	MethodAny  = "ANY"
	MethodGet  = "GET"
	MethodPost = "POST"
)

// Authentication schemes for outbound webhook requests.
const (
	AuthNone         = "none"
	AuthAPIKey       = "apiKey"
	AuthBasic        = "basicAuth"
	AuthBearer       = "bearerToken"
	AuthCustomHeader = "customHeader"
)

// Config describes one configured webhook endpoint. Credential fields are
// populated according to AuthMethod; the rest stay empty.
type Config struct {
	URL               string `json:"url"`
	Method            string `json:"method,omitempty"`
	AuthMethod        string `json:"authMethod,omitempty"`
	APIKey            string `json:"apiKey,omitempty"`
	APIKeyHeaderName  string `json:"apiKeyHeaderName,omitempty"`
	Username          string `json:"username,omitempty"`
	Password          string `json:"password,omitempty"`
	BearerToken       string `json:"bearerToken,omitempty"`
	CustomHeaderName  string `json:"customHeaderName,omitempty"`
	CustomHeaderValue string `json:"customHeaderValue,omitempty"`
	Description       string `json:"description,omitempty"`
}

// Normalize fills defaults and canonicalizes the method spelling.
func (c *Config) Normalize() {
	c.Method = strings.ToUpper(strings.TrimSpace(c.Method))
	if c.Method != MethodGet && c.Method != MethodPost {
		c.Method = MethodAny
	}
	if c.AuthMethod == "" {
		c.AuthMethod = AuthNone
	}
}

// NormalizeKey canonicalizes an endpoint key: lowercase, hyphen-separated.
func NormalizeKey(key string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), "_", "-"))
}

// DecodeConfig parses a stored endpoint record. Current records are JSON
// objects; legacy records are a bare URL (plain or as a JSON string) and
// decode as {url, method ANY, auth none}.
func DecodeConfig(raw []byte) (Config, error) {
	trimmed := strings.TrimSpace(string(raw))

	if strings.HasPrefix(trimmed, "{") {
		var cfg Config
		if err := json.Unmarshal([]byte(trimmed), &cfg); err != nil {
			return Config{}, err
		}
		cfg.Normalize()
		return cfg, nil
	}

	var legacyURL string
	if err := json.Unmarshal([]byte(trimmed), &legacyURL); err != nil {
		legacyURL = trimmed
	}
	cfg := Config{URL: legacyURL}
	cfg.Normalize()
	return cfg, nil
}
