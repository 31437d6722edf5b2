package webhook

import (
	"encoding/base64"

	"github.com/voxlane-io/voxlane/internal/endpoint"
)

// defaultAPIKeyHeader is used when an apiKey endpoint doesn't name a header.
const defaultAPIKeyHeader = "X-API-Key"

// BuildHeaders produces the outbound request headers for an endpoint's auth
// scheme. A missing credential field silently omits its header rather than
// erroring; the remote service is responsible for rejecting unauthenticated
// requests. Content-Type: application/json is always present as a baseline.
func BuildHeaders(cfg endpoint.Config) map[string]string {
	headers := map[string]string{
		"Content-Type": "application/json",
	}

	switch cfg.AuthMethod {
	case endpoint.AuthAPIKey:
		if cfg.APIKey != "" {
			name := cfg.APIKeyHeaderName
			if name == "" {
				name = defaultAPIKeyHeader
			}
			headers[name] = cfg.APIKey
		}
	case endpoint.AuthBasic:
		if cfg.Username != "" {
			cred := base64.StdEncoding.EncodeToString([]byte(cfg.Username + ":" + cfg.Password))
			headers["Authorization"] = "Basic " + cred
		}
	case endpoint.AuthBearer:
		if cfg.BearerToken != "" {
			headers["Authorization"] = "Bearer " + cfg.BearerToken
		}
	case endpoint.AuthCustomHeader:
		if cfg.CustomHeaderName != "" && cfg.CustomHeaderValue != "" {
			headers[cfg.CustomHeaderName] = cfg.CustomHeaderValue
		}
	}

	return headers
}
