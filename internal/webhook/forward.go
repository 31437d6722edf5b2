package webhook

import (
	"net/url"
	"strings"
)

// Forwarder routes requests for external hosts through a forwarding proxy
// by rewriting the target to <prefix>?url=<encoded target>. URLs on the
// configured same-origin host are fetched directly. A nil Forwarder or an
// empty prefix disables rewriting entirely.
type Forwarder struct {
	// ProxyPrefix is the forwarding endpoint, e.g. "http://127.0.0.1:8091/forward".
	ProxyPrefix string
	// SameOriginHost is the host (host:port) treated as local. Empty means
	// every URL is classified as external.
	SameOriginHost string
}

// Rewrite returns the URL the HTTP client should actually dial. Unparseable
// URLs pass through untouched and fail later at request construction.
func (f *Forwarder) Rewrite(rawURL string) string {
	if f == nil || f.ProxyPrefix == "" {
		return rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	if f.SameOriginHost != "" && strings.EqualFold(u.Host, f.SameOriginHost) {
		return rawURL
	}
	return f.ProxyPrefix + "?url=" + url.QueryEscape(rawURL)
}
