// Package internal provides internal utility functionality for the ada-mcp-tools gateway.
package internal

import (
	"strings"
	"unicode"
)

const (
	// DefaultScheme is used when a request carries no X-Forwarded-Proto header.
	DefaultScheme = "https"

	// DefaultHost is used when a request carries no Host header.
	DefaultHost = "localhost"
)

// BaseURL returns the externally visible base URL of the gateway, derived from the
// Host and X-Forwarded-Proto headers of an incoming request.
// Missing or malformed header values fall back to DefaultHost and DefaultScheme.
func BaseURL(host, forwardedProto string) string {
	return normalizeScheme(forwardedProto) + "://" + normalizeHost(host)
}

// MessageURL returns the absolute URL clients must POST envelopes to.
func MessageURL(host, forwardedProto string) string {
	return BaseURL(host, forwardedProto) + "/message"
}

// SSEURL returns the absolute URL of the push channel.
func SSEURL(host, forwardedProto string) string {
	return BaseURL(host, forwardedProto) + "/sse"
}

func normalizeScheme(proto string) string {
	// proxies may send a comma-separated chain; the first hop is the client's
	if i := strings.IndexByte(proto, ','); i >= 0 {
		proto = proto[:i]
	}
	proto = strings.TrimSpace(proto)
	if proto == "" || hasWhitespace(proto) || strings.ContainsAny(proto, "/:") {
		return DefaultScheme
	}
	return proto
}

func normalizeHost(host string) string {
	host = strings.TrimSpace(host)
	if host == "" || hasWhitespace(host) || strings.ContainsAny(host, "/?#@") {
		return DefaultHost
	}
	return host
}

// hasWhitespace checks if s contains any whitespace characters.
func hasWhitespace(s string) bool {
	for _, r := range s {
		if unicode.IsSpace(r) {
			return true
		}
	}
	return false
}
