package app

import (
	"net/url"
	"strings"
)

// originHost returns the "host[:port]" portion of an Origin header value.
func originHost(origin string) string {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return origin
	}
	return u.Host
}

// originAllowed reports whether host matches any configured origin pattern.
// A pattern is an exact host, a "*.domain" suffix wildcard, or a "host:*"
// port wildcard.
func originAllowed(patterns []string, host string) bool {
	for _, pattern := range patterns {
		switch {
		case pattern == host:
			return true
		case strings.HasPrefix(pattern, "*."):
			if strings.HasSuffix(host, pattern[1:]) {
				return true
			}
		case strings.HasSuffix(pattern, ":*"):
			if strings.HasPrefix(host, strings.TrimSuffix(pattern, "*")) {
				return true
			}
		}
	}
	return false
}
