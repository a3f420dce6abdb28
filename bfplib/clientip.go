package bfplib

import (
	"net"
	"net/http"
	"strings"
)

// UnknownClientIP is returned when no header and no peer address yields
// a syntactically valid IP.
const UnknownClientIP = "unknown"

// ResolveClientIP extracts the real client address from a chain of
// untrusted proxy headers. X-Forwarded-For wins (first entry in the
// chain), then X-Real-IP, then CF-Connecting-IP, then the direct peer.
// A candidate that does not parse as an IP is skipped, not trusted.
func ResolveClientIP(headers http.Header, remoteAddr string) string {
	if value := headers.Get("X-Forwarded-For"); value != "" {
		first := strings.TrimSpace(strings.Split(value, ",")[0])

		if net.ParseIP(first) != nil {
			return first
		}
	}

	for _, name := range []string{"X-Real-Ip", "Cf-Connecting-Ip"} {
		value := headers.Get(name)

		if value != "" && net.ParseIP(value) != nil {
			return value
		}
	}

	host := remoteAddr

	if splitHost, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = splitHost
	}

	if net.ParseIP(host) != nil {
		return host
	}

	return UnknownClientIP
}
