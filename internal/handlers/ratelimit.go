package handlers

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// RateLimiter guards credential endpoints against brute-force attempts.
// Keys are scoped per endpoint so a signup flood cannot exhaust the login
// budget for the same address.
type RateLimiter interface {
	Allow(key string) bool
}

func allowRequest(limiter RateLimiter, r *http.Request, scope string) bool {
	if limiter == nil {
		return true
	}
	return limiter.Allow(fmt.Sprintf("%s:%s", scope, clientIP(r)))
}

// clientIP prefers the first X-Forwarded-For hop so limits follow the real
// client through a reverse proxy.
func clientIP(r *http.Request) string {
	if forwarded := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}

	if host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr)); err == nil && host != "" {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}
