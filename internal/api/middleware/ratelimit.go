package middleware

import (
	"net"
	"net/http"

	"prephub/internal/common"
	"prephub/internal/ratelimit"
)

// RateLimit throttles by client IP using the shared fixed-window limiter.
// A nil limiter disables throttling entirely.
func RateLimit(limiter *ratelimit.FixedWindowLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}
			if !limiter.Allow(clientIP(r)) {
				common.RespondWithError(w, common.HTTPStatusFromError(common.ErrTooManyRequests), "Too many requests, slow down")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP strips the ephemeral port so every connection from the same host
// shares one bucket. RealIP middleware has already folded any forwarding
// headers into RemoteAddr; a direct client's RemoteAddr is host:port.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
