package web

import (
	"context"
	"net"
	"net/http"

	"github.com/JonMunkholm/LaborStats/internal/core"
)

// WithRequestMetadata adds the client IP to ctx for refresh logging.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	return core.ContextWithIPAddress(ctx, clientIP(r))
}

// clientIP returns the host part of RemoteAddr, which TrustedRealIP has
// already replaced with the forwarded address for trusted proxies.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
